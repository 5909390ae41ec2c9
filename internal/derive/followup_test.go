package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
)

func TestFollowup_ClassifiesAndSchedulesAfterDelay(t *testing.T) {
	today, err := datekernel.New(2025, 6, 1)
	require.NoError(t, err)
	sentAt := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

	contact := domain.Contact{ID: 1, Jurisdiction: domain.JurisdictionOther}
	interactions := []domain.InteractionRecord{
		{ContactID: 1, AnchorScheduleID: 100, SentAt: sentAt, AnsweredHealthQuest: true, HealthAnswerYes: true},
	}
	cfg := defaultConfig()

	recs := Followup(contact, interactions, today, cfg, func(int64) bool { return false })
	require.Len(t, recs, 1)
	assert.Equal(t, domain.FollowupHQWithYes, recs[0].EmailType.Followup)
	assert.Equal(t, 60, recs[0].Priority)
	assert.Equal(t, "2025-05-22", recs[0].ScheduledDate.String())
	assert.Equal(t, domain.StatusPreScheduled, recs[0].Status)
}

func TestFollowup_SkipsAlreadyEmitted(t *testing.T) {
	today, err := datekernel.New(2025, 6, 1)
	require.NoError(t, err)
	sentAt := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

	contact := domain.Contact{ID: 1}
	interactions := []domain.InteractionRecord{
		{ContactID: 1, AnchorScheduleID: 100, SentAt: sentAt},
	}
	cfg := defaultConfig()

	recs := Followup(contact, interactions, today, cfg, func(id int64) bool { return id == 100 })
	assert.Empty(t, recs)
}

func TestFollowup_OutsideLookbackWindowIgnored(t *testing.T) {
	today, err := datekernel.New(2025, 6, 1)
	require.NoError(t, err)
	sentAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	contact := domain.Contact{ID: 1}
	interactions := []domain.InteractionRecord{
		{ContactID: 1, AnchorScheduleID: 100, SentAt: sentAt},
	}
	cfg := defaultConfig()

	recs := Followup(contact, interactions, today, cfg, func(int64) bool { return false })
	assert.Empty(t, recs)
}

func TestClassifyEngagement(t *testing.T) {
	kind, priority := ClassifyEngagement(domain.InteractionRecord{ClickedLink: true})
	assert.Equal(t, domain.FollowupClickedNoHQ, kind)
	assert.Equal(t, 80, priority)

	kind, priority = ClassifyEngagement(domain.InteractionRecord{})
	assert.Equal(t, domain.FollowupCold, kind)
	assert.Equal(t, 90, priority)
}
