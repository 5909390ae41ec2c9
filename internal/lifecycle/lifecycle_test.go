package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
)

func TestApply_ActivatesWithinWindow(t *testing.T) {
	start, err := datekernel.New(2025, 1, 1)
	require.NoError(t, err)
	end, err := datekernel.New(2025, 12, 31)
	require.NoError(t, err)
	today, err := datekernel.New(2025, 6, 1)
	require.NoError(t, err)

	instance := &domain.CampaignInstance{ActiveStartDate: start, ActiveEndDate: end, Active: false}
	changed := Apply(instance, today, time.Unix(0, 0))

	assert.True(t, changed)
	assert.True(t, instance.Active)
	require.Len(t, instance.Transitions, 1)
	assert.True(t, instance.Transitions[0].Activated)
}

func TestApply_DeactivatesAfterEnd(t *testing.T) {
	start, err := datekernel.New(2025, 1, 1)
	require.NoError(t, err)
	end, err := datekernel.New(2025, 3, 31)
	require.NoError(t, err)
	today, err := datekernel.New(2025, 6, 1)
	require.NoError(t, err)

	instance := &domain.CampaignInstance{ActiveStartDate: start, ActiveEndDate: end, Active: true}
	changed := Apply(instance, today, time.Unix(0, 0))

	assert.True(t, changed)
	assert.False(t, instance.Active)
}

func TestApply_NoopWhenAlreadyCorrect(t *testing.T) {
	start, err := datekernel.New(2025, 1, 1)
	require.NoError(t, err)
	end, err := datekernel.New(2025, 12, 31)
	require.NoError(t, err)
	today, err := datekernel.New(2025, 6, 1)
	require.NoError(t, err)

	instance := &domain.CampaignInstance{ActiveStartDate: start, ActiveEndDate: end, Active: true}
	changed := Apply(instance, today, time.Unix(0, 0))

	assert.False(t, changed)
	assert.Empty(t, instance.Transitions)
}
