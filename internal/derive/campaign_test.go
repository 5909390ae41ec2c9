package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
)

func TestTargets_UniversalIgnoresStateAndCarrier(t *testing.T) {
	ctype := domain.CampaignType{Name: "aep", TargetAllContacts: true}
	instance := domain.CampaignInstance{TargetStates: "CA", TargetCarriers: "Acme"}
	contact := domain.Contact{ID: 1, ZIP: "90210", Jurisdiction: "NY", Carrier: "OtherCo"}
	cfg := defaultConfig()

	assert.True(t, Targets(contact, ctype, instance, cfg))
}

func TestTargets_MissingZipExcludesNonUniversal(t *testing.T) {
	ctype := domain.CampaignType{Name: "promo"}
	instance := domain.CampaignInstance{TargetStates: "ALL", TargetCarriers: "ALL"}
	contact := domain.Contact{ID: 1, ZIP: ""}
	cfg := defaultConfig()

	assert.False(t, Targets(contact, ctype, instance, cfg))
}

func TestTargets_StateAndCarrierMustBothMatch(t *testing.T) {
	ctype := domain.CampaignType{Name: "promo"}
	instance := domain.CampaignInstance{TargetStates: "CA,TX", TargetCarriers: "Acme"}
	cfg := defaultConfig()

	match := domain.Contact{ID: 1, ZIP: "1", Jurisdiction: "TX", Carrier: "Acme"}
	assert.True(t, Targets(match, ctype, instance, cfg))

	wrongCarrier := domain.Contact{ID: 2, ZIP: "1", Jurisdiction: "TX", Carrier: "Other"}
	assert.False(t, Targets(wrongCarrier, ctype, instance, cfg))
}

func TestCampaign_AEPOverridesFailedUnderwritingExclusion(t *testing.T) {
	start, err := datekernel.New(2025, 9, 1)
	require.NoError(t, err)
	end, err := datekernel.New(2025, 12, 7)
	require.NoError(t, err)
	today, err := datekernel.New(2025, 6, 1)
	require.NoError(t, err)

	ctype := domain.CampaignType{Name: "aep", TargetAllContacts: true, SkipFailedUnderwriting: true, Priority: 5}
	instance := domain.CampaignInstance{ID: 1, ActiveStartDate: start, ActiveEndDate: end, Active: true, TargetStates: "ALL", TargetCarriers: "ALL"}
	contact := domain.Contact{ID: 1, ZIP: "1", FailedUnderwriting: true}
	cfg := defaultConfig()

	rec, ok := Campaign(contact, ctype, instance, today, cfg)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPreScheduled, rec.Status)
}

func TestCampaign_NonAEPFailedUnderwritingSkipped(t *testing.T) {
	start, err := datekernel.New(2025, 9, 1)
	require.NoError(t, err)
	today, err := datekernel.New(2025, 6, 1)
	require.NoError(t, err)

	ctype := domain.CampaignType{Name: "promo", TargetAllContacts: true, SkipFailedUnderwriting: true, Priority: 5}
	instance := domain.CampaignInstance{ID: 1, ActiveStartDate: start, Active: true, TargetStates: "ALL", TargetCarriers: "ALL"}
	contact := domain.Contact{ID: 1, ZIP: "1", FailedUnderwriting: true}
	cfg := defaultConfig()

	rec, ok := Campaign(contact, ctype, instance, today, cfg)
	require.True(t, ok)
	assert.Equal(t, domain.StatusSkipped, rec.Status)
	assert.Equal(t, "failed underwriting", rec.SkipReason)
}

func TestCampaign_SpreadEvenlyIsDeterministic(t *testing.T) {
	spreadStart, err := datekernel.New(2025, 1, 1)
	require.NoError(t, err)
	spreadEnd, err := datekernel.New(2025, 1, 31)
	require.NoError(t, err)
	activeStart, err := datekernel.New(2025, 1, 1)
	require.NoError(t, err)
	today, err := datekernel.New(2024, 12, 1)
	require.NoError(t, err)

	ctype := domain.CampaignType{Name: "promo", TargetAllContacts: true, SpreadEvenly: true, Priority: 5}
	instance := domain.CampaignInstance{ID: 42, ActiveStartDate: activeStart, SpreadStartDate: &spreadStart, SpreadEndDate: &spreadEnd, Active: true, TargetStates: "ALL", TargetCarriers: "ALL"}
	contact := domain.Contact{ID: 7, ZIP: "1"}
	cfg := defaultConfig()

	first, ok := Campaign(contact, ctype, instance, today, cfg)
	require.True(t, ok)
	second, ok := Campaign(contact, ctype, instance, today, cfg)
	require.True(t, ok)

	assert.Equal(t, first.ScheduledDate, second.ScheduledDate)
	assert.False(t, first.ScheduledDate.Before(spreadStart))
	assert.False(t, first.ScheduledDate.After(spreadEnd))
}
