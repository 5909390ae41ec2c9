package domain

// SizeProfile is the coarse bucket selected from total contact count,
// used to pick load-balancer defaults (spec §3 GLOSSARY).
type SizeProfile string

const (
	SizeSmall      SizeProfile = "small"      // < 10k
	SizeMedium     SizeProfile = "medium"     // 10k - 100k
	SizeLarge      SizeProfile = "large"      // 100k - 500k
	SizeEnterprise SizeProfile = "enterprise" // 500k+
)

// ProfileForContactCount selects a SizeProfile from a total contact
// count, per the thresholds in spec §3.
func ProfileForContactCount(total int) SizeProfile {
	switch {
	case total < 10_000:
		return SizeSmall
	case total < 100_000:
		return SizeMedium
	case total < 500_000:
		return SizeLarge
	default:
		return SizeEnterprise
	}
}

// DailyCapPercentage returns the default daily-cap percentage for a
// size profile (spec §3: 20/10/7/5).
func (p SizeProfile) DailyCapPercentage() float64 {
	switch p {
	case SizeSmall:
		return 0.20
	case SizeMedium:
		return 0.10
	case SizeLarge:
		return 0.07
	default:
		return 0.05
	}
}

// OrganizationConfig is the per-organization tuning surface described
// in spec §3. Zero values are not meaningful defaults; callers load
// this from the organization_config table and apply Defaults() to fill
// in anything the row left unset.
type OrganizationConfig struct {
	OrgID string

	TotalContacts int
	SizeProfile   SizeProfile

	DailyCapPercentage         float64
	EffectiveDateSoftPercentage float64
	SmoothingWindowDays        int
	OverageThreshold           float64
	CatchUpHorizonDays         int

	PeriodDays           int
	MaxEmailsPerPeriod   int

	EnablePostWindowEmails        bool
	ExcludeFailedUnderwritingGlobal bool
	SendWithoutZipcodeForUniversal bool

	EffectiveDateFirstEmailMonths int

	BirthdayDaysBefore       int
	EffectiveDateDaysBefore  int

	FollowupLookbackDays int
	FollowupDelayDays    int

	ExclusionPreBufferDays      int
	PerStatePreBufferOverride map[string]int

	ScheduledSendTime string
	TimeZone          string
}

// Defaults returns a copy of cfg with every unset (zero-value) field
// filled with the spec's documented defaults.
func (cfg OrganizationConfig) Defaults() OrganizationConfig {
	out := cfg
	if out.SizeProfile == "" {
		out.SizeProfile = ProfileForContactCount(out.TotalContacts)
	}
	if out.DailyCapPercentage == 0 {
		out.DailyCapPercentage = out.SizeProfile.DailyCapPercentage()
	}
	if out.EffectiveDateSoftPercentage == 0 {
		out.EffectiveDateSoftPercentage = 0.30
	}
	if out.SmoothingWindowDays == 0 {
		out.SmoothingWindowDays = 14
	}
	if out.OverageThreshold == 0 {
		out.OverageThreshold = 1.2
	}
	if out.CatchUpHorizonDays == 0 {
		out.CatchUpHorizonDays = 7
	}
	if out.PeriodDays == 0 {
		out.PeriodDays = 30
	}
	if out.MaxEmailsPerPeriod == 0 {
		out.MaxEmailsPerPeriod = 3
	}
	if out.EffectiveDateFirstEmailMonths == 0 {
		out.EffectiveDateFirstEmailMonths = 11
	}
	if out.BirthdayDaysBefore == 0 {
		out.BirthdayDaysBefore = 14
	}
	if out.EffectiveDateDaysBefore == 0 {
		out.EffectiveDateDaysBefore = 30
	}
	if out.FollowupLookbackDays == 0 {
		out.FollowupLookbackDays = 35
	}
	if out.FollowupDelayDays == 0 {
		out.FollowupDelayDays = 2
	}
	if out.ExclusionPreBufferDays == 0 {
		out.ExclusionPreBufferDays = 60
	}
	if out.ScheduledSendTime == "" {
		out.ScheduledSendTime = DefaultScheduledTime
	}
	return out
}

// PreBufferFor returns the pre-window buffer for a state, honoring a
// per-state override when one is configured.
func (cfg OrganizationConfig) PreBufferFor(state string) int {
	if cfg.PerStatePreBufferOverride != nil {
		if v, ok := cfg.PerStatePreBufferOverride[state]; ok {
			return v
		}
	}
	return cfg.ExclusionPreBufferDays
}

// DailyCap returns the hard per-day cap on pre-scheduled records,
// ceil(DailyCapPercentage * TotalContacts) per spec §4.10.
func (cfg OrganizationConfig) DailyCap() int {
	raw := cfg.DailyCapPercentage * float64(cfg.TotalContacts)
	ceil := int(raw)
	if float64(ceil) < raw {
		ceil++
	}
	return ceil
}

// EffectiveDateSoftLimit returns the ED-email soft limit per date
// (spec §4.10 Pass A).
func (cfg OrganizationConfig) EffectiveDateSoftLimit() int {
	return int(cfg.DailyCapPercentage * float64(cfg.TotalContacts) * cfg.EffectiveDateSoftPercentage)
}
