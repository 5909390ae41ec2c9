package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/ignite/scheduler-engine/internal/domain"
)

// LoadOrganizationConfig reads the organization_config row and applies
// documented defaults for anything the row left unset (spec §3, §6).
// A missing row is a ConfigurationError — the run must abort before
// any derivation starts (spec §7).
func (s *Store) LoadOrganizationConfig(ctx context.Context, orgID string) (domain.OrganizationConfig, error) {
	var (
		cfg                domain.OrganizationConfig
		perStateOverrideJS sql.NullString
		sendTime           sql.NullString
		timezone           sql.NullString
	)
	cfg.OrgID = orgID

	err := s.db.QueryRowContext(ctx, `
		SELECT
			daily_cap_percentage, effective_date_soft_percentage, smoothing_window_days,
			overage_threshold, catch_up_horizon_days, period_days, max_emails_per_period,
			enable_post_window_emails, exclude_failed_underwriting_global,
			send_without_zipcode_for_universal, effective_date_first_email_months,
			birthday_days_before, effective_date_days_before, followup_lookback_days,
			followup_delay_days, exclusion_pre_buffer_days, per_state_pre_buffer_override,
			scheduled_send_time, time_zone
		FROM organization_config
		WHERE org_id = $1
	`, orgID).Scan(
		&cfg.DailyCapPercentage, &cfg.EffectiveDateSoftPercentage, &cfg.SmoothingWindowDays,
		&cfg.OverageThreshold, &cfg.CatchUpHorizonDays, &cfg.PeriodDays, &cfg.MaxEmailsPerPeriod,
		&cfg.EnablePostWindowEmails, &cfg.ExcludeFailedUnderwritingGlobal,
		&cfg.SendWithoutZipcodeForUniversal, &cfg.EffectiveDateFirstEmailMonths,
		&cfg.BirthdayDaysBefore, &cfg.EffectiveDateDaysBefore, &cfg.FollowupLookbackDays,
		&cfg.FollowupDelayDays, &cfg.ExclusionPreBufferDays, &perStateOverrideJS,
		&sendTime, &timezone,
	)
	if err == sql.ErrNoRows {
		return domain.OrganizationConfig{}, &domain.ConfigurationError{Reason: "no organization_config row for org_id " + orgID}
	}
	if err != nil {
		return domain.OrganizationConfig{}, wrapStoreErr("load organization config", err)
	}

	if sendTime.Valid {
		cfg.ScheduledSendTime = sendTime.String
	}
	if timezone.Valid {
		cfg.TimeZone = timezone.String
	}
	if perStateOverrideJS.Valid && perStateOverrideJS.String != "" {
		overrides := make(map[string]int)
		if err := json.Unmarshal([]byte(perStateOverrideJS.String), &overrides); err != nil {
			return domain.OrganizationConfig{}, &domain.ConfigurationError{Reason: "malformed per_state_pre_buffer_override: " + err.Error()}
		}
		cfg.PerStatePreBufferOverride = overrides
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&total); err != nil {
		return domain.OrganizationConfig{}, wrapStoreErr("count contacts", err)
	}
	cfg.TotalContacts = total

	return cfg.Defaults(), nil
}
