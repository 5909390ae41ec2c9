package engine

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/ignite/scheduler-engine/internal/datekernel"
	"github.com/ignite/scheduler-engine/internal/domain"
	"github.com/ignite/scheduler-engine/internal/store"
)

func orgConfigColumns() []string {
	return []string{
		"daily_cap_percentage", "effective_date_soft_percentage", "smoothing_window_days",
		"overage_threshold", "catch_up_horizon_days", "period_days", "max_emails_per_period",
		"enable_post_window_emails", "exclude_failed_underwriting_global",
		"send_without_zipcode_for_universal", "effective_date_first_email_months",
		"birthday_days_before", "effective_date_days_before", "followup_lookback_days",
		"followup_delay_days", "exclusion_pre_buffer_days", "per_state_pre_buffer_override",
		"scheduled_send_time", "time_zone",
	}
}

// TestRunner_Run_EndToEndNoCampaigns exercises a full pass with a
// single contact, no campaign instances, and no prior interactions:
// the only candidate is the contact's birthday email, which a
// jurisdiction outside the exclusion table never skips.
func TestRunner_Run_EndToEndNoCampaigns(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM organization_config`).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows(orgConfigColumns()).
			AddRow(0.2, 0.3, 14, 1.2, 7, 30, 3, true, false, false, 11, 14, 30, 35, 2, 60, nil, "08:30:00", "America/New_York"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contacts`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT id, email, birth_date`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "birth_date", "effective_date", "state", "zip_code", "carrier", "failed_underwriting",
		}).AddRow(int64(1), "a@example.com", "1980-02-20", nil, "TX", "75001", "AcmeCo", false))

	mock.ExpectQuery(`FROM email_schedules es`).
		WillReturnRows(sqlmock.NewRows([]string{
			"contact_id", "id", "actual_send_datetime", "answered_health_quest", "health_answer_yes", "clicked_link",
		}))

	mock.ExpectQuery(`SELECT DISTINCT anchor_schedule_id`).
		WillReturnRows(sqlmock.NewRows([]string{"anchor_schedule_id"}))

	mock.ExpectQuery(`FROM campaign_types`).
		WillReturnRows(sqlmock.NewRows([]string{
			"name", "priority", "days_before_event", "respect_exclusion_windows", "enable_followups",
			"target_all_contacts", "spread_evenly", "skip_failed_underwriting", "active",
		}))
	mock.ExpectQuery(`FROM campaign_instances`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "campaign_type", "instance_name", "email_template", "sms_template",
			"active_start_date", "active_end_date", "spread_start_date", "spread_end_date",
			"target_states", "target_carriers", "active", "metadata",
		}))

	mock.ExpectQuery(`FROM email_schedules\s+WHERE status IN`).
		WillReturnRows(sqlmock.NewRows([]string{"contact_id", "count"}))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, contact_id, email_type`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "contact_id", "email_type", "scheduled_send_date", "scheduled_send_time", "status",
			"skip_reason", "priority", "template_id", "campaign_instance_id",
			"event_year", "event_month", "event_day",
		}))
	mock.ExpectPrepare(`COPY "email_schedules"`)
	mock.ExpectExec(`COPY "email_schedules"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`COPY "email_schedules"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(`UPDATE email_schedules SET`)
	mock.ExpectCommit()

	runner := NewRunner(store.FromDB(db))
	runner.Clock = datekernel.FixedClock{Date: domain.Date{Year: 2025, Month: 1, Day: 1}}

	summary, err := runner.Run(context.Background(), "acme")
	require.NoError(t, err)
	require.False(t, summary.Aborted)
	require.Equal(t, 1, summary.ContactsProcessed)
	require.Equal(t, 1, summary.Inserted)
}
