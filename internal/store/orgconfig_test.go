package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/scheduler-engine/internal/domain"
)

func TestLoadOrganizationConfig_MissingRowIsConfigurationError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM organization_config`).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{
			"daily_cap_percentage", "effective_date_soft_percentage", "smoothing_window_days",
			"overage_threshold", "catch_up_horizon_days", "period_days", "max_emails_per_period",
			"enable_post_window_emails", "exclude_failed_underwriting_global",
			"send_without_zipcode_for_universal", "effective_date_first_email_months",
			"birthday_days_before", "effective_date_days_before", "followup_lookback_days",
			"followup_delay_days", "exclusion_pre_buffer_days", "per_state_pre_buffer_override",
			"scheduled_send_time", "time_zone",
		}))

	_, err := store.LoadOrganizationConfig(context.Background(), "acme")
	require.Error(t, err)
	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	require.NoError(t, mock.ExpectationsWereMet())
}
