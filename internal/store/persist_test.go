package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/ignite/scheduler-engine/internal/domain"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Store{db: db}, mock
}

func existingRowColumns() []string {
	return []string{
		"id", "contact_id", "email_type", "scheduled_send_date", "scheduled_send_time", "status",
		"skip_reason", "priority", "template_id", "campaign_instance_id",
		"event_year", "event_month", "event_day",
	}
}

// TestPersist_SmartUpdateIdempotence exercises scenario S6: rerunning
// with a candidate identical in content to the stored row must produce
// zero inserts, zero updates, and zero deletes.
func TestPersist_SmartUpdateIdempotence(t *testing.T) {
	store, mock := newMockStore(t)

	candidate := domain.ScheduleRecord{
		ContactID:     7,
		EmailType:     domain.NewAnniversaryEmailType(domain.AnniversaryBirthday),
		ScheduledDate: domain.Date{Year: 2025, Month: 3, Day: 1},
		ScheduledTime: domain.DefaultScheduledTime,
		Status:        domain.StatusPreScheduled,
		Priority:      10,
		EventYear:     2025, EventMonth: 3, EventDay: 15,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, contact_id, email_type`).
		WillReturnRows(sqlmock.NewRows(existingRowColumns()).
			AddRow(int64(1), candidate.ContactID, "anniversary:birthday", candidate.ScheduledDate.String(),
				candidate.ScheduledTime, string(candidate.Status), "", candidate.Priority, nil, nil,
				candidate.EventYear, candidate.EventMonth, candidate.EventDay))
	mock.ExpectPrepare(`UPDATE email_schedules SET`)
	mock.ExpectCommit()

	result, err := store.Persist(context.Background(), domain.RunID("run-1"), []domain.ScheduleRecord{candidate}, 500)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Equal(t, 0, result.Inserted)
	require.Equal(t, 0, result.Updated)
	require.Equal(t, 0, result.OrphansDeleted)
	require.Equal(t, 1, result.Unchanged)
}

// TestPersist_DeletesUnclaimedPreScheduledOrphan covers the reconcile
// half of the smart-update merge: a pre-scheduled row this run no
// longer produces must be deleted, but a terminal row (sent) must
// survive untouched even when unclaimed.
func TestPersist_DeletesUnclaimedPreScheduledOrphan(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, contact_id, email_type`).
		WillReturnRows(sqlmock.NewRows(existingRowColumns()).
			AddRow(int64(1), int64(7), "anniversary:birthday", "2025-03-01", domain.DefaultScheduledTime,
				string(domain.StatusPreScheduled), "", 10, nil, nil, 2025, 3, 15).
			AddRow(int64(2), int64(7), "anniversary:effective_date", "2025-04-01", domain.DefaultScheduledTime,
				string(domain.StatusSent), "", 20, nil, nil, 2025, 4, 1))
	mock.ExpectExec(`DELETE FROM email_schedules WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare(`UPDATE email_schedules SET`)
	mock.ExpectCommit()

	result, err := store.Persist(context.Background(), domain.RunID("run-1"), nil, 500)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Equal(t, 1, result.OrphansDeleted)
	require.Equal(t, 0, result.Inserted)
	require.Equal(t, 0, result.Updated)
}
