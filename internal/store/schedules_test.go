package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/scheduler-engine/internal/domain"
)

func TestActiveCounts_GroupsByContact(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM email_schedules`).
		WillReturnRows(sqlmock.NewRows([]string{"contact_id", "count"}).
			AddRow(int64(7), 2).
			AddRow(int64(8), 1))

	counts, err := store.ActiveCounts(context.Background(), domain.Date{Year: 2025, Month: 1, Day: 1}, 365)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 2, counts[7])
	assert.Equal(t, 1, counts[8])
}

func TestFollowupAnchorsSeen_ReturnsSet(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT DISTINCT anchor_schedule_id`).
		WillReturnRows(sqlmock.NewRows([]string{"anchor_schedule_id"}).
			AddRow(int64(101)).
			AddRow(int64(102)))

	seen, err := store.FollowupAnchorsSeen(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.True(t, seen[101])
	assert.True(t, seen[102])
	assert.False(t, seen[103])
}
