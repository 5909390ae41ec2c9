package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadContacts_IsolatesUnparseableDates(t *testing.T) {
	store, mock := newMockStore(t)

	cols := []string{"id", "email", "birth_date", "effective_date", "state", "zip_code", "carrier", "failed_underwriting"}
	mock.ExpectQuery(`SELECT id, email, birth_date`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(1), "good@example.com", "1960-02-29", nil, "CA", "90210", "AcmeCo", false).
			AddRow(int64(2), "bad@example.com", "not-a-date", nil, "NY", "10001", "AcmeCo", false))

	contacts, failed, err := store.LoadContacts(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, contacts, 1)
	assert.Equal(t, int64(1), contacts[0].ID)

	require.Len(t, failed, 1)
	assert.Equal(t, int64(2), failed[0].ContactID)
}
