// Package store implements the scheduling engine's persistent store
// (spec §4.11/§6, component C11): loading contacts, organization
// config, and the campaign catalog, and the content-aware smart-update
// merge that writes schedule records back while preserving the audit
// trail of untouched rows. Among the engine's packages it is the only
// one that imports database/sql (outside the engine, distlock and
// cmd/migrate use it for locking and migrations); the derivation and
// pipeline packages receive their inputs as plain values, per spec §9's
// "explicit store handle" design note.
package store

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/ignite/scheduler-engine/internal/domain"
)

// Store wraps a PostgreSQL connection pool. The CLI's store-path
// argument is the DSN passed to Open — the corpus this engine is
// drawn from has no embedded/file-based SQL driver, so unlike a
// literal on-disk file, "store path" here names a connection target.
type Store struct {
	db *sql.DB
}

// Open connects to the store at dsn and verifies it is reachable.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, &domain.StoreError{Op: "open", Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &domain.StoreError{Op: "ping", Err: err}
	}
	return &Store{db: db}, nil
}

// FromDB wraps an already-open connection pool, letting callers supply
// their own *sql.DB (a test double, or one shared with other
// components) instead of going through Open.
func FromDB(db *sql.DB) *Store { return &Store{db: db} }

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying pool for the distributed-lock helper,
// which needs a *sql.DB to take a PostgreSQL advisory lock when no
// Redis endpoint is configured (spec §5).
func (s *Store) DB() *sql.DB { return s.db }

func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.StoreError{Op: op, Err: err}
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullableInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
