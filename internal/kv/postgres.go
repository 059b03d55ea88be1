package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore keeps entries in the kv_entries table, one row per (namespace, key).
type PostgresStore struct {
	db        *sql.DB
	namespace string
}

func NewPostgresStore(db *sql.DB, namespace string) *PostgresStore {
	return &PostgresStore{db: db, namespace: namespace}
}

// EnsureSchema creates the backing table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS kv_entries (
    namespace  TEXT NOT NULL,
    key        TEXT NOT NULL,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (namespace, key)
)`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("failed to create kv_entries: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`

	var v string
	err := s.db.QueryRowContext(ctx, q, s.namespace, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO kv_entries (namespace, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (namespace, key) DO UPDATE
SET value = EXCLUDED.value, updated_at = now()`

	if _, err := s.db.ExecContext(ctx, q, s.namespace, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	const q = `DELETE FROM kv_entries WHERE namespace = $1`

	if _, err := s.db.ExecContext(ctx, q, s.namespace); err != nil {
		return fmt.Errorf("failed to clear namespace: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
