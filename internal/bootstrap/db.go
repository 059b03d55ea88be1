package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/seniordesign-sys/ideagen-backend/config"
	"github.com/seniordesign-sys/ideagen-backend/internal/kv"
	"github.com/seniordesign-sys/ideagen-backend/internal/storage/postgres"
)

// OpenPostgresKV connects to Postgres and makes sure the kv_entries table exists.
func OpenPostgresKV(ctx context.Context, cfg *config.Config) (*kv.PostgresStore, *sql.DB, error) {
	if cfg.Database.Host == "" {
		return nil, nil, fmt.Errorf("DB_HOST is not set")
	}

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}

	store := kv.NewPostgresStore(db, cfg.KV.Namespace)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db schema: %w", err)
	}
	return store, db, nil
}
