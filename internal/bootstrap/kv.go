package bootstrap

import (
	"context"
	"fmt"

	"github.com/seniordesign-sys/ideagen-backend/config"
	"github.com/seniordesign-sys/ideagen-backend/internal/kv"
)

// KVStore is a store that can also report its health.
type KVStore interface {
	kv.Store
	kv.Pinger
}

// OpenKV builds the configured key-value backend. The returned close function
// releases its connections and is never nil.
func OpenKV(ctx context.Context, cfg *config.Config) (KVStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.KV.Backend {
	case config.BackendMemory:
		return kv.NewMemoryStore(), noop, nil
	case config.BackendFile:
		return kv.NewFileStore(cfg.KV.FilePath), noop, nil
	case config.BackendRedis:
		client, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return kv.NewRedisStore(client, cfg.KV.Namespace), client.Close, nil
	case config.BackendPostgres:
		store, db, err := OpenPostgresKV(ctx, cfg)
		if err != nil {
			return nil, noop, err
		}
		return store, db.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown KV backend %q", cfg.KV.Backend)
}
