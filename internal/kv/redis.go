package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const clearScanBatch = 100

// RedisStore keeps each key at "{namespace}:{key}".
type RedisStore struct {
	client    *redis.Client
	namespace string
}

func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the namespace. Keys of other applications sharing
// the same Redis database are left alone.
func (s *RedisStore) Clear(ctx context.Context) error {
	var cursor uint64
	pattern := s.namespace + ":*"

	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, clearScanBatch).Result()
		if err != nil {
			return fmt.Errorf("failed to scan namespace: %w", err)
		}
		if len(keys) > 0 {
			pipe := s.client.Pipeline()
			pipe.Del(ctx, keys...)
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to clear namespace: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) key(k string) string {
	return fmt.Sprintf("%s:%s", s.namespace, k)
}
