package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"NutriForum/internal/core/likes"
)

type redisKVStore struct {
	client *redis.Client
}

// NewKVStore creates a Redis-backed key-value store for durable blobs.
// Values persist without TTL: liked-status decisions never expire.
func NewKVStore(client *redis.Client) likes.StorageClient {
	return &redisKVStore{client: client}
}

func (r *redisKVStore) Read(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	return value, true, nil
}

func (r *redisKVStore) Write(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write blob %q: %w", key, err)
	}
	return nil
}
