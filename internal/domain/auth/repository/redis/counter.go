package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/royak47/autofor/internal/domain/auth/deps"
)

// CounterStore implements deps.CounterStore on Redis INCR/EXPIRE
type CounterStore struct {
	client redis.Cmdable
}

// NewCounterStore creates a new Redis counter store
func NewCounterStore(client *redis.Client) deps.CounterStore {
	return &CounterStore{client: client}
}

// Increment bumps key and starts its expiry window on the first hit
func (s *CounterStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("failed to set expiry on %s: %w", key, err)
		}
	}

	return count, nil
}
