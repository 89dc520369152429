package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/fabricerp/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimitStore implements RateLimitStore using Redis
// This is suitable for distributed deployments where multiple instances
// need to share rate-limit state
type RedisRateLimitStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRateLimitStore creates a new Redis-based rate-limit store
func NewRedisRateLimitStore(cfg config.RedisConfig) (*RedisRateLimitStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRateLimitStore{
		client:    client,
		keyPrefix: "ratelimit:",
	}, nil
}

// NewRedisRateLimitStoreWithClient creates a store with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisRateLimitStoreWithClient(client *redis.Client, keyPrefix string) *RedisRateLimitStore {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}
	return &RedisRateLimitStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Allow increments the counter for key atomically. INCR and EXPIRE run in a
// pipeline; the expiry is only set on the first hit so the window does not
// slide forward on every request.
func (s *RedisRateLimitStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	fullKey := s.keyPrefix + key

	var count *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, fullKey)
		pipe.ExpireNX(ctx, fullKey, window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment rate-limit counter: %w", err)
	}

	remaining := limit - int(count.Val())
	if remaining < 0 {
		remaining = 0
	}
	return count.Val() <= int64(limit), remaining, nil
}

// Close closes the Redis client
func (s *RedisRateLimitStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisRateLimitStore) GetClient() *redis.Client {
	return s.client
}

// Ensure RedisRateLimitStore implements RateLimitStore
var _ RateLimitStore = (*RedisRateLimitStore)(nil)
