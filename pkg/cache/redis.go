package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewClient connects to redisURL. An empty URL means redis is disabled and
// returns a nil client; every helper in this package accepts a nil client.
func NewClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// Remember returns the cached JSON value for key, or calls load, caches its
// result for ttl and returns it. A nil result from load is not cached.
func Remember[T any](ctx context.Context, rdb *redis.Client, key string, ttl time.Duration, load func(ctx context.Context) (*T, error)) (*T, error) {
	if rdb == nil {
		return load(ctx)
	}

	raw, err := rdb.Get(ctx, key).Bytes()
	if err == nil {
		var cached T
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return &cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return load(ctx)
	}

	value, err := load(ctx)
	if err != nil || value == nil {
		return value, err
	}

	if payload, err := json.Marshal(value); err == nil {
		rdb.Set(ctx, key, payload, ttl)
	}

	return value, nil
}

// Invalidate deletes the given keys.
func Invalidate(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// CheckAndSet stores key only if it does not exist yet. It reports whether
// the key was stored.
func CheckAndSet(ctx context.Context, rdb *redis.Client, key string, ttl time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set key in redis: %w", err)
	}

	return wasSet, nil
}

// Consume deletes key and reports whether it existed.
func Consume(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	n, err := rdb.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to consume key in redis: %w", err)
	}

	return n > 0, nil
}
