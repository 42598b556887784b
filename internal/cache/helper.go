package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetJSON fetches a key and unmarshals it into dest.
// Returns (false, nil) on a cache miss or when no client is configured.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}

	data, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals value and stores it under key with the given TTL.
// No-op when no client is configured.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, ttl).Err()
}

// Aside implements the cache-aside pattern: read from cache into dest, fall
// back to fetch on a miss (fetch must fill dest), then store the result
// best-effort. Cache errors never fail the caller; only fetch errors propagate.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if hit, err := GetJSON(ctx, key, dest); err == nil && hit {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}
