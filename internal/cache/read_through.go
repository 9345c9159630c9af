package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Finary/internal/logger"
)

// GetOrCompute returns the cached value at key, or calls compute and stores
// its result with the given ttl. Cache failures never fail the read: a broken
// or unreachable cache degrades to calling compute every time. A nil client
// disables caching entirely.
func GetOrCompute[T any](ctx context.Context, c Client, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return compute(ctx)
	}

	raw, err := c.Get(ctx, key)
	switch {
	case err == nil:
		var cached T
		jsonErr := json.Unmarshal(raw, &cached)
		if jsonErr == nil {
			return cached, nil
		}
		logger.Warn().Err(jsonErr).Str("key", key).Msg("dropping unreadable cache entry")
		if delErr := c.Delete(ctx, key); delErr != nil {
			logger.Warn().Err(delErr).Str("key", key).Msg("failed to drop unreadable cache entry")
		}
	case errors.Is(err, ErrMiss):
	default:
		logger.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to store")
	}

	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("failed to encode cache entry")
		return value, nil
	}
	if err := c.Set(ctx, key, encoded, ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}

	return value, nil
}

// Invalidate deletes keys and only logs on failure. It must run after the
// store commit it follows.
func Invalidate(ctx context.Context, c Client, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.Delete(ctx, keys...); err != nil {
		logger.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
		return
	}
	logger.Debug().Strs("keys", keys).Msg("cache invalidated")
}
