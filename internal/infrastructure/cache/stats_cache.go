// Package cache provides Redis-backed caching for derived views.
package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"balcao/internal/core/id"
	"balcao/internal/domain/stats"
)

// RedisStatsCache implements stats.Cache over Redis.
type RedisStatsCache struct {
	client *redis.Client
}

var _ stats.Cache = (*RedisStatsCache)(nil)

// NewRedisStatsCache creates a Redis-backed stats cache.
func NewRedisStatsCache(addr, password string, db int) *RedisStatsCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStatsCache{client: client}
}

// Ping verifies connectivity.
func (c *RedisStatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}

func summaryKey(ownerID id.ID) string {
	return "stats:summary:" + ownerID.String()
}

// GetSummary returns the cached summary for the owner, if any.
func (c *RedisStatsCache) GetSummary(ctx context.Context, ownerID id.ID) (*stats.Summary, bool, error) {
	val, err := c.client.Get(ctx, summaryKey(ownerID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var s stats.Summary
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

// SetSummary caches the summary with a TTL.
func (c *RedisStatsCache) SetSummary(ctx context.Context, ownerID id.ID, s *stats.Summary, ttl time.Duration) error {
	if s == nil {
		return nil
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey(ownerID), payload, ttl).Err()
}

// Invalidate drops the cached summary for the owner.
func (c *RedisStatsCache) Invalidate(ctx context.Context, ownerID id.ID) error {
	return c.client.Del(ctx, summaryKey(ownerID)).Err()
}
