package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConfigCacheKey is where the raw owners+ads document is cached.
const ConfigCacheKey = "cfg:config"

// RedisStore wraps a redis client and context for operations.
//
// All daily counters live here. Increments use redis INCR, which is atomic;
// the original deployment read-then-wrote and tolerated lost updates, so
// this is a strict upgrade rather than a behavior change.
type RedisStore struct {
	Client *redis.Client
	Ctx    context.Context
}

// InitRedis initializes a Redis client and returns a RedisStore.
func InitRedis(addr string) (*RedisStore, error) {
	rs := &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		Ctx:    context.Background(),
	}

	// Add OpenTelemetry instrumentation to Redis client
	if err := redisotel.InstrumentTracing(rs.Client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := rs.Client.Ping(rs.Ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	zap.L().Info("Connected to Redis", zap.String("addr", addr))
	return rs, nil
}

// TopImpressionKey builds the fairness counter key for (day, device, owner).
func TopImpressionKey(day, device, ownerID string) string {
	return fmt.Sprintf("imp:%s:top:%s:%s", day, device, ownerID)
}

// AdImpressionKey builds the per-ad impression counter key.
func AdImpressionKey(day, adID string) string {
	return fmt.Sprintf("imp:%s:ad:%s", day, adID)
}

// AdClickKey builds the per-ad click counter key.
func AdClickKey(day, adID string) string {
	return fmt.Sprintf("clk:%s:ad:%s", day, adID)
}

// SlotClickKey builds the per-slot click counter key.
func SlotClickKey(day, position, device, ownerID string) string {
	return fmt.Sprintf("clk:%s:%s:%s:%s", day, position, device, ownerID)
}

// GetCount returns the integer value stored at key, or 0 when the key is
// missing or unreadable. Counters are advisory, so read errors degrade to 0.
func (r *RedisStore) GetCount(key string) int64 {
	val, err := r.Client.Get(r.Ctx, key).Int64()
	if err != nil && err != redis.Nil {
		zap.L().Warn("counter read", zap.String("key", key), zap.Error(err))
	}
	return val
}

// Increment adds 1 to the counter at key and returns the new value.
// The retention TTL is applied when the key is first created so stale day
// buckets eventually expire on their own.
func (r *RedisStore) Increment(key string, retention time.Duration) (int64, error) {
	val, err := r.Client.Incr(r.Ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 && retention > 0 {
		r.Client.Expire(r.Ctx, key, retention)
	}
	return val, nil
}

// GetConfigCache returns the cached config document, or "" on a miss.
func (r *RedisStore) GetConfigCache() (string, error) {
	val, err := r.Client.Get(r.Ctx, ConfigCacheKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// SetConfigCache stores the raw config document with the cache TTL.
func (r *RedisStore) SetConfigCache(raw string, ttl time.Duration) error {
	return r.Client.Set(r.Ctx, ConfigCacheKey, raw, ttl).Err()
}

// InvalidateConfigCache drops the cached config document.
func (r *RedisStore) InvalidateConfigCache() error {
	return r.Client.Del(r.Ctx, ConfigCacheKey).Err()
}

// Close shuts down the Redis client.
func (r *RedisStore) Close() {
	if r != nil && r.Client != nil {
		if err := r.Client.Close(); err != nil {
			zap.L().Error("redis close", zap.Error(err))
		}
	}
}
