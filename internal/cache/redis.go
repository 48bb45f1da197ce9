package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis adapts a go-redis client to the Cache contract for multi-process
// deployments. Values are stored as JSON; backend failures degrade to
// misses so the durable store remains the source of truth.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, logger *zap.Logger) *Redis {
	return &Redis{client: client, logger: logger}
}

// Set stores value as JSON with the given TTL.
func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	payload, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("cache set: marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Get decodes the entry for key into dest.
func (r *Redis) Get(ctx context.Context, key string, dest any) bool {
	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		r.logger.Warn("cache get: unmarshal failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Has reports whether key exists.
func (r *Redis) Has(ctx context.Context, key string) bool {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Warn("cache exists failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return n > 0
}

// Delete removes the entry for key.
func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

// CleanUp is a no-op: Redis expires keys server-side.
func (r *Redis) CleanUp(context.Context) {}

// Size returns the keyspace size.
func (r *Redis) Size(ctx context.Context) int {
	n, err := r.client.DBSize(ctx).Result()
	if err != nil {
		return 0
	}
	return int(n)
}
