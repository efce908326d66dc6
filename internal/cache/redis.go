package cache

import (
	"context"
	"time"

	"resumefit/internal/config"
	"resumefit/internal/errors"

	"github.com/redis/go-redis/v9"
)

// Redis is the remote cache backend. Every backend error is logged at
// warning level and treated as a miss; the cache must never fail a request.
type Redis struct {
	client *redis.Client
	logger *errors.Logger
}

// NewRedis creates a Redis-backed cache store
func NewRedis(cfg config.CacheConfig, logger *errors.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return &Redis{client: client, logger: logger}
}

// Get returns the cached value and true on a hit
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil && r.logger != nil {
			r.logger.Warn("Cache read failed, treating as miss",
				"key", key,
				"error", err.Error())
		}
		return nil, false
	}
	return value, true
}

// Set stores value with a TTL. Failures are logged and swallowed.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil && r.logger != nil {
		r.logger.Warn("Cache write failed",
			"key", key,
			"error", err.Error())
	}
}

// Ping checks backend reachability for health reporting
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}
