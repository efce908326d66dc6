package cache

import (
	"context"
	"time"

	"resumefit/internal/config"
	"resumefit/internal/errors"
)

// Layered checks the remote backend first and falls back to the local
// bounded map. Writes go to both layers, so a flaky backend still serves
// recently computed entries from memory.
type Layered struct {
	remote Store // nil when no backend is configured
	local  *Local
}

// New builds the cache from configuration: Redis plus a local layer when an
// address is configured, local-only otherwise
func New(cfg config.CacheConfig, logger *errors.Logger) *Layered {
	l := &Layered{local: NewLocal(cfg.LocalCapacity)}
	if cfg.RedisAddr != "" {
		l.remote = NewRedis(cfg, logger)
	}
	return l
}

// Get checks remote then local
func (c *Layered) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.remote != nil {
		if value, ok := c.remote.Get(ctx, key); ok {
			return value, true
		}
	}
	return c.local.Get(ctx, key)
}

// Set writes to both layers
func (c *Layered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c.remote != nil {
		c.remote.Set(ctx, key, value, ttl)
	}
	c.local.Set(ctx, key, value, ttl)
}

// Status reports the cache topology and remote reachability for health
// checks. The local layer is always available.
func (c *Layered) Status(ctx context.Context) map[string]any {
	status := map[string]any{
		"local":  true,
		"remote": c.remote != nil,
	}
	if pinger, ok := c.remote.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(ctx); err != nil {
			status["remote_error"] = err.Error()
		}
	}
	return status
}

// Close releases the remote backend if one is configured
func (c *Layered) Close() error {
	if c.remote != nil {
		return c.remote.Close()
	}
	return nil
}

var _ Store = (*Layered)(nil)
var _ Store = (*Local)(nil)
var _ Store = (*Redis)(nil)
