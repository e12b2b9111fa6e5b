package storage

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickstore/platform/pkg/tenant"
)

// redisTenantCache is a distributed tenant.Cache so resolution results are
// shared across platform instances. Entries are stored as JSON; a cached
// negative lookup serializes to an empty object. Cache failures degrade to a
// miss so resolution falls through to the data source.
type redisTenantCache struct {
	client    redis.UniversalClient
	keyPrefix string
	log       *slog.Logger
}

// NewRedisTenantCache creates a Redis-backed resolution cache. Panics on a
// nil client to fail fast during initialization.
func NewRedisTenantCache(client redis.UniversalClient, log *slog.Logger) tenant.Cache {
	if client == nil {
		panic("storage: redis client is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &redisTenantCache{
		client:    client,
		keyPrefix: "tenant:",
		log:       log,
	}
}

func (c *redisTenantCache) Get(ctx context.Context, key string) (tenant.Entry, bool) {
	raw, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WarnContext(ctx, "tenant cache read failed", "key", key, "error", err)
		}
		return tenant.Entry{}, false
	}

	var entry tenant.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.log.WarnContext(ctx, "tenant cache entry corrupt", "key", key, "error", err)
		_ = c.client.Del(ctx, c.keyPrefix+key).Err()
		return tenant.Entry{}, false
	}

	return entry, true
}

func (c *redisTenantCache) Set(ctx context.Context, key string, entry tenant.Entry, ttl time.Duration) {
	raw, err := json.Marshal(entry)
	if err != nil {
		c.log.WarnContext(ctx, "tenant cache entry not serializable", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, c.keyPrefix+key, raw, ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "tenant cache write failed", "key", key, "error", err)
	}
}

func (c *redisTenantCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		c.log.WarnContext(ctx, "tenant cache delete failed", "key", key, "error", err)
	}
}

// Close is a no-op; the Redis client is shared and closed by its owner.
func (c *redisTenantCache) Close() error { return nil }
