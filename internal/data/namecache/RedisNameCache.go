// Package namecache remembers which client names were already migrated, so
// re-runs and mixed sources skip the backend lookup for names seen before.
// The key is the raw name string, exactly as migrated; a miss only means
// the backend has to be asked.
package namecache

import (
	"context"

	"github.com/clinicops/migrator/internal/config"
	"github.com/clinicops/migrator/internal/data/redisStore"
	"github.com/clinicops/migrator/pkg/logger_i"
)

const keyPrefix = "client_name:"

var redisLogger = logger_i.NewLogger("Redis NameCache")

type RedisNameCache struct {
	store *redisStore.Store
}

// GetRedisNameCache connects to the configured Redis address and returns
// nil when Redis is unreachable; callers fall back to the in-memory cache.
func GetRedisNameCache(ctx context.Context, addr string) *RedisNameCache {
	store := redisStore.GetRedisStore(ctx, config.RedisNameCache, addr)
	if store == nil {
		return nil
	}
	return &RedisNameCache{store: store}
}

func (c *RedisNameCache) Get(ctx context.Context, name string) (string, bool) {
	id, err := c.store.Get(ctx, keyPrefix+name)
	if err != nil {
		if !c.store.IsNil(err) {
			redisLogger.Error("Cache lookup failed", "error", err)
		}
		return "", false
	}
	return id, true
}

func (c *RedisNameCache) Put(ctx context.Context, name string, id string) error {
	return c.store.Set(ctx, keyPrefix+name, id, config.NameCacheTTL)
}

// Only for tests
func TestNameCache(store *redisStore.Store) *RedisNameCache {
	return &RedisNameCache{store: store}
}
