package cache_test

import (
	"context"
	"testing"

	"github.com/clinicops/migrator/internal/data/namecache"
	"github.com/clinicops/migrator/internal/data/redisStore"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisNameCache_Lifecycle(t *testing.T) {
	// 1. Start miniredis
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := namecache.TestNameCache(redisStore.NewTestStore(client))

	ctx := context.Background()

	t.Run("Put and Get Roundtrip", func(t *testing.T) {
		if err := cache.Put(ctx, "Maria Silva", "client-123"); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		id, found := cache.Get(ctx, "Maria Silva")
		if !found {
			t.Fatal("Name was cached but not found")
		}
		if id != "client-123" {
			t.Errorf("Id mismatch! Got %s, want client-123", id)
		}
	})

	t.Run("Miss For Unknown Name", func(t *testing.T) {
		_, found := cache.Get(ctx, "Nunca Migrada")
		if found {
			t.Error("Expected found=false for a name never migrated")
		}
	})

	t.Run("Exact Key Only", func(t *testing.T) {
		// Dedup is on the raw string; a case variant must miss.
		_, found := cache.Get(ctx, "maria silva")
		if found {
			t.Error("Case variant unexpectedly hit the cache")
		}
	})
}

func TestGetRedisNameCache_UsesConfiguredAddr(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	cache := namecache.GetRedisNameCache(ctx, mr.Addr())
	if cache == nil {
		t.Fatal("Expected a cache connected to the configured address")
	}

	if err := cache.Put(ctx, "Ana Lopes", "client-789"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if !mr.Exists("client_name:Ana Lopes") {
		t.Error("Key was not written to the configured Redis instance")
	}
}

func TestInMemoryNameCache_Fallback(t *testing.T) {
	cache := namecache.InitInMemoryNameCache()
	ctx := context.Background()

	if err := cache.Put(ctx, "João Costa", "client-456"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	id, found := cache.Get(ctx, "João Costa")
	if !found || id != "client-456" {
		t.Errorf("Got (%s, %v), want (client-456, true)", id, found)
	}
}
