package namecache

import (
	"context"
	"sync"
)

type InMemoryNameCache struct {
	mu    *sync.RWMutex
	names map[string]string
}

func InitInMemoryNameCache() *InMemoryNameCache {
	return &InMemoryNameCache{
		mu:    new(sync.RWMutex),
		names: make(map[string]string),
	}
}

func (c *InMemoryNameCache) Get(ctx context.Context, name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, found := c.names[name]
	return id, found
}

func (c *InMemoryNameCache) Put(ctx context.Context, name string, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[name] = id
	return nil
}
