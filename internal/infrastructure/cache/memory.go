package cache

import (
	"time"

	"wishlist-backend/pkg/cache"

	gocache "github.com/patrickmn/go-cache"
)

type memoryStore struct {
	store *gocache.Cache
}

// NewMemoryStore creates an in-process cache.Store. Expired entries are
// purged every cleanupInterval.
func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) cache.Store {
	return &memoryStore{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

func (c *memoryStore) Get(key string) (any, bool) {
	return c.store.Get(key)
}

func (c *memoryStore) Set(key string, value any, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(key, value, ttl)
}

func (c *memoryStore) Delete(key string) {
	c.store.Delete(key)
}

func (c *memoryStore) Flush() {
	c.store.Flush()
}
