package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-memory TTL cache for page bodies. Callers pass
// raw lookup URLs; the cache hashes them through Key before storage. A
// non-positive TTL on Set falls back to the cache's default.
type MemoryCache struct {
	cache      *gocache.Cache
	defaultTTL time.Duration
}

// NewMemoryCache creates a memory cache with the given default TTL and
// expired-entry cleanup interval.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache:      gocache.New(defaultTTL, cleanupInterval),
		defaultTTL: defaultTTL,
	}
}

// Get retrieves the body cached for a lookup URL.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(Key(key)); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a body under a lookup URL. ttl <= 0 uses the default TTL.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.cache.Set(Key(key), value, ttl)
	return nil
}

// Delete removes the entry for a lookup URL.
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(Key(key))
	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
