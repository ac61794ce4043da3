// Package cache stores geocoding results. City coordinates are stable, so
// a long TTL keeps most queries off the geocoding API entirely.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pogodabot/weather-query-service/internal/models"
)

// Cache is the interface for coordinate caching backends.
// Get returns cached coordinates if present and not expired, Set stores
// them with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) (models.Coordinates, bool, error)
	Set(ctx context.Context, key string, value models.Coordinates, ttl time.Duration) error
}

// InMemoryCache implements Cache with a mutex-guarded map and TTL-based
// expiration. Expired entries are removed on access.
type InMemoryCache struct {
	mu   sync.Mutex
	data map[string]cacheEntry
}

type cacheEntry struct {
	value     models.Coordinates
	expiresAt time.Time
}

// NewInMemoryCache creates a new in-memory cache instance.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		data: make(map[string]cacheEntry),
	}
}

// Get retrieves cached coordinates for the key if present and not expired.
// Returns (value, true, nil) on hit, (zero, false, nil) on miss or expiry.
func (c *InMemoryCache) Get(ctx context.Context, key string) (models.Coordinates, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.data[key]
	if !ok {
		return models.Coordinates{}, false, nil
	}

	if time.Now().After(entry.expiresAt) {
		delete(c.data, key)
		return models.Coordinates{}, false, nil
	}

	return entry.value, true, nil
}

// Set stores coordinates with the specified TTL.
func (c *InMemoryCache) Set(ctx context.Context, key string, value models.Coordinates, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}
