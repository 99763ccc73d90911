package geo

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Cache is a concurrency-safe TTL cache for geocode results. Geocoding the
// same query is deterministic over short horizons, so results are memoized
// with bounded size and age. Sky responses themselves are never cached.
type Cache struct {
	mu sync.RWMutex

	data map[string]cacheEntry

	maxEntries int           // 0 = unlimited
	maxAge     time.Duration // 0 = unlimited
}

type cacheEntry struct {
	result   Result
	storedAt time.Time
}

// NewCache creates a Cache with optional limits.
func NewCache(maxEntries int, maxAge time.Duration) *Cache {
	return &Cache{
		data:       make(map[string]cacheEntry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
	}
}

// Get returns a cached result for the query if present and unexpired.
func (c *Cache) Get(query string) (Result, bool) {
	key := cacheKey(query)

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok {
		return Result{}, false
	}
	if c.maxAge > 0 && time.Since(e.storedAt) > c.maxAge {
		return Result{}, false
	}
	return e.result, true
}

// Put stores a result, evicting the oldest entry when the size limit would
// be exceeded.
func (c *Cache) Put(query string, res Result) {
	key := cacheKey(query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.data) >= c.maxEntries {
		if _, exists := c.data[key]; !exists {
			c.evictOldestLocked()
		}
	}

	c.data[key] = cacheEntry{result: res, storedAt: time.Now()}
}

// Sweep drops all expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	if c.maxAge <= 0 {
		return 0
	}

	cutoff := time.Now().Add(-c.maxAge)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.data {
		if e.storedAt.Before(cutoff) {
			delete(c.data, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, e := range c.data {
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.data, oldestKey)
	}
}

func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// CachedGeocoder memoizes an inner Geocoder through a Cache.
type CachedGeocoder struct {
	inner Geocoder
	cache *Cache
}

// NewCachedGeocoder wraps inner with the given cache.
func NewCachedGeocoder(inner Geocoder, cache *Cache) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, cache: cache}
}

// Geocode returns a cached result when available; only successful lookups
// are stored.
func (g *CachedGeocoder) Geocode(ctx context.Context, query string) (Result, error) {
	if res, ok := g.cache.Get(query); ok {
		return res, nil
	}

	res, err := g.inner.Geocode(ctx, query)
	if err != nil {
		return Result{}, err
	}

	g.cache.Put(query, res)
	return res, nil
}
