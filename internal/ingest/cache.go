package ingest

import (
	"sync"
	"time"

	"github.com/trainrs/endurance-analytics/internal/domain"
)

// ParseCache memoizes decoded workouts by file fingerprint so a
// re-imported, unchanged file skips the binary decode entirely. Entries
// expire after TTL and the cache evicts the oldest entry once MaxBytes is
// exceeded (each entry's size is estimated as 128 bytes per series point).
type ParseCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	maxBytes int64
	entries  map[string]*cacheItem
	order    []string

	hits, misses int64
}

type cacheItem struct {
	workout   *domain.Workout
	cachedAt  time.Time
	sizeBytes int64
}

// NewParseCache builds a cache with the given TTL and an approximate
// byte budget (used to bound memory when many large FIT files are
// imported in one batch run).
func NewParseCache(ttl time.Duration, maxBytes int64) *ParseCache {
	return &ParseCache{
		ttl:      ttl,
		maxBytes: maxBytes,
		entries:  make(map[string]*cacheItem),
	}
}

// Get returns the cached workout for a fingerprint if present and not
// expired.
func (c *ParseCache) Get(key string) (*domain.Workout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.ttl > 0 && time.Since(item.cachedAt) > c.ttl {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return item.workout, true
}

// Put stores a decoded workout, estimating its byte footprint from its
// series length, then evicts the oldest entries until under budget.
func (c *ParseCache) Put(key string, w *domain.Workout) {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := int64(len(w.Series)) * 128 // rough per-point footprint estimate
	c.entries[key] = &cacheItem{workout: w, cachedAt: time.Now(), sizeBytes: size}
	c.order = append(c.order, key)

	var total int64
	for _, item := range c.entries {
		total += item.sizeBytes
	}
	for total > c.maxBytes && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		if item, ok := c.entries[oldest]; ok {
			total -= item.sizeBytes
			delete(c.entries, oldest)
		}
	}
}

// Metrics reports cumulative hit/miss counters for observability.
func (c *ParseCache) Metrics() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
