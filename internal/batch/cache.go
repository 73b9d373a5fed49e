// Package batch provides cached, bounded-concurrency batch operations
// over an athlete's workout history: multi-athlete PMC recomputation,
// TSS back-fill, and per-workout zone analysis (spec §4.9). Results are
// cached by a key that embeds the request's filter parameters so
// distinct queries never collide, and entries older than a TTL are
// treated as cache misses.
package batch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is the spec's default cache lifetime for batch results.
const DefaultTTL = 3600 * time.Second

// ResultCache stores serialized batch-operation results keyed by a
// fingerprint of the request parameters. It follows the same
// mutex-guarded, TTL-expiring shape as internal/ingest.ParseCache, but
// values are opaque bytes (any JSON-serializable result) rather than
// decoded workouts, since batch results vary by operation.
type ResultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry

	hits, misses int64
}

type cacheEntry struct {
	value    []byte
	cachedAt time.Time
}

// NewResultCache builds a cache with the given TTL. A zero or negative
// TTL falls back to DefaultTTL.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{ttl: ttl, entries: make(map[string]cacheEntry)}
}

// Key builds a cache key from an operation name and its filter
// parameters: the operation, a colon, and the first 16 hex digits of a
// SHA-256 over the parameters, so e.g. ("athlete-1", "2026-01-01",
// "2026-03-01") and ("athlete-1", "2026-01-01", "2026-02-01") get
// different keys.
func Key(operation string, params ...string) string {
	h := sha256.New()
	h.Write([]byte(operation))
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return operation + ":" + hex.EncodeToString(h.Sum(nil))[:16]
}

// Get returns the cached bytes for key if present and not expired.
func (c *ResultCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if time.Since(entry.cachedAt) > c.ttl {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.value, true
}

// Put stores value under key, stamped with the current time.
func (c *ResultCache) Put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, cachedAt: time.Now()}
}

// Invalidate drops a single entry, used when the underlying workouts for
// that key have changed.
func (c *ResultCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry (spec §4.10's "cache_cleared" cleanup step).
func (c *ResultCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]cacheEntry)
	return n
}

// Metrics reports cumulative hit/miss counters.
func (c *ResultCache) Metrics() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *ResultCache) String() string {
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	hits, misses := c.Metrics()
	return fmt.Sprintf("batch.ResultCache{entries=%d hits=%d misses=%d}", n, hits, misses)
}
