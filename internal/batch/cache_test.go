package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultCacheHitAfterPut(t *testing.T) {
	c := NewResultCache(time.Minute)
	key := Key("pmc", "athlete-1", "2026-01-01", "2026-02-01")
	c.Put(key, []byte("cached-value"))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "cached-value", string(got))

	hits, misses := c.Metrics()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(0), misses)
}

func TestResultCacheExpiresAfterTTL(t *testing.T) {
	c := NewResultCache(10 * time.Millisecond)
	key := Key("pmc", "athlete-1")
	c.Put(key, []byte("v"))

	time.Sleep(25 * time.Millisecond)
	_, ok := c.Get(key)
	assert.False(t, ok)

	_, misses := c.Metrics()
	assert.Equal(t, int64(1), misses)
}

func TestKeyDoesNotCollideAcrossDistinctParams(t *testing.T) {
	a := Key("pmc", "athlete-1", "2026-01-01", "2026-02-01")
	b := Key("pmc", "athlete-1", "2026-01-01", "2026-03-01")
	assert.NotEqual(t, a, b)
}

func TestClearDropsAllEntriesAndReturnsCount(t *testing.T) {
	c := NewResultCache(time.Minute)
	c.Put(Key("pmc", "a"), []byte("1"))
	c.Put(Key("pmc", "b"), []byte("2"))

	n := c.Clear()
	assert.Equal(t, 2, n)

	_, ok := c.Get(Key("pmc", "a"))
	assert.False(t, ok)
}
