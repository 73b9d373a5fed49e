package storage

import (
	"container/list"
	"sync"

	"github.com/trainrs/endurance-analytics/internal/domain"
)

// seriesCache is a fixed-capacity in-memory LRU cache of decoded
// DataPoint series keyed by workout id, avoiding repeated gzip
// decompression for workouts accessed repeatedly within one process
// (e.g. batch PMC recomputation walking the same athlete's history).
//
// No third-party LRU implementation appears anywhere in the retrieval
// pack, and container/list is the standard, idiomatic way to back one in
// Go; see DESIGN.md for the full justification.
type seriesCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List
}

type cacheEntry struct {
	key    string
	points []domain.DataPoint
}

func newSeriesCache(capacity int) *seriesCache {
	return &seriesCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

func (c *seriesCache) get(key string) ([]domain.DataPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).points, true
}

func (c *seriesCache) put(key string, points []domain.DataPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		el.Value.(*cacheEntry).points = points
		return
	}

	el := c.order.PushFront(&cacheEntry{key: key, points: points})
	c.items[key] = el

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

func (c *seriesCache) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
}
