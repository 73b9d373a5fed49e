package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

func sampleWorkout(t *testing.T, seriesLen int) *domain.Workout {
	t.Helper()
	points := make([]domain.DataPoint, seriesLen)
	for i := range points {
		points[i] = domain.DataPoint{TimestampSeconds: i}
	}
	w, err := domain.NewWorkout("w1", "a1", time.Now(), domain.SportRunning, seriesLen,
		domain.WorkoutTypeEndurance, domain.DataSourceHeartRate, points)
	require.NoError(t, err)
	return w
}

func TestParseCacheHitAfterPut(t *testing.T) {
	c := NewParseCache(time.Hour, 1<<20)
	w := sampleWorkout(t, 10)

	_, ok := c.Get("key-1")
	assert.False(t, ok)

	c.Put("key-1", w)
	got, ok := c.Get("key-1")
	require.True(t, ok)
	assert.Equal(t, w.ID, got.ID)

	hits, misses := c.Metrics()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestParseCacheExpiresAfterTTL(t *testing.T) {
	c := NewParseCache(time.Millisecond, 1<<20)
	c.Put("key-1", sampleWorkout(t, 5))

	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("key-1")
	assert.False(t, ok)
}

func TestParseCacheEvictsOldestWhenOverBudget(t *testing.T) {
	// each entry estimated at seriesLen*128 bytes; budget fits one large entry
	c := NewParseCache(time.Hour, 200*128)

	c.Put("old", sampleWorkout(t, 150))
	c.Put("new", sampleWorkout(t, 150))

	_, oldOK := c.Get("old")
	_, newOK := c.Get("new")

	assert.False(t, oldOK, "oldest entry should have been evicted once over budget")
	assert.True(t, newOK)
}
