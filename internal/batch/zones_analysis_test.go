package batch

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
	"github.com/trainrs/endurance-analytics/internal/zones"
)

func TestZoneAnalysisRunnerComputesHeartRateDistribution(t *testing.T) {
	series := []domain.DataPoint{heartRatePointFor(120), heartRatePointFor(150), heartRatePointFor(165)}
	w, err := domain.NewWorkout("w1", "a1", time.Now(), domain.SportCycling, 3600,
		domain.WorkoutTypeEndurance, domain.DataSourceHeartRate, series)
	require.NoError(t, err)

	store := &fakeWorkoutStore{full: map[string]*domain.Workout{"w1": w}}
	zs, err := zones.HRZones(decimal.RequireFromString("160"))
	require.NoError(t, err)

	runner := &ZoneAnalysisRunner{Store: store, Cache: NewResultCache(time.Minute)}
	results := runner.Run([]ZoneAnalysisRequest{{WorkoutID: "w1", System: zs}})

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	total := 0
	for _, c := range results[0].Counts {
		total += c
	}
	assert.Equal(t, 3, total)
}

func TestZoneAnalysisRunnerCachesSecondLookup(t *testing.T) {
	series := []domain.DataPoint{heartRatePointFor(140)}
	w, err := domain.NewWorkout("w1", "a1", time.Now(), domain.SportCycling, 3600,
		domain.WorkoutTypeEndurance, domain.DataSourceHeartRate, series)
	require.NoError(t, err)

	store := &fakeWorkoutStore{full: map[string]*domain.Workout{"w1": w}}
	zs, err := zones.HRZones(decimal.RequireFromString("160"))
	require.NoError(t, err)

	runner := &ZoneAnalysisRunner{Store: store, Cache: NewResultCache(time.Minute)}
	req := ZoneAnalysisRequest{WorkoutID: "w1", System: zs}

	first := runner.Run([]ZoneAnalysisRequest{req})[0]
	assert.False(t, first.Cached)

	second := runner.Run([]ZoneAnalysisRequest{req})[0]
	assert.True(t, second.Cached)
	assert.Equal(t, first.Counts, second.Counts)
}

func TestEncodeDecodeCountsRoundTrips(t *testing.T) {
	counts := map[int]int{1: 10, 2: 200, 5: 3}
	raw := encodeCounts(counts)
	decoded, err := decodeCounts(raw)
	require.NoError(t, err)
	assert.Equal(t, counts, decoded)
}

func heartRatePointFor(hr int) domain.DataPoint {
	h := hr
	return domain.DataPoint{HeartRate: &h}
}
