package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

func constPowerSeries(watts int, n int) []domain.DataPoint {
	points := make([]domain.DataPoint, n)
	for i := 0; i < n; i++ {
		w := watts
		points[i] = domain.DataPoint{TimestampSeconds: i, PowerW: &w}
	}
	return points
}

func TestNormalizedPowerConstantEqualsAverage(t *testing.T) {
	points := constPowerSeries(200, 600)
	np := NormalizedPower(points)
	assert.InDelta(t, 200.0, np, 0.001)
}

func TestNormalizedPowerSurvivesGaps(t *testing.T) {
	points := constPowerSeries(200, 100)
	points[50].PowerW = nil
	np := NormalizedPower(points)
	assert.Greater(t, np, 0.0)
}

func TestCalculateTSSPowerBased(t *testing.T) {
	ftp := 250
	w, err := domain.NewWorkout("w1", "a1", time.Now(), domain.SportCycling, 3600,
		domain.WorkoutTypeEndurance, domain.DataSourcePower, constPowerSeries(225, 3600))
	require.NoError(t, err)

	res, err := CalculateTSS(*w, domain.Thresholds{FTPWatts: &ftp})
	require.NoError(t, err)
	assert.Equal(t, MethodPowerBased, res.Method)
	require.NotNil(t, res.IntensityFactor)
	ifFloat, _ := res.IntensityFactor.Float64()
	assert.InDelta(t, 0.9, ifFloat, 0.01)
	tssFloat, _ := res.TSS.Float64()
	assert.InDelta(t, 81, tssFloat, 1)
}

func TestCalculateTSSFallsBackToHeartRate(t *testing.T) {
	lthr := 160
	series := make([]domain.DataPoint, 3600)
	for i := range series {
		hr := 150
		series[i] = domain.DataPoint{TimestampSeconds: i, HeartRate: &hr}
	}
	w, err := domain.NewWorkout("w2", "a1", time.Now(), domain.SportRunning, 3600,
		domain.WorkoutTypeEndurance, domain.DataSourceHeartRate, series)
	require.NoError(t, err)

	res, err := CalculateTSS(*w, domain.Thresholds{LTHRBpm: &lthr})
	require.NoError(t, err)
	assert.Equal(t, MethodHeartRateBased, res.Method)
}

func TestCalculateTSSEstimatedWhenNoThresholds(t *testing.T) {
	w, err := domain.NewWorkout("w3", "a1", time.Now(), domain.SportSwimming, 1800,
		domain.WorkoutTypeEndurance, domain.DataSourceRPE, nil)
	require.NoError(t, err)

	res, err := CalculateTSS(*w, domain.Thresholds{})
	require.NoError(t, err)
	assert.Equal(t, MethodEstimated, res.Method)
	assert.True(t, res.TSS.IsPositive())
}

func TestValidateTSSRejectsExcessive(t *testing.T) {
	err := validateTSS(decimal.NewFromInt(1000), 1.0, 3600)
	var calcErr *CalculationError
	assert.ErrorAs(t, err, &calcErr)
}
