package export

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
	"github.com/trainrs/endurance-analytics/internal/zones"
)

func heartRatePoint(hr int) domain.DataPoint {
	h := hr
	return domain.DataPoint{HeartRate: &h}
}

func workoutOn(t *testing.T, id string, date time.Time, tss string, series []domain.DataPoint) domain.Workout {
	t.Helper()
	w, err := domain.NewWorkout(id, "athlete-1", date, domain.SportCycling, 3600,
		domain.WorkoutTypeEndurance, domain.DataSourcePower, series)
	require.NoError(t, err)
	d := decimal.RequireFromString(tss)
	w.Summary.TSS = &d
	ifv := decimal.RequireFromString("0.9")
	w.Summary.IntensityFactor = &ifv
	return *w
}

func TestBuildFeaturesRejectsUnsortedInput(t *testing.T) {
	early := workoutOn(t, "w1", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "80", nil)
	late := workoutOn(t, "w2", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "80", nil)

	_, err := BuildFeatures([]domain.Workout{early, late}, nil, DefaultSplitFractions())
	assert.Error(t, err)
}

func TestBuildFeaturesRejectsBadSplitFractions(t *testing.T) {
	w := workoutOn(t, "w1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "80", nil)
	_, err := BuildFeatures([]domain.Workout{w}, nil, SplitFractions{Train: 0.5, Validation: 0.2, Test: 0.1})
	assert.Error(t, err)
}

func TestBuildFeaturesComputesCumulativeAndRollingSums(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	workouts := []domain.Workout{
		workoutOn(t, "w1", base, "100", nil),
		workoutOn(t, "w2", base.AddDate(0, 0, 1), "50", nil),
		workoutOn(t, "w3", base.AddDate(0, 0, 10), "30", nil),
	}

	rows, err := BuildFeatures(workouts, nil, DefaultSplitFractions())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.True(t, rows[0].CumulativeTSS.Equal(decimal.RequireFromString("100")))
	assert.True(t, rows[1].CumulativeTSS.Equal(decimal.RequireFromString("150")))
	assert.True(t, rows[2].CumulativeTSS.Equal(decimal.RequireFromString("180")))

	// w3 is 9 days after w2, so w2's TSS falls outside w3's 7d window.
	assert.True(t, rows[2].TSS7d.Equal(decimal.RequireFromString("30")))
	// but within the 28d window, all three contribute.
	assert.True(t, rows[2].TSS28d.Equal(decimal.RequireFromString("180")))
}

func TestBuildFeaturesAssignsDeterministicOrderBasedSplit(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	workouts := make([]domain.Workout, 10)
	for i := range workouts {
		workouts[i] = workoutOn(t, "w", base.AddDate(0, 0, i), "50", nil)
	}

	rows, err := BuildFeatures(workouts, nil, DefaultSplitFractions())
	require.NoError(t, err)

	assert.Equal(t, "train", rows[0].Split)
	assert.Equal(t, "train", rows[6].Split)
	assert.Equal(t, "validation", rows[7].Split)
	assert.Equal(t, "test", rows[9].Split)
}

func TestBuildFeaturesComputesHRZonePercentagesWhenZonesProvided(t *testing.T) {
	zs, err := zones.HRZones(decimal.RequireFromString("160"))
	require.NoError(t, err)

	series := []domain.DataPoint{heartRatePoint(120), heartRatePoint(150), heartRatePoint(165)}
	w := workoutOn(t, "w1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "80", series)

	rows, err := BuildFeatures([]domain.Workout{w}, &zs, DefaultSplitFractions())
	require.NoError(t, err)
	require.NotNil(t, rows[0].HRZonePct)

	var total float64
	for _, pct := range rows[0].HRZonePct {
		total += pct
	}
	assert.InDelta(t, 100.0, total, 0.001)
}

func TestBuildFeaturesLeavesHRZonePctNilWithoutSeriesOrZones(t *testing.T) {
	w := workoutOn(t, "w1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "80", nil)
	rows, err := BuildFeatures([]domain.Workout{w}, nil, DefaultSplitFractions())
	require.NoError(t, err)
	assert.Nil(t, rows[0].HRZonePct)
}

func TestWriteMLFeaturesCSVLeavesZonePctBlankWhenAbsent(t *testing.T) {
	row := FeatureRow{
		WorkoutID: "w1", AthleteID: "athlete-1", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		TSS: decimal.RequireFromString("80"), DurationHours: decimal.RequireFromString("1"),
		DistanceKM: decimal.Zero, IntensityFactor: decimal.RequireFromString("0.9"),
		NormalizedPower: decimal.Zero, AvgPace: decimal.Zero,
		TSS7d: decimal.Zero, TSS28d: decimal.Zero, Duration7d: decimal.Zero, Duration28d: decimal.Zero,
		Distance7d: decimal.Zero, Distance28d: decimal.Zero,
		CumulativeTSS: decimal.Zero, CumulativeDuration: decimal.Zero, CumulativeDistance: decimal.Zero,
		Split: "train",
	}
	fields := featureRow(row)
	zoneStart := indexOf(MLFeatureHeader, "HR_Zone1_Pct")
	require.GreaterOrEqual(t, zoneStart, 0)
	assert.Equal(t, "", fields[zoneStart])
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}
