package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

func rampedPowerSeries() []domain.DataPoint {
	// 1 hour series that sustains progressively lower power over longer
	// durations, so each standard duration has a distinct best-mean value.
	n := 3600
	points := make([]domain.DataPoint, n)
	for i := 0; i < n; i++ {
		w := 400 - i/20
		if w < 150 {
			w = 150
		}
		points[i] = domain.DataPoint{TimestampSeconds: i, PowerW: &w}
	}
	return points
}

func TestBestPowerFindsMaxWindow(t *testing.T) {
	points := constPowerSeries(300, 120)
	mean, ok := BestPower(points, 60)
	require.True(t, ok)
	f, _ := mean.Float64()
	assert.InDelta(t, 300, f, 0.01)
}

func TestComputePowerCurveMonotonicDecreasing(t *testing.T) {
	curve := ComputePowerCurve(rampedPowerSeries())
	require.NotEmpty(t, curve)
	for i := 1; i < len(curve); i++ {
		prev, _ := curve[i-1].WattsMean.Float64()
		cur, _ := curve[i].WattsMean.Float64()
		assert.GreaterOrEqual(t, prev, cur)
	}
}

func TestFitCriticalPowerRequiresThreePoints(t *testing.T) {
	curve := ComputePowerCurve(rampedPowerSeries())[:2]
	_, err := FitCriticalPower(curve)
	require.Error(t, err)
}

func TestFitCriticalPowerProducesPositiveModel(t *testing.T) {
	curve := ComputePowerCurve(rampedPowerSeries())
	model, err := FitCriticalPower(curve)
	require.NoError(t, err)
	assert.True(t, model.CPWatts.IsPositive())
	assert.True(t, model.WPrimeJoules.IsPositive())
}

func TestTimeToExhaustionRejectsSubThreshold(t *testing.T) {
	curve := ComputePowerCurve(rampedPowerSeries())
	model, err := FitCriticalPower(curve)
	require.NoError(t, err)
	_, err = TimeToExhaustion(model, model.CPWatts)
	require.Error(t, err)
}

func TestWPrimeBalanceDepletesAboveCP(t *testing.T) {
	curve := ComputePowerCurve(rampedPowerSeries())
	model, err := FitCriticalPower(curve)
	require.NoError(t, err)

	cpFloat, _ := model.CPWatts.Float64()
	series := constPowerSeries(int(cpFloat)+100, 60)
	balances := WPrimeBalance(series, model)
	require.Len(t, balances, 60)
	first, _ := balances[0].Float64()
	last, _ := balances[len(balances)-1].Float64()
	assert.Less(t, last, first)
}
