package sport

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

func distanceSeries(totalM float64, n int) []domain.DataPoint {
	points := make([]domain.DataPoint, n)
	for i := 0; i < n; i++ {
		d := decimal.NewFromFloat(totalM * float64(i) / float64(n-1))
		points[i] = domain.DataPoint{TimestampSeconds: i, DistanceM: &d}
	}
	return points
}

func TestFindBestEffortFindsSegment(t *testing.T) {
	points := distanceSeries(5000, 1200) // 5k in 1200s, even pace
	effort := FindBestEffort(points, Distance1K)
	require.NotNil(t, effort)
	assert.InDelta(t, 240, effort.DurationSec, 5)
}

func TestFindBestEffortNilWhenTooShort(t *testing.T) {
	points := distanceSeries(500, 60)
	effort := FindBestEffort(points, Distance1K)
	assert.Nil(t, effort)
}
