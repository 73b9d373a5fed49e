package storage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

func sampleSeries() []domain.DataPoint {
	hr1, hr2 := 140, 150
	pw := 200
	dist := decimal.NewFromFloat(123.456)
	return []domain.DataPoint{
		{TimestampSeconds: 0, HeartRate: &hr1},
		{TimestampSeconds: 1, HeartRate: &hr2, PowerW: &pw, DistanceM: &dist},
		{TimestampSeconds: 2},
	}
}

func TestEncodeDecodeSeriesRoundTrips(t *testing.T) {
	points := sampleSeries()
	blob, err := encodeSeries(points)
	require.NoError(t, err)
	assert.Equal(t, len(points), blob.PointCount)

	decoded, err := decodeSeries(blob)
	require.NoError(t, err)
	require.Len(t, decoded, len(points))

	assert.Equal(t, *points[0].HeartRate, *decoded[0].HeartRate)
	assert.Equal(t, *points[1].PowerW, *decoded[1].PowerW)
	assert.True(t, points[1].DistanceM.Equal(*decoded[1].DistanceM))
	assert.Nil(t, decoded[2].HeartRate)
}

func TestDecodeSeriesRejectsTamperedChecksum(t *testing.T) {
	blob, err := encodeSeries(sampleSeries())
	require.NoError(t, err)
	blob.Checksum = "deadbeef"
	_, err = decodeSeries(blob)
	assert.Error(t, err)
}

func TestEncodeSeriesEmptyIsValid(t *testing.T) {
	blob, err := encodeSeries(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, blob.PointCount)

	decoded, err := decodeSeries(blob)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
