package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

func TestWritePWXProducesWellFormedDocumentWithSummary(t *testing.T) {
	w := sampleCSVWorkout(t)

	var buf bytes.Buffer
	require.NoError(t, WritePWX(&buf, "Jane Athlete", w))

	out := buf.String()
	assert.Contains(t, out, `<?xml version="1.0"`)
	assert.Contains(t, out, "<pwx")
	assert.Contains(t, out, "Jane Athlete")
	assert.Contains(t, out, "Bike")
	assert.Contains(t, out, "</pwx>")
}

func TestDownsampleForPWXKeepsFinalSampleWhenStrided(t *testing.T) {
	points := make([]domain.DataPoint, 25000)
	for i := range points {
		points[i] = domain.DataPoint{TimestampSeconds: i}
	}

	samples := downsampleForPWX(points)
	require.LessOrEqual(t, len(samples), maxPWXSamples+1)
	last := samples[len(samples)-1]
	assert.Equal(t, float64(points[len(points)-1].TimestampSeconds), last.TimeOffset)
}

func TestDownsampleForPWXPassesThroughShortSeriesUnstrided(t *testing.T) {
	points := []domain.DataPoint{{TimestampSeconds: 0}, {TimestampSeconds: 1}, {TimestampSeconds: 2}}
	samples := downsampleForPWX(points)
	require.Len(t, samples, 3)
}

func TestBuildPowerCurveNilWithoutPowerData(t *testing.T) {
	points := []domain.DataPoint{{TimestampSeconds: 0}, {TimestampSeconds: 1}}
	assert.Nil(t, buildPowerCurve(points))
}

func TestBuildPowerCurvePresentWithPowerData(t *testing.T) {
	watt := 200
	points := make([]domain.DataPoint, 120)
	for i := range points {
		p := watt
		points[i] = domain.DataPoint{TimestampSeconds: i, PowerW: &p}
	}
	curve := buildPowerCurve(points)
	require.NotNil(t, curve)
	assert.NotEmpty(t, curve.Points)
}
