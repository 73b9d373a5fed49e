package sport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateVDOTKnownPoint(t *testing.T) {
	vdot := CalculateVDOT(Distance5K, 1140)
	assert.InDelta(t, 50.0, vdot, 0.5)
}

func TestPredictRaceTimeRoundTrips(t *testing.T) {
	vdot := CalculateVDOT(Distance10K, 2364)
	predicted := PredictRaceTime(vdot, Distance10K)
	assert.InDelta(t, 2364, predicted, 30)
}

func TestCalculateVDOTZeroDuration(t *testing.T) {
	assert.Equal(t, 0.0, CalculateVDOT(Distance5K, 0))
}
