package ingest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestApplyQuirksCadenceScaling(t *testing.T) {
	points := []domain.DataPoint{
		{TimestampSeconds: 0, Cadence: intPtr(90)},
		{TimestampSeconds: 1, Cadence: intPtr(92)},
	}
	reg := NewQuirkRegistry([]domain.DeviceQuirk{
		{ManufacturerID: 1, ProductID: 2, Variant: domain.QuirkCadenceScaling, CadenceFactor: 2.0, Enabled: true},
	})

	out := reg.ApplyQuirks(points, DeviceIdentity{ManufacturerID: 1, ProductID: 2})

	assert.Equal(t, 180, *out[0].Cadence)
	assert.Equal(t, 184, *out[1].Cadence)
	// original slice must be untouched (clone-before-mutate)
	assert.Equal(t, 90, *points[0].Cadence)
}

// A factor that doesn't divide evenly must round, not truncate.
func TestApplyQuirksCadenceScalingRounds(t *testing.T) {
	points := []domain.DataPoint{{TimestampSeconds: 0, Cadence: intPtr(91)}}
	reg := NewQuirkRegistry([]domain.DeviceQuirk{
		{ManufacturerID: 1, ProductID: 2, Variant: domain.QuirkCadenceScaling, CadenceFactor: 1.5, Enabled: true},
	})

	out := reg.ApplyQuirks(points, DeviceIdentity{ManufacturerID: 1, ProductID: 2})
	assert.Equal(t, 137, *out[0].Cadence) // 91*1.5 = 136.5, rounds up
}

func TestApplyQuirksIgnoresDisabledOrNonMatchingDevice(t *testing.T) {
	points := []domain.DataPoint{{TimestampSeconds: 0, Cadence: intPtr(90)}}
	reg := NewQuirkRegistry([]domain.DeviceQuirk{
		{ManufacturerID: 1, ProductID: 2, Variant: domain.QuirkCadenceScaling, CadenceFactor: 2.0, Enabled: false},
		{ManufacturerID: 9, ProductID: 9, Variant: domain.QuirkCadenceScaling, CadenceFactor: 3.0, Enabled: true},
	})

	out := reg.ApplyQuirks(points, DeviceIdentity{ManufacturerID: 1, ProductID: 2})
	assert.Equal(t, 90, *out[0].Cadence)
}

func TestApplyQuirksPowerSpikeRemoval(t *testing.T) {
	left, right := intPtr(1050), intPtr(950)
	points := []domain.DataPoint{
		{TimestampSeconds: 0, PowerW: intPtr(200)},
		{TimestampSeconds: 1, PowerW: intPtr(210)},
		{TimestampSeconds: 2, PowerW: intPtr(2000), LeftPowerW: left, RightPowerW: right}, // spike, inside window
		{TimestampSeconds: 3, PowerW: intPtr(205)},
		{TimestampSeconds: 5, PowerW: intPtr(2000)}, // past the window: left alone
	}
	reg := NewQuirkRegistry([]domain.DeviceQuirk{
		{ManufacturerID: 1, ProductID: 1, Variant: domain.QuirkPowerSpikeRemoval,
			SpikeThreshold: 300, SpikeWindowSec: 4, Enabled: true},
	})

	out := reg.ApplyQuirks(points, DeviceIdentity{ManufacturerID: 1, ProductID: 1})
	assert.Nil(t, out[2].PowerW)
	assert.Nil(t, out[2].LeftPowerW)
	assert.Nil(t, out[2].RightPowerW)
	assert.Equal(t, 200, *out[0].PowerW)
	assert.Equal(t, 2000, *out[4].PowerW)
}

func TestApplyQuirksLeftOnlyPowerDoubling(t *testing.T) {
	points := []domain.DataPoint{
		{TimestampSeconds: 0, LeftPowerW: intPtr(150)},
	}
	reg := NewQuirkRegistry([]domain.DeviceQuirk{
		{ManufacturerID: 1, ProductID: 1, Variant: domain.QuirkLeftOnlyPowerDoubling, Enabled: true},
	})

	out := reg.ApplyQuirks(points, DeviceIdentity{ManufacturerID: 1, ProductID: 1})
	assert.Equal(t, 300, *out[0].PowerW)
}

func TestApplyQuirksRunningDynamicsScaling(t *testing.T) {
	vo := decimal.NewFromFloat(8.0)
	points := []domain.DataPoint{
		{TimestampSeconds: 0, GroundContactMs: intPtr(250), VerticalOscillation: &vo},
	}
	reg := NewQuirkRegistry([]domain.DeviceQuirk{
		{ManufacturerID: 1, ProductID: 1, Variant: domain.QuirkRunningDynamicsScaling,
			GCTScale: 1.1, VOScale: 0.5, Enabled: true},
	})

	out := reg.ApplyQuirks(points, DeviceIdentity{ManufacturerID: 1, ProductID: 1})
	assert.Equal(t, 275, *out[0].GroundContactMs)
	assert.True(t, out[0].VerticalOscillation.Equal(decimal.NewFromFloat(4.0)))
}

func TestApplyToWorkoutRescalesSummaryCadence(t *testing.T) {
	avg := decimal.NewFromInt(95)
	w := &domain.Workout{
		Series:  []domain.DataPoint{{TimestampSeconds: 0, Cadence: intPtr(95)}},
		Summary: domain.WorkoutSummary{AvgCadence: &avg},
	}
	reg := NewQuirkRegistry([]domain.DeviceQuirk{
		{ManufacturerID: 1, ProductID: 2, Variant: domain.QuirkCadenceScaling, CadenceFactor: 0.5, Enabled: true},
	})

	reg.ApplyToWorkout(w, DeviceIdentity{ManufacturerID: 1, ProductID: 2})

	assert.Equal(t, 48, *w.Series[0].Cadence)                         // 95*0.5 = 47.5, rounds up
	assert.True(t, decimal.NewFromInt(48).Equal(*w.Summary.AvgCadence)) // summary rescaled the same way
}

func TestApplicableFiltersByFirmwareRange(t *testing.T) {
	min := uint16(100)
	max := uint16(200)
	reg := NewQuirkRegistry([]domain.DeviceQuirk{
		{ManufacturerID: 1, ProductID: 1, FirmwareMin: &min, FirmwareMax: &max,
			Variant: domain.QuirkCadenceScaling, Enabled: true},
	})

	tooOld := uint16(50)
	inRange := uint16(150)

	assert.Empty(t, reg.Applicable(DeviceIdentity{ManufacturerID: 1, ProductID: 1, Firmware: &tooOld}))
	assert.Len(t, reg.Applicable(DeviceIdentity{ManufacturerID: 1, ProductID: 1, Firmware: &inRange}), 1)
}
