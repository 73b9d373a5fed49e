package domain

import "github.com/shopspring/decimal"

// DataPoint is a single time-series sample within a workout. Fields that
// feed pace, distance, or intensity calculations use decimal.Decimal so
// accumulated TSS/IF/pace figures stay exact (invariant 8); plain counts
// stay integers.
type DataPoint struct {
	// TimestampSeconds is seconds elapsed from workout start. Monotonic
	// non-strictly increasing across a series (invariant 2).
	TimestampSeconds int

	HeartRate *int
	PowerW    *int
	// PaceMinPerUnit is minutes-per-distance-unit (km or mile, athlete's
	// unit preference), kept exact.
	PaceMinPerUnit *decimal.Decimal
	ElevationM     *decimal.Decimal
	Cadence        *int
	SpeedMPS       *decimal.Decimal
	// DistanceM is cumulative distance from workout start.
	DistanceM *decimal.Decimal

	LeftPowerW  *int
	RightPowerW *int

	GroundContactMs     *int
	VerticalOscillation *decimal.Decimal
	StrideLengthM       *decimal.Decimal

	SwimStrokeCount *int
	SwimStrokeType  *string

	LapNumber         *int
	SportTransition    bool
}

// Clone returns a deep copy so mutators (e.g. device quirks) never alias the
// caller's slice.
func (d DataPoint) Clone() DataPoint {
	c := d
	c.HeartRate = clonePtr(d.HeartRate)
	c.PowerW = clonePtr(d.PowerW)
	c.PaceMinPerUnit = cloneDecPtr(d.PaceMinPerUnit)
	c.ElevationM = cloneDecPtr(d.ElevationM)
	c.Cadence = clonePtr(d.Cadence)
	c.SpeedMPS = cloneDecPtr(d.SpeedMPS)
	c.DistanceM = cloneDecPtr(d.DistanceM)
	c.LeftPowerW = clonePtr(d.LeftPowerW)
	c.RightPowerW = clonePtr(d.RightPowerW)
	c.GroundContactMs = clonePtr(d.GroundContactMs)
	c.VerticalOscillation = cloneDecPtr(d.VerticalOscillation)
	c.StrideLengthM = cloneDecPtr(d.StrideLengthM)
	c.SwimStrokeCount = clonePtr(d.SwimStrokeCount)
	if d.SwimStrokeType != nil {
		v := *d.SwimStrokeType
		c.SwimStrokeType = &v
	}
	c.LapNumber = clonePtr(d.LapNumber)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneDecPtr(p *decimal.Decimal) *decimal.Decimal {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// CloneSeries deep-copies a slice of DataPoint.
func CloneSeries(points []DataPoint) []DataPoint {
	out := make([]DataPoint, len(points))
	for i, p := range points {
		out[i] = p.Clone()
	}
	return out
}

// MonotonicTimestamps reports whether the series satisfies invariant 2:
// non-strictly increasing timestamps.
func MonotonicTimestamps(points []DataPoint) bool {
	for i := 1; i < len(points); i++ {
		if points[i].TimestampSeconds < points[i-1].TimestampSeconds {
			return false
		}
	}
	return true
}
