// Package zones derives heart-rate, power, and pace training zones from
// an athlete's thresholds and buckets samples into them.
package zones

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Zone is one named, bounded band within a zone system.
type Zone struct {
	Number    int
	Name      string
	LowerPct  decimal.Decimal
	UpperPct  decimal.Decimal // nil upper handled via IsOpenEnded
	OpenEnded bool
}

// ZoneSystem is an ordered, partition-complete set of zones anchored to a
// single threshold value.
type ZoneSystem struct {
	Kind      string // "heart_rate", "power", "pace"
	Threshold decimal.Decimal
	Zones     []Zone
}

// HRZones builds the standard 5-zone LTHR-anchored system (Z1 <81%,
// Z2 81-89%, Z3 89-93%, Z4 93-99%, Z5 99%+ of LTHR). Boundaries are exact
// so the zones fully partition every non-negative bpm with no gaps.
func HRZones(lthr decimal.Decimal) (ZoneSystem, error) {
	if !lthr.IsPositive() {
		return ZoneSystem{}, fmt.Errorf("zones: LTHR must be positive, got %s", lthr)
	}
	bounds := []struct {
		name    string
		lo, hi  float64
		openEnd bool
	}{
		{"Recovery", 0, 81, false},
		{"Aerobic", 81, 89, false},
		{"Tempo", 89, 93, false},
		{"Threshold", 93, 99, false},
		{"VO2Max", 99, 0, true},
	}
	return buildZones("heart_rate", lthr, bounds), nil
}

// PowerZones builds the standard 7-zone Coggan FTP-anchored system.
func PowerZones(ftp decimal.Decimal) (ZoneSystem, error) {
	if !ftp.IsPositive() {
		return ZoneSystem{}, fmt.Errorf("zones: FTP must be positive, got %s", ftp)
	}
	bounds := []struct {
		name    string
		lo, hi  float64
		openEnd bool
	}{
		{"ActiveRecovery", 0, 55, false},
		{"Endurance", 55, 74, false},
		{"Tempo", 74, 89, false},
		{"Threshold", 89, 104, false},
		{"VO2Max", 104, 120, false},
		{"Anaerobic", 120, 150, false},
		{"NeuromuscularPower", 150, 0, true},
	}
	return buildZones("power", ftp, bounds), nil
}

// PaceZones builds a 5-zone threshold-pace-anchored system. Because pace
// is inverse to intensity (lower minutes/unit is faster), percentages
// here describe fraction of threshold pace where >100% is SLOWER than
// threshold and the zone numbering still runs easy (Z1) to hard (Z5).
func PaceZones(thresholdPace decimal.Decimal) (ZoneSystem, error) {
	if !thresholdPace.IsPositive() {
		return ZoneSystem{}, fmt.Errorf("zones: threshold pace must be positive, got %s", thresholdPace)
	}
	// Listed easy (slowest, highest %-of-threshold) to hard (fastest,
	// lowest %-of-threshold) so Zone.Number ascends with intensity like
	// the other two systems.
	bounds := []struct {
		name    string
		lo, hi  float64
		openEnd bool
	}{
		{"Recovery", 129, 0, true},
		{"Aerobic", 114, 129, false},
		{"Tempo", 106, 114, false},
		{"Threshold", 100, 106, false},
		{"VO2Max", 0, 100, false},
	}
	return buildZones("pace", thresholdPace, bounds), nil
}

func buildZones(kind string, threshold decimal.Decimal, bounds []struct {
	name    string
	lo, hi  float64
	openEnd bool
}) ZoneSystem {
	zones := make([]Zone, len(bounds))
	for i, b := range bounds {
		zones[i] = Zone{
			Number:    i + 1,
			Name:      b.name,
			LowerPct:  decimal.NewFromFloat(b.lo),
			UpperPct:  decimal.NewFromFloat(b.hi),
			OpenEnded: b.openEnd,
		}
	}
	return ZoneSystem{Kind: kind, Threshold: threshold, Zones: zones}
}

// GetZone returns the zone a raw value (HR bpm, power watts, or pace
// min/unit) falls into, expressed as percent of the system's threshold.
func (zs ZoneSystem) GetZone(value decimal.Decimal) (Zone, error) {
	if !zs.Threshold.IsPositive() {
		return Zone{}, fmt.Errorf("zones: zero threshold")
	}
	pct := value.Div(zs.Threshold).Mul(decimal.NewFromInt(100))
	for _, z := range zs.Zones {
		if z.OpenEnded {
			if pct.GreaterThanOrEqual(z.LowerPct) {
				return z, nil
			}
			continue
		}
		if pct.GreaterThanOrEqual(z.LowerPct) && pct.LessThan(z.UpperPct) {
			return z, nil
		}
	}
	return Zone{}, fmt.Errorf("zones: value %s (%.1f%%) matched no zone", value, pctFloat(pct))
}

func pctFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Distribution tallies seconds spent in each zone across a series of
// (timestamp-ordered) raw values sampled once per second.
func Distribution(zs ZoneSystem, values []decimal.Decimal) map[int]int {
	dist := make(map[int]int, len(zs.Zones))
	for _, v := range values {
		z, err := zs.GetZone(v)
		if err != nil {
			continue
		}
		dist[z.Number]++
	}
	return dist
}
