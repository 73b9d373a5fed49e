package ingest

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// QuirkRegistry holds the loaded set of device corrections and applies
// the ones matching a given device identity (spec §4.6).
type QuirkRegistry struct {
	quirks []domain.DeviceQuirk
}

// NewQuirkRegistry builds a registry from a loaded quirk set (normally
// read from storage or the TOML config, see internal/config).
func NewQuirkRegistry(quirks []domain.DeviceQuirk) *QuirkRegistry {
	return &QuirkRegistry{quirks: quirks}
}

// Applicable returns every enabled quirk matching the device identity,
// in registration order.
func (r *QuirkRegistry) Applicable(id DeviceIdentity) []domain.DeviceQuirk {
	var matched []domain.DeviceQuirk
	for _, q := range r.quirks {
		if !q.Enabled {
			continue
		}
		if q.AppliesTo(id.ManufacturerID, id.ProductID, id.Firmware) {
			matched = append(matched, q)
		}
	}
	return matched
}

// ApplyQuirks mutates a copy of points by running every applicable quirk
// correction in sequence and returns the corrected series.
func (r *QuirkRegistry) ApplyQuirks(points []domain.DataPoint, id DeviceIdentity) []domain.DataPoint {
	quirks := r.Applicable(id)
	if len(quirks) == 0 {
		return points
	}
	out := domain.CloneSeries(points)
	for _, q := range quirks {
		applyQuirk(out, q)
	}
	return out
}

// ApplyToWorkout runs every quirk matching id against w's series and, per
// spec's CadenceScaling rule ("on all points and summary"), rescales
// w.Summary.AvgCadence by the same factor so the aggregate stays consistent
// with the corrected points.
func (r *QuirkRegistry) ApplyToWorkout(w *domain.Workout, id DeviceIdentity) {
	quirks := r.Applicable(id)
	if len(quirks) == 0 {
		return
	}
	w.Series = domain.CloneSeries(w.Series)
	for _, q := range quirks {
		applyQuirk(w.Series, q)
		if q.Variant == domain.QuirkCadenceScaling && q.CadenceFactor > 0 && w.Summary.AvgCadence != nil {
			scaled := w.Summary.AvgCadence.Mul(decimal.NewFromFloat(q.CadenceFactor)).Round(0)
			w.Summary.AvgCadence = &scaled
		}
	}
}

func applyQuirk(points []domain.DataPoint, q domain.DeviceQuirk) {
	switch q.Variant {
	case domain.QuirkCadenceScaling:
		applyCadenceScaling(points, q.CadenceFactor)
	case domain.QuirkPowerSpikeRemoval:
		applyPowerSpikeRemoval(points, q.SpikeThreshold, q.SpikeWindowSec)
	case domain.QuirkLeftOnlyPowerDoubling:
		applyLeftOnlyPowerDoubling(points)
	case domain.QuirkRunningDynamicsScaling:
		applyRunningDynamicsScaling(points, q.GCTScale, q.VOScale)
	case domain.QuirkTimestampDecompression:
		// Timestamps are already decompressed by buildSeries' epoch-relative
		// encoding; this variant exists for devices whose FIT export tool
		// double-compresses 32-bit rollover timestamps upstream of our
		// decoder and is a no-op here until such a device is seen in the
		// field.
	case domain.QuirkFieldByteOrderFix:
		// Field-specific byte-order bugs are corrected by the tormoder/fit
		// decoder itself for all known affected fields; retained as a
		// registry variant so a future field-specific fix has a home.
	case domain.QuirkMissingDataMark:
		markMissingData(points, q.FieldName)
	}
}

func applyCadenceScaling(points []domain.DataPoint, factor float64) {
	if factor <= 0 {
		return
	}
	for i := range points {
		if points[i].Cadence != nil {
			scaled := int(math.Round(float64(*points[i].Cadence) * factor))
			points[i].Cadence = &scaled
		}
	}
}

// applyPowerSpikeRemoval implements spec's literal rule for
// PowerSpikeRemoval(threshold, windowSec): within the first windowSec
// seconds of the workout, any sample whose power exceeds threshold is an
// artifact of the device settling (e.g. a power meter reporting a bogus
// calibration spike before the crank is spinning) and is nulled out on
// power and both leg channels.
func applyPowerSpikeRemoval(points []domain.DataPoint, threshold, windowSec int) {
	if threshold <= 0 || windowSec <= 0 {
		return
	}
	for i := range points {
		if points[i].TimestampSeconds > windowSec {
			continue
		}
		if points[i].PowerW == nil || *points[i].PowerW <= threshold {
			continue
		}
		points[i].PowerW = nil
		points[i].LeftPowerW = nil
		points[i].RightPowerW = nil
	}
}

// applyLeftOnlyPowerDoubling corrects single-sided power meters that
// report only the left leg's contribution by doubling it, when the
// device's right-leg channel is entirely absent.
func applyLeftOnlyPowerDoubling(points []domain.DataPoint) {
	for i := range points {
		if points[i].LeftPowerW != nil && points[i].RightPowerW == nil {
			doubled := *points[i].LeftPowerW * 2
			points[i].PowerW = &doubled
		}
	}
}

func applyRunningDynamicsScaling(points []domain.DataPoint, gctScale, voScale float64) {
	for i := range points {
		if gctScale > 0 && points[i].GroundContactMs != nil {
			scaled := int(float64(*points[i].GroundContactMs) * gctScale)
			points[i].GroundContactMs = &scaled
		}
		if voScale > 0 && points[i].VerticalOscillation != nil {
			scaled := points[i].VerticalOscillation.Mul(decimal.NewFromFloat(voScale))
			points[i].VerticalOscillation = &scaled
		}
	}
}

func markMissingData(points []domain.DataPoint, fieldName string) {
	// A registry-level marker; concrete field nullification is applied by
	// the specific field accessor at read time. Kept as a named variant so
	// future device-specific "this field is always garbage" rules have a
	// place to register without a new enum case.
	_ = fieldName
}
