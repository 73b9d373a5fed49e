package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PmcMetrics is one calendar day's Performance Management Chart point.
type PmcMetrics struct {
	Date         time.Time
	CTL          decimal.Decimal
	ATL          decimal.Decimal
	TSB          decimal.Decimal
	DailyTSS     decimal.Decimal
	CTLRampRate  *decimal.Decimal
	ATLSpike     bool
}

// PowerCurvePoint is one (duration, best mean power) sample of a power
// curve.
type PowerCurvePoint struct {
	DurationSec int
	WattsMean   decimal.Decimal
}

// CPModelVariant tags which critical-power model produced a
// CriticalPowerModel, per spec §4.2 ("tagged variant, not an inheritance
// hierarchy").
type CPModelVariant int

const (
	CPModelTwoParameter CPModelVariant = iota
	CPModelThreeParameter
	CPModelLinearPInverse
)

func (v CPModelVariant) String() string {
	switch v {
	case CPModelTwoParameter:
		return "TwoParameter"
	case CPModelThreeParameter:
		return "ThreeParameter"
	case CPModelLinearPInverse:
		return "LinearPInverse"
	default:
		return ""
	}
}

// CriticalPowerModel is the fitted CP/W' relationship for an athlete.
type CriticalPowerModel struct {
	Variant        CPModelVariant
	CPWatts        decimal.Decimal
	WPrimeJoules   decimal.Decimal
	RSquared       decimal.Decimal
	EstimatedFTP   decimal.Decimal
	Tau            *decimal.Decimal // only set for ThreeParameter
	SourceDurations []int           // which standard durations fed the regression
}

// DeviceQuirkVariant is a tagged variant describing the correction a quirk
// applies (spec §4.6).
type DeviceQuirkVariant int

const (
	QuirkCadenceScaling DeviceQuirkVariant = iota
	QuirkPowerSpikeRemoval
	QuirkLeftOnlyPowerDoubling
	QuirkRunningDynamicsScaling
	QuirkTimestampDecompression
	QuirkFieldByteOrderFix
	QuirkMissingDataMark
)

func (v DeviceQuirkVariant) String() string {
	switch v {
	case QuirkCadenceScaling:
		return "cadence_scaling"
	case QuirkPowerSpikeRemoval:
		return "power_spike_removal"
	case QuirkLeftOnlyPowerDoubling:
		return "left_only_power_doubling"
	case QuirkRunningDynamicsScaling:
		return "running_dynamics_scaling"
	case QuirkTimestampDecompression:
		return "timestamp_decompression"
	case QuirkFieldByteOrderFix:
		return "field_byte_order_fix"
	case QuirkMissingDataMark:
		return "missing_data_mark"
	default:
		return ""
	}
}

// DeviceQuirk is a deterministic correction registered for a device class.
type DeviceQuirk struct {
	ManufacturerID  uint16
	ProductID       uint16
	FirmwareMin     *uint16
	FirmwareMax     *uint16
	Variant         DeviceQuirkVariant
	CadenceFactor   float64
	SpikeThreshold  int
	SpikeWindowSec  int
	GCTScale        float64
	VOScale         float64
	FieldName       string
	Enabled         bool
	Description     string
}

// AppliesTo reports whether the quirk matches the given device identity.
func (q DeviceQuirk) AppliesTo(manufacturerID, productID uint16, firmware *uint16) bool {
	if q.ManufacturerID != manufacturerID || q.ProductID != productID {
		return false
	}
	if q.FirmwareMin == nil && q.FirmwareMax == nil {
		return true
	}
	if firmware == nil {
		return false
	}
	if q.FirmwareMin != nil && *firmware < *q.FirmwareMin {
		return false
	}
	if q.FirmwareMax != nil && *firmware > *q.FirmwareMax {
		return false
	}
	return true
}
