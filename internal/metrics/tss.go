package metrics

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// TssMethod records which selection-policy branch produced a TssResult.
type TssMethod int

const (
	MethodPowerBased TssMethod = iota
	MethodPaceBased
	MethodHeartRateBased
	MethodEstimated
)

func (m TssMethod) String() string {
	switch m {
	case MethodPowerBased:
		return "PowerBased"
	case MethodPaceBased:
		return "PaceBased"
	case MethodHeartRateBased:
		return "HeartRateBased"
	case MethodEstimated:
		return "Estimated"
	default:
		return ""
	}
}

// TssResult is the outcome of the TSS selection policy (spec §4.2).
type TssResult struct {
	TSS              decimal.Decimal
	Method           TssMethod
	IntensityFactor  *decimal.Decimal
	NormalizedPower  *decimal.Decimal
}

// baseRatePerHour is the Estimated method's tabulated TSS/hour per sport.
var baseRatePerHour = map[domain.Sport]float64{
	domain.SportCycling:      60,
	domain.SportRunning:      70,
	domain.SportSwimming:     80,
	domain.SportRowing:       75,
	domain.SportTriathlon:    65,
	domain.SportCrossTraining: 50,
}

// CalculateTSS runs the selection policy in order (PowerBased, PaceBased,
// HeartRateBased, Estimated) and returns the first method that both applies
// and validates. A method that applies but produces invalid data returns
// immediately with that method's error (invalid data is fatal for that
// method, not a reason to fall through); a method that simply doesn't
// apply (missing threshold or missing stream) is skipped silently and the
// policy advances.
func CalculateTSS(w domain.Workout, th domain.Thresholds) (TssResult, error) {
	durationH := float64(w.DurationSec) / 3600.0

	if w.Sport == domain.SportCycling && th.FTPWatts != nil && seriesHasPower(w.Series) {
		res, err := powerBasedTSS(w, *th.FTPWatts, durationH)
		if err == nil {
			if verr := validateTSS(res.TSS, durationH, w.DurationSec); verr != nil {
				return TssResult{}, verr
			}
			return res, nil
		}
		if _, ok := err.(*InvalidData); ok {
			return TssResult{}, err
		}
	}

	if (w.Sport == domain.SportRunning || w.Sport == domain.SportSwimming) && thresholdPaceFor(w.Sport, th) != nil && seriesHasPace(w.Series) {
		res, err := paceBasedTSS(w, *thresholdPaceFor(w.Sport, th), durationH)
		if err == nil {
			if verr := validateTSS(res.TSS, durationH, w.DurationSec); verr != nil {
				return TssResult{}, verr
			}
			return res, nil
		}
		if _, ok := err.(*InvalidData); ok {
			return TssResult{}, err
		}
	}

	if th.LTHRBpm != nil && seriesHasHR(w.Series) {
		res, err := heartRateBasedTSS(w, *th.LTHRBpm, durationH)
		if err == nil {
			if verr := validateTSS(res.TSS, durationH, w.DurationSec); verr != nil {
				return TssResult{}, verr
			}
			return res, nil
		}
		if _, ok := err.(*InvalidData); ok {
			return TssResult{}, err
		}
	}

	rate, ok := baseRatePerHour[w.Sport]
	if !ok {
		return TssResult{}, &UnsupportedSport{Sport: w.Sport}
	}
	tss := decimal.NewFromFloat(durationH * rate)
	if verr := validateTSS(tss, durationH, w.DurationSec); verr != nil {
		return TssResult{}, verr
	}
	return TssResult{TSS: tss, Method: MethodEstimated}, nil
}

func thresholdPaceFor(sp domain.Sport, th domain.Thresholds) *decimal.Decimal {
	if sp == domain.SportSwimming {
		return th.ThresholdSwimPace
	}
	return th.ThresholdPace
}

func seriesHasPower(points []domain.DataPoint) bool {
	for _, p := range points {
		if p.PowerW != nil {
			return true
		}
	}
	return false
}

func seriesHasPace(points []domain.DataPoint) bool {
	for _, p := range points {
		if p.PaceMinPerUnit != nil {
			return true
		}
	}
	return false
}

func seriesHasHR(points []domain.DataPoint) bool {
	for _, p := range points {
		if p.HeartRate != nil {
			return true
		}
	}
	return false
}

// NormalizedPower implements the 30-sample rolling-mean, fourth-root-of-
// mean-of-fourth-powers contract. Sample period is assumed to be 1s (see
// spec Open Question: "recommend resampling to 1 Hz before NP" — callers
// with variable-rate sources are expected to resample before calling
// this). Windows shorter than 30 samples (series start) use whatever
// samples are present; gaps (missing power) are excluded from both the sum
// and the divisor, so the window average divides by the count of present
// samples, not the nominal window size.
func NormalizedPower(points []domain.DataPoint) float64 {
	const window = 30
	var rollingMeans []float64

	for i := range points {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		var sum float64
		var count int
		for j := lo; j <= i; j++ {
			if points[j].PowerW != nil {
				sum += float64(*points[j].PowerW)
				count++
			}
		}
		if count == 0 {
			continue
		}
		rollingMeans = append(rollingMeans, sum/float64(count))
	}

	if len(rollingMeans) == 0 {
		return 0
	}

	var sumFourth float64
	for _, m := range rollingMeans {
		sumFourth += m * m * m * m
	}
	meanFourth := sumFourth / float64(len(rollingMeans))
	return math.Pow(meanFourth, 0.25)
}

func powerBasedTSS(w domain.Workout, ftp int, durationH float64) (TssResult, error) {
	if ftp <= 0 {
		return TssResult{}, &InvalidData{Reason: "FTP must be positive"}
	}
	np := NormalizedPower(w.Series)
	if np <= 0 {
		return TssResult{}, &InvalidData{Reason: "no usable power samples"}
	}
	ifv := np / float64(ftp)
	tss := durationH * ifv * ifv * 100

	npD := decimal.NewFromFloat(np)
	ifD := decimal.NewFromFloat(ifv)
	return TssResult{
		TSS:             decimal.NewFromFloat(tss),
		Method:          MethodPowerBased,
		IntensityFactor: &ifD,
		NormalizedPower: &npD,
	}, nil
}

func paceBasedTSS(w domain.Workout, thresholdPace decimal.Decimal, durationH float64) (TssResult, error) {
	var sum decimal.Decimal
	var count int
	for _, p := range w.Series {
		if p.PaceMinPerUnit != nil && p.PaceMinPerUnit.IsPositive() {
			sum = sum.Add(*p.PaceMinPerUnit)
			count++
		}
	}
	if count == 0 {
		return TssResult{}, &InvalidData{Reason: "no usable pace samples"}
	}
	avgPace := sum.Div(decimal.NewFromInt(int64(count)))
	if avgPace.IsZero() {
		return TssResult{}, &InvalidData{Reason: "average pace is zero"}
	}
	// Lower pace (min/unit) is faster; IF > 1 means faster than threshold.
	ifv := thresholdPace.Div(avgPace)

	if w.Sport == domain.SportRunning {
		gain := totalElevationGain(w.Series)
		if w.DurationSec > 0 {
			gradeMultiplier := 1 + 0.02*(gain/float64(w.DurationSec))
			ifv = ifv.Mul(decimal.NewFromFloat(gradeMultiplier))
		}
	}

	ifFloat, _ := ifv.Float64()
	tss := durationH * ifFloat * ifFloat * 100
	return TssResult{
		TSS:             decimal.NewFromFloat(tss),
		Method:          MethodPaceBased,
		IntensityFactor: &ifv,
	}, nil
}

func totalElevationGain(points []domain.DataPoint) float64 {
	var gain float64
	var prev *decimal.Decimal
	for i := range points {
		e := points[i].ElevationM
		if e == nil {
			continue
		}
		if prev != nil {
			delta, _ := e.Sub(*prev).Float64()
			if delta > 0 {
				gain += delta
			}
		}
		prev = e
	}
	return gain
}

func heartRateBasedTSS(w domain.Workout, lthr int, durationH float64) (TssResult, error) {
	if lthr <= 0 {
		return TssResult{}, &InvalidData{Reason: "LTHR must be positive"}
	}
	var sum float64
	var count int
	for _, p := range w.Series {
		if p.HeartRate != nil && *p.HeartRate > 0 {
			sum += float64(*p.HeartRate) / float64(lthr)
			count++
		}
	}
	if count == 0 {
		return TssResult{}, &InvalidData{Reason: "no usable heart-rate samples"}
	}
	ifv := sum / float64(count)
	tss := durationH * ifv * ifv * 100
	ifD := decimal.NewFromFloat(ifv)
	return TssResult{
		TSS:             decimal.NewFromFloat(tss),
		Method:          MethodHeartRateBased,
		IntensityFactor: &ifD,
	}, nil
}

// validateTSS enforces the sanity bounds from spec §4.2: non-negative,
// <= 300*duration_h always, and >= 10*duration_h once the session is past
// the 600s "active-session floor".
func validateTSS(tss decimal.Decimal, durationH float64, durationSec int) error {
	f, _ := tss.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return &CalculationError{Reason: "TSS is not finite"}
	}
	if f < 0 {
		return &CalculationError{Reason: "TSS is negative"}
	}
	if f > 300*durationH {
		return &CalculationError{Reason: "TSS exceeds 300/hour ceiling"}
	}
	if durationSec > 600 && f < 10*durationH {
		return &CalculationError{Reason: "TSS below active-session floor"}
	}
	return nil
}
