package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
	"github.com/trainrs/endurance-analytics/internal/zones"
)

// SplitFractions is the (train, validation, test) fraction triple used for
// deterministic, order-based dataset splitting. Must sum to 1 within
// 0.001 (spec §4.8).
type SplitFractions struct {
	Train, Validation, Test float64
}

// DefaultSplitFractions is the spec's default 70/15/15 split.
func DefaultSplitFractions() SplitFractions {
	return SplitFractions{Train: 0.70, Validation: 0.15, Test: 0.15}
}

func (s SplitFractions) validate() error {
	total := s.Train + s.Validation + s.Test
	if total < 0.999 || total > 1.001 {
		return fmt.Errorf("export: split fractions must sum to 1 (±0.001), got %.4f", total)
	}
	return nil
}

// FeatureRow is one ML training row derived from a workout (spec §4.8).
type FeatureRow struct {
	WorkoutID string
	AthleteID string
	Date      time.Time

	Year      int
	Month     int
	DayOfWeek int // 0=Sunday ... 6=Saturday
	DayOfYear int
	ISOWeek   int

	Sport       string
	WorkoutType string

	TSS             decimal.Decimal
	DurationHours   decimal.Decimal
	DistanceKM      decimal.Decimal
	IntensityFactor decimal.Decimal
	NormalizedPower decimal.Decimal

	HRZonePct map[int]float64

	TrainingEffectAerobic   float64
	TrainingEffectAnaerobic float64

	AvgPace decimal.Decimal

	TSS7d      decimal.Decimal
	TSS28d     decimal.Decimal
	Duration7d decimal.Decimal
	Duration28d decimal.Decimal
	Distance7d decimal.Decimal
	Distance28d decimal.Decimal

	CumulativeTSS      decimal.Decimal
	CumulativeDuration decimal.Decimal
	CumulativeDistance decimal.Decimal

	Split string // "train", "validation", or "test"
}

// BuildFeatures produces one FeatureRow per workout in workouts (which must
// already be sorted ascending by date), computing rolling 7d/28d sums,
// cumulative totals, HR-zone percentages against hrZones when the workout
// carries a heart-rate series, and a deterministic split label.
func BuildFeatures(workouts []domain.Workout, hrZones *zones.ZoneSystem, split SplitFractions) ([]FeatureRow, error) {
	if err := split.validate(); err != nil {
		return nil, err
	}
	if !sort.SliceIsSorted(workouts, func(i, j int) bool { return workouts[i].Date.Before(workouts[j].Date) }) {
		return nil, fmt.Errorf("export: workouts must be sorted ascending by date to build features")
	}

	n := len(workouts)
	rows := make([]FeatureRow, n)

	var cumTSS, cumDuration, cumDistance decimal.Decimal

	for i, w := range workouts {
		row := FeatureRow{
			WorkoutID:   w.ID,
			AthleteID:   w.AthleteID,
			Date:        w.Date,
			Year:        w.Date.Year(),
			Month:       int(w.Date.Month()),
			DayOfWeek:   int(w.Date.Weekday()),
			DayOfYear:   w.Date.YearDay(),
			Sport:       w.Sport.String(),
			WorkoutType: w.Type.String(),
		}
		_, row.ISOWeek = w.Date.ISOWeek()

		if w.Summary.TSS != nil {
			row.TSS = *w.Summary.TSS
		}
		row.DurationHours = decimal.NewFromFloat(float64(w.DurationSec) / 3600.0)
		if w.Summary.TotalDistanceM != nil {
			row.DistanceKM = w.Summary.TotalDistanceM.Mul(decimal.NewFromFloat(0.001))
		}
		if w.Summary.IntensityFactor != nil {
			row.IntensityFactor = *w.Summary.IntensityFactor
		}
		if w.Summary.NormalizedPowerW != nil {
			row.NormalizedPower = *w.Summary.NormalizedPowerW
		}
		if w.Summary.AvgPace != nil {
			row.AvgPace = *w.Summary.AvgPace
		}

		if hrZones != nil && len(w.Series) > 0 {
			row.HRZonePct = hrZonePercentages(*hrZones, w.Series)
		}

		if te, ok := estimateTrainingEffect(w); ok {
			row.TrainingEffectAerobic = te.aerobic
			row.TrainingEffectAnaerobic = te.anaerobic
		}

		cumTSS = cumTSS.Add(row.TSS)
		cumDuration = cumDuration.Add(row.DurationHours)
		cumDistance = cumDistance.Add(row.DistanceKM)
		row.CumulativeTSS = cumTSS
		row.CumulativeDuration = cumDuration
		row.CumulativeDistance = cumDistance

		row.TSS7d, row.Duration7d, row.Distance7d = rollingSums(workouts, i, 7*24*time.Hour)
		row.TSS28d, row.Duration28d, row.Distance28d = rollingSums(workouts, i, 28*24*time.Hour)

		row.Split = assignSplit(i, n, split)

		rows[i] = row
	}

	return rows, nil
}

// rollingSums sums TSS/duration-hours/distance-km over the window ending at
// (and including) index i, looking back `window` of calendar time.
func rollingSums(workouts []domain.Workout, i int, window time.Duration) (tss, durationH, distanceKM decimal.Decimal) {
	cutoff := workouts[i].Date.Add(-window)
	for j := i; j >= 0 && !workouts[j].Date.Before(cutoff); j-- {
		w := workouts[j]
		if w.Summary.TSS != nil {
			tss = tss.Add(*w.Summary.TSS)
		}
		durationH = durationH.Add(decimal.NewFromFloat(float64(w.DurationSec) / 3600.0))
		if w.Summary.TotalDistanceM != nil {
			distanceKM = distanceKM.Add(w.Summary.TotalDistanceM.Mul(decimal.NewFromFloat(0.001)))
		}
	}
	return
}

// assignSplit implements the spec's deterministic, order-based split:
// pct = i/N; train if pct < train, validation if pct < train+val, else test.
func assignSplit(i, n int, split SplitFractions) string {
	if n == 0 {
		return "train"
	}
	pct := float64(i) / float64(n)
	switch {
	case pct < split.Train:
		return "train"
	case pct < split.Train+split.Validation:
		return "validation"
	default:
		return "test"
	}
}

func hrZonePercentages(zs zones.ZoneSystem, points []domain.DataPoint) map[int]float64 {
	var values []decimal.Decimal
	for _, p := range points {
		if p.HeartRate != nil {
			values = append(values, decimal.NewFromInt(int64(*p.HeartRate)))
		}
	}
	if len(values) == 0 {
		return nil
	}
	dist := zones.Distribution(zs, values)
	total := len(values)
	pct := make(map[int]float64, len(dist))
	for zone, count := range dist {
		pct[zone] = float64(count) / float64(total) * 100.0
	}
	return pct
}

type trainingEffectEstimate struct {
	aerobic, anaerobic float64
}

// estimateTrainingEffect is a best-effort feature-row estimate from summary
// intensity factor alone (full EPOC-based internal/metrics.CalculateTrainingEffect
// needs a raw HR series plus athlete max/resting HR, which the feature
// builder's workout-only signature doesn't carry); a higher layer that has
// athlete context may overwrite these two fields with the precise metric.
func estimateTrainingEffect(w domain.Workout) (trainingEffectEstimate, bool) {
	if w.Summary.IntensityFactor == nil {
		return trainingEffectEstimate{}, false
	}
	ifValue, _ := w.Summary.IntensityFactor.Float64()
	aerobic := clamp(ifValue*5.0, 0, 5)
	anaerobic := clamp((ifValue-0.85)*10, 0, 5)
	return trainingEffectEstimate{aerobic: aerobic, anaerobic: anaerobic}, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
