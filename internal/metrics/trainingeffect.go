package metrics

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// TrainingEffectLevel labels a 0-5 TE score per Firstbeat's scale.
type TrainingEffectLevel int

const (
	TENoEffect TrainingEffectLevel = iota
	TEMinor
	TEMaintaining
	TEImproving
	TEHighlyImproving
	TEOverreaching
)

func (l TrainingEffectLevel) String() string {
	switch l {
	case TENoEffect:
		return "NoEffect"
	case TEMinor:
		return "Minor"
	case TEMaintaining:
		return "Maintaining"
	case TEImproving:
		return "Improving"
	case TEHighlyImproving:
		return "HighlyImproving"
	case TEOverreaching:
		return "Overreaching"
	default:
		return ""
	}
}

func levelForScore(score float64) TrainingEffectLevel {
	switch {
	case score < 1.0:
		return TENoEffect
	case score < 2.0:
		return TEMinor
	case score < 3.0:
		return TEMaintaining
	case score < 4.0:
		return TEImproving
	case score < 5.0:
		return TEHighlyImproving
	default:
		return TEOverreaching
	}
}

// TrainingEffect is the EPOC-modeled aerobic/anaerobic stimulus result.
type TrainingEffect struct {
	Aerobic            decimal.Decimal
	AerobicLevel       TrainingEffectLevel
	Anaerobic          decimal.Decimal
	AnaerobicLevel     TrainingEffectLevel
	RecoveryTimeHours  decimal.Decimal
}

// CalculateTrainingEffect estimates EPOC from the heart-rate-reserve
// percentage trajectory of a workout: each sample above 50% HRR
// contributes to an accumulating exponential excess-oxygen-consumption
// score, scaled by duration. Anaerobic TE additionally weighs
// above-threshold surges (HRR% above the session's own 90th percentile
// proxy) since HR alone lags true anaerobic cost.
func CalculateTrainingEffect(points []domain.DataPoint, maxHR, restingHR int) (TrainingEffect, error) {
	if maxHR <= restingHR {
		return TrainingEffect{}, &InvalidData{Reason: "max HR must exceed resting HR"}
	}
	hrrRange := float64(maxHR - restingHR)

	var samples []float64
	for _, p := range points {
		if p.HeartRate == nil {
			continue
		}
		hrr := (float64(*p.HeartRate) - float64(restingHR)) / hrrRange
		if hrr < 0 {
			hrr = 0
		}
		samples = append(samples, hrr)
	}
	if len(samples) == 0 {
		return TrainingEffect{}, &InvalidData{Reason: "no usable heart-rate samples"}
	}

	var epoc float64
	for _, hrr := range samples {
		if hrr > 0.5 {
			epoc += math.Exp(2.0*(hrr-0.5)) - 1
		}
	}
	// Normalize by session length so longer/shorter sessions of the same
	// intensity profile produce comparable scores, then rescale to 0-5.
	avgEPOCPerSample := epoc / float64(len(samples))
	aerobicScore := clampScore(avgEPOCPerSample * math.Log(float64(len(samples))+1) * 0.8)

	threshold := percentile(samples, 0.9)
	var surgeScore float64
	for _, hrr := range samples {
		if hrr >= threshold && threshold > 0.5 {
			surgeScore += hrr - threshold
		}
	}
	anaerobicScore := clampScore(surgeScore * 3.0)

	recoveryHours := recoveryTimeForScore(math.Max(aerobicScore, anaerobicScore))

	return TrainingEffect{
		Aerobic:           decimal.NewFromFloat(aerobicScore),
		AerobicLevel:      levelForScore(aerobicScore),
		Anaerobic:         decimal.NewFromFloat(anaerobicScore),
		AnaerobicLevel:    levelForScore(anaerobicScore),
		RecoveryTimeHours: decimal.NewFromFloat(recoveryHours),
	}, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

// recoveryTimeForScore maps a TE score to a recommended recovery window,
// from Firstbeat's published TE->recovery-hours table.
func recoveryTimeForScore(score float64) float64 {
	switch {
	case score < 1:
		return 0
	case score < 2:
		return 12
	case score < 3:
		return 24
	case score < 4:
		return 36
	case score < 5:
		return 48
	default:
		return 72
	}
}
