package zones

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// EstimateFTPFrom20MinPower applies the standard 95% correction to a
// best 20-minute mean power to approximate FTP.
func EstimateFTPFrom20MinPower(watts20min decimal.Decimal) (decimal.Decimal, error) {
	if !watts20min.IsPositive() {
		return decimal.Zero, fmt.Errorf("zones: 20-minute power must be positive")
	}
	return watts20min.Mul(decimal.NewFromFloat(0.95)), nil
}

// EstimateMaxHR applies the Tanaka formula (208 - 0.7*age), more accurate
// across a broader age range than the classic 220-age rule.
func EstimateMaxHR(age int) (int, error) {
	if age <= 0 || age > 120 {
		return 0, fmt.Errorf("zones: age %d out of plausible range", age)
	}
	return int(208 - 0.7*float64(age)), nil
}

// EstimateLTHRFromMaxHR approximates LTHR as 85% of max HR absent a
// dedicated lactate-threshold test.
func EstimateLTHRFromMaxHR(maxHR int) (int, error) {
	if maxHR <= 0 {
		return 0, fmt.Errorf("zones: max HR must be positive")
	}
	return int(float64(maxHR) * 0.85), nil
}

// EstimateThresholdPaceFromRaceTime derives threshold pace (minutes per
// unit distance) from a recent race result using Riegel-style scaling:
// threshold effort is sustainable roughly 60 minutes, so sub-60-minute
// races are scaled up toward that duration before deriving pace.
func EstimateThresholdPaceFromRaceTime(raceDistance decimal.Decimal, raceTimeSec int) (decimal.Decimal, error) {
	if !raceDistance.IsPositive() || raceTimeSec <= 0 {
		return decimal.Zero, fmt.Errorf("zones: race distance and time must be positive")
	}
	const riegelExponent = 1.06
	const targetSeconds = 3600.0

	ratio := targetSeconds / float64(raceTimeSec)
	scaledTimeSec := float64(raceTimeSec) * math.Pow(ratio, riegelExponent-1)
	pacePerUnit := decimal.NewFromFloat(scaledTimeSec / 60.0).Div(raceDistance)
	return pacePerUnit, nil
}
