package metrics

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// StandardDurations is the fixed set of efforts a power curve is sampled
// at (seconds), per spec §4.4.
var StandardDurations = []int{
	5, 15, 30, 60, 120, 180, 300, 480, 600, 900, 1200, 1800, 2700, 3600,
}

// BestPower returns the best mean power sustained for durationSec anywhere
// in the series, using a sliding-window sum so it runs in O(n) per
// duration rather than O(n*duration).
func BestPower(points []domain.DataPoint, durationSec int) (decimal.Decimal, bool) {
	if durationSec <= 0 || len(points) < durationSec {
		return decimal.Zero, false
	}

	var windowSum int
	var windowCount int
	var best float64
	found := false

	for i := 0; i < len(points); i++ {
		if points[i].PowerW != nil {
			windowSum += *points[i].PowerW
			windowCount++
		}
		if i >= durationSec {
			j := i - durationSec
			if points[j].PowerW != nil {
				windowSum -= *points[j].PowerW
				windowCount--
			}
		}
		if i >= durationSec-1 && windowCount > 0 {
			mean := float64(windowSum) / float64(windowCount)
			if !found || mean > best {
				best = mean
				found = true
			}
		}
	}

	if !found {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(best), true
}

// ComputePowerCurve samples BestPower at every standard duration the
// series is long enough to support.
func ComputePowerCurve(points []domain.DataPoint) []domain.PowerCurvePoint {
	var curve []domain.PowerCurvePoint
	for _, d := range StandardDurations {
		if mean, ok := BestPower(points, d); ok {
			curve = append(curve, domain.PowerCurvePoint{DurationSec: d, WattsMean: mean})
		}
	}
	return curve
}

// FitCriticalPower fits the two-parameter CP/W' model (P = CP + W'/t) via
// linear regression of work (P*t) against time: work = CP*t + W'. At
// least three distinct-duration points are required (spec §C.2
// supplement: "CP fit needs a minimum of three anchor efforts spanning
// short, medium, and long durations" from the original power.rs).
func FitCriticalPower(curve []domain.PowerCurvePoint) (domain.CriticalPowerModel, error) {
	if len(curve) < 3 {
		return domain.CriticalPowerModel{}, &ModelFittingError{Reason: "need at least 3 power-curve points"}
	}

	n := float64(len(curve))
	var sumT, sumW, sumTT, sumTW float64
	durations := make([]int, 0, len(curve))

	for _, p := range curve {
		t := float64(p.DurationSec)
		watts, _ := p.WattsMean.Float64()
		w := watts * t // total work (joules) for this effort

		sumT += t
		sumW += w
		sumTT += t * t
		sumTW += t * w
		durations = append(durations, p.DurationSec)
	}

	denom := n*sumTT - sumT*sumT
	if denom == 0 {
		return domain.CriticalPowerModel{}, &ModelFittingError{Reason: "singular regression (durations not distinct)"}
	}

	cp := (n*sumTW - sumT*sumW) / denom
	wPrime := (sumW - cp*sumT) / n

	if cp <= 0 || wPrime <= 0 {
		return domain.CriticalPowerModel{}, &ModelFittingError{Reason: "fitted CP or W' is non-positive"}
	}

	// R^2 against the work-time linear form.
	meanW := sumW / n
	var ssTot, ssRes float64
	for _, p := range curve {
		t := float64(p.DurationSec)
		watts, _ := p.WattsMean.Float64()
		w := watts * t
		predicted := cp*t + wPrime
		ssRes += (w - predicted) * (w - predicted)
		ssTot += (w - meanW) * (w - meanW)
	}
	var rSquared float64
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}

	return domain.CriticalPowerModel{
		Variant:         domain.CPModelTwoParameter,
		CPWatts:         decimal.NewFromFloat(cp),
		WPrimeJoules:    decimal.NewFromFloat(wPrime),
		RSquared:        decimal.NewFromFloat(rSquared),
		EstimatedFTP:    decimal.NewFromFloat(cp * 0.95),
		SourceDurations: durations,
	}, nil
}

// WPrimeBalance tracks anaerobic capacity depletion and recovery across a
// power series using the Skiba differential model: balance depletes by
// (power - CP) while above CP, and recovers toward full following an
// exponential recovery time constant (tau_w') while below CP.
func WPrimeBalance(points []domain.DataPoint, cp domain.CriticalPowerModel) []decimal.Decimal {
	cpWatts, _ := cp.CPWatts.Float64()
	wPrimeMax, _ := cp.WPrimeJoules.Float64()

	balance := wPrimeMax
	out := make([]decimal.Decimal, len(points))

	for i, p := range points {
		if p.PowerW == nil {
			out[i] = decimal.NewFromFloat(balance)
			continue
		}
		power := float64(*p.PowerW)
		if power > cpWatts {
			balance -= (power - cpWatts)
			if balance < 0 {
				balance = 0
			}
		} else {
			deficit := wPrimeMax - balance
			if deficit > 0 {
				tau := wPrimeRecoveryTau(cpWatts - power)
				recovered := deficit * (1 - math.Exp(-1.0/tau))
				balance += recovered
				if balance > wPrimeMax {
					balance = wPrimeMax
				}
			}
		}
		out[i] = decimal.NewFromFloat(balance)
	}
	return out
}

// wPrimeRecoveryTau implements the Skiba (2012) recovery time constant as
// a function of the below-CP power deficit, in seconds.
func wPrimeRecoveryTau(deficitWatts float64) float64 {
	if deficitWatts <= 0 {
		deficitWatts = 1
	}
	return 546*math.Exp(-0.01*deficitWatts) + 316
}

// TimeToExhaustion predicts how long an athlete can sustain targetWatts
// above CP before W' is fully depleted: t = W' / (targetWatts - CP).
func TimeToExhaustion(cp domain.CriticalPowerModel, targetWatts decimal.Decimal) (decimal.Decimal, error) {
	cpWatts, _ := cp.CPWatts.Float64()
	target, _ := targetWatts.Float64()
	if target <= cpWatts {
		return decimal.Zero, &InvalidData{Reason: "target power must exceed critical power"}
	}
	wPrime, _ := cp.WPrimeJoules.Float64()
	seconds := wPrime / (target - cpWatts)
	return decimal.NewFromFloat(seconds), nil
}
