// Package sport provides per-discipline analysis built on top of the
// generic metrics engine: running pace/splits/race prediction, swimming
// stroke analysis, and multisport aggregation.
package sport

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// Standard race distances in meters.
const (
	Distance400m     = 400
	Distance1K       = 1000
	Distance1Mile    = 1609.34
	Distance5K       = 5000
	Distance10K      = 10000
	DistanceHalfMara = 21097
	DistanceMarathon = 42195
)

// vdotEntry is one row of the Jack Daniels VDOT lookup table. Times are
// seconds for each distance.
type vdotEntry struct {
	VDOT     float64
	Time1500 float64
	Time1Mi  float64
	Time5K   float64
	Time10K  float64
	TimeHalf float64
	TimeFull float64
}

// vdotTable covers recreational to elite runners (VDOT 30-85).
var vdotTable = []vdotEntry{
	{30, 510, 552, 1860, 3876, 8388, 17496},
	{35, 445, 481, 1614, 3360, 7254, 15138},
	{40, 394, 425, 1422, 2952, 6372, 13248},
	{45, 352, 381, 1266, 2628, 5676, 11730},
	{50, 318, 344, 1140, 2364, 5100, 10494},
	{55, 290, 313, 1038, 2154, 4632, 9492},
	{60, 266, 288, 954, 1974, 4248, 8664},
	{65, 246, 266, 888, 1830, 3930, 7980},
	{70, 229, 247, 834, 1716, 3672, 7410},
	{75, 214, 232, 786, 1614, 3456, 6936},
	{80, 201, 218, 744, 1530, 3282, 6540},
	{85, 190, 206, 708, 1458, 3126, 6198},
}

func timeForDistance(e vdotEntry, distance float64) float64 {
	switch {
	case matchesDistance(distance, 1500):
		return e.Time1500
	case matchesDistance(distance, Distance1Mile):
		return e.Time1Mi
	case matchesDistance(distance, Distance5K):
		return e.Time5K
	case matchesDistance(distance, Distance10K):
		return e.Time10K
	case matchesDistance(distance, DistanceHalfMara):
		return e.TimeHalf
	case matchesDistance(distance, DistanceMarathon):
		return e.TimeFull
	default:
		return interpolateTimeForDistance(e, distance)
	}
}

func matchesDistance(distance, target float64) bool {
	tolerance := target * 0.05
	return math.Abs(distance-target) <= tolerance
}

func interpolateTimeForDistance(e vdotEntry, distance float64) float64 {
	type distTime struct{ dist, time float64 }
	standards := []distTime{
		{1500, e.Time1500}, {Distance1Mile, e.Time1Mi}, {Distance5K, e.Time5K},
		{Distance10K, e.Time10K}, {DistanceHalfMara, e.TimeHalf}, {DistanceMarathon, e.TimeFull},
	}
	var lower, upper distTime
	for i, s := range standards {
		if distance <= s.dist {
			if i == 0 {
				lower, upper = s, standards[1]
			} else {
				lower, upper = standards[i-1], s
			}
			break
		}
		if i == len(standards)-1 {
			lower, upper = standards[len(standards)-2], s
		}
	}
	logDistRatio := math.Log(distance/lower.dist) / math.Log(upper.dist/lower.dist)
	logTimeRatio := math.Log(upper.time) - math.Log(lower.time)
	return math.Exp(math.Log(lower.time) + logDistRatio*logTimeRatio)
}

// CalculateVDOT derives VDOT from a race result via binary search over the
// lookup table, interpolating between bracketing rows.
func CalculateVDOT(distanceMeters float64, durationSeconds int) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	duration := float64(durationSeconds)
	low, high := 0, len(vdotTable)-1

	if duration >= timeForDistance(vdotTable[0], distanceMeters) {
		return vdotTable[0].VDOT
	}
	if duration <= timeForDistance(vdotTable[high], distanceMeters) {
		return vdotTable[high].VDOT
	}
	for high-low > 1 {
		mid := (low + high) / 2
		if duration <= timeForDistance(vdotTable[mid], distanceMeters) {
			low = mid
		} else {
			high = mid
		}
	}
	lowT := timeForDistance(vdotTable[low], distanceMeters)
	highT := timeForDistance(vdotTable[high], distanceMeters)
	if lowT == highT {
		return vdotTable[low].VDOT
	}
	fraction := (lowT - duration) / (lowT - highT)
	vdot := vdotTable[low].VDOT + fraction*(vdotTable[high].VDOT-vdotTable[low].VDOT)
	return math.Round(vdot*10) / 10
}

// PredictRaceTime predicts finish time in seconds for targetDistanceMeters
// given a VDOT value.
func PredictRaceTime(vdot float64, targetDistanceMeters float64) int {
	if vdot <= 0 {
		return 0
	}
	low, high := 0, len(vdotTable)-1
	switch {
	case vdot <= vdotTable[0].VDOT:
		low, high = 0, 0
	case vdot >= vdotTable[len(vdotTable)-1].VDOT:
		low, high = len(vdotTable)-1, len(vdotTable)-1
	default:
		for high-low > 1 {
			mid := (low + high) / 2
			if vdotTable[mid].VDOT <= vdot {
				low = mid
			} else {
				high = mid
			}
		}
	}
	if low == high {
		return int(math.Round(timeForDistance(vdotTable[low], targetDistanceMeters)))
	}
	fraction := (vdot - vdotTable[low].VDOT) / (vdotTable[high].VDOT - vdotTable[low].VDOT)
	lowT := timeForDistance(vdotTable[low], targetDistanceMeters)
	highT := timeForDistance(vdotTable[high], targetDistanceMeters)
	return int(math.Round(lowT + fraction*(highT-lowT)))
}

// GradeAdjustedPace applies a grade correction (roughly +10% grade costs
// ~30% more effort per km) to each sample's instantaneous pace, returning
// the series-average grade-adjusted pace in min/km.
func GradeAdjustedPace(points []domain.DataPoint) decimal.Decimal {
	var totalGAP, totalCount float64
	var prevDist, prevElev *decimal.Decimal

	for _, p := range points {
		if p.SpeedMPS == nil {
			continue
		}
		speed, _ := p.SpeedMPS.Float64()
		if speed <= 0.5 {
			prevDist, prevElev = p.DistanceM, p.ElevationM
			continue
		}

		grade := 0.0
		if p.ElevationM != nil && prevElev != nil && p.DistanceM != nil && prevDist != nil {
			rise, _ := p.ElevationM.Sub(*prevElev).Float64()
			run, _ := p.DistanceM.Sub(*prevDist).Float64()
			if run > 0 {
				grade = rise / run
			}
		}

		gradeFactor := 1.0 + grade*3.0
		if gradeFactor < 0.5 {
			gradeFactor = 0.5
		}
		if gradeFactor > 3.0 {
			gradeFactor = 3.0
		}

		adjustedSpeed := speed / gradeFactor
		paceMinKm := (1000 / adjustedSpeed) / 60
		totalGAP += paceMinKm
		totalCount++

		prevDist, prevElev = p.DistanceM, p.ElevationM
	}

	if totalCount == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(totalGAP / totalCount)
}

// Split is one fixed-distance segment of a run (e.g. a 1 km split).
type Split struct {
	Index        int
	DistanceM    decimal.Decimal
	DurationSec  int
	AvgPaceMinKm decimal.Decimal
	AvgHR        *decimal.Decimal
}

// Splits partitions the series into fixed-distance segments (e.g. every
// 1000m), reporting pace and average HR per segment.
func Splits(points []domain.DataPoint, splitDistanceM decimal.Decimal) []Split {
	if !splitDistanceM.IsPositive() {
		return nil
	}
	var splits []Split
	var segStart int
	var segStartDist, segStartTime decimal.Decimal
	var hrSum, hrCount float64
	segIndex := 0

	haveStart := false
	for i, p := range points {
		if p.DistanceM == nil {
			continue
		}
		if !haveStart {
			segStart = i
			segStartDist = *p.DistanceM
			segStartTime = decimal.NewFromInt(int64(p.TimestampSeconds))
			haveStart = true
		}
		if p.HeartRate != nil {
			hrSum += float64(*p.HeartRate)
			hrCount++
		}

		traveled := p.DistanceM.Sub(segStartDist)
		if traveled.GreaterThanOrEqual(splitDistanceM) {
			durationSec := p.TimestampSeconds - int(segStartTime.IntPart())
			var avgHR *decimal.Decimal
			if hrCount > 0 {
				v := decimal.NewFromFloat(hrSum / hrCount)
				avgHR = &v
			}
			pace := decimal.Zero
			if durationSec > 0 {
				paceMin := float64(durationSec) / 60.0
				distKm, _ := traveled.Div(decimal.NewFromInt(1000)).Float64()
				if distKm > 0 {
					pace = decimal.NewFromFloat(paceMin / distKm)
				}
			}
			segIndex++
			splits = append(splits, Split{
				Index:        segIndex,
				DistanceM:    traveled,
				DurationSec:  durationSec,
				AvgPaceMinKm: pace,
				AvgHR:        avgHR,
			})
			haveStart = false
			hrSum, hrCount = 0, 0
			_ = segStart
		}
	}
	return splits
}

// EfficiencyFactor is (m/min) / avg-HR across samples with plausible
// speed and HR, adapted from the teacher's pace:HR efficiency metric.
func EfficiencyFactor(points []domain.DataPoint) decimal.Decimal {
	var totalVel, totalHR float64
	var count int
	for _, p := range points {
		if p.SpeedMPS == nil || p.HeartRate == nil {
			continue
		}
		v, _ := p.SpeedMPS.Float64()
		hr := float64(*p.HeartRate)
		if v > 0.5 && hr > 80 && hr < 220 {
			totalVel += v
			totalHR += hr
			count++
		}
	}
	if count == 0 {
		return decimal.Zero
	}
	avgVelMPM := (totalVel / float64(count)) * 60
	avgHR := totalHR / float64(count)
	return decimal.NewFromFloat(avgVelMPM / avgHR)
}

// AerobicDecoupling returns the percentage drift in efficiency factor
// between the first and second half of the series; positive means the
// second half was less efficient.
func AerobicDecoupling(points []domain.DataPoint) decimal.Decimal {
	if len(points) < 120 {
		return decimal.Zero
	}
	mid := len(points) / 2
	firstEF := EfficiencyFactor(points[:mid])
	secondEF := EfficiencyFactor(points[mid:])
	if firstEF.IsZero() || secondEF.IsZero() {
		return decimal.Zero
	}
	ratio := firstEF.Div(secondEF)
	return ratio.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
}
