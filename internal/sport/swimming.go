package sport

import (
	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// SwimStrokeSummary aggregates stroke-count and stroke-type statistics
// for one workout.
type SwimStrokeSummary struct {
	TotalStrokes     int
	AvgStrokeRate    decimal.Decimal // strokes/min
	StrokeTypeCounts map[string]int
	SWOLF            decimal.Decimal // stroke count + seconds per length
	Pace100m         decimal.Decimal // minutes per 100m
}

// AnalyzeSwim computes the stroke and pacing summary for a swim workout's
// lap-numbered series, grouping samples by LapNumber as a pool length.
func AnalyzeSwim(points []domain.DataPoint, poolLengthM decimal.Decimal) (SwimStrokeSummary, error) {
	if len(points) == 0 {
		return SwimStrokeSummary{}, errEmptySeries
	}

	summary := SwimStrokeSummary{StrokeTypeCounts: make(map[string]int)}

	type lapAgg struct {
		strokes  int
		startSec int
		endSec   int
	}
	laps := make(map[int]*lapAgg)
	var order []int

	for _, p := range points {
		if p.SwimStrokeCount != nil {
			summary.TotalStrokes += *p.SwimStrokeCount
		}
		if p.SwimStrokeType != nil {
			summary.StrokeTypeCounts[*p.SwimStrokeType]++
		}
		if p.LapNumber == nil {
			continue
		}
		lap := *p.LapNumber
		agg, ok := laps[lap]
		if !ok {
			agg = &lapAgg{startSec: p.TimestampSeconds}
			laps[lap] = agg
			order = append(order, lap)
		}
		agg.endSec = p.TimestampSeconds
		if p.SwimStrokeCount != nil {
			agg.strokes += *p.SwimStrokeCount
		}
	}

	if len(laps) > 0 {
		var swolfSum float64
		for _, lap := range order {
			agg := laps[lap]
			lapSec := agg.endSec - agg.startSec
			swolfSum += float64(agg.strokes + lapSec)
		}
		summary.SWOLF = decimal.NewFromFloat(swolfSum / float64(len(order)))
	}

	firstT := points[0].TimestampSeconds
	lastT := points[len(points)-1].TimestampSeconds
	durationSec := lastT - firstT
	if durationSec > 0 && poolLengthM.IsPositive() && len(order) > 0 {
		totalDistance := poolLengthM.Mul(decimal.NewFromInt(int64(len(order))))
		distKm, _ := totalDistance.Div(decimal.NewFromInt(1000)).Float64()
		if distKm > 0 {
			pacePer100, _ := totalDistance.Div(decimal.NewFromInt(100)).Float64()
			if pacePer100 > 0 {
				summary.Pace100m = decimal.NewFromFloat(float64(durationSec) / 60.0 / pacePer100)
			}
		}
		minutes := float64(durationSec) / 60.0
		summary.AvgStrokeRate = decimal.NewFromFloat(float64(summary.TotalStrokes) / minutes)
	}

	return summary, nil
}

var errEmptySeries = &emptySeriesError{}

type emptySeriesError struct{}

func (e *emptySeriesError) Error() string { return "sport: empty data series" }
