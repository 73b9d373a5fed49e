package sport

import (
	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// BestEffort is the fastest segment of a given distance found within a
// workout's series.
type BestEffort struct {
	DistanceM   decimal.Decimal
	DurationSec int
	StartOffset int
	EndOffset   int
	AvgHR       decimal.Decimal
}

// EffortDistances are the standard sub-activity best-effort distances
// tracked for every run.
var EffortDistances = []float64{Distance400m, Distance1K, Distance1Mile, Distance5K, Distance10K}

const minPointsForEffort = 10

type distPoint struct {
	distance   float64
	timeOffset int
	heartrate  *int
}

// FindBestEffort finds the fastest segment covering at least
// targetDistanceM meters using an O(n) two-pointer sliding window: for
// each left endpoint we advance the right endpoint only as far as needed,
// and it never regresses, since required distance only grows with time.
func FindBestEffort(points []domain.DataPoint, targetDistanceM float64) *BestEffort {
	if len(points) < minPointsForEffort {
		return nil
	}

	var dpoints []distPoint
	for _, p := range points {
		if p.DistanceM == nil {
			continue
		}
		d, _ := p.DistanceM.Float64()
		dpoints = append(dpoints, distPoint{distance: d, timeOffset: p.TimestampSeconds, heartrate: p.HeartRate})
	}
	if len(dpoints) < minPointsForEffort {
		return nil
	}

	total := dpoints[len(dpoints)-1].distance - dpoints[0].distance
	if total < targetDistanceM {
		return nil
	}

	var best *BestEffort
	bestDuration := int(^uint(0) >> 1)

	right := 0
	for left := 0; left < len(dpoints); left++ {
		if right < left {
			right = left
		}
		for right < len(dpoints) && dpoints[right].distance-dpoints[left].distance < targetDistanceM {
			right++
		}
		if right >= len(dpoints) {
			break
		}
		segDist := dpoints[right].distance - dpoints[left].distance
		duration := dpoints[right].timeOffset - dpoints[left].timeOffset
		if duration > 0 && duration < bestDuration {
			bestDuration = duration
			best = &BestEffort{
				DistanceM:   decimal.NewFromFloat(segDist),
				DurationSec: duration,
				StartOffset: dpoints[left].timeOffset,
				EndOffset:   dpoints[right].timeOffset,
				AvgHR:       segmentAvgHR(dpoints, left, right),
			}
		}
	}
	return best
}

func segmentAvgHR(points []distPoint, left, right int) decimal.Decimal {
	var sum float64
	var count int
	for i := left; i <= right; i++ {
		if points[i].heartrate != nil && *points[i].heartrate > 50 {
			sum += float64(*points[i].heartrate)
			count++
		}
	}
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(sum / float64(count))
}
