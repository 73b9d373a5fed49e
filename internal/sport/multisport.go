package sport

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// DailyBreakdown is one calendar day's aggregate load across every sport
// practiced that day.
type DailyBreakdown struct {
	Date      time.Time
	TotalTSS  decimal.Decimal
	BySport   map[domain.Sport]decimal.Decimal
	TimeBySport map[domain.Sport]int // seconds
}

// CombinedTSS sums TSS across a set of workouts, regardless of sport.
func CombinedTSS(workouts []domain.Workout) decimal.Decimal {
	total := decimal.Zero
	for _, w := range workouts {
		if w.Summary.TSS != nil {
			total = total.Add(*w.Summary.TSS)
		}
	}
	return total
}

// DailyBreakdowns groups workouts by calendar day and tallies TSS/time per
// sport within each day.
func DailyBreakdowns(workouts []domain.Workout) []DailyBreakdown {
	byDay := make(map[time.Time]*DailyBreakdown)
	var days []time.Time

	for _, w := range workouts {
		y, m, d := w.Date.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, w.Date.Location())
		b, ok := byDay[day]
		if !ok {
			b = &DailyBreakdown{Date: day, BySport: make(map[domain.Sport]decimal.Decimal), TimeBySport: make(map[domain.Sport]int)}
			byDay[day] = b
			days = append(days, day)
		}
		if w.Summary.TSS != nil {
			b.TotalTSS = b.TotalTSS.Add(*w.Summary.TSS)
			b.BySport[w.Sport] = b.BySport[w.Sport].Add(*w.Summary.TSS)
		}
		b.TimeBySport[w.Sport] += w.DurationSec
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	result := make([]DailyBreakdown, len(days))
	for i, d := range days {
		result[i] = *byDay[d]
	}
	return result
}

// SportTimeDistribution reports the percentage (0-100) of total training
// time spent in each sport across the given workouts.
func SportTimeDistribution(workouts []domain.Workout) map[domain.Sport]decimal.Decimal {
	totalsSec := make(map[domain.Sport]int)
	var grandTotal int
	for _, w := range workouts {
		totalsSec[w.Sport] += w.DurationSec
		grandTotal += w.DurationSec
	}
	dist := make(map[domain.Sport]decimal.Decimal, len(totalsSec))
	if grandTotal == 0 {
		return dist
	}
	for sp, sec := range totalsSec {
		dist[sp] = decimal.NewFromInt(int64(sec)).Div(decimal.NewFromInt(int64(grandTotal))).Mul(decimal.NewFromInt(100))
	}
	return dist
}

// SportTSSConversionFactor accounts for the differing muscular-skeletal
// cost of an hour of TSS between sports (e.g. running's eccentric load
// vs cycling's concentric-only load), applied when converting one sport's
// TSS into an equivalent "running-TSS" for combined ramp-rate tracking.
var SportTSSConversionFactor = map[domain.Sport]decimal.Decimal{
	domain.SportRunning:      decimal.NewFromFloat(1.0),
	domain.SportCycling:      decimal.NewFromFloat(0.85),
	domain.SportSwimming:     decimal.NewFromFloat(0.70),
	domain.SportRowing:       decimal.NewFromFloat(0.90),
	domain.SportTriathlon:    decimal.NewFromFloat(1.0),
	domain.SportCrossTraining: decimal.NewFromFloat(0.75),
}

// NormalizedTSS converts a workout's TSS into running-equivalent TSS using
// SportTSSConversionFactor, falling back to 1.0 for unlisted sports.
func NormalizedTSS(w domain.Workout) decimal.Decimal {
	if w.Summary.TSS == nil {
		return decimal.Zero
	}
	factor, ok := SportTSSConversionFactor[w.Sport]
	if !ok {
		factor = decimal.NewFromInt(1)
	}
	return w.Summary.TSS.Mul(factor)
}

// BrickGroup is a set of workouts treated as a single multisport session
// (e.g. bike-to-run) because the gap between them is within the brick
// window.
type BrickGroup struct {
	Workouts []domain.Workout
	StartsAt time.Time
	EndsAt   time.Time
}

// DefaultBrickWindow is the maximum gap between two workouts for them to
// be considered the same brick session, per the original multisport.rs
// default transition allowance.
const DefaultBrickWindow = 15 * time.Minute

// GroupBricks groups a date-sorted set of workouts into brick sessions:
// consecutive workouts whose start times are within window of the
// previous workout's end are merged into one group.
func GroupBricks(workouts []domain.Workout, window time.Duration) []BrickGroup {
	if len(workouts) == 0 {
		return nil
	}
	sorted := make([]domain.Workout, len(workouts))
	copy(sorted, workouts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var groups []BrickGroup
	current := BrickGroup{Workouts: []domain.Workout{sorted[0]}, StartsAt: sorted[0].Date}
	currentEnd := sorted[0].Date.Add(time.Duration(sorted[0].DurationSec) * time.Second)

	for _, w := range sorted[1:] {
		gap := w.Date.Sub(currentEnd)
		if gap >= 0 && gap <= window {
			current.Workouts = append(current.Workouts, w)
		} else {
			current.EndsAt = currentEnd
			groups = append(groups, current)
			current = BrickGroup{Workouts: []domain.Workout{w}, StartsAt: w.Date}
		}
		currentEnd = w.Date.Add(time.Duration(w.DurationSec) * time.Second)
	}
	current.EndsAt = currentEnd
	groups = append(groups, current)
	return groups
}

// IsBrick reports whether a group represents a genuine multisport brick
// (more than one sport, not just consecutive same-sport intervals).
func (g BrickGroup) IsBrick() bool {
	if len(g.Workouts) < 2 {
		return false
	}
	first := g.Workouts[0].Sport
	for _, w := range g.Workouts[1:] {
		if w.Sport != first {
			return true
		}
	}
	return false
}
