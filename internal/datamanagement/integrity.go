package datamanagement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// IntegrityIssue is one sanity-check violation found on a workout.
type IntegrityIssue struct {
	WorkoutID string
	Reason    string
}

func (i IntegrityIssue) String() string {
	return fmt.Sprintf("%s: %s", i.WorkoutID, i.Reason)
}

var (
	maxReasonableTSS        = decimal.NewFromInt(1000)
	minReasonableHR         = 30
	maxReasonableHR         = 220
	maxReasonablePowerW     = 2000
	minReasonableElevationM = decimal.NewFromInt(-500)
	maxReasonableElevationM = decimal.NewFromInt(9000)
)

// CheckWorkout applies the spec's range and sanity checks to one
// workout's summary fields, plus timestamp monotonicity when its series
// is loaded. now is injected so "date after today" is deterministic
// under test.
func CheckWorkout(w domain.Workout, now time.Time) []IntegrityIssue {
	var issues []IntegrityIssue
	add := func(reason string) {
		issues = append(issues, IntegrityIssue{WorkoutID: w.ID, Reason: reason})
	}

	if w.DurationSec <= 0 {
		add("duration_seconds is zero or negative")
	}
	if w.Date.After(now) {
		add("date is in the future")
	}

	s := w.Summary
	if s.TSS != nil {
		if s.TSS.IsNegative() {
			add("tss is negative")
		} else if s.TSS.GreaterThan(maxReasonableTSS) {
			add(fmt.Sprintf("tss %s exceeds the sanity ceiling of %s", s.TSS, maxReasonableTSS))
		}
	}
	if s.TotalDistanceM != nil && s.TotalDistanceM.IsNegative() {
		add("total_distance_m is negative")
	}
	if s.AvgHR != nil && outsideIntRange(*s.AvgHR, minReasonableHR, maxReasonableHR) {
		add(fmt.Sprintf("avg_hr %d is outside [%d, %d]", *s.AvgHR, minReasonableHR, maxReasonableHR))
	}
	if s.MaxHR != nil && outsideIntRange(*s.MaxHR, minReasonableHR, maxReasonableHR) {
		add(fmt.Sprintf("max_hr %d is outside [%d, %d]", *s.MaxHR, minReasonableHR, maxReasonableHR))
	}
	if s.AvgPowerW != nil && *s.AvgPowerW > maxReasonablePowerW {
		add(fmt.Sprintf("avg_power_w %d exceeds %d", *s.AvgPowerW, maxReasonablePowerW))
	}
	if s.ElevationGainM != nil {
		if s.ElevationGainM.LessThan(minReasonableElevationM) || s.ElevationGainM.GreaterThan(maxReasonableElevationM) {
			add(fmt.Sprintf("elevation_gain_m %s is outside [%s, %s]", s.ElevationGainM, minReasonableElevationM, maxReasonableElevationM))
		}
	}

	if len(w.Series) > 0 && !domain.MonotonicTimestamps(w.Series) {
		add("time-series timestamps are not monotonically non-decreasing")
	}

	return issues
}

func outsideIntRange(v, lo, hi int) bool {
	return v < lo || v > hi
}
