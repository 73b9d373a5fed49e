package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkoutSummary is the aggregated read-model for a workout. Every field is
// optional; it is populated incrementally as metrics are computed.
type WorkoutSummary struct {
	AvgHR            *int
	MaxHR            *int
	AvgPowerW        *int
	NormalizedPowerW *decimal.Decimal
	AvgPace          *decimal.Decimal
	IntensityFactor  *decimal.Decimal
	TSS              *decimal.Decimal
	TotalDistanceM   *decimal.Decimal
	ElevationGainM   *decimal.Decimal
	AvgCadence       *decimal.Decimal
	Calories         *int
}

// Workout is the central training-session entity (spec §3).
type Workout struct {
	ID          string
	AthleteID   string
	Date        time.Time
	Sport       Sport
	DurationSec int
	Type        WorkoutType
	DataSource  DataSource

	Summary WorkoutSummary
	Notes   *string
	Source  *string // ingest source tag, e.g. original filename or "manual"

	Series []DataPoint // loaded lazily by the storage layer; nil when unloaded

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWorkout constructs a Workout satisfying invariant 1 (duration_seconds >
// 0 whenever a time-series is attached) and invariant 2 (monotonic
// timestamps). Series may be nil for a summary-only workout.
func NewWorkout(id, athleteID string, date time.Time, sport Sport, durationSec int, wtype WorkoutType, source DataSource, series []DataPoint) (*Workout, error) {
	if len(series) > 0 {
		if durationSec <= 0 {
			return nil, &InvariantError{Reason: "duration_seconds must be > 0 when a time-series is present"}
		}
		if !MonotonicTimestamps(series) {
			return nil, &InvariantError{Reason: "time-series timestamps must be non-strictly increasing"}
		}
	}
	now := time.Now()
	return &Workout{
		ID:          id,
		AthleteID:   athleteID,
		Date:        date,
		Sport:       sport,
		DurationSec: durationSec,
		Type:        wtype,
		DataSource:  source,
		Series:      CloneSeries(series),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// InvariantError signals a violated domain invariant.
type InvariantError struct {
	Reason string
}

func (e *InvariantError) Error() string { return "invariant violation: " + e.Reason }

// WithTSS returns a copy of the workout with summary.TSS set and updated_at
// advanced, per spec §4.1's `Workout::with_tss`.
func (w Workout) WithTSS(tss decimal.Decimal) Workout {
	out := w
	out.Summary = w.Summary
	v := tss
	out.Summary.TSS = &v
	out.UpdatedAt = time.Now()
	return out
}

// DedupKey returns the tuple that determines duplicate identity (invariant
// 4): (athlete, sport, date, duration).
func (w Workout) DedupKey() (athleteID string, sport Sport, date time.Time, durationSec int) {
	return w.AthleteID, w.Sport, w.Date.Truncate(24 * time.Hour), w.DurationSec
}
