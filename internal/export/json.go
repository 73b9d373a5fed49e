package export

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// workoutJSON is the on-the-wire shape for a workout export; it flattens
// Summary fields to the top level so consumers don't need to know the
// internal domain.Workout/WorkoutSummary split.
type workoutJSON struct {
	ID          string  `json:"id"`
	AthleteID   string  `json:"athlete_id"`
	Date        string  `json:"date"`
	Sport       string  `json:"sport"`
	DurationSec int     `json:"duration_seconds"`
	WorkoutType string  `json:"workout_type"`
	DataSource  string  `json:"data_source"`
	Notes       *string `json:"notes,omitempty"`
	Source      *string `json:"source,omitempty"`

	AvgHR            *int     `json:"avg_hr,omitempty"`
	MaxHR            *int     `json:"max_hr,omitempty"`
	AvgPowerW        *int     `json:"avg_power_w,omitempty"`
	NormalizedPowerW *float64 `json:"normalized_power_w,omitempty"`
	AvgPace          *float64 `json:"avg_pace,omitempty"`
	IntensityFactor  *float64 `json:"intensity_factor,omitempty"`
	TSS              *float64 `json:"tss,omitempty"`
	TotalDistanceM   *float64 `json:"total_distance_m,omitempty"`
	ElevationGainM   *float64 `json:"elevation_gain_m,omitempty"`
	AvgCadence       *float64 `json:"avg_cadence,omitempty"`
	Calories         *int     `json:"calories,omitempty"`
}

func toWorkoutJSON(w domain.Workout) workoutJSON {
	s := w.Summary
	return workoutJSON{
		ID:               w.ID,
		AthleteID:        w.AthleteID,
		Date:             w.Date.Format("2006-01-02T15:04:05Z07:00"),
		Sport:            w.Sport.String(),
		DurationSec:      w.DurationSec,
		WorkoutType:      w.Type.String(),
		DataSource:       w.DataSource.String(),
		Notes:            w.Notes,
		Source:           w.Source,
		AvgHR:            s.AvgHR,
		MaxHR:            s.MaxHR,
		AvgPowerW:        s.AvgPowerW,
		NormalizedPowerW: decFloatPtr(s.NormalizedPowerW),
		AvgPace:          decFloatPtr(s.AvgPace),
		IntensityFactor:  decFloatPtr(s.IntensityFactor),
		TSS:              decFloatPtr(s.TSS),
		TotalDistanceM:   decFloatPtr(s.TotalDistanceM),
		ElevationGainM:   decFloatPtr(s.ElevationGainM),
		AvgCadence:       decFloatPtr(s.AvgCadence),
		Calories:         s.Calories,
	}
}

func decFloatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

// WriteWorkoutsJSON renders workouts as a JSON array, indented for human
// readability (matching the teacher's consistent use of json.MarshalIndent
// for API/file output).
func WriteWorkoutsJSON(w io.Writer, workouts []domain.Workout) error {
	rows := make([]workoutJSON, len(workouts))
	for i, wk := range workouts {
		rows[i] = toWorkoutJSON(wk)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
