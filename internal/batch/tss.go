package batch

import (
	"fmt"

	"github.com/trainrs/endurance-analytics/internal/domain"
	"github.com/trainrs/endurance-analytics/internal/metrics"
)

// WorkoutStore is the subset of internal/storage.DB the TSS back-fill
// operation needs: enumerate and persist workouts.
type WorkoutStore interface {
	WorkoutSource
	GetWorkout(id string, loadSeries bool) (*domain.Workout, error)
	UpsertWorkout(w domain.Workout) error
}

// BackfillResult reports one workout's TSS back-fill outcome.
type BackfillResult struct {
	WorkoutID string
	TSS       *string // decimal string, nil if skipped or failed
	Skipped   bool
	Err       error
}

// BackfillTSS computes and persists TSS for every workout belonging to
// athleteID whose Summary.TSS is still unset, using the athlete's
// thresholds effective on each workout's date. Workouts that already
// carry a TSS are skipped, not recomputed (back-fill, not recompute-all).
func BackfillTSS(store WorkoutStore, athleteID string, athlete domain.Athlete) ([]BackfillResult, error) {
	workouts, err := store.ListWorkouts(athleteID, 0)
	if err != nil {
		return nil, fmt.Errorf("batch: listing workouts for %s: %w", athleteID, err)
	}

	results := make([]BackfillResult, 0, len(workouts))
	for _, w := range workouts {
		if w.Summary.TSS != nil {
			results = append(results, BackfillResult{WorkoutID: w.ID, Skipped: true})
			continue
		}

		full, err := store.GetWorkout(w.ID, true)
		if err != nil {
			results = append(results, BackfillResult{WorkoutID: w.ID, Err: fmt.Errorf("batch: loading series for %s: %w", w.ID, err)})
			continue
		}

		th := athlete.EffectiveThresholds(full.Sport, full.Date)
		tssResult, err := metrics.CalculateTSS(*full, th)
		if err != nil {
			results = append(results, BackfillResult{WorkoutID: w.ID, Err: fmt.Errorf("batch: calculating TSS for %s: %w", w.ID, err)})
			continue
		}

		updated := full.WithTSS(tssResult.TSS)
		if err := store.UpsertWorkout(updated); err != nil {
			results = append(results, BackfillResult{WorkoutID: w.ID, Err: fmt.Errorf("batch: persisting TSS for %s: %w", w.ID, err)})
			continue
		}

		tssStr := tssResult.TSS.StringFixed(2)
		results = append(results, BackfillResult{WorkoutID: w.ID, TSS: &tssStr})
	}

	return results, nil
}
