package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/trainrs/endurance-analytics/internal/batch"
)

func newCalculateCmd() *cobra.Command {
	var (
		from, to  string
		athleteID string
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Back-fill TSS for workouts missing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(from, to, athleteID)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "only report workouts on/after this date (YYYY-MM-DD); TSS is back-filled for all workouts")
	cmd.Flags().StringVar(&to, "to", "", "only report workouts on/before this date (YYYY-MM-DD); TSS is back-filled for all workouts")
	cmd.Flags().StringVar(&athleteID, "athlete", "", "athlete ID (defaults to default_athlete_id)")
	return cmd
}

func runCalculate(fromStr, toStr, athleteFlag string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.db.Close()

	id, err := resolveAthleteID(a.cfg, athleteFlag)
	if err != nil {
		return err
	}

	var from, to time.Time
	if fromStr != "" {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			return newUsageError("calculate: invalid --from date %q: %v", fromStr, err)
		}
	}
	if toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return newUsageError("calculate: invalid --to date %q: %v", toStr, err)
		}
	}

	athlete, err := a.db.GetAthlete(id)
	if err != nil {
		return fmt.Errorf("loading athlete %s: %w", id, err)
	}

	inRange, err := workoutIDsInRange(a, id, from, to)
	if err != nil {
		return err
	}

	results, err := batch.BackfillTSS(a.db, id, *athlete)
	if err != nil {
		return fmt.Errorf("back-filling TSS: %w", err)
	}

	var computed, skipped, failed int
	for _, r := range results {
		if inRange != nil && !inRange[r.WorkoutID] {
			continue
		}
		switch {
		case r.Err != nil:
			fmt.Printf("FAILED  %s: %v\n", r.WorkoutID, r.Err)
			failed++
		case r.Skipped:
			skipped++
		default:
			fmt.Printf("TSS     %s = %s\n", r.WorkoutID, *r.TSS)
			computed++
		}
	}

	fmt.Printf("\ncomputed %d, skipped %d (already had TSS), failed %d\n", computed, skipped, failed)
	return nil
}

// workoutIDsInRange returns the set of an athlete's workout IDs whose date
// falls within [from, to] (either bound may be zero to mean unbounded),
// or nil if both bounds are unset (no filtering).
func workoutIDsInRange(a *app, athleteID string, from, to time.Time) (map[string]bool, error) {
	if from.IsZero() && to.IsZero() {
		return nil, nil
	}
	workouts, err := a.db.ListWorkouts(athleteID, 0)
	if err != nil {
		return nil, fmt.Errorf("listing workouts for %s: %w", athleteID, err)
	}
	ids := make(map[string]bool)
	for _, w := range workouts {
		if !from.IsZero() && w.Date.Before(from) {
			continue
		}
		if !to.IsZero() && w.Date.After(to) {
			continue
		}
		ids[w.ID] = true
	}
	return ids, nil
}
