package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/trainrs/endurance-analytics/internal/domain"
	"github.com/trainrs/endurance-analytics/internal/export"
	"github.com/trainrs/endurance-analytics/internal/zones"
)

func newExportCmd() *cobra.Command {
	var (
		output    string
		format    string
		athleteID string
		from, to  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored workouts as csv, json, pwx, or an ML feature table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(output, format, athleteID, from, to)
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output file path (required)")
	cmd.Flags().StringVar(&format, "format", "csv", "csv, json, pwx, or features")
	cmd.Flags().StringVar(&athleteID, "athlete", "", "athlete ID (defaults to default_athlete_id)")
	cmd.Flags().StringVar(&from, "from", "", "only workouts on/after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "only workouts on/before this date (YYYY-MM-DD)")
	return cmd
}

// formats html and pdf are named in the CLI surface spec references but no
// rendering library is wired into this pack; they return UnsupportedFormatError
// rather than silently degrading to another format.
func runExport(output, format, athleteFlag, fromStr, toStr string) error {
	if output == "" {
		return newUsageError("export: --output is required")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.db.Close()

	id, err := resolveAthleteID(a.cfg, athleteFlag)
	if err != nil {
		return err
	}

	workouts, err := a.db.ListWorkouts(id, 0)
	if err != nil {
		return fmt.Errorf("listing workouts for %s: %w", id, err)
	}
	workouts, err = filterByDateStrings(workouts, fromStr, toStr)
	if err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	defer f.Close()

	switch format {
	case "csv":
		err = export.WriteWorkoutSummaryCSV(f, workouts)
	case "json":
		err = export.WriteWorkoutsJSON(f, workouts)
	case "pwx":
		athlete, gerr := a.db.GetAthlete(id)
		if gerr != nil {
			return fmt.Errorf("loading athlete %s: %w", id, gerr)
		}
		err = writePWXArchive(f, athlete.DisplayName, workouts)
	case "features":
		err = runExportFeatures(f, a, id, workouts)
	case "html", "pdf":
		return &export.UnsupportedFormatError{Format: format}
	default:
		return newUsageError("export: unknown --format %q", format)
	}
	if err != nil {
		return fmt.Errorf("exporting %s: %w", format, err)
	}

	fmt.Printf("wrote %d workout(s) to %s (%s)\n", len(workouts), output, format)
	return nil
}

// writePWXArchive concatenates one PWX document per workout; PWX has no
// native multi-activity container the way CSV/JSON do.
func writePWXArchive(f *os.File, athleteName string, workouts []domain.Workout) error {
	for _, w := range workouts {
		if err := export.WritePWX(f, athleteName, w); err != nil {
			return fmt.Errorf("workout %s: %w", w.ID, err)
		}
	}
	return nil
}

func runExportFeatures(f *os.File, a *app, athleteID string, workouts []domain.Workout) error {
	athlete, err := a.db.GetAthlete(athleteID)
	if err != nil {
		return fmt.Errorf("loading athlete %s: %w", athleteID, err)
	}

	var hrZones *zones.ZoneSystem
	if athlete.Global.LTHRBpm != nil {
		zs, err := zones.HRZones(decimal.NewFromInt(int64(*athlete.Global.LTHRBpm)))
		if err == nil {
			hrZones = &zs
		}
	}

	rows, err := export.BuildFeatures(workouts, hrZones, export.DefaultSplitFractions())
	if err != nil {
		return fmt.Errorf("building feature rows: %w", err)
	}
	return export.WriteMLFeaturesCSV(f, rows)
}

func filterByDateStrings(workouts []domain.Workout, fromStr, toStr string) ([]domain.Workout, error) {
	if fromStr == "" && toStr == "" {
		return workouts, nil
	}
	var from, to time.Time
	var err error
	if fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return nil, newUsageError("export: invalid --from date %q: %v", fromStr, err)
		}
	}
	if toStr != "" {
		if to, err = time.Parse("2006-01-02", toStr); err != nil {
			return nil, newUsageError("export: invalid --to date %q: %v", toStr, err)
		}
	}
	filtered := make([]domain.Workout, 0, len(workouts))
	for _, w := range workouts {
		if !from.IsZero() && w.Date.Before(from) {
			continue
		}
		if !to.IsZero() && w.Date.After(to) {
			continue
		}
		filtered = append(filtered, w)
	}
	return filtered, nil
}
