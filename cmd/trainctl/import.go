package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trainrs/endurance-analytics/internal/ingest"
	"github.com/trainrs/endurance-analytics/internal/metrics"
)

func newImportCmd() *cobra.Command {
	var (
		files     []string
		athleteID string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Decode FIT/TCX/GPX files and store them",
		RunE: func(cmd *cobra.Command, args []string) error {
			files = append(files, args...)
			if len(files) == 0 {
				return newUsageError("import: at least one --file is required")
			}
			return runImport(files, athleteID)
		},
	}
	cmd.Flags().StringSliceVar(&files, "file", nil, "path to a FIT/TCX/GPX file (repeatable)")
	cmd.Flags().StringVar(&athleteID, "athlete", "", "athlete ID (defaults to default_athlete_id)")
	return cmd
}

func runImport(files []string, athleteFlag string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.db.Close()

	athleteID, err := resolveAthleteID(a.cfg, athleteFlag)
	if err != nil {
		return err
	}

	quirkRecords, err := a.db.ListDeviceQuirks()
	if err != nil {
		return fmt.Errorf("loading device quirks: %w", err)
	}

	importer := &ingest.BatchImporter{
		AthleteID: athleteID,
		Cache:     ingest.NewParseCache(0, 0),
		Quirks:    ingest.NewQuirkRegistry(quirkRecords),
	}

	results := importer.ImportAll(context.Background(), files)

	athlete, err := a.db.GetAthlete(athleteID)
	if err != nil {
		return fmt.Errorf("loading athlete %s: %w", athleteID, err)
	}

	var succeeded, failed int
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("FAILED  %s: %v\n", r.Path, r.Err)
			failed++
			continue
		}
		w := *r.Workout
		if a.cfg.Import.AutoCalculateTSS {
			thresholds := athlete.EffectiveThresholds(w.Sport, w.Date)
			if result, err := metrics.CalculateTSS(w, thresholds); err == nil {
				w = w.WithTSS(result.TSS)
			}
		}
		if err := a.db.UpsertWorkout(w); err != nil {
			fmt.Printf("FAILED  %s: storing: %v\n", r.Path, err)
			failed++
			continue
		}
		fmt.Printf("OK      %s -> workout %s\n", r.Path, w.ID)
		succeeded++
	}

	fmt.Printf("\nimported %d, failed %d\n", succeeded, failed)
	if failed > 0 && succeeded == 0 {
		return fmt.Errorf("import: all %d file(s) failed", failed)
	}
	return nil
}
