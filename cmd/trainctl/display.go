package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/trainrs/endurance-analytics/internal/domain"
	"github.com/trainrs/endurance-analytics/internal/export"
)

// Palette mirrors the teacher's tui package so the CLI's plain-text output
// reads consistently with the interactive dashboard.
var (
	displayPrimaryColor = lipgloss.Color("#7C3AED")
	displayMutedColor   = lipgloss.Color("#6B7280")

	displayHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(displayPrimaryColor)
	displayLabelStyle  = lipgloss.NewStyle().Foreground(displayMutedColor).Width(14)
)

func newDisplayCmd() *cobra.Command {
	var (
		format    string
		limit     int
		athleteID string
	)

	cmd := &cobra.Command{
		Use:   "display",
		Short: "Print recent workouts as a table, chart, or summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisplay(format, limit, athleteID)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "table, chart, or summary")
	cmd.Flags().IntVar(&limit, "limit", 10, "number of recent workouts to show")
	cmd.Flags().StringVar(&athleteID, "athlete", "", "athlete ID (defaults to default_athlete_id)")
	return cmd
}

func runDisplay(format string, limit int, athleteFlag string) error {
	if limit <= 0 {
		return newUsageError("display: --limit must be positive, got %d", limit)
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

	workouts, err := a.db.ListWorkouts(id, limit)
	if err != nil {
		return fmt.Errorf("listing workouts for %s: %w", id, err)
	}
	if len(workouts) == 0 {
		fmt.Println("no workouts found")
		return nil
	}

	switch format {
	case "table":
		fmt.Println(displayHeaderStyle.Render(fmt.Sprintf("recent workouts (%d)", len(workouts))))
		fmt.Println(export.FormatTextMultiple(workouts))
	case "summary":
		for _, w := range workouts {
			fmt.Println(export.FormatText(w))
			fmt.Println()
		}
	case "chart":
		renderDurationChart(workouts)
	default:
		return newUsageError("display: unknown --format %q", format)
	}
	return nil
}

// renderDurationChart draws a simple per-workout bar using duration in
// minutes, scaled to an 40-column width, since asciigraph needs a numeric
// series rather than per-row bars.
func renderDurationChart(workouts []domain.Workout) {
	const barWidth = 40
	maxMin := 1
	for _, w := range workouts {
		if m := w.DurationSec / 60; m > maxMin {
			maxMin = m
		}
	}
	for _, w := range workouts {
		minutes := w.DurationSec / 60
		filled := (minutes * barWidth) / maxMin
		bar := ""
		for i := 0; i < barWidth; i++ {
			if i < filled {
				bar += "#"
			} else {
				bar += " "
			}
		}
		label := displayLabelStyle.Render(w.Date.Format("2006-01-02"))
		fmt.Printf("%s |%s| %s min\n", label, bar, strconv.Itoa(minutes))
	}
}
