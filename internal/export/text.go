package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// FormatText renders a single workout as a human-readable plain-text
// summary. It is a minimal library-side primitive; the CLI's
// `display --format summary` is responsible for any further layout
// decisions (column widths, paging, color).
func FormatText(w domain.Workout) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Workout %s\n", w.ID)
	fmt.Fprintf(&b, "Date:     %s\n", w.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Sport:    %s (%s)\n", w.Sport, w.Type)
	fmt.Fprintf(&b, "Duration: %s\n", formatHMS(w.DurationSec))

	s := w.Summary
	if s.TSS != nil {
		fmt.Fprintf(&b, "TSS:      %s\n", s.TSS.StringFixed(1))
	}
	if s.IntensityFactor != nil {
		fmt.Fprintf(&b, "IF:       %s\n", s.IntensityFactor.StringFixed(2))
	}
	if s.NormalizedPowerW != nil {
		fmt.Fprintf(&b, "NP:       %s W\n", s.NormalizedPowerW.StringFixed(0))
	}
	if s.AvgHR != nil {
		line := fmt.Sprintf("Avg HR:   %d bpm", *s.AvgHR)
		if s.MaxHR != nil {
			line += fmt.Sprintf(" (max %d)", *s.MaxHR)
		}
		b.WriteString(line + "\n")
	}
	if s.TotalDistanceM != nil {
		km := s.TotalDistanceM.Mul(decimal.NewFromFloat(0.001))
		fmt.Fprintf(&b, "Distance: %s km\n", km.StringFixed(2))
	}
	if s.ElevationGainM != nil {
		fmt.Fprintf(&b, "Elev+:    %s m\n", s.ElevationGainM.StringFixed(0))
	}
	if w.Notes != nil && *w.Notes != "" {
		fmt.Fprintf(&b, "Notes:    %s\n", *w.Notes)
	}

	return b.String()
}

// FormatTextMultiple joins several workouts' text summaries with a rule
// between entries.
func FormatTextMultiple(workouts []domain.Workout) string {
	parts := make([]string, len(workouts))
	for i, w := range workouts {
		parts[i] = FormatText(w)
	}
	return strings.Join(parts, strings.Repeat("-", 40)+"\n")
}
