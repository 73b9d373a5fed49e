package export

import (
	"strings"
	"testing"

	"github.com/trainrs/endurance-analytics/internal/domain"
)

func TestFormatTextIncludesCoreFields(t *testing.T) {
	w := sampleCSVWorkout(t)
	out := FormatText(w)

	for _, want := range []string{"Workout w1", "2026-03-01", "Cycling", "01:00:00", "TSS:", "85.5", "steady endurance ride"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestFormatTextMultipleSeparatesEntriesWithRule(t *testing.T) {
	w := sampleCSVWorkout(t)
	out := FormatTextMultiple([]domain.Workout{w, w})
	if strings.Count(out, strings.Repeat("-", 40)) != 1 {
		t.Fatalf("expected exactly one rule between two entries, got:\n%s", out)
	}
}
