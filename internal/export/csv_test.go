package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

func intPtr(v int) *int { return &v }
func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}
func strPtrVal(v string) *string { return &v }

func sampleCSVWorkout(t *testing.T) domain.Workout {
	t.Helper()
	w, err := domain.NewWorkout("w1", "athlete-1", time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		domain.SportCycling, 3600, domain.WorkoutTypeEndurance, domain.DataSourcePower, nil)
	require.NoError(t, err)
	w.Summary = domain.WorkoutSummary{
		TSS:              decPtr("85.5"),
		AvgHR:            intPtr(145),
		MaxHR:            intPtr(168),
		AvgPowerW:        intPtr(210),
		NormalizedPowerW: decPtr("220"),
		IntensityFactor:  decPtr("0.88"),
		TotalDistanceM:   decPtr("30000"),
		ElevationGainM:   decPtr("350"),
	}
	w.Notes = strPtrVal("steady endurance ride")
	w.Source = strPtrVal("manual")
	return *w
}

func TestWriteWorkoutSummaryCSVHeaderAndRow(t *testing.T) {
	w := sampleCSVWorkout(t)
	var buf bytes.Buffer
	require.NoError(t, WriteWorkoutSummaryCSV(&buf, []domain.Workout{w}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(WorkoutSummaryHeader, ","), lines[0])
	assert.Contains(t, lines[1], "2026-03-01")
	assert.Contains(t, lines[1], "Cycling")
	assert.Contains(t, lines[1], "85.5")
}

func TestWriteTrainingPeaksCSVMapsSportAndFormatsDuration(t *testing.T) {
	w := sampleCSVWorkout(t)
	var buf bytes.Buffer
	require.NoError(t, WriteTrainingPeaksCSV(&buf, []domain.Workout{w}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "03/01/2026")
	assert.Contains(t, lines[1], "01:00:00")
	assert.Contains(t, lines[1], "Bike")
}

func TestWritePMCCSVFormatsSpikeAsZeroOrOne(t *testing.T) {
	series := []domain.PmcMetrics{
		{
			Date:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			CTL:      decimal.RequireFromString("50"),
			ATL:      decimal.RequireFromString("60"),
			TSB:      decimal.RequireFromString("-10"),
			DailyTSS: decimal.RequireFromString("90"),
			ATLSpike: true,
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WritePMCCSV(&buf, series))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	fields := strings.Split(lines[1], ",")
	assert.Equal(t, "1", fields[len(fields)-1])
}
