package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFeatureRow() FeatureRow {
	return FeatureRow{
		WorkoutID: "w1", AthleteID: "athlete-1", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Year: 2026, Month: 3, DayOfWeek: 0, DayOfYear: 60, ISOWeek: 9,
		Sport: "Cycling", WorkoutType: "Endurance",
		TSS: decimal.RequireFromString("80"), DurationHours: decimal.RequireFromString("1"),
		DistanceKM: decimal.RequireFromString("30"), IntensityFactor: decimal.RequireFromString("0.85"),
		NormalizedPower: decimal.RequireFromString("200"), AvgPace: decimal.Zero,
		HRZonePct: map[int]float64{1: 10, 2: 50, 3: 40},
		TSS7d:     decimal.RequireFromString("80"), TSS28d: decimal.RequireFromString("80"),
		Duration7d: decimal.RequireFromString("1"), Duration28d: decimal.RequireFromString("1"),
		Distance7d: decimal.RequireFromString("30"), Distance28d: decimal.RequireFromString("30"),
		CumulativeTSS: decimal.RequireFromString("80"), CumulativeDuration: decimal.RequireFromString("1"),
		CumulativeDistance: decimal.RequireFromString("30"),
		Split:              "train",
	}
}

func TestWriteMLFeaturesParquetProducesNonEmptyOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMLFeaturesParquet(&buf, []FeatureRow{sampleFeatureRow()}, 2))
	assert.NotEmpty(t, buf.Bytes())
	// Parquet files begin and end with the 4-byte magic "PAR1".
	assert.Equal(t, "PAR1", string(buf.Bytes()[:4]))
}

func TestToParquetRowLeavesMissingZonesAtZero(t *testing.T) {
	row := sampleFeatureRow()
	row.HRZonePct = nil
	pr := toParquetRow(row)
	assert.Equal(t, float64(0), pr.HRZone4Pct)
	assert.Equal(t, float64(0), pr.HRZone5Pct)
}
