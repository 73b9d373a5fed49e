package sport

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

func TestAnalyzeSwimComputesStrokesAndSWOLF(t *testing.T) {
	var points []domain.DataPoint
	for lap := 0; lap < 4; lap++ {
		for sec := 0; sec < 30; sec++ {
			strokes := 1
			lapNum := lap
			stype := "freestyle"
			points = append(points, domain.DataPoint{
				TimestampSeconds: lap*30 + sec,
				SwimStrokeCount:  &strokes,
				SwimStrokeType:   &stype,
				LapNumber:        &lapNum,
			})
		}
	}

	summary, err := AnalyzeSwim(points, decimal.NewFromInt(25))
	require.NoError(t, err)
	assert.Equal(t, 120, summary.TotalStrokes)
	assert.True(t, summary.SWOLF.IsPositive())
}

func TestAnalyzeSwimRejectsEmpty(t *testing.T) {
	_, err := AnalyzeSwim(nil, decimal.NewFromInt(25))
	require.Error(t, err)
}
