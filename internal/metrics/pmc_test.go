package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePMCDeterministic(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var daily []DailyTSS
	for i := 0; i < 30; i++ {
		daily = append(daily, DailyTSS{Date: base.AddDate(0, 0, i), TSS: decimal.NewFromInt(80)})
	}
	to := base.AddDate(0, 0, 29)

	first, err := CalculatePMC(daily, base, to, DefaultPmcConfig())
	require.NoError(t, err)
	second, err := CalculatePMC(daily, base, to, DefaultPmcConfig())
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].CTL.Equal(second[i].CTL))
		assert.True(t, first[i].ATL.Equal(second[i].ATL))
	}
}

func TestCalculatePMCFillsRestDays(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	daily := []DailyTSS{
		{Date: base, TSS: decimal.NewFromInt(100)},
		{Date: base.AddDate(0, 0, 5), TSS: decimal.NewFromInt(100)},
	}
	results, err := CalculatePMC(daily, base, base.AddDate(0, 0, 5), DefaultPmcConfig())
	require.NoError(t, err)
	assert.Len(t, results, 6)
	assert.True(t, results[2].DailyTSS.IsZero())
}

// A single 300-TSS day at the very start of the window, with no history
// before it, should decay in from a zero seed over the 42-day warm-up
// region rather than starting CTL at the raw TSS value.
func TestCalculatePMCSeedsFromZeroOverWarmup(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	daily := []DailyTSS{{Date: base, TSS: decimal.NewFromInt(300)}}

	cfg := DefaultPmcConfig()
	results, err := CalculatePMC(daily, base, base, cfg)
	require.NoError(t, err)
	require.Len(t, results, 1)

	ctl, _ := results[0].CTL.Float64()
	assert.InDelta(t, 300.0/42.0, ctl, 0.01)
}

// The emitted series must start exactly at `from`, even when the
// athlete's data predates the window by more than ctl_tc days.
func TestCalculatePMCWindowStartsAtFrom(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	from := base.AddDate(0, 0, 100)
	to := base.AddDate(0, 0, 110)

	var daily []DailyTSS
	for i := 0; i < 100; i++ {
		daily = append(daily, DailyTSS{Date: base.AddDate(0, 0, i), TSS: decimal.NewFromInt(50)})
	}

	results, err := CalculatePMC(daily, from, to, DefaultPmcConfig())
	require.NoError(t, err)
	require.Len(t, results, 11)
	assert.True(t, results[0].Date.Equal(from))
	assert.True(t, results[len(results)-1].Date.Equal(to))
}

func TestInterpretTSB(t *testing.T) {
	assert.Equal(t, TsbVeryFatigued, InterpretTSB(decimal.NewFromInt(-40)))
	assert.Equal(t, TsbFatigued, InterpretTSB(decimal.NewFromInt(-20)))
	assert.Equal(t, TsbNeutral, InterpretTSB(decimal.NewFromInt(0)))
	assert.Equal(t, TsbFresh, InterpretTSB(decimal.NewFromInt(15)))
	assert.Equal(t, TsbVeryFresh, InterpretTSB(decimal.NewFromInt(30)))
}

func TestCalculatePMCRejectsInvertedRange(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := CalculatePMC(nil, base, base.AddDate(0, 0, -1), DefaultPmcConfig())
	require.Error(t, err)
}
