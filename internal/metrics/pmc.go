package metrics

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

// PmcConfig holds the EMA time constants and warning thresholds for the
// Performance Management Chart, mirroring the defaults in the original
// Rust PmcConfig (ctl=42d, atl=7d, 14 minimum data days, 1.5x spike
// threshold, 7-day ramp window).
type PmcConfig struct {
	CTLTimeConstant   int
	ATLTimeConstant   int
	MinDataDays       int
	ATLSpikeThreshold decimal.Decimal
	RampRateDays      int
}

// DefaultPmcConfig returns the stock tuning used when an athlete has not
// overridden it.
func DefaultPmcConfig() PmcConfig {
	return PmcConfig{
		CTLTimeConstant:   42,
		ATLTimeConstant:   7,
		MinDataDays:       14,
		ATLSpikeThreshold: decimal.NewFromFloat(1.5),
		RampRateDays:      7,
	}
}

// DailyTSS is one day's total training stress, zero on rest days.
type DailyTSS struct {
	Date time.Time
	TSS  decimal.Decimal
}

// TsbInterpretation buckets a TSB value into the original TsbInterpretation
// enum's five labels.
type TsbInterpretation int

const (
	TsbVeryFatigued TsbInterpretation = iota
	TsbFatigued
	TsbNeutral
	TsbFresh
	TsbVeryFresh
)

func (t TsbInterpretation) String() string {
	switch t {
	case TsbVeryFatigued:
		return "VeryFatigued"
	case TsbFatigued:
		return "Fatigued"
	case TsbNeutral:
		return "Neutral"
	case TsbFresh:
		return "Fresh"
	case TsbVeryFresh:
		return "VeryFresh"
	default:
		return ""
	}
}

// InterpretTSB buckets a raw TSB value: >=25 very fresh, >=5 fresh, >=-10
// neutral, >=-30 fatigued, else very fatigued.
func InterpretTSB(tsb decimal.Decimal) TsbInterpretation {
	f, _ := tsb.Float64()
	switch {
	case f >= 25:
		return TsbVeryFresh
	case f >= 5:
		return TsbFresh
	case f >= -10:
		return TsbNeutral
	case f >= -30:
		return TsbFatigued
	default:
		return TsbVeryFatigued
	}
}

// CalculatePMC runs the CTL/ATL/TSB EMA over [from, to], filling any gap
// day with zero TSS so the exponential decay is applied once per calendar
// day. Per spec, the series is seeded at ctl=atl=0 and iterated from
// `from - ctl_tc` (the warm-up region, which lets CTL/ATL settle before the
// requested window starts) through `to`; warm-up days are computed but not
// emitted, so the result only contains [from, to] while still being
// accurate at `from` itself. `daily` should cover at least
// [from - ctl_tc, to] — any day it doesn't cover is treated as a rest day.
func CalculatePMC(daily []DailyTSS, from, to time.Time, cfg PmcConfig) ([]domain.PmcMetrics, error) {
	if to.Before(from) {
		return nil, &InvalidData{Reason: "pmc: to date is before from date"}
	}

	from = truncateDay(from)
	to = truncateDay(to)
	warmupStart := from.AddDate(0, 0, -cfg.CTLTimeConstant)

	tssByDay := make(map[time.Time]decimal.Decimal, len(daily))
	for _, d := range daily {
		day := truncateDay(d.Date)
		tssByDay[day] = tssByDay[day].Add(d.TSS)
	}

	ctlAlpha := 1.0 / float64(cfg.CTLTimeConstant)
	atlAlpha := 1.0 / float64(cfg.ATLTimeConstant)

	var results []domain.PmcMetrics
	var ctlHistory, atlHistory []float64
	var ctl, atl float64
	index := 0

	for day := warmupStart; !day.After(to); day = day.AddDate(0, 0, 1) {
		tss := tssByDay[day]
		tssF, _ := tss.Float64()

		ctlYesterday := ctl
		ctl = ctl + (tssF-ctl)*ctlAlpha
		atl = atl + (tssF-atl)*atlAlpha
		tsb := ctlYesterday - atl

		ctlHistory = append(ctlHistory, ctl)
		atlHistory = append(atlHistory, atl)

		if day.Before(from) {
			index++
			continue
		}

		m := domain.PmcMetrics{
			Date:     day,
			CTL:      decimal.NewFromFloat(ctl),
			ATL:      decimal.NewFromFloat(atl),
			TSB:      decimal.NewFromFloat(tsb),
			DailyTSS: tss,
		}

		if index >= cfg.RampRateDays {
			weeks := float64(cfg.RampRateDays) / 7.0
			change := ctlHistory[index] - ctlHistory[index-cfg.RampRateDays]
			rate := decimal.NewFromFloat(change / weeks)
			m.CTLRampRate = &rate
		}

		if index >= 7 {
			var sum float64
			for _, v := range atlHistory[index-7 : index] {
				sum += v
			}
			mean := sum / 7
			if atl > mean*thresholdFloat(cfg.ATLSpikeThreshold) {
				m.ATLSpike = true
			}
		}

		results = append(results, m)
		index++
	}

	return results, nil
}

func thresholdFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
