package batch

import (
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/trainrs/endurance-analytics/internal/domain"
	"github.com/trainrs/endurance-analytics/internal/metrics"
	"github.com/trainrs/endurance-analytics/internal/telemetry"
)

// WorkoutSource loads an athlete's workouts (limit <= 0 means all). The
// runner filters them by date and sorts the daily totals itself, so the
// source's ordering does not matter. Implemented by
// internal/storage.DB; kept as an interface here so batch operations
// don't import the storage package directly.
type WorkoutSource interface {
	ListWorkouts(athleteID string, limit int) ([]domain.Workout, error)
}

// PMCRequest identifies one athlete's PMC series over [From, To].
type PMCRequest struct {
	AthleteID string
	From, To  time.Time
	Config    metrics.PmcConfig
}

func (r PMCRequest) cacheKey() string {
	return Key("pmc", r.AthleteID, r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
}

// PMCRunner computes PMC series for multiple athletes concurrently,
// caching each athlete's result under a key scoped to (athlete, from,
// to) so overlapping requests for different windows never collide.
type PMCRunner struct {
	Source WorkoutSource
	Cache  *ResultCache
}

// Run computes (or returns cached) PMC series for each request. Requests
// are independent: one athlete's failure does not abort the others,
// mirroring the ingest batch's per-item error handling (spec §5: "Ingest
// outcomes are reported out-of-order; consumers must not rely on file
// order").
func (r *PMCRunner) Run(requests []PMCRequest) []PMCResult {
	results := make([]PMCResult, len(requests))
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, req PMCRequest) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.runOne(req)
		}(i, req)
	}
	wg.Wait()
	return results
}

// PMCResult is one athlete's outcome: either a populated Series or Err.
type PMCResult struct {
	AthleteID string
	Series    []domain.PmcMetrics
	Cached    bool
	Err       error
}

func (r *PMCRunner) runOne(req PMCRequest) PMCResult {
	start := time.Now()
	result := r.doRunOne(req)

	event := telemetry.Log.Info()
	outcome := "computed"
	if result.Cached {
		outcome = "cached"
	}
	if result.Err != nil {
		event = telemetry.Log.Warn()
		outcome = "error"
	}
	event.
		Str("athlete_id", req.AthleteID).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Str("outcome", outcome).
		Int("days", len(result.Series))
	if result.Err != nil {
		event.Err(result.Err)
	}
	event.Msg("pmc computed")

	return result
}

func (r *PMCRunner) doRunOne(req PMCRequest) PMCResult {
	key := req.cacheKey()
	if r.Cache != nil {
		if raw, ok := r.Cache.Get(key); ok {
			var series []domain.PmcMetrics
			if err := json.Unmarshal(raw, &series); err == nil {
				return PMCResult{AthleteID: req.AthleteID, Series: series, Cached: true}
			}
		}
	}

	workouts, err := r.Source.ListWorkouts(req.AthleteID, 0)
	if err != nil {
		return PMCResult{AthleteID: req.AthleteID, Err: fmt.Errorf("batch: listing workouts for %s: %w", req.AthleteID, err)}
	}

	warmupStart := req.From.AddDate(0, 0, -req.Config.CTLTimeConstant)
	daily := dailyTSSInRange(workouts, warmupStart, req.To)
	series, err := metrics.CalculatePMC(daily, req.From, req.To, req.Config)
	if err != nil {
		return PMCResult{AthleteID: req.AthleteID, Err: fmt.Errorf("batch: computing PMC for %s: %w", req.AthleteID, err)}
	}

	if r.Cache != nil {
		if raw, err := json.Marshal(series); err == nil {
			r.Cache.Put(key, raw)
		}
	}
	return PMCResult{AthleteID: req.AthleteID, Series: series}
}

// dailyTSSInRange buckets each workout's TSS onto its calendar day,
// summing same-day workouts, restricted to [from, to]. Callers computing a
// PMC series pass a `from` extended back by the warm-up period so
// CalculatePMC's decay has real data to settle against before the
// requested window starts.
func dailyTSSInRange(workouts []domain.Workout, from, to time.Time) []metrics.DailyTSS {
	byDay := make(map[string]metrics.DailyTSS)
	order := make([]string, 0, len(workouts))

	for _, w := range workouts {
		day := w.Date.Truncate(24 * time.Hour)
		if day.Before(from) || day.After(to) {
			continue
		}
		if w.Summary.TSS == nil {
			continue
		}
		key := day.Format("2006-01-02")
		entry, ok := byDay[key]
		if !ok {
			entry = metrics.DailyTSS{Date: day}
			order = append(order, key)
		}
		entry.TSS = entry.TSS.Add(*w.Summary.TSS)
		byDay[key] = entry
	}

	out := make([]metrics.DailyTSS, 0, len(order))
	for _, key := range order {
		out = append(out, byDay[key])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
