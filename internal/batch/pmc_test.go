package batch

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
	"github.com/trainrs/endurance-analytics/internal/metrics"
)

type fakeWorkoutSource struct {
	byAthlete map[string][]domain.Workout
	err       error
}

func (f *fakeWorkoutSource) ListWorkouts(athleteID string, limit int) ([]domain.Workout, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byAthlete[athleteID], nil
}

func workoutWithTSS(t *testing.T, id, athleteID string, date time.Time, tss string) domain.Workout {
	t.Helper()
	w, err := domain.NewWorkout(id, athleteID, date, domain.SportCycling, 3600,
		domain.WorkoutTypeEndurance, domain.DataSourcePower, nil)
	require.NoError(t, err)
	v := decimal.RequireFromString(tss)
	w.Summary.TSS = &v
	return *w
}

func TestPMCRunnerComputesSeriesPerAthleteIndependently(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	source := &fakeWorkoutSource{byAthlete: map[string][]domain.Workout{
		"a1": {workoutWithTSS(t, "w1", "a1", base, "80"), workoutWithTSS(t, "w2", "a1", base.AddDate(0, 0, 1), "60")},
		"a2": {workoutWithTSS(t, "w3", "a2", base, "40")},
	}}
	runner := &PMCRunner{Source: source, Cache: NewResultCache(time.Minute)}

	results := runner.Run([]PMCRequest{
		{AthleteID: "a1", From: base, To: base.AddDate(0, 0, 30), Config: metrics.DefaultPmcConfig()},
		{AthleteID: "a2", From: base, To: base.AddDate(0, 0, 30), Config: metrics.DefaultPmcConfig()},
	})

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Len(t, results[0].Series, 31)
	assert.Len(t, results[1].Series, 31)
}

func TestPMCRunnerCachesSecondCallForSameWindow(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	source := &fakeWorkoutSource{byAthlete: map[string][]domain.Workout{
		"a1": {workoutWithTSS(t, "w1", "a1", base, "80")},
	}}
	runner := &PMCRunner{Source: source, Cache: NewResultCache(time.Minute)}
	req := PMCRequest{AthleteID: "a1", From: base, To: base.AddDate(0, 0, 10), Config: metrics.DefaultPmcConfig()}

	first := runner.Run([]PMCRequest{req})[0]
	assert.False(t, first.Cached)

	second := runner.Run([]PMCRequest{req})[0]
	assert.True(t, second.Cached)
	assert.Equal(t, first.Series, second.Series)
}

func TestPMCRunnerReportsPerAthleteErrorWithoutAbortingOthers(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	source := &fakeWorkoutSource{err: errors.New("boom")}
	runner := &PMCRunner{Source: source}

	results := runner.Run([]PMCRequest{{AthleteID: "a1", From: base, To: base.AddDate(0, 0, 1)}})
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}
