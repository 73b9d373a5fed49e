package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

type fakeWorkoutStore struct {
	fakeWorkoutSource
	full    map[string]*domain.Workout
	upserts []domain.Workout
	getErr  error
}

func (f *fakeWorkoutStore) GetWorkout(id string, loadSeries bool) (*domain.Workout, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	w, ok := f.full[id]
	if !ok {
		return nil, assertErr("workout not found")
	}
	return w, nil
}

func (f *fakeWorkoutStore) UpsertWorkout(w domain.Workout) error {
	f.upserts = append(f.upserts, w)
	return nil
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

func assertErr(msg string) error { return simpleErr(msg) }

func powerPoint(watts int) domain.DataPoint {
	w := watts
	return domain.DataPoint{PowerW: &w}
}

func TestBackfillTSSSkipsWorkoutsAlreadyHavingTSS(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	withTSS := workoutWithTSS(t, "w1", "a1", base, "80")

	store := &fakeWorkoutStore{
		fakeWorkoutSource: fakeWorkoutSource{byAthlete: map[string][]domain.Workout{"a1": {withTSS}}},
	}

	athlete := domain.Athlete{ID: "a1"}
	results, err := BackfillTSS(store, "a1", athlete)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
	assert.Empty(t, store.upserts)
}

func TestBackfillTSSComputesAndPersistsMissingTSS(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]domain.DataPoint, 3600)
	for i := range series {
		series[i] = powerPoint(200)
		series[i].TimestampSeconds = i
	}
	w, err := domain.NewWorkout("w1", "a1", base, domain.SportCycling, 3600,
		domain.WorkoutTypeEndurance, domain.DataSourcePower, series)
	require.NoError(t, err)

	summaryOnly := *w
	summaryOnly.Series = nil

	ftp := 250
	store := &fakeWorkoutStore{
		fakeWorkoutSource: fakeWorkoutSource{byAthlete: map[string][]domain.Workout{"a1": {summaryOnly}}},
		full:              map[string]*domain.Workout{"w1": w},
	}
	athlete := domain.Athlete{ID: "a1", Global: domain.Thresholds{FTPWatts: &ftp}}

	results, err := BackfillTSS(store, "a1", athlete)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Skipped)
	assert.NoError(t, results[0].Err)
	require.NotNil(t, results[0].TSS)
	require.Len(t, store.upserts, 1)
	assert.NotNil(t, store.upserts[0].Summary.TSS)
}
