package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

func TestWriteWorkoutsJSONOmitsNilSummaryFields(t *testing.T) {
	w := sampleCSVWorkout(t)
	w.Summary.Calories = nil

	var buf bytes.Buffer
	require.NoError(t, WriteWorkoutsJSON(&buf, []domain.Workout{w}))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 1)
	_, hasCalories := rows[0]["calories"]
	require.False(t, hasCalories)
	require.Equal(t, "w1", rows[0]["id"])
}

func TestDecFloatPtrNilPointerYieldsNilNotPanic(t *testing.T) {
	require.Nil(t, decFloatPtr(nil))
}
