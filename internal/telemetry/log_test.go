package telemetry

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesJSONLinesAtConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Init(Options{Level: "warn", Output: &buf})

	logger.Info().Msg("should be filtered")
	logger.Warn().Str("workout_id", "w1").Msg("should appear")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &decoded))
	assert.Equal(t, "should appear", decoded["message"])
	assert.Equal(t, "w1", decoded["workout_id"])
}

func TestVerbosityToLevelIsAdditive(t *testing.T) {
	assert.Equal(t, "info", VerbosityToLevel(0))
	assert.Equal(t, "debug", VerbosityToLevel(1))
	assert.Equal(t, "trace", VerbosityToLevel(2))
	assert.Equal(t, "trace", VerbosityToLevel(5))
}
