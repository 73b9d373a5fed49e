package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx>
  <trk>
    <name>Morning Run</name>
    <type>running</type>
    <trkseg>
      <trkpt lat="37.7749" lon="-122.4194">
        <ele>10.0</ele>
        <time>2026-03-01T07:00:00Z</time>
        <extensions><TrackPointExtension><hr>140</hr><cad>82</cad></TrackPointExtension></extensions>
      </trkpt>
      <trkpt lat="37.7759" lon="-122.4194">
        <ele>12.0</ele>
        <time>2026-03-01T07:01:00Z</time>
        <extensions><TrackPointExtension><hr>150</hr><cad>84</cad></TrackPointExtension></extensions>
      </trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestDecodeGPXTrackAccumulatesDistanceFromPositions(t *testing.T) {
	w, err := DecodeGPXTrack(strings.NewReader(sampleGPX), "a1", "w1")
	require.NoError(t, err)

	assert.Equal(t, domain.SportRunning, w.Sport)
	require.Len(t, w.Series, 2)
	assert.Equal(t, 0, w.Series[0].TimestampSeconds)
	assert.Equal(t, 60, w.Series[1].TimestampSeconds)

	require.NotNil(t, w.Series[0].DistanceM)
	assert.True(t, w.Series[0].DistanceM.IsZero())
	require.NotNil(t, w.Series[1].DistanceM)
	assert.True(t, w.Series[1].DistanceM.GreaterThan(*w.Series[0].DistanceM))
}

func TestDecodeGPXTrackRejectsNoTracks(t *testing.T) {
	_, err := DecodeGPXTrack(strings.NewReader(`<gpx></gpx>`), "a1", "w1")
	assert.Error(t, err)
}

func TestHaversineMetersIsZeroForSamePoint(t *testing.T) {
	assert.InDelta(t, 0.0, haversineMeters(37.0, -122.0, 37.0, -122.0), 1e-9)
}

func TestHaversineMetersIsPositiveForDistinctPoints(t *testing.T) {
	d := haversineMeters(37.7749, -122.4194, 37.7759, -122.4194)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 2000.0)
}
