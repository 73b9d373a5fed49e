package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

const sampleTCX = `<?xml version="1.0" encoding="UTF-8"?>
<TrainingCenterDatabase xmlns="http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2">
  <Activities>
    <Activity Sport="Biking">
      <Id>2026-03-01T08:00:00Z</Id>
      <Lap StartTime="2026-03-01T08:00:00Z">
        <Track>
          <Trackpoint>
            <Time>2026-03-01T08:00:00Z</Time>
            <DistanceMeters>0</DistanceMeters>
            <HeartRateBpm><Value>120</Value></HeartRateBpm>
            <Extensions><TPX><Watts>150</Watts></TPX></Extensions>
          </Trackpoint>
          <Trackpoint>
            <Time>2026-03-01T08:01:00Z</Time>
            <DistanceMeters>300</DistanceMeters>
            <HeartRateBpm><Value>135</Value></HeartRateBpm>
            <Extensions><TPX><Watts>180</Watts></TPX></Extensions>
          </Trackpoint>
        </Track>
      </Lap>
    </Activity>
  </Activities>
</TrainingCenterDatabase>`

func TestDecodeTCXActivityBuildsMonotonicSeries(t *testing.T) {
	w, err := DecodeTCXActivity(strings.NewReader(sampleTCX), "a1", "w1")
	require.NoError(t, err)

	assert.Equal(t, domain.SportCycling, w.Sport)
	assert.Equal(t, 60, w.DurationSec)
	require.Len(t, w.Series, 2)
	assert.Equal(t, 0, w.Series[0].TimestampSeconds)
	assert.Equal(t, 60, w.Series[1].TimestampSeconds)
	require.NotNil(t, w.Series[1].PowerW)
	assert.Equal(t, 180, *w.Series[1].PowerW)
	require.NotNil(t, w.Series[1].HeartRate)
	assert.Equal(t, 135, *w.Series[1].HeartRate)
}

func TestDecodeTCXActivityRejectsEmptyActivities(t *testing.T) {
	_, err := DecodeTCXActivity(strings.NewReader(`<TrainingCenterDatabase><Activities></Activities></TrainingCenterDatabase>`), "a1", "w1")
	assert.Error(t, err)
}

func TestMapTCXSport(t *testing.T) {
	assert.Equal(t, domain.SportRunning, mapTCXSport("Running"))
	assert.Equal(t, domain.SportCycling, mapTCXSport("Biking"))
	assert.Equal(t, domain.SportSwimming, mapTCXSport("Swimming"))
	assert.Equal(t, domain.SportCrossTraining, mapTCXSport("Other"))
}
