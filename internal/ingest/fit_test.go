package ingest

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

func TestMapFITSport(t *testing.T) {
	cases := map[string]domain.Sport{
		"Running":    domain.SportRunning,
		"Cycling":    domain.SportCycling,
		"Swimming":   domain.SportSwimming,
		"Rowing":     domain.SportRowing,
		"Triathlon":  domain.SportTriathlon,
		"Multisport": domain.SportTriathlon,
		"Alpineski":  domain.SportCrossTraining,
	}
	for in, want := range cases {
		assert.Equal(t, want, mapFITSport(in), in)
	}
}

func TestInferDataSourcePrefersPowerOverPaceOverHR(t *testing.T) {
	power := 200
	speed := decimal.NewFromInt(3)
	hr := 150

	assert.Equal(t, domain.DataSourcePower, inferDataSource([]domain.DataPoint{{PowerW: &power, SpeedMPS: &speed, HeartRate: &hr}}))
	assert.Equal(t, domain.DataSourcePace, inferDataSource([]domain.DataPoint{{SpeedMPS: &speed, HeartRate: &hr}}))
	assert.Equal(t, domain.DataSourceHeartRate, inferDataSource([]domain.DataPoint{{HeartRate: &hr}}))
	assert.Equal(t, domain.DataSourceRPE, inferDataSource([]domain.DataPoint{{}}))
}

func TestIsFiniteRejectsNaNAndInf(t *testing.T) {
	assert.True(t, isFinite(1.5))
	assert.False(t, isFinite(math.NaN()))
	assert.False(t, isFinite(math.Inf(1)))
	assert.False(t, isFinite(math.Inf(-1)))
}

func TestValidTimeRejectsZero(t *testing.T) {
	assert.True(t, validTime(time.Time{}).IsZero())
	now := time.Now()
	assert.Equal(t, now, validTime(now))
}
