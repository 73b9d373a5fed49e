package zones

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHRZonesPartitionCompleteness(t *testing.T) {
	zs, err := HRZones(decimal.NewFromInt(160))
	require.NoError(t, err)

	// 143 (89.4% of 160) and 159 (99.4% of 160) previously fell in the gaps
	// between hand-picked percentages; the exact 0.81/0.89/0.93/0.99
	// boundaries must cover every non-negative bpm with no gap.
	for bpm := 0; bpm <= 200; bpm++ {
		_, err := zs.GetZone(decimal.NewFromInt(int64(bpm)))
		assert.NoError(t, err, "bpm %d should match a zone", bpm)
	}
}

func TestHRZonesExactBoundaries(t *testing.T) {
	zs, err := HRZones(decimal.NewFromInt(160))
	require.NoError(t, err)

	cases := []struct {
		bpm  int64
		zone string
	}{
		{129, "Recovery"},       // 80.6%
		{130, "Aerobic"},        // 81.25%
		{142, "Aerobic"},        // 88.75%
		{143, "Tempo"},          // 89.4%
		{148, "Tempo"},          // 92.5%
		{149, "Threshold"},      // 93.1%
		{158, "Threshold"},      // 98.75%
		{159, "VO2Max"},         // 99.4%
		{160, "VO2Max"},         // 100%
	}
	for _, c := range cases {
		z, err := zs.GetZone(decimal.NewFromInt(c.bpm))
		require.NoError(t, err, "bpm %d", c.bpm)
		assert.Equal(t, c.zone, z.Name, "bpm %d", c.bpm)
	}
}

func TestPowerZonesExactBoundaries(t *testing.T) {
	zs, err := PowerZones(decimal.NewFromInt(250))
	require.NoError(t, err)

	z, err := zs.GetZone(decimal.NewFromInt(224))
	require.NoError(t, err)
	assert.Equal(t, "Threshold", z.Name, "224W at FTP=250 is 89.6%, just over the 0.89 boundary")

	z, err = zs.GetZone(decimal.NewFromInt(221))
	require.NoError(t, err)
	assert.Equal(t, "Tempo", z.Name, "221W at FTP=250 is 88.4%, just under the 0.89 boundary")
}

func TestPaceZonesThresholdVO2MaxSplitAtFull(t *testing.T) {
	threshold := decimal.NewFromFloat(5.0) // 5 min/km
	zs, err := PaceZones(threshold)
	require.NoError(t, err)

	z, err := zs.GetZone(decimal.NewFromFloat(4.975)) // 99.5% of threshold
	require.NoError(t, err)
	assert.Equal(t, "VO2Max", z.Name)

	z, err = zs.GetZone(decimal.NewFromFloat(5.0)) // exactly threshold
	require.NoError(t, err)
	assert.Equal(t, "Threshold", z.Name)
}

func TestPowerZonesRecoveryAndNMP(t *testing.T) {
	zs, err := PowerZones(decimal.NewFromInt(250))
	require.NoError(t, err)

	z, err := zs.GetZone(decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, "ActiveRecovery", z.Name)

	z, err = zs.GetZone(decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.Equal(t, "NeuromuscularPower", z.Name)
}

func TestPaceZonesFastIsHighNumber(t *testing.T) {
	threshold := decimal.NewFromFloat(5.0) // 5 min/km
	zs, err := PaceZones(threshold)
	require.NoError(t, err)

	fast, err := zs.GetZone(decimal.NewFromFloat(4.5))
	require.NoError(t, err)
	slow, err := zs.GetZone(decimal.NewFromFloat(7.0))
	require.NoError(t, err)
	assert.Greater(t, fast.Number, slow.Number)
}

func TestZonesRejectNonPositiveThreshold(t *testing.T) {
	_, err := HRZones(decimal.Zero)
	assert.Error(t, err)
	_, err = PowerZones(decimal.NewFromInt(-5))
	assert.Error(t, err)
}

func TestDistributionTallies(t *testing.T) {
	zs, err := HRZones(decimal.NewFromInt(160))
	require.NoError(t, err)

	values := []decimal.Decimal{
		decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(170),
	}
	dist := Distribution(zs, values)
	assert.Equal(t, 2, dist[1])
	assert.Equal(t, 1, dist[5])
}

func TestEstimateHelpers(t *testing.T) {
	maxHR, err := EstimateMaxHR(30)
	require.NoError(t, err)
	assert.InDelta(t, 187, maxHR, 1)

	lthr, err := EstimateLTHRFromMaxHR(maxHR)
	require.NoError(t, err)
	assert.InDelta(t, 159, lthr, 1)

	ftp, err := EstimateFTPFrom20MinPower(decimal.NewFromInt(280))
	require.NoError(t, err)
	assert.True(t, ftp.Equal(decimal.NewFromFloat(266)))

	_, err = EstimateMaxHR(-1)
	assert.Error(t, err)
}
