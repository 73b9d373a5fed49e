package domain

import "time"

// HRVStatus is a coarse classification of HRV trend vs the athlete's
// rolling baseline.
type HRVStatus int

const (
	HRVStatusBalanced HRVStatus = iota
	HRVStatusLow
	HRVStatusHigh
)

// HRVReading is a single RMSSD measurement, grounded on the WHOOP-shaped
// RecoveryScore fields (hrv_rmssd_milli, resting_heart_rate) surfaced in
// benstraw-obsidian-whoop-garden's models.go.
type HRVReading struct {
	RMSSDMillis float64
	BaselineMillis float64
	Status      HRVStatus
}

// SleepStage is one contiguous segment of a sleep session.
type SleepStage int

const (
	SleepStageAwake SleepStage = iota
	SleepStageLight
	SleepStageDeep
	SleepStageREM
)

// SleepStageSegment is one scored interval within a sleep session. Sleep
// sessions cascade-delete their segments (spec §3 relationships).
type SleepStageSegment struct {
	Stage    SleepStage
	Start    time.Time
	Duration time.Duration
}

// SleepSession aggregates the night's stage segments and derived totals.
type SleepSession struct {
	ID          string
	AthleteID   string
	Date        time.Time
	Start       time.Time
	End         time.Time
	Segments    []SleepStageSegment
	TotalSleep  time.Duration
	Efficiency  float64 // 0-100
}

// BodyBatteryEvent is a single charge/drain sample (Garmin-style metric).
type BodyBatteryEvent struct {
	Timestamp time.Time
	Level     int // 0-100
	Charging  bool
}

// Physiological bundles point-in-time vitals not tied to a workout.
type Physiological struct {
	RestingHRBpm     *int
	RespirationRate  *float64
	PulseOx          *int
	Stress           *int // 0-100
	RecoveryTimeHrs  *float64
}

// RecoveryQuality is a human-facing summary tag.
type RecoveryQuality int

const (
	RecoveryQualityPoor RecoveryQuality = iota
	RecoveryQualityFair
	RecoveryQualityGood
	RecoveryQualityOptimal
)

// Composite is the daily rollup of every recovery signal into one score.
type Composite struct {
	TrainingReadiness int // 0-100
	Quality           RecoveryQuality
}

// RecoveryRecord is the per-athlete, per-date aggregate (unique per
// (athlete, date), spec §3).
type RecoveryRecord struct {
	AthleteID string
	Date      time.Time

	HRV           *HRVReading
	Sleep         *SleepSession
	BodyBattery   []BodyBatteryEvent
	Physiological Physiological
	Composite     Composite
}
