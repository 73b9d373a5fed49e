package domain

import "fmt"

// SerializationError is returned when a string does not map to any known
// enum variant. Enum conversions are total in the to-string direction and
// partial in the from-string direction; unknown strings always fail this way.
type SerializationError struct {
	Kind  string
	Value string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Value)
}

// Sport is a closed set of supported activity disciplines. Adding a variant
// is a schema-change event (see spec §4.1).
type Sport int

const (
	SportRunning Sport = iota
	SportCycling
	SportSwimming
	SportTriathlon
	SportRowing
	SportCrossTraining
)

func (s Sport) String() string {
	switch s {
	case SportRunning:
		return "Running"
	case SportCycling:
		return "Cycling"
	case SportSwimming:
		return "Swimming"
	case SportTriathlon:
		return "Triathlon"
	case SportRowing:
		return "Rowing"
	case SportCrossTraining:
		return "CrossTraining"
	default:
		return ""
	}
}

// ParseSport converts a string back into a Sport. It is the exact inverse
// of Sport.String for every recognized variant.
func ParseSport(s string) (Sport, error) {
	switch s {
	case "Running":
		return SportRunning, nil
	case "Cycling":
		return SportCycling, nil
	case "Swimming":
		return SportSwimming, nil
	case "Triathlon":
		return SportTriathlon, nil
	case "Rowing":
		return SportRowing, nil
	case "CrossTraining":
		return SportCrossTraining, nil
	default:
		return 0, &SerializationError{Kind: "sport", Value: s}
	}
}

// WorkoutType is a closed set of training-intent labels.
type WorkoutType int

const (
	WorkoutTypeInterval WorkoutType = iota
	WorkoutTypeEndurance
	WorkoutTypeRecovery
	WorkoutTypeTempo
	WorkoutTypeThreshold
	WorkoutTypeVO2Max
	WorkoutTypeStrength
	WorkoutTypeRace
	WorkoutTypeTest
)

func (t WorkoutType) String() string {
	switch t {
	case WorkoutTypeInterval:
		return "Interval"
	case WorkoutTypeEndurance:
		return "Endurance"
	case WorkoutTypeRecovery:
		return "Recovery"
	case WorkoutTypeTempo:
		return "Tempo"
	case WorkoutTypeThreshold:
		return "Threshold"
	case WorkoutTypeVO2Max:
		return "VO2Max"
	case WorkoutTypeStrength:
		return "Strength"
	case WorkoutTypeRace:
		return "Race"
	case WorkoutTypeTest:
		return "Test"
	default:
		return ""
	}
}

func ParseWorkoutType(s string) (WorkoutType, error) {
	switch s {
	case "Interval":
		return WorkoutTypeInterval, nil
	case "Endurance":
		return WorkoutTypeEndurance, nil
	case "Recovery":
		return WorkoutTypeRecovery, nil
	case "Tempo":
		return WorkoutTypeTempo, nil
	case "Threshold":
		return WorkoutTypeThreshold, nil
	case "VO2Max":
		return WorkoutTypeVO2Max, nil
	case "Strength":
		return WorkoutTypeStrength, nil
	case "Race":
		return WorkoutTypeRace, nil
	case "Test":
		return WorkoutTypeTest, nil
	default:
		return 0, &SerializationError{Kind: "workout_type", Value: s}
	}
}

// DataSource identifies which stream drove a workout's primary metrics.
type DataSource int

const (
	DataSourceHeartRate DataSource = iota
	DataSourcePower
	DataSourcePace
	DataSourceRPE
)

func (d DataSource) String() string {
	switch d {
	case DataSourceHeartRate:
		return "HeartRate"
	case DataSourcePower:
		return "Power"
	case DataSourcePace:
		return "Pace"
	case DataSourceRPE:
		return "Rpe"
	default:
		return ""
	}
}

func ParseDataSource(s string) (DataSource, error) {
	switch s {
	case "HeartRate":
		return DataSourceHeartRate, nil
	case "Power":
		return DataSourcePower, nil
	case "Pace":
		return DataSourcePace, nil
	case "Rpe":
		return DataSourceRPE, nil
	default:
		return 0, &SerializationError{Kind: "data_source", Value: s}
	}
}

// ThresholdKind enumerates the athlete threshold values tracked in the
// change log.
type ThresholdKind int

const (
	ThresholdFTP ThresholdKind = iota
	ThresholdLTHR
	ThresholdPace
	ThresholdSwimPace
	ThresholdCriticalPower
	ThresholdWPrime
	ThresholdMaxHR
)

func (k ThresholdKind) String() string {
	switch k {
	case ThresholdFTP:
		return "FTP"
	case ThresholdLTHR:
		return "LTHR"
	case ThresholdPace:
		return "ThresholdPace"
	case ThresholdSwimPace:
		return "ThresholdSwimPace"
	case ThresholdCriticalPower:
		return "CriticalPower"
	case ThresholdWPrime:
		return "W'"
	case ThresholdMaxHR:
		return "MaxHR"
	default:
		return ""
	}
}

func ParseThresholdKind(s string) (ThresholdKind, error) {
	switch s {
	case "FTP":
		return ThresholdFTP, nil
	case "LTHR":
		return ThresholdLTHR, nil
	case "ThresholdPace":
		return ThresholdPace, nil
	case "ThresholdSwimPace":
		return ThresholdSwimPace, nil
	case "CriticalPower":
		return ThresholdCriticalPower, nil
	case "W'":
		return ThresholdWPrime, nil
	case "MaxHR":
		return ThresholdMaxHR, nil
	default:
		return 0, &SerializationError{Kind: "threshold_kind", Value: s}
	}
}

// ThresholdSource records where a threshold change came from.
type ThresholdSource int

const (
	ThresholdSourceTest ThresholdSource = iota
	ThresholdSourceManual
	ThresholdSourceEstimated
	ThresholdSourceImport
)

func (s ThresholdSource) String() string {
	switch s {
	case ThresholdSourceTest:
		return "Test"
	case ThresholdSourceManual:
		return "Manual"
	case ThresholdSourceEstimated:
		return "Estimated"
	case ThresholdSourceImport:
		return "Import"
	default:
		return ""
	}
}

func ParseThresholdSource(s string) (ThresholdSource, error) {
	switch s {
	case "Test":
		return ThresholdSourceTest, nil
	case "Manual":
		return ThresholdSourceManual, nil
	case "Estimated":
		return ThresholdSourceEstimated, nil
	case "Import":
		return ThresholdSourceImport, nil
	default:
		return 0, &SerializationError{Kind: "threshold_source", Value: s}
	}
}

// UnitPreference is the athlete's display unit system.
type UnitPreference int

const (
	UnitsMetric UnitPreference = iota
	UnitsImperial
)

func (u UnitPreference) String() string {
	if u == UnitsImperial {
		return "imperial"
	}
	return "metric"
}

func ParseUnitPreference(s string) (UnitPreference, error) {
	switch s {
	case "metric":
		return UnitsMetric, nil
	case "imperial":
		return UnitsImperial, nil
	default:
		return 0, &SerializationError{Kind: "unit_preference", Value: s}
	}
}
