package domain

import "testing"

func TestSportRoundTrip(t *testing.T) {
	sports := []Sport{SportRunning, SportCycling, SportSwimming, SportTriathlon, SportRowing, SportCrossTraining}
	for _, s := range sports {
		got, err := ParseSport(s.String())
		if err != nil {
			t.Fatalf("ParseSport(%q): %v", s.String(), err)
		}
		if got != s {
			t.Fatalf("round-trip mismatch: %v -> %q -> %v", s, s.String(), got)
		}
	}
	if _, err := ParseSport("Bobsled"); err == nil {
		t.Fatal("expected error for unknown sport string")
	}
}

func TestWorkoutTypeRoundTrip(t *testing.T) {
	types := []WorkoutType{
		WorkoutTypeInterval, WorkoutTypeEndurance, WorkoutTypeRecovery, WorkoutTypeTempo,
		WorkoutTypeThreshold, WorkoutTypeVO2Max, WorkoutTypeStrength, WorkoutTypeRace, WorkoutTypeTest,
	}
	for _, tp := range types {
		got, err := ParseWorkoutType(tp.String())
		if err != nil || got != tp {
			t.Fatalf("round-trip failed for %v: got=%v err=%v", tp, got, err)
		}
	}
	if _, err := ParseWorkoutType("Bogus"); err == nil {
		t.Fatal("expected error for unknown workout type string")
	}
}

func TestDataSourceRoundTrip(t *testing.T) {
	for _, d := range []DataSource{DataSourceHeartRate, DataSourcePower, DataSourcePace, DataSourceRPE} {
		got, err := ParseDataSource(d.String())
		if err != nil || got != d {
			t.Fatalf("round-trip failed for %v", d)
		}
	}
}

func TestThresholdKindRoundTrip(t *testing.T) {
	kinds := []ThresholdKind{
		ThresholdFTP, ThresholdLTHR, ThresholdPace, ThresholdSwimPace,
		ThresholdCriticalPower, ThresholdWPrime, ThresholdMaxHR,
	}
	for _, k := range kinds {
		got, err := ParseThresholdKind(k.String())
		if err != nil || got != k {
			t.Fatalf("round-trip failed for %v", k)
		}
	}
}
