package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Thresholds are the performance anchors used across the metric engine.
// Any field may be unset (nil) when the athlete hasn't established it yet.
type Thresholds struct {
	FTPWatts           *int
	LTHRBpm            *int
	MaxHRBpm           *int
	RestingHRBpm       *int
	ThresholdPace      *decimal.Decimal // min per unit distance
	ThresholdSwimPace  *decimal.Decimal // min per 100m/100y
	CriticalPowerWatts *int
	WPrimeJoules        *int
}

// SportProfile overrides the athlete's global thresholds for one sport.
type SportProfile struct {
	Sport      Sport
	Thresholds Thresholds
}

// ThresholdChange is one entry in the athlete's chronological threshold log.
// Sport is nil for a change that applies across all sports.
type ThresholdChange struct {
	Date   time.Time
	Sport  *Sport
	Kind   ThresholdKind
	Old    *decimal.Decimal
	New    decimal.Decimal
	Source ThresholdSource
}

// Athlete is the owning entity for workouts, recovery records, and
// threshold history.
type Athlete struct {
	ID          string
	DisplayName string
	BirthDate   *time.Time
	WeightKg    *decimal.Decimal
	HeightCm    *decimal.Decimal
	Units       UnitPreference

	Global   Thresholds
	Sports   []SportProfile
	History  []ThresholdChange
}

// EffectiveThresholds returns the thresholds effective for sport `sp` on
// `date`, honoring invariant 6: only the latest change at or before `date`
// may be used, never a future value. Per-sport overrides win over globals,
// field by field, falling back to global if the sport profile doesn't set
// a field or has no history entries prior to date.
func (a Athlete) EffectiveThresholds(sp Sport, date time.Time) Thresholds {
	result := a.Global
	for _, profile := range a.Sports {
		if profile.Sport == sp {
			result = mergeThresholds(result, profile.Thresholds)
		}
	}

	// Replay the change log up to `date`, applying the latest change per
	// (sport-or-global, kind). History entries with Sport matching sp take
	// precedence over sport-agnostic global-only reasoning already folded
	// into `result`'s starting point above; the log is the authoritative
	// source of "as of date" values when present.
	latest := map[ThresholdKind]ThresholdChange{}
	for _, ch := range a.History {
		if ch.Date.After(date) {
			continue
		}
		if ch.Sport != nil && *ch.Sport != sp {
			continue
		}
		if cur, ok := latest[ch.Kind]; !ok || ch.Date.After(cur.Date) {
			latest[ch.Kind] = ch
		}
	}
	for kind, ch := range latest {
		applyThresholdValue(&result, kind, ch.New)
	}
	return result
}

func mergeThresholds(base, override Thresholds) Thresholds {
	out := base
	if override.FTPWatts != nil {
		out.FTPWatts = override.FTPWatts
	}
	if override.LTHRBpm != nil {
		out.LTHRBpm = override.LTHRBpm
	}
	if override.MaxHRBpm != nil {
		out.MaxHRBpm = override.MaxHRBpm
	}
	if override.RestingHRBpm != nil {
		out.RestingHRBpm = override.RestingHRBpm
	}
	if override.ThresholdPace != nil {
		out.ThresholdPace = override.ThresholdPace
	}
	if override.ThresholdSwimPace != nil {
		out.ThresholdSwimPace = override.ThresholdSwimPace
	}
	if override.CriticalPowerWatts != nil {
		out.CriticalPowerWatts = override.CriticalPowerWatts
	}
	if override.WPrimeJoules != nil {
		out.WPrimeJoules = override.WPrimeJoules
	}
	return out
}

func applyThresholdValue(t *Thresholds, kind ThresholdKind, value decimal.Decimal) {
	iv := int(value.IntPart())
	switch kind {
	case ThresholdFTP:
		t.FTPWatts = &iv
	case ThresholdLTHR:
		t.LTHRBpm = &iv
	case ThresholdMaxHR:
		t.MaxHRBpm = &iv
	case ThresholdPace:
		v := value
		t.ThresholdPace = &v
	case ThresholdSwimPace:
		v := value
		t.ThresholdSwimPace = &v
	case ThresholdCriticalPower:
		t.CriticalPowerWatts = &iv
	case ThresholdWPrime:
		t.WPrimeJoules = &iv
	}
}
