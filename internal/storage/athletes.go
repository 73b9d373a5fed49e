package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/trainrs/endurance-analytics/internal/domain"
)

// UpsertAthlete inserts or replaces an athlete's profile and global
// thresholds.
func (d *DB) UpsertAthlete(a domain.Athlete) error {
	now := time.Now().Format(time.RFC3339)
	var birth any
	if a.BirthDate != nil {
		birth = a.BirthDate.Format(time.RFC3339)
	}

	_, err := d.conn.Exec(`
		INSERT INTO athletes (
			id, display_name, birth_date, weight_kg, height_cm, units,
			ftp_watts, lthr_bpm, max_hr_bpm, resting_hr_bpm, threshold_pace,
			threshold_swim_pace, critical_power_watts, w_prime_joules,
			created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			display_name=excluded.display_name, birth_date=excluded.birth_date,
			weight_kg=excluded.weight_kg, height_cm=excluded.height_cm, units=excluded.units,
			ftp_watts=excluded.ftp_watts, lthr_bpm=excluded.lthr_bpm, max_hr_bpm=excluded.max_hr_bpm,
			resting_hr_bpm=excluded.resting_hr_bpm, threshold_pace=excluded.threshold_pace,
			threshold_swim_pace=excluded.threshold_swim_pace, critical_power_watts=excluded.critical_power_watts,
			w_prime_joules=excluded.w_prime_joules, updated_at=excluded.updated_at
	`,
		a.ID, a.DisplayName, birth, nullableDecimal(a.WeightKg), nullableDecimal(a.HeightCm), int(a.Units),
		nullableInt(a.Global.FTPWatts), nullableInt(a.Global.LTHRBpm), nullableInt(a.Global.MaxHRBpm),
		nullableInt(a.Global.RestingHRBpm), nullableDecimal(a.Global.ThresholdPace),
		nullableDecimal(a.Global.ThresholdSwimPace), nullableInt(a.Global.CriticalPowerWatts),
		nullableInt(a.Global.WPrimeJoules), now, now,
	)
	if err != nil {
		return fmt.Errorf("storage: upserting athlete: %w", err)
	}

	for _, sp := range a.Sports {
		if err := d.upsertSportProfile(a.ID, sp); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) upsertSportProfile(athleteID string, sp domain.SportProfile) error {
	_, err := d.conn.Exec(`
		INSERT INTO sport_profiles (
			athlete_id, sport, ftp_watts, lthr_bpm, max_hr_bpm, resting_hr_bpm,
			threshold_pace, threshold_swim_pace, critical_power_watts, w_prime_joules
		) VALUES (?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(athlete_id, sport) DO UPDATE SET
			ftp_watts=excluded.ftp_watts, lthr_bpm=excluded.lthr_bpm, max_hr_bpm=excluded.max_hr_bpm,
			resting_hr_bpm=excluded.resting_hr_bpm, threshold_pace=excluded.threshold_pace,
			threshold_swim_pace=excluded.threshold_swim_pace, critical_power_watts=excluded.critical_power_watts,
			w_prime_joules=excluded.w_prime_joules
	`,
		athleteID, int(sp.Sport), nullableInt(sp.Thresholds.FTPWatts), nullableInt(sp.Thresholds.LTHRBpm),
		nullableInt(sp.Thresholds.MaxHRBpm), nullableInt(sp.Thresholds.RestingHRBpm),
		nullableDecimal(sp.Thresholds.ThresholdPace), nullableDecimal(sp.Thresholds.ThresholdSwimPace),
		nullableInt(sp.Thresholds.CriticalPowerWatts), nullableInt(sp.Thresholds.WPrimeJoules),
	)
	if err != nil {
		return fmt.Errorf("storage: upserting sport profile: %w", err)
	}
	return nil
}

// RecordThresholdChange appends an entry to threshold_history, used to
// replay EffectiveThresholds as-of a past date (invariant 6).
func (d *DB) RecordThresholdChange(athleteID string, change domain.ThresholdChange) error {
	var sportVal any
	if change.Sport != nil {
		sportVal = int(*change.Sport)
	}
	var oldVal any
	if change.Old != nil {
		oldVal = change.Old.String()
	}
	_, err := d.conn.Exec(`
		INSERT INTO threshold_history (athlete_id, sport, kind, old_value, new_value, source, changed_at)
		VALUES (?,?,?,?,?,?,?)
	`, athleteID, sportVal, int(change.Kind), oldVal, change.New.String(), int(change.Source), change.Date.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("storage: recording threshold change: %w", err)
	}
	return nil
}

// GetAthlete loads an athlete's profile, sport overrides, and full
// threshold history.
func (d *DB) GetAthlete(id string) (*domain.Athlete, error) {
	row := d.conn.QueryRow(`
		SELECT id, display_name, birth_date, weight_kg, height_cm, units,
		       ftp_watts, lthr_bpm, max_hr_bpm, resting_hr_bpm, threshold_pace,
		       threshold_swim_pace, critical_power_watts, w_prime_joules
		FROM athletes WHERE id = ?`, id)

	var a domain.Athlete
	var birth sql.NullString
	var weight, height, thPace, thSwimPace sql.NullString
	var units int
	var ftp, lthr, maxHR, restingHR, cp, wPrime sql.NullInt64

	if err := row.Scan(&a.ID, &a.DisplayName, &birth, &weight, &height, &units,
		&ftp, &lthr, &maxHR, &restingHR, &thPace, &thSwimPace, &cp, &wPrime); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAthleteNotFound
		}
		return nil, fmt.Errorf("storage: scanning athlete: %w", err)
	}

	a.Units = domain.UnitPreference(units)
	if birth.Valid {
		t, _ := time.Parse(time.RFC3339, birth.String)
		a.BirthDate = &t
	}
	a.WeightKg = decimalFromNull(weight)
	a.HeightCm = decimalFromNull(height)
	a.Global.FTPWatts = intFromNull(ftp)
	a.Global.LTHRBpm = intFromNull(lthr)
	a.Global.MaxHRBpm = intFromNull(maxHR)
	a.Global.RestingHRBpm = intFromNull(restingHR)
	a.Global.ThresholdPace = decimalFromNull(thPace)
	a.Global.ThresholdSwimPace = decimalFromNull(thSwimPace)
	a.Global.CriticalPowerWatts = intFromNull(cp)
	a.Global.WPrimeJoules = intFromNull(wPrime)

	sports, err := d.sportProfilesFor(id)
	if err != nil {
		return nil, err
	}
	a.Sports = sports

	history, err := d.thresholdHistoryFor(id)
	if err != nil {
		return nil, err
	}
	a.History = history

	return &a, nil
}

func (d *DB) sportProfilesFor(athleteID string) ([]domain.SportProfile, error) {
	rows, err := d.conn.Query(`
		SELECT sport, ftp_watts, lthr_bpm, max_hr_bpm, resting_hr_bpm, threshold_pace,
		       threshold_swim_pace, critical_power_watts, w_prime_joules
		FROM sport_profiles WHERE athlete_id = ?`, athleteID)
	if err != nil {
		return nil, fmt.Errorf("storage: querying sport profiles: %w", err)
	}
	defer rows.Close()

	var out []domain.SportProfile
	for rows.Next() {
		var sport int
		var ftp, lthr, maxHR, restingHR, cp, wPrime sql.NullInt64
		var thPace, thSwimPace sql.NullString
		if err := rows.Scan(&sport, &ftp, &lthr, &maxHR, &restingHR, &thPace, &thSwimPace, &cp, &wPrime); err != nil {
			return nil, err
		}
		out = append(out, domain.SportProfile{
			Sport: domain.Sport(sport),
			Thresholds: domain.Thresholds{
				FTPWatts: intFromNull(ftp), LTHRBpm: intFromNull(lthr), MaxHRBpm: intFromNull(maxHR),
				RestingHRBpm: intFromNull(restingHR), ThresholdPace: decimalFromNull(thPace),
				ThresholdSwimPace: decimalFromNull(thSwimPace), CriticalPowerWatts: intFromNull(cp),
				WPrimeJoules: intFromNull(wPrime),
			},
		})
	}
	return out, rows.Err()
}

func (d *DB) thresholdHistoryFor(athleteID string) ([]domain.ThresholdChange, error) {
	rows, err := d.conn.Query(`
		SELECT sport, kind, old_value, new_value, source, changed_at
		FROM threshold_history WHERE athlete_id = ? ORDER BY changed_at ASC`, athleteID)
	if err != nil {
		return nil, fmt.Errorf("storage: querying threshold history: %w", err)
	}
	defer rows.Close()

	var out []domain.ThresholdChange
	for rows.Next() {
		var sport sql.NullInt64
		var kind, source int
		var oldVal, newVal, changedAt string
		if err := rows.Scan(&sport, &kind, &oldVal, &newVal, &source, &changedAt); err != nil {
			return nil, err
		}
		change := domain.ThresholdChange{
			Kind:   domain.ThresholdKind(kind),
			Source: domain.ThresholdSource(source),
		}
		change.Date, _ = time.Parse(time.RFC3339, changedAt)
		if sport.Valid {
			s := domain.Sport(sport.Int64)
			change.Sport = &s
		}
		if oldVal != "" {
			old := decimalFromNull(sql.NullString{String: oldVal, Valid: true})
			change.Old = old
		}
		newDecimal := decimalFromNull(sql.NullString{String: newVal, Valid: true})
		if newDecimal != nil {
			change.New = *newDecimal
		}
		out = append(out, change)
	}
	return out, rows.Err()
}
