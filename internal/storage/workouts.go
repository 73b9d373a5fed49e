package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trainrs/endurance-analytics/internal/domain"
)

func dedupKeyString(athleteID string, sport domain.Sport, date time.Time, durationSec int) string {
	return fmt.Sprintf("%s|%d|%s|%d", athleteID, int(sport), date.Truncate(24*time.Hour).Format("2006-01-02"), durationSec)
}

// UpsertWorkout inserts or replaces a workout and its time-series blob in
// a single transaction, keyed by invariant 4's (athlete, sport, date,
// duration) dedup tuple. A conflicting insert with the same dedup_key is
// an update (ON CONFLICT), not a duplicate row.
func (d *DB) UpsertWorkout(w domain.Workout) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("storage: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	athleteID, sport, date, durationSec := w.DedupKey()
	key := dedupKeyString(athleteID, sport, date, durationSec)

	_, err = tx.Exec(`
		INSERT INTO workouts (
			id, athlete_id, date, sport, duration_sec, type, data_source,
			avg_hr, max_hr, avg_power_w, normalized_power_w, avg_pace,
			intensity_factor, tss, total_distance_m, elevation_gain_m,
			avg_cadence, calories, notes, source, created_at, updated_at, dedup_key
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(dedup_key) DO UPDATE SET
			avg_hr=excluded.avg_hr, max_hr=excluded.max_hr, avg_power_w=excluded.avg_power_w,
			normalized_power_w=excluded.normalized_power_w, avg_pace=excluded.avg_pace,
			intensity_factor=excluded.intensity_factor, tss=excluded.tss,
			total_distance_m=excluded.total_distance_m, elevation_gain_m=excluded.elevation_gain_m,
			avg_cadence=excluded.avg_cadence, calories=excluded.calories, notes=excluded.notes,
			source=excluded.source, updated_at=excluded.updated_at
	`,
		w.ID, w.AthleteID, w.Date.Format(time.RFC3339), int(w.Sport), w.DurationSec, int(w.Type), int(w.DataSource),
		nullableInt(w.Summary.AvgHR), nullableInt(w.Summary.MaxHR), nullableInt(w.Summary.AvgPowerW),
		nullableDecimal(w.Summary.NormalizedPowerW), nullableDecimal(w.Summary.AvgPace),
		nullableDecimal(w.Summary.IntensityFactor), nullableDecimal(w.Summary.TSS),
		nullableDecimal(w.Summary.TotalDistanceM), nullableDecimal(w.Summary.ElevationGainM),
		nullableDecimal(w.Summary.AvgCadence), nullableInt(w.Summary.Calories),
		nullableString(w.Notes), nullableString(w.Source),
		w.CreatedAt.Format(time.RFC3339), w.UpdatedAt.Format(time.RFC3339), key,
	)
	if err != nil {
		return fmt.Errorf("storage: upserting workout: %w", err)
	}

	if len(w.Series) > 0 {
		blob, err := encodeSeries(w.Series)
		if err != nil {
			return fmt.Errorf("storage: encoding series: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO time_series_blobs (workout_id, point_count, original_size, compressed, checksum)
			VALUES (?,?,?,?,?)
			ON CONFLICT(workout_id) DO UPDATE SET
				point_count=excluded.point_count, original_size=excluded.original_size,
				compressed=excluded.compressed, checksum=excluded.checksum
		`, w.ID, blob.PointCount, blob.OriginalSize, blob.Compressed, blob.Checksum)
		if err != nil {
			return fmt.Errorf("storage: upserting time-series blob: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: committing upsert: %w", err)
	}
	d.cache.invalidate(w.ID)
	return nil
}

// GetWorkout loads a workout by id, lazily decoding its series (using the
// cache first) only when loadSeries is true.
func (d *DB) GetWorkout(id string, loadSeries bool) (*domain.Workout, error) {
	row := d.conn.QueryRow(`
		SELECT id, athlete_id, date, sport, duration_sec, type, data_source,
		       avg_hr, max_hr, avg_power_w, normalized_power_w, avg_pace,
		       intensity_factor, tss, total_distance_m, elevation_gain_m,
		       avg_cadence, calories, notes, source, created_at, updated_at
		FROM workouts WHERE id = ?`, id)

	w, err := scanWorkout(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("storage: scanning workout: %w", err)
	}

	if loadSeries {
		if cached, ok := d.cache.get(id); ok {
			w.Series = cached
		} else {
			series, err := d.loadSeries(id)
			if err != nil {
				return nil, err
			}
			w.Series = series
			d.cache.put(id, series)
		}
	}
	return w, nil
}

func (d *DB) loadSeries(workoutID string) ([]domain.DataPoint, error) {
	var blob seriesBlob
	row := d.conn.QueryRow(`SELECT point_count, original_size, compressed, checksum FROM time_series_blobs WHERE workout_id = ?`, workoutID)
	if err := row.Scan(&blob.PointCount, &blob.OriginalSize, &blob.Compressed, &blob.Checksum); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: reading series blob: %w", err)
	}
	return decodeSeries(blob)
}

// ListWorkouts returns summary-only workouts (no series) for an athlete,
// most recent first. limit <= 0 means unlimited (SQLite treats a
// negative LIMIT as "no limit", unlike 0 which would return zero rows).
func (d *DB) ListWorkouts(athleteID string, limit int) ([]domain.Workout, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := d.conn.Query(`
		SELECT id, athlete_id, date, sport, duration_sec, type, data_source,
		       avg_hr, max_hr, avg_power_w, normalized_power_w, avg_pace,
		       intensity_factor, tss, total_distance_m, elevation_gain_m,
		       avg_cadence, calories, notes, source, created_at, updated_at
		FROM workouts WHERE athlete_id = ? ORDER BY date DESC LIMIT ?`, athleteID, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: querying workouts: %w", err)
	}
	defer rows.Close()

	var out []domain.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: scanning workout row: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// ListAllWorkouts returns summary-only workouts across every athlete,
// for store-wide scans (integrity checks, data management) that aren't
// scoped to one athlete.
func (d *DB) ListAllWorkouts() ([]domain.Workout, error) {
	rows, err := d.conn.Query(`
		SELECT id, athlete_id, date, sport, duration_sec, type, data_source,
		       avg_hr, max_hr, avg_power_w, normalized_power_w, avg_pace,
		       intensity_factor, tss, total_distance_m, elevation_gain_m,
		       avg_cadence, calories, notes, source, created_at, updated_at
		FROM workouts ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("storage: querying all workouts: %w", err)
	}
	defer rows.Close()

	var out []domain.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: scanning workout row: %w", err)
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// OrphanedSeriesIDs returns workout ids present in time_series_blobs but
// with no corresponding row in workouts (spec §4.10's orphan scan).
func (d *DB) OrphanedSeriesIDs() ([]string, error) {
	rows, err := d.conn.Query(`
		SELECT b.workout_id FROM time_series_blobs b
		LEFT JOIN workouts w ON w.id = b.workout_id
		WHERE w.id IS NULL`)
	if err != nil {
		return nil, fmt.Errorf("storage: scanning for orphaned series: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteOrphanedSeries removes a time-series blob row with no matching
// workout.
func (d *DB) DeleteOrphanedSeries(workoutID string) error {
	_, err := d.conn.Exec(`DELETE FROM time_series_blobs WHERE workout_id = ?`, workoutID)
	if err != nil {
		return fmt.Errorf("storage: deleting orphaned series %s: %w", workoutID, err)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanWorkout(s scanner) (*domain.Workout, error) {
	var w domain.Workout
	var dateStr, createdStr, updatedStr string
	var sport, wtype, dataSource int
	var avgHR, maxHR, avgPowerW, calories sql.NullInt64
	var npW, avgPace, ifactor, tss, totalDist, elevGain, avgCadence sql.NullString
	var notes, source sql.NullString

	if err := s.Scan(
		&w.ID, &w.AthleteID, &dateStr, &sport, &w.DurationSec, &wtype, &dataSource,
		&avgHR, &maxHR, &avgPowerW, &npW, &avgPace, &ifactor, &tss, &totalDist, &elevGain,
		&avgCadence, &calories, &notes, &source, &createdStr, &updatedStr,
	); err != nil {
		return nil, err
	}

	w.Sport = domain.Sport(sport)
	w.Type = domain.WorkoutType(wtype)
	w.DataSource = domain.DataSource(dataSource)
	w.Date, _ = time.Parse(time.RFC3339, dateStr)
	w.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	w.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)

	w.Summary.AvgHR = intFromNull(avgHR)
	w.Summary.MaxHR = intFromNull(maxHR)
	w.Summary.AvgPowerW = intFromNull(avgPowerW)
	w.Summary.Calories = intFromNull(calories)
	w.Summary.NormalizedPowerW = decimalFromNull(npW)
	w.Summary.AvgPace = decimalFromNull(avgPace)
	w.Summary.IntensityFactor = decimalFromNull(ifactor)
	w.Summary.TSS = decimalFromNull(tss)
	w.Summary.TotalDistanceM = decimalFromNull(totalDist)
	w.Summary.ElevationGainM = decimalFromNull(elevGain)
	w.Summary.AvgCadence = decimalFromNull(avgCadence)
	if notes.Valid {
		w.Notes = &notes.String
	}
	if source.Valid {
		w.Source = &source.String
	}

	return &w, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableDecimal(v *decimal.Decimal) any {
	if v == nil {
		return nil
	}
	return v.String()
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func decimalFromNull(v sql.NullString) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil
	}
	return &d
}

// DeleteWorkout removes a workout, its series blob (via cascade), and
// evicts it from the cache.
func (d *DB) DeleteWorkout(id string) error {
	_, err := d.conn.Exec(`DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("storage: deleting workout: %w", err)
	}
	d.cache.invalidate(id)
	return nil
}

// FindDuplicates returns dedup_key values that appear more than once —
// should always be empty given the UNIQUE constraint, but is exposed for
// the data-management integrity scan to call out any pre-migration data
// that predates the constraint.
func (d *DB) FindDuplicates() ([]string, error) {
	rows, err := d.conn.Query(`SELECT dedup_key FROM workouts GROUP BY dedup_key HAVING COUNT(*) > 1`)
	if err != nil {
		return nil, fmt.Errorf("storage: scanning for duplicates: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
