package storage

import "database/sql"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS athletes (
	id            TEXT PRIMARY KEY,
	display_name  TEXT NOT NULL,
	birth_date    TEXT,
	weight_kg     TEXT,
	height_cm     TEXT,
	units         INTEGER NOT NULL DEFAULT 0,
	ftp_watts     INTEGER,
	lthr_bpm      INTEGER,
	max_hr_bpm    INTEGER,
	resting_hr_bpm INTEGER,
	threshold_pace TEXT,
	threshold_swim_pace TEXT,
	critical_power_watts INTEGER,
	w_prime_joules INTEGER,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sport_profiles (
	athlete_id    TEXT NOT NULL REFERENCES athletes(id) ON DELETE CASCADE,
	sport         INTEGER NOT NULL,
	ftp_watts     INTEGER,
	lthr_bpm      INTEGER,
	max_hr_bpm    INTEGER,
	resting_hr_bpm INTEGER,
	threshold_pace TEXT,
	threshold_swim_pace TEXT,
	critical_power_watts INTEGER,
	w_prime_joules INTEGER,
	PRIMARY KEY (athlete_id, sport)
);

CREATE TABLE IF NOT EXISTS threshold_history (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	athlete_id    TEXT NOT NULL REFERENCES athletes(id) ON DELETE CASCADE,
	sport         INTEGER,
	kind          INTEGER NOT NULL,
	old_value     TEXT,
	new_value     TEXT NOT NULL,
	source        INTEGER NOT NULL,
	changed_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_threshold_history_athlete ON threshold_history(athlete_id, changed_at);

CREATE TABLE IF NOT EXISTS workouts (
	id            TEXT PRIMARY KEY,
	athlete_id    TEXT NOT NULL REFERENCES athletes(id) ON DELETE CASCADE,
	date          TEXT NOT NULL,
	sport         INTEGER NOT NULL,
	duration_sec  INTEGER NOT NULL,
	type          INTEGER NOT NULL,
	data_source   INTEGER NOT NULL,
	avg_hr        INTEGER,
	max_hr        INTEGER,
	avg_power_w   INTEGER,
	normalized_power_w TEXT,
	avg_pace      TEXT,
	intensity_factor TEXT,
	tss           TEXT,
	total_distance_m TEXT,
	elevation_gain_m TEXT,
	avg_cadence   TEXT,
	calories      INTEGER,
	notes         TEXT,
	source        TEXT,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL,
	dedup_key     TEXT NOT NULL UNIQUE
);
CREATE INDEX IF NOT EXISTS idx_workouts_athlete_date ON workouts(athlete_id, date);
CREATE INDEX IF NOT EXISTS idx_workouts_sport ON workouts(athlete_id, sport);

CREATE TABLE IF NOT EXISTS time_series_blobs (
	workout_id    TEXT PRIMARY KEY REFERENCES workouts(id) ON DELETE CASCADE,
	point_count   INTEGER NOT NULL,
	original_size INTEGER NOT NULL,
	compressed    BLOB NOT NULL,
	checksum      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recovery_records (
	athlete_id    TEXT NOT NULL REFERENCES athletes(id) ON DELETE CASCADE,
	date          TEXT NOT NULL,
	hrv_rmssd_millis REAL,
	hrv_baseline_millis REAL,
	hrv_status    INTEGER,
	sleep_total_sec INTEGER,
	sleep_efficiency REAL,
	resting_hr_bpm INTEGER,
	respiration_rate REAL,
	pulse_ox      INTEGER,
	stress        INTEGER,
	recovery_time_hrs REAL,
	training_readiness INTEGER,
	quality       INTEGER,
	PRIMARY KEY (athlete_id, date)
);

CREATE TABLE IF NOT EXISTS device_quirks (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	manufacturer_id INTEGER NOT NULL,
	product_id    INTEGER NOT NULL,
	firmware_min  INTEGER,
	firmware_max  INTEGER,
	variant       INTEGER NOT NULL,
	params_json   TEXT NOT NULL,
	enabled       INTEGER NOT NULL DEFAULT 1,
	description   TEXT
);
CREATE INDEX IF NOT EXISTS idx_device_quirks_device ON device_quirks(manufacturer_id, product_id);

CREATE TABLE IF NOT EXISTS parse_cache (
	fingerprint   TEXT PRIMARY KEY,
	workout_id    TEXT,
	cached_at     TEXT NOT NULL,
	expires_at    TEXT
);
`

func migrate(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}
