// Package storage implements the compressed, deduplicated local store:
// SQLite schema, compressed time-series blobs, an in-memory LRU cache for
// decoded series, and health/backup reporting.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrWorkoutNotFound is returned when a workout id has no matching row.
var ErrWorkoutNotFound = errors.New("storage: workout not found")

// ErrAthleteNotFound is returned when an athlete id has no matching row.
var ErrAthleteNotFound = errors.New("storage: athlete not found")

// ErrDuplicateWorkout names a dedup-key collision (invariant 4: unique
// per athlete/sport/date/duration). No function in this package returns
// it: UpsertWorkout updates the existing row when the dedup key exists.
var ErrDuplicateWorkout = errors.New("storage: duplicate workout")

// DB wraps a SQLite connection configured for WAL mode and holds the
// in-memory series cache.
type DB struct {
	conn  *sql.DB
	cache *seriesCache
}

// Open opens (creating if necessary) the SQLite store at path, enables
// WAL mode and foreign keys, and runs the schema migration.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: opening database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("storage: applying %q: %w", pragma, err)
		}
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: running migrations: %w", err)
	}

	return &DB{conn: conn, cache: newSeriesCache(128)}, nil
}

// DefaultPath returns the conventional on-disk location for the store,
// ~/.trainrs/data.db, mirroring the teacher's getDBPath.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: getting home directory: %w", err)
	}
	return filepath.Join(home, ".trainrs", "data.db"), nil
}

// Close closes the underlying connection.
func (d *DB) Close() error { return d.conn.Close() }

// Path reports the on-disk file backing this connection, used by the
// health/backup reporting in health.go.
func (d *DB) Path() (string, error) {
	var seq int
	var name string
	var file string
	row := d.conn.QueryRow("PRAGMA database_list")
	if err := row.Scan(&seq, &name, &file); err != nil {
		return "", fmt.Errorf("storage: reading database_list: %w", err)
	}
	return file, nil
}
