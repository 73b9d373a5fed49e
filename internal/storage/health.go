package storage

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// TableCounts holds the row count for every table the health report
// inspects.
type TableCounts struct {
	Athletes         int
	Workouts         int
	TimeSeriesBlobs  int
	RecoveryRecords  int
	DeviceQuirks     int
}

// HealthReport summarizes the store's size and content for `trainctl
// config --health`-style diagnostics (spec §C.3 supplement).
type HealthReport struct {
	FileSizeBytes    int64
	FileSizeHuman    string
	Counts           TableCounts
	DuplicateKeys    []string
	GeneratedAt      time.Time
}

// Health gathers per-table row counts, on-disk size (via os.Stat, per the
// original database.rs health check), and a duplicate-key scan.
func (d *DB) Health() (HealthReport, error) {
	report := HealthReport{GeneratedAt: time.Now()}

	path, err := d.Path()
	if err == nil && path != "" {
		if info, statErr := os.Stat(path); statErr == nil {
			report.FileSizeBytes = info.Size()
			report.FileSizeHuman = humanize.Bytes(uint64(info.Size()))
		}
	}

	counts, err := d.tableCounts()
	if err != nil {
		return report, err
	}
	report.Counts = counts

	dupes, err := d.FindDuplicates()
	if err != nil {
		return report, err
	}
	report.DuplicateKeys = dupes

	return report, nil
}

func (d *DB) tableCounts() (TableCounts, error) {
	var c TableCounts
	queries := []struct {
		dest  *int
		table string
	}{
		{&c.Athletes, "athletes"},
		{&c.Workouts, "workouts"},
		{&c.TimeSeriesBlobs, "time_series_blobs"},
		{&c.RecoveryRecords, "recovery_records"},
		{&c.DeviceQuirks, "device_quirks"},
	}
	for _, q := range queries {
		row := d.conn.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", q.table))
		if err := row.Scan(q.dest); err != nil {
			return c, fmt.Errorf("storage: counting %s: %w", q.table, err)
		}
	}
	return c, nil
}

// Backup copies the current database file to destPath after a WAL
// checkpoint so the WAL is flushed first, mirroring the timestamped
// backup step from the original database.rs.
func (d *DB) Backup(destPath string) error {
	if _, err := d.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("storage: checkpointing WAL before backup: %w", err)
	}

	srcPath, err := d.Path()
	if err != nil {
		return err
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("storage: opening source database: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("storage: creating backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("storage: copying database to backup: %w", err)
	}
	return nil
}

// TimestampedBackupPath builds a backup file name stamped with the
// current time, e.g. data-20260730T153000Z.db.
func TimestampedBackupPath(dir string, at time.Time) string {
	return fmt.Sprintf("%s/data-%s.db", dir, at.UTC().Format("20060102T150405Z"))
}
