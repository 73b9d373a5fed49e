package datamanagement

import (
	"fmt"
	"time"

	"github.com/trainrs/endurance-analytics/internal/batch"
	"github.com/trainrs/endurance-analytics/internal/storage"
	"github.com/trainrs/endurance-analytics/internal/telemetry"
)

// CleanupReport is the spec's `{duplicates_removed, integrity_issues,
// orphaned_cleaned, cache_cleared, final_stats, elapsed}` structure.
type CleanupReport struct {
	DuplicatesRemoved int
	IntegrityIssues   []IntegrityIssue
	OrphanedCleaned   int
	CacheCleared      int
	FinalStats        storage.HealthReport
	Elapsed           time.Duration
}

// Scanner runs the scheduled maintenance scan against a Store, with an
// optional batch.ResultCache to clear as part of cleanup (spec §4.10:
// "cache_cleared").
type Scanner struct {
	Store Store
	Cache *batch.ResultCache
	Now   func() time.Time
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Backup copies the store file to a timestamped path alongside dir,
// per spec §4.10's pre-cleanup backup step.
func (s *Scanner) Backup(dir string) (string, error) {
	dest := storage.TimestampedBackupPath(dir, s.now())
	if err := s.Store.Backup(dest); err != nil {
		return "", fmt.Errorf("datamanagement: backing up before cleanup: %w", err)
	}
	return dest, nil
}

// Cleanup runs the full scan-and-fix pass: a pre-cleanup backup (if
// backupDir is non-empty), duplicate removal, integrity scanning
// (reported, not auto-fixed — the spec separates detection from
// remediation for anything beyond exact duplicates/orphans), orphan
// cleanup, and cache clearing.
func (s *Scanner) Cleanup(backupDir string) (CleanupReport, error) {
	start := s.now()
	var report CleanupReport

	if backupDir != "" {
		if _, err := s.Backup(backupDir); err != nil {
			return report, err
		}
	}

	removed, err := s.removeDuplicates()
	if err != nil {
		return report, err
	}
	report.DuplicatesRemoved = removed

	issues, err := s.ScanIntegrity()
	if err != nil {
		return report, err
	}
	report.IntegrityIssues = issues

	orphaned, err := s.cleanOrphans()
	if err != nil {
		return report, err
	}
	report.OrphanedCleaned = orphaned

	if s.Cache != nil {
		report.CacheCleared = s.Cache.Clear()
	}

	stats, err := s.Store.Health()
	if err != nil {
		return report, err
	}
	report.FinalStats = stats
	report.Elapsed = s.now().Sub(start)

	telemetry.Log.Info().
		Int("duplicates_removed", report.DuplicatesRemoved).
		Int("integrity_issues", len(report.IntegrityIssues)).
		Int("orphaned_cleaned", report.OrphanedCleaned).
		Int("cache_cleared", report.CacheCleared).
		Int64("duration_ms", report.Elapsed.Milliseconds()).
		Str("outcome", "cleaned").
		Msg("data management cleanup")

	return report, nil
}

// removeDuplicates deletes every workout sharing a dedup_key beyond the
// first found, keeping one copy per (athlete, sport, date, duration)
// tuple. FindDuplicates should always return empty given the store's
// UNIQUE constraint (storage.DB.FindDuplicates's doc comment); this
// exists to clean up any pre-constraint data.
func (s *Scanner) removeDuplicates() (int, error) {
	dupKeys, err := s.Store.FindDuplicates()
	if err != nil {
		return 0, fmt.Errorf("datamanagement: scanning duplicates: %w", err)
	}
	if len(dupKeys) == 0 {
		return 0, nil
	}

	all, err := s.Store.ListAllWorkouts()
	if err != nil {
		return 0, fmt.Errorf("datamanagement: listing workouts: %w", err)
	}

	seen := make(map[string]bool, len(dupKeys))
	for _, k := range dupKeys {
		seen[k] = true
	}

	kept := make(map[string]bool, len(dupKeys))
	removed := 0
	for _, w := range all {
		athleteID, sport, date, durationSec := w.DedupKey()
		key := fmt.Sprintf("%s|%d|%s|%d", athleteID, int(sport), date.Format("2006-01-02"), durationSec)
		if !seen[key] {
			continue
		}
		if kept[key] {
			if err := s.Store.DeleteWorkout(w.ID); err != nil {
				return removed, fmt.Errorf("datamanagement: deleting duplicate %s: %w", w.ID, err)
			}
			removed++
			continue
		}
		kept[key] = true
	}
	return removed, nil
}

// ScanIntegrity runs CheckWorkout over every stored workout, loading
// each one's series so monotonicity can be checked too.
func (s *Scanner) ScanIntegrity() ([]IntegrityIssue, error) {
	summaries, err := s.Store.ListAllWorkouts()
	if err != nil {
		return nil, fmt.Errorf("datamanagement: listing workouts: %w", err)
	}

	now := s.now()
	var issues []IntegrityIssue
	for _, w := range summaries {
		full, err := s.Store.GetWorkout(w.ID, true)
		if err != nil {
			issues = append(issues, IntegrityIssue{WorkoutID: w.ID, Reason: fmt.Sprintf("could not load for integrity scan: %v", err)})
			continue
		}
		issues = append(issues, CheckWorkout(*full, now)...)
	}
	return issues, nil
}

func (s *Scanner) cleanOrphans() (int, error) {
	ids, err := s.Store.OrphanedSeriesIDs()
	if err != nil {
		return 0, fmt.Errorf("datamanagement: scanning orphaned series: %w", err)
	}
	for _, id := range ids {
		if err := s.Store.DeleteOrphanedSeries(id); err != nil {
			return 0, fmt.Errorf("datamanagement: deleting orphaned series %s: %w", id, err)
		}
	}
	return len(ids), nil
}
