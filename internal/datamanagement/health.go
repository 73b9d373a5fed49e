package datamanagement

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/trainrs/endurance-analytics/internal/storage"
)

// HealthReport wraps storage.HealthReport with human-readable
// recommendations, e.g. "run cleanup", "consider archiving" (spec §4.10:
// "Health report adds recommendations").
type HealthReport struct {
	storage.HealthReport
	Recommendations []string
}

// largeStoreThresholdBytes is an arbitrary but documented size past
// which an archive-or-prune recommendation fires, chosen so a multi-year,
// multi-athlete FIT history (tens of thousands of compressed series)
// still comfortably fits under it on a single run.
const largeStoreThresholdBytes = 500 * 1024 * 1024

// Report builds a HealthReport, running an integrity scan to inform
// its recommendations (but not fixing anything — Cleanup does that).
func (s *Scanner) Report() (HealthReport, error) {
	base, err := s.Store.Health()
	if err != nil {
		return HealthReport{}, fmt.Errorf("datamanagement: gathering health stats: %w", err)
	}

	issues, err := s.ScanIntegrity()
	if err != nil {
		return HealthReport{}, err
	}

	report := HealthReport{HealthReport: base}
	report.Recommendations = recommendationsFor(base, issues)
	return report, nil
}

func recommendationsFor(stats storage.HealthReport, issues []IntegrityIssue) []string {
	var out []string

	if len(stats.DuplicateKeys) > 0 {
		out = append(out, fmt.Sprintf("%d duplicate dedup-key group(s) found — run cleanup to remove them", len(stats.DuplicateKeys)))
	}
	if len(issues) > 0 {
		out = append(out, fmt.Sprintf("%d workout(s) failed range/sanity checks — review before trusting aggregate metrics", len(issues)))
	}
	if stats.FileSizeBytes > largeStoreThresholdBytes {
		out = append(out, fmt.Sprintf("store file is %s — consider archiving older athletes or pruning raw series", humanize.Bytes(uint64(stats.FileSizeBytes))))
	}
	if stats.Counts.Workouts > 0 && stats.Counts.TimeSeriesBlobs == 0 {
		out = append(out, "no compressed time-series found for any workout — ingest may be summary-only")
	}
	if len(out) == 0 {
		out = append(out, "no issues found")
	}
	return out
}
