package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/trainrs/endurance-analytics/internal/domain"
	"github.com/trainrs/endurance-analytics/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// BatchResult is one file's ingest outcome.
type BatchResult struct {
	Path    string
	Workout *domain.Workout
	Err     error
	Cached  bool
}

// BatchImporter drives parallel, cached, quirk-corrected ingest over a
// set of FIT, TCX and GPX files for one athlete.
type BatchImporter struct {
	AthleteID   string
	Cache       *ParseCache
	Quirks      *QuirkRegistry
	Concurrency int
	// Logger receives structured per-file outcome events. Falls back to
	// the package-level telemetry.Log if nil.
	Logger *zerolog.Logger
}

func (b *BatchImporter) logger() zerolog.Logger {
	if b.Logger != nil {
		return *b.Logger
	}
	return telemetry.Log
}

// ImportAll decodes every path concurrently (bounded by Concurrency),
// consulting the parse cache first and applying device quirks after a
// cache miss. Results preserve input order; a per-file error does not
// abort the batch (spec: partial success is expected for a mixed batch).
func (b *BatchImporter) ImportAll(ctx context.Context, paths []string) []BatchResult {
	results := make([]BatchResult, len(paths))
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	var mu sync.Mutex

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			result := b.importOne(ctx, path)
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil // per-file errors are carried in BatchResult, not propagated
		})
	}
	_ = g.Wait()
	return results
}

func (b *BatchImporter) importOne(ctx context.Context, path string) BatchResult {
	start := time.Now()
	log := b.logger()

	result := b.doImportOne(ctx, path)

	event := log.Info()
	outcome := "decoded"
	if result.Cached {
		outcome = "cached"
	}
	if result.Err != nil {
		event = log.Warn()
		outcome = "error"
	}
	event.
		Str("path", path).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Str("outcome", outcome)
	if result.Workout != nil {
		event.Str("workout_id", result.Workout.ID)
	}
	if result.Err != nil {
		event.Err(result.Err)
	}
	event.Msg("ingest file")

	return result
}

func (b *BatchImporter) doImportOne(ctx context.Context, path string) BatchResult {
	select {
	case <-ctx.Done():
		return BatchResult{Path: path, Err: ctx.Err()}
	default:
	}

	fp, err := FingerprintFile(path)
	if err != nil {
		return BatchResult{Path: path, Err: fmt.Errorf("ingest: fingerprinting %s: %w", path, err)}
	}

	if b.Cache != nil {
		if cached, ok := b.Cache.Get(fp.String()); ok {
			return BatchResult{Path: path, Workout: cached, Cached: true}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return BatchResult{Path: path, Err: fmt.Errorf("ingest: opening %s: %w", path, err)}
	}
	defer f.Close()

	var w *domain.Workout
	var identity DeviceIdentity

	switch formatOf(path) {
	case formatTCX:
		w, err = DecodeTCXActivity(f, b.AthleteID, uuid.NewString())
	case formatGPX:
		w, err = DecodeGPXTrack(f, b.AthleteID, uuid.NewString())
	default:
		if id, idErr := DecodeFITHeader(f); idErr == nil {
			identity = id
		}
		if _, seekErr := f.Seek(0, 0); seekErr != nil {
			return BatchResult{Path: path, Err: fmt.Errorf("ingest: rewinding %s: %w", path, seekErr)}
		}
		w, err = DecodeFITActivity(f, b.AthleteID, uuid.NewString())
	}
	if err != nil {
		return BatchResult{Path: path, Err: fmt.Errorf("ingest: decoding %s: %w", path, err)}
	}
	if source := path; source != "" {
		w.Source = &source
	}

	if b.Quirks != nil {
		b.Quirks.ApplyToWorkout(w, identity)
	}

	if b.Cache != nil {
		b.Cache.Put(fp.String(), w)
	}

	return BatchResult{Path: path, Workout: w}
}

type fileFormat int

const (
	formatFIT fileFormat = iota
	formatTCX
	formatGPX
)

// formatOf dispatches on extension; device quirks (FIT-specific, keyed on
// ANT+ manufacturer/product IDs) simply never match a non-FIT file since
// its DeviceIdentity stays zero-valued.
func formatOf(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tcx":
		return formatTCX
	case ".gpx":
		return formatGPX
	default:
		return formatFIT
	}
}
