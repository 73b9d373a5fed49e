package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchImportAllReportsPerFileErrorsWithoutAbortingBatch(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.fit")
	garbage := filepath.Join(dir, "garbage.fit")
	require.NoError(t, os.WriteFile(garbage, []byte("not a fit file"), 0o600))

	importer := &BatchImporter{
		AthleteID:   "athlete-1",
		Cache:       NewParseCache(time.Hour, 1<<20),
		Concurrency: 2,
	}

	results := importer.ImportAll(context.Background(), []string{missing, garbage})

	require.Len(t, results, 2)
	assert.Equal(t, missing, results[0].Path)
	assert.Error(t, results[0].Err)
	assert.Nil(t, results[0].Workout)

	assert.Equal(t, garbage, results[1].Path)
	assert.Error(t, results[1].Err)
}

func TestBatchImportAllPreservesInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 6; i++ {
		p := filepath.Join(dir, "bad-"+string(rune('a'+i))+".fit")
		paths = append(paths, p)
	}
	_ = dir

	importer := &BatchImporter{AthleteID: "a1", Concurrency: 4}
	results := importer.ImportAll(context.Background(), paths)

	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
}

func TestBatchImportAllRespectsCancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "some.fit")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	importer := &BatchImporter{AthleteID: "a1"}
	results := importer.ImportAll(ctx, []string{path})

	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}
