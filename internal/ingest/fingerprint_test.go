package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.fit")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestFingerprintFileIsStableForUnchangedContent(t *testing.T) {
	path := writeTempFile(t, "same bytes")

	a, err := FingerprintFile(path)
	require.NoError(t, err)
	b, err := FingerprintFile(path)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, a.String(), b.String())
}

func TestFingerprintFileChangesWithContent(t *testing.T) {
	path := writeTempFile(t, "version one")
	before, err := FingerprintFile(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("version two, longer content"), 0o600))
	// force a distinct mtime in case the filesystem has coarse resolution
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	after, err := FingerprintFile(path)
	require.NoError(t, err)

	assert.NotEqual(t, before.SHA256, after.SHA256)
	assert.NotEqual(t, before.String(), after.String())
}

func TestFingerprintFileMissingPathErrors(t *testing.T) {
	_, err := FingerprintFile(filepath.Join(t.TempDir(), "does-not-exist.fit"))
	assert.Error(t, err)
}
