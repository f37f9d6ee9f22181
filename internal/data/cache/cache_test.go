package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
)

func testEvents() []model.Event {
	ts := time.Date(2023, 11, 14, 10, 0, 0, 0, time.UTC)
	return []model.Event{
		model.NewEvent(ts, model.CategorySystemLog, "Tag", "cached content", model.SeverityInfo),
	}
}

func writeArtifact(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "android_logcat.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCacheRoundTrip(t *testing.T) {
	c, err := NewArtifactCache(t.TempDir())
	require.NoError(t, err)

	artifact := writeArtifact(t, "line one\nline two\n")
	require.NoError(t, c.Set(artifact, "logcat", testEvents()))

	result := c.Get(artifact, "logcat")
	require.True(t, result.Found)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "cached content", result.Events[0].Content)
	assert.Equal(t, model.CategorySystemLog, result.Events[0].Category)
}

func TestCacheMissOnUnknownArtifact(t *testing.T) {
	c, err := NewArtifactCache(t.TempDir())
	require.NoError(t, err)

	result := c.Get("/nonexistent/android_logcat.txt", "logcat")
	assert.False(t, result.Found)
	assert.Equal(t, MissReasonNotFound, result.Reason)
}

func TestCacheInvalidatedOnContentChange(t *testing.T) {
	c, err := NewArtifactCache(t.TempDir())
	require.NoError(t, err)

	artifact := writeArtifact(t, "original content\n")
	require.NoError(t, c.Set(artifact, "logcat", testEvents()))

	// Same length, different bytes: size check passes, fingerprint must not.
	require.NoError(t, os.WriteFile(artifact, []byte("tampered content\n"), 0644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(artifact, past, past))

	// Force the file-layer path so modtime is checked before fingerprint.
	result := c.Get(artifact, "logcat")
	assert.False(t, result.Found)
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	artifact := writeArtifact(t, "stable content\n")

	first, err := NewArtifactCache(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(artifact, "logcat", testEvents()))

	second, err := NewArtifactCache(dir)
	require.NoError(t, err)
	result := second.Get(artifact, "logcat")
	assert.True(t, result.Found)
}

func TestCachePreload(t *testing.T) {
	dir := t.TempDir()
	artifact := writeArtifact(t, "stable content\n")

	first, err := NewArtifactCache(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(artifact, "logcat", testEvents()))

	second, err := NewArtifactCache(dir)
	require.NoError(t, err)
	require.NoError(t, second.Preload())

	memory, files := second.Stats()
	assert.Equal(t, 1, memory)
	assert.Equal(t, 1, files)
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	artifact := writeArtifact(t, "content\n")

	c, err := NewArtifactCache(dir)
	require.NoError(t, err)
	require.NoError(t, c.Set(artifact, "logcat", testEvents()))
	require.NoError(t, c.Clear())

	memory, files := c.Stats()
	assert.Zero(t, memory)
	assert.Zero(t, files)
	assert.False(t, c.Get(artifact, "logcat").Found)
}
