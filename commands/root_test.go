package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded := expandPath("~/.go-droid-timeline/cache")
	assert.Equal(t, filepath.Join(home, ".go-droid-timeline/cache"), expanded)

	abs := expandPath("/tmp/extraction")
	assert.Equal(t, "/tmp/extraction", abs)

	rel := expandPath("extraction")
	assert.True(t, filepath.IsAbs(rel), "relative paths become absolute")
	assert.True(t, strings.HasSuffix(rel, "extraction"))
}

func TestClearCache(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logcat-android_logcat.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0644))

	require.NoError(t, clearCache(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only cache entries removed")
	assert.Equal(t, "notes.txt", entries[0].Name())
}

func TestClearCacheMissingDir(t *testing.T) {
	assert.NoError(t, clearCache("/path/that/does/not/exist"))
}

func TestRootCommandFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("dir"))
	assert.NotNil(t, rootCmd.Flags().Lookup("output"))
	assert.NotNil(t, rootCmd.Flags().Lookup("format"))
	assert.NotNil(t, rootCmd.Flags().Lookup("timezone"))
	assert.NotNil(t, rootCmd.Flags().Lookup("gap-threshold"))
	assert.NotNil(t, rootCmd.Flags().Lookup("reset"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("debug"))

	assert.Equal(t, "json", rootCmd.Flags().Lookup("format").DefValue)
	assert.Equal(t, ".", rootCmd.PersistentFlags().Lookup("dir").DefValue)
}
