package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
	return path
}

func TestScanResolvesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	logcat := touch(t, dir, "android_logcat.txt")
	sms := touch(t, dir, "sms_logs.txt")
	calls := touch(t, dir, "call_logs.txt")
	notif := touch(t, dir, "notification_timeline.json")
	pkgs := touch(t, dir, "dump_package.txt")

	set, err := NewArtifactScanner(dir).Scan()
	require.NoError(t, err)

	assert.Equal(t, logcat, set.Logcat)
	assert.Equal(t, sms, set.Sms)
	assert.Equal(t, calls, set.Calls)
	assert.Equal(t, notif, set.Notifications)
	assert.Equal(t, pkgs, set.PackageDump)
	assert.Len(t, set.Present(), 5)
}

func TestScanAlternateNames(t *testing.T) {
	dir := t.TempDir()
	logcat := touch(t, dir, "logcat_threadtime.txt")
	sms := touch(t, dir, "sms_log.txt")
	pkgs := touch(t, dir, "package_dump.txt")

	set, err := NewArtifactScanner(dir).Scan()
	require.NoError(t, err)

	assert.Equal(t, logcat, set.Logcat)
	assert.Equal(t, sms, set.Sms)
	assert.Equal(t, pkgs, set.PackageDump)
	assert.Empty(t, set.Notifications)
}

func TestYearSources(t *testing.T) {
	dir := t.TempDir()
	sms := touch(t, dir, "sms_logs.txt")
	calls := touch(t, dir, "call_logs.txt")
	touch(t, dir, "android_logcat.txt")
	touch(t, dir, "dump_package.txt")

	set, err := NewArtifactScanner(dir).Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{sms, calls}, set.YearSources(),
		"only dated user artifacts vote on the base year")
}

func TestScanPrefersPrimaryName(t *testing.T) {
	dir := t.TempDir()
	primary := touch(t, dir, "android_logcat.txt")
	touch(t, dir, "logcat_threadtime.txt")

	set, err := NewArtifactScanner(dir).Scan()
	require.NoError(t, err)
	assert.Equal(t, primary, set.Logcat)
}

func TestScanEmptyDirectory(t *testing.T) {
	set, err := NewArtifactScanner(t.TempDir()).Scan()
	require.NoError(t, err)
	assert.Empty(t, set.Present())
}

func TestScanMissingDirectory(t *testing.T) {
	_, err := NewArtifactScanner("/path/that/does/not/exist").Scan()
	assert.Error(t, err)
}

func TestScanIgnoresDirectoryNamedLikeArtifact(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "android_logcat.txt"), 0755))

	set, err := NewArtifactScanner(dir).Scan()
	require.NoError(t, err)
	assert.Empty(t, set.Logcat)
}
