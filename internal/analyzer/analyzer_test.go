package analyzer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSourceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	logcat := `11-14 10:00:00.000 I/PowerManagerService(1234): Waking up from sleep
11-14 10:00:05.000 I/AudioManager(1234): setMode to IN_COMMUNICATION from com.whatsapp
11-14 10:10:00.000 I/PowerManagerService(1234): Going to sleep
11-14 10:10:01.000 I/PackageInstaller(2001): uid 10456 REQUEST_INSTALL_PACKAGES allow
`
	sms := `Row: 1 address=HDFCBK, body=Rs. 5000 debited from account, date=1699956240000, type=1
`
	calls := `Row: 0 number=+919876543210, date=1699956000000, duration=120, type=1, name=Alice
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "android_logcat.txt"), []byte(logcat), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sms_logs.txt"), []byte(sms), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "call_logs.txt"), []byte(calls), 0644))
	return dir
}

func runConfig(t *testing.T, dir string) *Config {
	t.Helper()
	return &Config{
		SourceDir:    dir,
		OutputPath:   filepath.Join(t.TempDir(), "timeline.json"),
		OutputFormat: "json",
		GapThreshold: 30 * time.Second,
		VoipWindow:   30 * time.Second,
		SessionGap:   15 * time.Second,
		CacheDir:     filepath.Join(t.TempDir(), "cache"),
	}
}

func decodeTimeline(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var events []map[string]any
	require.NoError(t, sonic.Unmarshal(data, &events))
	return events
}

func TestAnalyzerRunBuildsTimeline(t *testing.T) {
	cfg := runConfig(t, writeSourceDir(t))
	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run())

	events := decodeTimeline(t, cfg.OutputPath)
	require.NotEmpty(t, events)

	types := make(map[string]int)
	var lastTs string
	for _, e := range events {
		types[e["type"].(string)]++
		ts := e["timestamp"].(string)
		assert.GreaterOrEqual(t, ts, lastTs, "events sorted ascending")
		lastTs = ts
	}

	assert.NotZero(t, types["SYSTEM_POWER"], "logcat power events present")
	assert.NotZero(t, types["VOIP"], "audio mode classified as VoIP")
	assert.NotZero(t, types["FINANCIAL"], "bank SMS classified")
	assert.NotZero(t, types["CALL"], "call log parsed")
	assert.NotZero(t, types["SECURITY"], "permission grant rescan ran")
	assert.NotZero(t, types["GAP_MARKER"], "10 minute silence annotated")
}

func TestAnalyzerRunCachedSecondPass(t *testing.T) {
	cfg := runConfig(t, writeSourceDir(t))
	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run())
	firstRun := decodeTimeline(t, cfg.OutputPath)

	// Second run over unchanged artifacts serves adapters from cache.
	b, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, b.Run())
	secondRun := decodeTimeline(t, cfg.OutputPath)

	assert.Equal(t, len(firstRun), len(secondRun))
}

func TestAnalyzerRunMissingArtifactsTolerated(t *testing.T) {
	dir := t.TempDir()
	logcat := "11-14 10:00:00.000 I/PowerManagerService(1234): Waking up\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "android_logcat.txt"), []byte(logcat), 0644))

	cfg := runConfig(t, dir)
	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run(), "absent artifacts are not errors")

	events := decodeTimeline(t, cfg.OutputPath)
	assert.Len(t, events, 1)
}

func TestAnalyzerRunEmptyDirectory(t *testing.T) {
	cfg := runConfig(t, t.TempDir())
	a, err := New(cfg)
	require.NoError(t, err)
	assert.Error(t, a.Run(), "no artifacts is a hard error")
}

func TestAnalyzerRunRejectsUnknownFormat(t *testing.T) {
	cfg := runConfig(t, writeSourceDir(t))
	cfg.OutputFormat = "xml"
	a, err := New(cfg)
	require.NoError(t, err)
	assert.Error(t, a.Run())
}

func TestAnalyzerBaseYearIgnoresPackageDump(t *testing.T) {
	dir := t.TempDir()
	logcat := "06-01 10:00:00.000 I/PowerManagerService(1234): Waking up\n"
	// 1717236000000 ms = 2024-06-01 10:00:00 UTC
	calls := "Row: 0 number=+919876543210, date=1717236000000, duration=60, type=1, name=Alice\n"
	pkgs := `Packages:
  Package [com.app.one] (a1):
    installerPackageName=com.android.vending
    firstInstallTime=2021-06-01 10:00:00
  Package [com.app.two] (a2):
    installerPackageName=com.android.vending
    firstInstallTime=2021-07-01 10:00:00
  Package [com.app.three] (a3):
    installerPackageName=com.android.vending
    firstInstallTime=2021-08-01 10:00:00
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "android_logcat.txt"), []byte(logcat), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "call_logs.txt"), []byte(calls), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dump_package.txt"), []byte(pkgs), 0644))

	cfg := runConfig(t, dir)
	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run())

	for _, e := range decodeTimeline(t, cfg.OutputPath) {
		if e["type"].(string) == "SYSTEM_POWER" {
			assert.Contains(t, e["timestamp"].(string), "2024-06-01",
				"logcat entries dated by the call log, not install years")
			return
		}
	}
	t.Fatal("no power event in timeline")
}

func TestAnalyzerRunWithoutCache(t *testing.T) {
	cfg := runConfig(t, writeSourceDir(t))
	cfg.DisableCache = true
	cfg.CacheDir = ""
	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run())
	assert.NotEmpty(t, decodeTimeline(t, cfg.OutputPath))
}
