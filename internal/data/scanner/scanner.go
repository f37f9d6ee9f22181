// Package scanner locates known extraction artifacts inside an acquisition
// directory. Artifact names vary between extraction tool versions, so every
// artifact has an ordered list of accepted filenames.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

// ArtifactSet holds the resolved path of each artifact, empty when absent.
type ArtifactSet struct {
	Logcat        string
	Sms           string
	Calls         string
	Notifications string
	PackageDump   string
}

// Alternate filenames per artifact, in preference order. The first existing
// name wins.
var artifactNames = map[string][]string{
	"logcat":        {"android_logcat.txt", "logcat_threadtime.txt", "logcat.txt"},
	"sms":           {"sms_logs.txt", "sms_log.txt", "sms_dump.txt"},
	"calls":         {"call_logs.txt", "call_log.txt"},
	"notifications": {"notification_timeline.json"},
	"packages":      {"dump_package.txt", "package_dump.txt"},
}

// ArtifactScanner resolves artifact paths under a single acquisition
// directory.
type ArtifactScanner struct {
	baseDir string
}

// NewArtifactScanner creates a scanner rooted at the given directory.
func NewArtifactScanner(baseDir string) *ArtifactScanner {
	return &ArtifactScanner{baseDir: baseDir}
}

// Scan resolves every artifact. A missing artifact is not an error; an
// unreadable base directory is.
func (s *ArtifactScanner) Scan() (*ArtifactSet, error) {
	start := time.Now()
	util.LogDebug(fmt.Sprintf("Start scanning artifact directory: %s", s.baseDir))

	if info, err := os.Stat(s.baseDir); err != nil {
		return nil, fmt.Errorf("artifact directory %s: %w", s.baseDir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("artifact path %s is not a directory", s.baseDir)
	}

	set := &ArtifactSet{
		Logcat:        s.resolve("logcat"),
		Sms:           s.resolve("sms"),
		Calls:         s.resolve("calls"),
		Notifications: s.resolve("notifications"),
		PackageDump:   s.resolve("packages"),
	}

	util.LogDebug(fmt.Sprintf("Artifact scan completed: duration %v, found %d of %d artifacts",
		time.Since(start), len(set.Present()), len(artifactNames)))
	return set, nil
}

// resolve returns the first existing alternate for an artifact, or "".
func (s *ArtifactScanner) resolve(artifact string) string {
	for _, name := range artifactNames[artifact] {
		path := filepath.Join(s.baseDir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		util.LogDebug(fmt.Sprintf("Resolved %s artifact: %s", artifact, path))
		return path
	}
	return ""
}

// Present lists the resolved paths, used for cache preloading and the
// found-artifact count.
func (a *ArtifactSet) Present() []string {
	var paths []string
	for _, p := range []string{a.Logcat, a.Sms, a.Calls, a.Notifications, a.PackageDump} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// YearSources lists only the SMS and call-log artifacts. Base-year inference
// reads these two alone: their rows carry full dates from the capture window,
// while package dumps carry install years that can predate it by years.
func (a *ArtifactSet) YearSources() []string {
	var paths []string
	for _, p := range []string{a.Sms, a.Calls} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
