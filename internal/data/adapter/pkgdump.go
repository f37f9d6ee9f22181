package adapter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
	"github.com/droidsleuth/go-droid-timeline/internal/core/timestamp"
)

var (
	pkgHeaderRe    = regexp.MustCompile(`Package \[([^\]]+)\]`)
	pkgInstallerRe = regexp.MustCompile(`installerPackageName=(\S+)`)
	pkgFirstTimeRe = regexp.MustCompile(`firstInstallTime=(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
)

// installerClass maps a known installer package to a human-readable source
// label and an indication of whether the channel is trusted.
type installerClass struct {
	label   string
	trusted bool
}

var installerClasses = map[string]installerClass{
	"com.android.vending":                 {label: "Play Store", trusted: true},
	"com.android.chrome":                  {label: "Chrome (Sideload)"},
	"com.google.android.packageinstaller": {label: "Manual Install (APK)"},
	"check.me":                            {label: "File Share (P2P)"},
	"com.lenovo.anyshare.gps":             {label: "File Share (P2P)"},
}

// pkgState tracks which part of a dumpsys package block the scan is in.
type pkgState int

const (
	awaitingPackage pkgState = iota
	inPackage
)

// PackageDumpAdapter walks a dumpsys package dump and emits one install
// event per package block that carries a firstInstallTime.
type PackageDumpAdapter struct {
	resolver *timestamp.Resolver
}

// NewPackageDumpAdapter creates a package-dump adapter.
func NewPackageDumpAdapter(resolver *timestamp.Resolver) *PackageDumpAdapter {
	return &PackageDumpAdapter{resolver: resolver}
}

func (a *PackageDumpAdapter) Name() string { return "packages" }

func (a *PackageDumpAdapter) Parse(path string) ([]model.Event, error) {
	var events []model.Event
	dedup := newDedupSet()

	state := awaitingPackage
	var pkg, installer string
	var installTime string
	var headerLine int

	flush := func() {
		if pkg == "" || installTime == "" {
			return
		}
		ts, ok := a.resolver.Resolve(installTime)
		if !ok {
			return
		}
		label, severity := classifyInstaller(installer)
		event := model.NewEvent(ts, model.CategoryAppLifecycle,
			fmt.Sprintf("Install from %s", label),
			fmt.Sprintf("App Installed: %s (Source: %s)", pkg, label),
			severity)
		event.SourceFile = path
		event.OriginLine = headerLine
		if installer != "" {
			event.SetMeta("installer_package", installer)
		}
		if dedup.insert(dedupKey(event)) {
			events = append(events, event)
		}
	}

	handled, err := forEachLine(path, func(lineNo int, line string) {
		if m := pkgHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			state = inPackage
			pkg, installer, installTime = m[1], "", ""
			headerLine = lineNo
			return
		}
		if state != inPackage {
			return
		}
		if m := pkgInstallerRe.FindStringSubmatch(line); m != nil {
			installer = strings.TrimSuffix(m[1], ",")
		}
		if m := pkgFirstTimeRe.FindStringSubmatch(line); m != nil {
			// firstInstallTime completes the block. Close it here so
			// later installer lines cannot reclassify the install.
			installTime = m[1]
			flush()
			state = awaitingPackage
			pkg, installer, installTime = "", "", ""
		}
	})
	if err != nil || !handled {
		return nil, err
	}
	flush()

	return events, nil
}

// classifyInstaller resolves an installerPackageName into a source label and
// severity. Anything outside the trusted store channel is flagged WARN.
func classifyInstaller(installer string) (string, model.Severity) {
	installer = strings.TrimSpace(installer)
	if installer == "" || installer == "null" {
		return "Unknown Source", model.SeverityWarn
	}
	if cls, ok := installerClasses[installer]; ok {
		if cls.trusted {
			return cls.label, model.SeverityInfo
		}
		return cls.label, model.SeverityWarn
	}
	if strings.Contains(installer, "shareit") || strings.Contains(installer, "xender") {
		return "File Share (P2P)", model.SeverityWarn
	}
	return "Unknown Source", model.SeverityWarn
}
