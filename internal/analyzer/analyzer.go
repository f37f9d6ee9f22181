// Package analyzer orchestrates a timeline build: artifact discovery, base
// year inference, adapter runs, merge, gap annotation, enrichment, and
// output.
package analyzer

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/droidsleuth/go-droid-timeline/internal/core/classifier"
	"github.com/droidsleuth/go-droid-timeline/internal/core/enrich"
	"github.com/droidsleuth/go-droid-timeline/internal/core/gap"
	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
	"github.com/droidsleuth/go-droid-timeline/internal/core/timestamp"
	"github.com/droidsleuth/go-droid-timeline/internal/data/adapter"
	"github.com/droidsleuth/go-droid-timeline/internal/data/cache"
	"github.com/droidsleuth/go-droid-timeline/internal/data/merger"
	"github.com/droidsleuth/go-droid-timeline/internal/data/scanner"
	"github.com/droidsleuth/go-droid-timeline/internal/presentation/formatter"
	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

// Config carries one run's settings, already resolved by the command layer.
type Config struct {
	SourceDir    string
	OutputPath   string
	OutputFormat string

	GapThreshold       time.Duration
	VoipWindow         time.Duration
	SessionGap         time.Duration
	MessagingApps      []string
	FinancialSenders   []string
	YearInferenceLines int

	CacheDir     string
	DisableCache bool
}

// Analyzer builds a unified timeline from one acquisition directory.
type Analyzer struct {
	config  *Config
	cache   *cache.ArtifactCache
	scanner *scanner.ArtifactScanner
}

func New(config *Config) (*Analyzer, error) {
	a := &Analyzer{
		config:  config,
		scanner: scanner.NewArtifactScanner(config.SourceDir),
	}
	if !config.DisableCache && config.CacheDir != "" {
		artifactCache, err := cache.NewArtifactCache(config.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("initialize cache: %w", err)
		}
		a.cache = artifactCache
	}
	return a, nil
}

func (a *Analyzer) Run() error {
	startTime := time.Now()
	util.LogInfo("Starting timeline build...")

	// Phase 1: Preload cache into memory
	if a.cache != nil {
		preloadStart := time.Now()
		if err := a.cache.Preload(); err != nil {
			util.LogWarn(fmt.Sprintf("Cache preload failed: %v", err))
		}
		util.LogDebug(fmt.Sprintf("Phase 1 - Cache preload duration: %v", time.Since(preloadStart)))
	}

	// Phase 2: Scan artifacts
	scanStart := time.Now()
	artifacts, err := a.scanner.Scan()
	if err != nil {
		return fmt.Errorf("failed to scan artifacts: %w", err)
	}
	present := artifacts.Present()
	util.LogDebug(fmt.Sprintf("Phase 2 - Artifact scan duration: %v, found %d artifacts",
		time.Since(scanStart), len(present)))
	if len(present) == 0 {
		return fmt.Errorf("no known artifacts found in %s", a.config.SourceDir)
	}

	// Phase 3: Infer base year and build the resolver
	tp := util.GetTimeProvider()
	baseYear := timestamp.InferBaseYearN(artifacts.YearSources(), a.config.YearInferenceLines, tp.Now())
	resolver := timestamp.NewResolver(baseYear, tp.Location())
	resolver.Now = tp.Now
	util.LogInfo(fmt.Sprintf("Using base year %d for year-less timestamps", baseYear))

	// Phase 4: Run adapters sequentially
	parseStart := time.Now()
	cls := classifier.New(a.config.MessagingApps)
	runs := []struct {
		adapter adapter.Adapter
		path    string
	}{
		{adapter.NewLogcatAdapter(resolver, cls), artifacts.Logcat},
		{adapter.NewSmsAdapter(resolver, a.config.FinancialSenders), artifacts.Sms},
		{adapter.NewCallAdapter(resolver), artifacts.Calls},
		{adapter.NewNotificationAdapter(resolver), artifacts.Notifications},
		{adapter.NewPackageDumpAdapter(resolver), artifacts.PackageDump},
		{adapter.NewPermissionAdapter(resolver), artifacts.Logcat},
	}

	stats := &cacheStats{}
	sourceCounts := make(map[string]int)
	var perSource [][]model.Event
	for _, run := range runs {
		if run.path == "" {
			continue
		}
		events, err := a.runAdapter(run.adapter, run.path, stats)
		if err != nil {
			return fmt.Errorf("adapter %s failed on %s: %w", run.adapter.Name(), run.path, err)
		}
		sourceCounts[run.adapter.Name()] = len(events)
		perSource = append(perSource, events)
		util.LogDebug(fmt.Sprintf("Adapter %s produced %d events from %s",
			run.adapter.Name(), len(events), run.path))
	}
	stats.logSummary()
	util.LogDebug(fmt.Sprintf("Phase 4 - Adapter runs duration: %v", time.Since(parseStart)))

	// Phase 5: Merge and sort
	events := merger.Merge(perSource...)
	if len(events) == 0 {
		// Partial evidence is still evidence; emit an empty timeline
		// rather than aborting.
		util.LogWarn(fmt.Sprintf("No events recovered from %s", a.config.SourceDir))
	}

	// Phase 6: Gap annotation
	annotated := gap.NewDetector(a.config.GapThreshold).Annotate(events)
	gapCount := len(annotated) - len(events)

	// Phase 7: Enrichment
	enrich.NewEnricher(a.config.VoipWindow, a.config.SessionGap, a.config.MessagingApps).
		Enrich(annotated)

	// Phase 8: Format and output
	report := &formatter.Report{
		Events:       annotated,
		SourceCounts: sourceCounts,
		GapCount:     gapCount,
		BaseYear:     baseYear,
		Timezone:     tp.Location().String(),
	}
	if err := a.output(report); err != nil {
		return err
	}

	util.LogInfo(fmt.Sprintf("Timeline build complete: %d events, %d gaps, duration %v",
		len(annotated), gapCount, time.Since(startTime)))
	return nil
}

// runAdapter parses one artifact, going through the cache when enabled.
func (a *Analyzer) runAdapter(ad adapter.Adapter, path string, stats *cacheStats) ([]model.Event, error) {
	if a.cache != nil {
		result := a.cache.Get(path, ad.Name())
		if result.Found {
			stats.recordHit(path)
			return result.Events, nil
		}
		stats.recordMiss(path, result.Reason)
	}

	events, err := ad.Parse(path)
	if err != nil {
		return nil, err
	}
	if a.cache != nil && len(events) > 0 {
		if err := a.cache.Set(path, ad.Name(), events); err != nil {
			util.LogWarn(fmt.Sprintf("Failed to cache %s output for %s: %v", ad.Name(), path, err))
		}
	}
	return events, nil
}

func (a *Analyzer) output(report *formatter.Report) error {
	var f formatter.Formatter
	switch a.config.OutputFormat {
	case "", "json":
		f = formatter.NewJSONFormatter()
	case "table":
		f = formatter.NewTableFormatter()
	case "summary":
		f = formatter.NewSummaryFormatter()
	default:
		return fmt.Errorf("unknown output format: %s", a.config.OutputFormat)
	}

	var w io.Writer = os.Stdout
	if a.config.OutputPath != "" {
		file, err := os.Create(a.config.OutputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		w = file
		util.LogInfo(fmt.Sprintf("Writing timeline to %s", a.config.OutputPath))
	}
	return f.Format(w, report)
}
