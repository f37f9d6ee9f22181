package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/droidsleuth/go-droid-timeline/internal/analyzer"
	"github.com/droidsleuth/go-droid-timeline/internal/config"
	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

var (
	debug bool

	sourceDir  string
	configPath string

	outputPath   string
	outputFormat string
	timezone     string

	gapThreshold int
	reset        bool
	noCache      bool

	rootCmd = &cobra.Command{
		Use:   "go-droid-timeline [flags]",
		Short: "Android artifact timeline builder",
		Long: `go-droid-timeline reconstructs a unified event timeline from the text
artifacts of an Android logical extraction.

It parses logcat dumps, SMS and call-log exports, notification timelines and
package dumps from a single acquisition directory, classifies every line,
merges everything onto one clock, and flags logging silences.

Examples:
  go-droid-timeline --dir ./extraction                      # JSON timeline to stdout
  go-droid-timeline --dir ./extraction -o timeline.json     # Write to file
  go-droid-timeline --dir ./extraction --format summary     # Aggregate counts only
  go-droid-timeline --dir ./extraction --timezone Asia/Kolkata
  go-droid-timeline --dir ./extraction --gap-threshold 60   # Custom silence threshold`,
		RunE: runBuild,
	}
)

const (
	defaultLogFile  = "~/.go-droid-timeline/logs/app.log"
	defaultCacheDir = "~/.go-droid-timeline/cache"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&sourceDir, "dir", ".",
		"Acquisition directory containing the extracted artifacts")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"YAML config file (defaults and env vars apply otherwise)")

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Output file path (stdout when empty)")
	rootCmd.Flags().StringVar(&outputFormat, "format", "json",
		"Output format (json, table, summary)")
	rootCmd.Flags().StringVar(&timezone, "timezone", "",
		"Timezone for resolved timestamps (e.g., Asia/Kolkata, UTC)")

	rootCmd.Flags().IntVar(&gapThreshold, "gap-threshold", 0,
		"Logging gap threshold in seconds (0 = configured default)")

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.Flags().BoolVarP(&reset, "reset", "r", false,
		"Clear the artifact cache before building")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false,
		"Disable the artifact cache for this run")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Flags override file and env configuration.
	if timezone != "" {
		cfg.Timezone = timezone
	}
	if gapThreshold > 0 {
		cfg.GapThresholdSeconds = gapThreshold
	}
	if noCache {
		cfg.DisableCache = true
	}

	logLevel := cfg.LogLevel
	if debug {
		logLevel = "debug"
	}
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = defaultLogFile
	}
	logFile = expandPath(logFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, logFile, debug); err != nil {
		return err
	}

	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return err
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = defaultCacheDir
	}
	cacheDir = expandPath(cacheDir)
	if !cfg.DisableCache {
		if err := ensureDir(cacheDir); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	if reset {
		if err := clearCache(cacheDir); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}

	runConfig := &analyzer.Config{
		SourceDir:          expandPath(sourceDir),
		OutputPath:         outputPath,
		OutputFormat:       outputFormat,
		GapThreshold:       time.Duration(cfg.GapThresholdSeconds) * time.Second,
		VoipWindow:         time.Duration(cfg.VoipWindowSeconds) * time.Second,
		SessionGap:         time.Duration(cfg.SessionGapSeconds) * time.Second,
		MessagingApps:      cfg.MessagingApps,
		FinancialSenders:   cfg.FinancialSenders,
		YearInferenceLines: cfg.YearInferenceLines,
		CacheDir:           cacheDir,
		DisableCache:       cfg.DisableCache,
	}

	a, err := analyzer.New(runConfig)
	if err != nil {
		return err
	}
	return a.Run()
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
