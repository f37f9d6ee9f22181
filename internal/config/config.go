// Package config defines run configuration and its layered loading.
package config

// Config contains the tunables of a timeline build.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile receives structured log output. Empty disables file logging
	// unless debug mode routes it to the console.
	LogFile string `koanf:"log_file"`

	// Timezone applied to year-less and epoch timestamps, IANA name.
	Timezone string `koanf:"timezone"`

	// GapThresholdSeconds is the minimum system-log silence reported as a gap.
	GapThresholdSeconds int `koanf:"gap_threshold_seconds"`

	// VoipWindowSeconds bounds the context search around each VoIP event.
	VoipWindowSeconds int `koanf:"voip_window_seconds"`

	// SessionGapSeconds is the largest silence inside one call session.
	SessionGapSeconds int `koanf:"session_gap_seconds"`

	// MessagingApps overrides the recognized VoIP-capable app list.
	MessagingApps []string `koanf:"messaging_apps"`

	// FinancialSenders overrides the known bank/payment sender IDs.
	FinancialSenders []string `koanf:"financial_senders"`

	// YearInferenceLines bounds the per-source prefix scanned for base-year
	// votes.
	YearInferenceLines int `koanf:"year_inference_lines"`

	// CacheDir stores parsed-artifact cache entries.
	CacheDir string `koanf:"cache_dir"`

	// DisableCache forces a full reparse of every artifact.
	DisableCache bool `koanf:"disable_cache"`
}

// New returns the defaults every run starts from.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Timezone:            "Local",
		GapThresholdSeconds: 30,
		VoipWindowSeconds:   30,
		SessionGapSeconds:   15,
		YearInferenceLines:  500,
	}
}
