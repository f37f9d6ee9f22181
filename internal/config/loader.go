package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New())
//  2. YAML file, when configPath is set (or GDT_CONFIG in the environment)
//  3. environment variables with the GDT_ prefix
//
// Env keys map flat: GDT_GAP_THRESHOLD_SECONDS -> gap_threshold_seconds.
func Load(configPath string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if configPath == "" {
		configPath = os.Getenv("GDT_CONFIG")
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("GDT_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "gdt_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.GapThresholdSeconds <= 0 {
		return errors.New("gap_threshold_seconds must be positive")
	}
	if c.VoipWindowSeconds <= 0 {
		return errors.New("voip_window_seconds must be positive")
	}
	if c.SessionGapSeconds <= 0 {
		return errors.New("session_gap_seconds must be positive")
	}
	return nil
}
