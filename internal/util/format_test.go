package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{"small number", 999, "999"},
		{"thousands", 1500, "1.5K"},
		{"millions", 2500000, "2.5M"},
		{"zero", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.input))
		})
	}
}

func TestFormatGapDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{"sub-minute gap shows seconds", 45 * time.Second, "45 seconds"},
		{"exactly one minute", 60 * time.Second, "1 min"},
		{"minutes", 5*time.Minute + 30*time.Second, "5 min"},
		{"hours", 2*time.Hour + 30*time.Minute, "2.5 hours"},
		{"exactly one hour", time.Hour, "1.0 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatGapDuration(tt.input))
		})
	}
}

func TestSanitizePrintable(t *testing.T) {
	assert.Equal(t, "PowerManagerService: Waking up",
		SanitizePrintable("PowerManagerService:\x00 Waking up\x07"))
	assert.Equal(t, "tab\tkept", SanitizePrintable("tab\tkept"))
	assert.Equal(t, "stripped", SanitizePrintable("stréipped"))
}

func TestSanitizeContent(t *testing.T) {
	assert.Equal(t, "Rs. 500 debited ₹", SanitizeContent("Rs. 500 debited ₹\x00"))
	assert.Equal(t, "no controls", SanitizeContent("no\x1b controls"))
}

func TestTruncateToWidth(t *testing.T) {
	assert.Equal(t, "short", TruncateToWidth("short", 10))
	assert.Equal(t, "long te...", TruncateToWidth("long text that overflows", 10))
}
