package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// GetDisplayWidth calculates the actual display width of a string,
// accounting for wide runes that survive sanitization (contact names,
// notification titles).
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadToWidth right-pads text with spaces to the given display width.
func PadToWidth(text string, width int) string {
	gap := width - GetDisplayWidth(text)
	if gap <= 0 {
		return text
	}
	return text + strings.Repeat(" ", gap)
}

// TruncateToWidth shortens text to fit the given display width, appending
// an ellipsis when anything was cut.
func TruncateToWidth(text string, width int) string {
	if GetDisplayWidth(text) <= width {
		return text
	}
	if width <= 3 {
		return runewidth.Truncate(text, width, "")
	}
	return runewidth.Truncate(text, width, "...")
}
