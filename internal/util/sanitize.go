package util

import (
	"strings"
)

// SanitizePrintable strips non-printable bytes from raw artifact text,
// keeping printable ASCII plus space and tab. Device dumps routinely carry
// stray control bytes and mojibake that would corrupt the JSON timeline.
func SanitizePrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return r
		}
		if r >= 0x21 && r <= 0x7e {
			return r
		}
		return -1
	}, s)
}

// SanitizeContent removes control characters but keeps non-ASCII text.
// SMS bodies and notification titles legitimately carry unicode (₹ amounts,
// vernacular text) that the classifier patterns depend on.
func SanitizeContent(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// CollapseSpaces trims and collapses runs of whitespace to single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
