package util

import (
	"fmt"
	"time"
)

// FormatNumber renders an integer compactly (1.2K, 3.4M) for summaries.
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// FormatGapDuration renders an inactivity gap for ghost markers: hours for
// gaps of an hour or more, whole minutes below that, and seconds for
// sub-minute gaps. The seconds case exists so that a 45s gap is reported as
// "45 seconds" instead of "0 min".
func FormatGapDuration(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs >= 3600:
		return fmt.Sprintf("%.1f hours", secs/3600)
	case secs >= 60:
		return fmt.Sprintf("%d min", int(secs/60))
	default:
		return fmt.Sprintf("%d seconds", int(secs))
	}
}

// FormatDuration renders an elapsed time as "Xh Ym" or "Ym".
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
