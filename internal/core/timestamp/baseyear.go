package timestamp

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

// DefaultInferenceLines bounds how far into each corroborating source the
// year scan reads. Dumpsys rows carry fully-qualified dates near the top, so
// a small prefix is enough.
const DefaultInferenceLines = 500

var (
	fullDateRe = regexp.MustCompile(`\b(19|20)\d{2}-\d{2}-\d{2}\b`)
	epochMsRe  = regexp.MustCompile(`\bdate=(\d{13})\b`)
)

// InferBaseYear scans a bounded prefix of the SMS and call-log sources for
// fully-qualified dates, tallies the years seen, and returns the most
// frequent. Logcat timestamps carry no year, so this must run before any
// logcat line is parsed. Falls back to the wall-clock year when no source
// yields a usable date.
func InferBaseYear(sourcePaths []string, now time.Time) int {
	return InferBaseYearN(sourcePaths, DefaultInferenceLines, now)
}

// InferBaseYearN is InferBaseYear with an explicit prefix bound.
func InferBaseYearN(sourcePaths []string, maxLines int, now time.Time) int {
	if maxLines <= 0 {
		maxLines = DefaultInferenceLines
	}
	votes := make(map[int]int)

	for _, path := range sourcePaths {
		tallyFileYears(path, maxLines, votes)
	}

	best, bestCount := 0, 0
	for year, count := range votes {
		if count > bestCount || (count == bestCount && year > best) {
			best, bestCount = year, count
		}
	}

	if bestCount == 0 {
		util.LogWarnf("No usable dates found for year inference, falling back to %d", now.Year())
		return now.Year()
	}

	util.LogDebugf("Inferred base year %d from %d dated records", best, bestCount)
	return best
}

func tallyFileYears(path string, maxLines int, votes map[int]int) {
	file, err := os.Open(path)
	if err != nil {
		// A missing corroborating source is not an error.
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines := 0
	for scanner.Scan() && lines < maxLines {
		lines++
		line := scanner.Text()

		if m := fullDateRe.FindString(line); m != "" {
			if year, err := strconv.Atoi(m[:4]); err == nil {
				votes[year]++
			}
		}
		if m := epochMsRe.FindStringSubmatch(line); m != nil {
			if ms, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				votes[time.UnixMilli(ms).Year()]++
			}
		}
	}
}
