// Package timestamp resolves the partial timestamp fragments found in
// Android artifacts into absolute instants on a single reference clock.
package timestamp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	monthDayRe = regexp.MustCompile(`^(\d{2})-(\d{2})\s+(\d{2}):(\d{2}):(\d{2})(?:\.(\d{1,6}))?$`)
	epochRe    = regexp.MustCompile(`^\d{10,13}$`)
	isoRe      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2}):(\d{2})(?:\.(\d{1,6}))?$`)
)

// Resolver converts raw timestamp fragments into absolute instants.
// BaseYear supplies the calendar year for year-less logcat fragments; Now is
// the acquisition wall clock used for the December-to-January rollback.
type Resolver struct {
	BaseYear int
	Location *time.Location
	Now      func() time.Time
}

// NewResolver creates a Resolver for the given base year and location.
func NewResolver(baseYear int, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{
		BaseYear: baseYear,
		Location: loc,
		Now:      time.Now,
	}
}

// Resolve parses a fragment in one of the three accepted shapes:
// "MM-DD HH:MM:SS[.mmm]" (logcat, year-less), epoch milliseconds (dumpsys
// date= fields), or "YYYY-MM-DD HH:MM:SS[.ffffff]". It reports ok=false for
// anything malformed; callers skip the line rather than abort.
func (r *Resolver) Resolve(fragment string) (time.Time, bool) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return time.Time{}, false
	}

	if m := monthDayRe.FindStringSubmatch(fragment); m != nil {
		return r.resolveMonthDay(m)
	}
	if epochRe.MatchString(fragment) {
		return r.resolveEpochMillis(fragment)
	}
	if m := isoRe.FindStringSubmatch(fragment); m != nil {
		return r.resolveISO(m)
	}
	return time.Time{}, false
}

func (r *Resolver) resolveMonthDay(m []string) (time.Time, bool) {
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	hour, _ := strconv.Atoi(m[3])
	minute, _ := strconv.Atoi(m[4])
	second, _ := strconv.Atoi(m[5])
	nsec := fractionNanos(m[6])

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}

	ts := time.Date(r.BaseYear, time.Month(month), day, hour, minute, second, nsec, r.Location)

	// Year-less fragments from a capture spanning a Dec->Jan boundary would
	// otherwise land in the acquisition year's future.
	if ts.After(r.Now()) {
		ts = ts.AddDate(-1, 0, 0)
	}
	return ts, true
}

// resolveEpochMillis interprets a numeric date= field. These are always
// milliseconds; a 10-digit value would be a capture from 2001 and does not
// occur, but is treated as seconds to stay on the safe side.
func (r *Resolver) resolveEpochMillis(fragment string) (time.Time, bool) {
	n, err := strconv.ParseInt(fragment, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	var ts time.Time
	if len(fragment) <= 10 {
		ts = time.Unix(n, 0)
	} else {
		secs := float64(n) / 1000.0
		ts = time.Unix(int64(secs), int64(n%1000)*int64(time.Millisecond))
	}
	return ts.In(r.Location), true
}

func (r *Resolver) resolveISO(m []string) (time.Time, bool) {
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second, _ := strconv.Atoi(m[6])
	nsec := fractionNanos(m[7])

	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, nsec, r.Location), true
}

// fractionNanos converts a fractional-second capture group (1 to 6 digits)
// into nanoseconds.
func fractionNanos(frac string) int {
	if frac == "" {
		return 0
	}
	for len(frac) < 9 {
		frac += "0"
	}
	n, _ := strconv.Atoi(frac[:9])
	return n
}
