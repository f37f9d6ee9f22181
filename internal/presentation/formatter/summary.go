package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

// SummaryFormatter prints the run's aggregate shape: per-category and
// per-severity counts, coverage window, and source contributions.
type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(w io.Writer, report *Report) error {
	categoryCounts := make(map[model.Category]int)
	severityCounts := make(map[string]int)
	for _, e := range report.Events {
		categoryCounts[e.Category]++
		severityCounts[e.Severity.String()]++
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "Unified Timeline Summary")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	if len(report.Events) > 0 {
		first := report.Events[0].Timestamp
		last := report.Events[len(report.Events)-1].Timestamp
		fmt.Fprintf(w, "Coverage:     %s to %s (%s)\n",
			first.String(), last.String(),
			util.FormatDuration(last.Sub(first.Time)))
	}
	fmt.Fprintf(w, "Total Events: %s\n", util.FormatNumber(len(report.Events)))
	fmt.Fprintf(w, "Logging Gaps: %s\n", util.FormatNumber(report.GapCount))
	fmt.Fprintf(w, "Base Year:    %d\n", report.BaseYear)
	fmt.Fprintf(w, "Timezone:     %s\n", report.Timezone)

	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintln(w, "Events by Category:")
	for _, c := range sortedCategories(categoryCounts) {
		fmt.Fprintf(w, "  %-16s %8s\n", c, util.FormatNumber(categoryCounts[model.Category(c)]))
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintln(w, "Events by Severity:")
	for _, s := range []string{"VERBOSE", "DEBUG", "INFO", "WARN", "ERROR"} {
		if count, ok := severityCounts[s]; ok {
			fmt.Fprintf(w, "  %-16s %8s\n", s, util.FormatNumber(count))
		}
	}

	if len(report.SourceCounts) > 0 {
		fmt.Fprintln(w, strings.Repeat("-", 60))
		fmt.Fprintln(w, "Events by Source:")
		for _, name := range sortedKeys(report.SourceCounts) {
			fmt.Fprintf(w, "  %-16s %8s\n", name, util.FormatNumber(report.SourceCounts[name]))
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
	return nil
}

func sortedCategories(counts map[model.Category]int) []string {
	keys := make([]string, 0, len(counts))
	for c := range counts {
		keys = append(keys, string(c))
	}
	// Largest bucket first and alphabetical within equal counts.
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := counts[model.Category(keys[i])], counts[model.Category(keys[j])]
		if ci != cj {
			return ci > cj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
