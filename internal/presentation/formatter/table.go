package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

// maxContentWidth keeps SMS bodies and long logcat payloads from blowing up
// the terminal table.
const maxContentWidth = 70

// TableFormatter renders the timeline as a bordered terminal table, one row
// per event.
type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"Timestamp", "Type", "Subtype", "Sev", "Content"},
	}
}

func (f *TableFormatter) Format(w io.Writer, report *Report) error {
	rows := make([][]string, 0, len(report.Events))
	for _, e := range report.Events {
		rows = append(rows, []string{
			e.Timestamp.String(),
			string(e.Category),
			e.Subtype,
			e.Severity.String(),
			util.TruncateToWidth(e.Content, maxContentWidth),
		})
	}

	widths := f.columnWidths(rows)

	f.printBorder(w, widths, "top")
	f.printRow(w, f.headers, widths)
	f.printBorder(w, widths, "middle")
	for _, row := range rows {
		f.printRow(w, row, widths)
	}
	f.printBorder(w, widths, "bottom")

	fmt.Fprintf(w, "%s events, %s gaps\n",
		util.FormatNumber(len(report.Events)), util.FormatNumber(report.GapCount))
	return nil
}

// columnWidths sizes each column to its widest cell, measured in display
// cells so contact names and titles with wide runes stay aligned.
func (f *TableFormatter) columnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := util.GetDisplayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (f *TableFormatter) printBorder(w io.Writer, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	fmt.Fprint(w, left)
	for i, width := range widths {
		fmt.Fprint(w, strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			fmt.Fprint(w, middle)
		}
	}
	fmt.Fprintln(w, right)
}

func (f *TableFormatter) printRow(w io.Writer, values []string, widths []int) {
	fmt.Fprint(w, "│")
	for i, value := range values {
		fmt.Fprintf(w, " %s │", util.PadToWidth(value, widths[i]))
	}
	fmt.Fprintln(w)
}
