package formatter

import (
	"io"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
)

// Report is the finished timeline plus the run facts the non-JSON renderers
// summarize.
type Report struct {
	Events       []model.Event
	SourceCounts map[string]int
	GapCount     int
	BaseYear     int
	Timezone     string
}

// Formatter renders a report to a writer. The JSON form is the machine
// interface; table and summary are for the investigator's terminal.
type Formatter interface {
	Format(w io.Writer, report *Report) error
}
