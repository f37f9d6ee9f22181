package formatter

import (
	"io"

	"github.com/bytedance/sonic"
)

// JSONFormatter emits the event array itself. Downstream consumers (report
// generators, risk scoring) parse this output and never the raw artifacts.
type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(w io.Writer, report *Report) error {
	data, err := sonic.MarshalIndent(report.Events, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}
