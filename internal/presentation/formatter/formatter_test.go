package formatter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
)

func sampleReport() *Report {
	base := time.Date(2023, 11, 14, 10, 0, 0, 0, time.UTC)
	gap := model.NewEvent(base.Add(time.Second), model.CategoryGapMarker, "Logging Silence",
		"[!] NO LOGS for 5 min (device off, doze, or log tampering)", model.SeverityWarn)
	return &Report{
		Events: []model.Event{
			model.NewEvent(base, model.CategorySystemPower, "Screen ON",
				"[I/PowerManagerService] Waking up", model.SeverityInfo),
			gap,
			model.NewEvent(base.Add(6*time.Minute), model.CategoryFinancial, "Received (FINANCIAL_BANK)",
				"SMS Received: HDFCBK - Rs. 5000 debited", model.SeverityWarn),
		},
		SourceCounts: map[string]int{"logcat": 1, "sms": 1},
		GapCount:     1,
		BaseYear:     2023,
		Timezone:     "Asia/Kolkata",
	}
}

func TestJSONFormatterEmitsEventArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, sampleReport()))

	var decoded []map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)

	assert.Equal(t, "2023-11-14T10:00:00", decoded[0]["timestamp"])
	assert.Equal(t, "SYSTEM_POWER", decoded[0]["type"])
	assert.Equal(t, "INFO", decoded[0]["severity"])
	assert.Equal(t, "GAP_MARKER", decoded[1]["type"])
	assert.Equal(t, "FINANCIAL", decoded[2]["type"])
}

func TestTableFormatterRendersRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().Format(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Timestamp")
	assert.Contains(t, out, "SYSTEM_POWER")
	assert.Contains(t, out, "NO LOGS for 5 min")
	assert.Contains(t, out, "3 events, 1 gaps")
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "└")
}

func TestTableFormatterTruncatesLongContent(t *testing.T) {
	report := sampleReport()
	report.Events[0].Content = strings.Repeat("x", 200)

	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().Format(&buf, report))
	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), strings.Repeat("x", 100))
}

func TestSummaryFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryFormatter().Format(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Unified Timeline Summary")
	assert.Contains(t, out, "Total Events: 3")
	assert.Contains(t, out, "Logging Gaps: 1")
	assert.Contains(t, out, "Base Year:    2023")
	assert.Contains(t, out, "SYSTEM_POWER")
	assert.Contains(t, out, "FINANCIAL")
	assert.Contains(t, out, "logcat")
	assert.Contains(t, out, "2023-11-14T10:00:00 to 2023-11-14T10:06:00")
}

func TestSummaryFormatterEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	report := &Report{BaseYear: 2023, Timezone: "Local"}
	require.NoError(t, NewSummaryFormatter().Format(&buf, report))
	assert.Contains(t, buf.String(), "Total Events: 0")
}
