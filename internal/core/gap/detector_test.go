package gap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
)

func systemEvent(ts time.Time, content string) model.Event {
	return model.NewEvent(ts, model.CategorySystemLog, "Tag", content, model.SeverityInfo)
}

func userEvent(ts time.Time, content string) model.Event {
	return model.NewEvent(ts, model.CategorySms, "Received", content, model.SeverityInfo)
}

func TestAnnotateInsertsMarker(t *testing.T) {
	base := time.Date(2023, 11, 14, 10, 0, 0, 0, time.UTC)
	events := []model.Event{
		systemEvent(base, "before"),
		systemEvent(base.Add(45*time.Second), "after"),
	}

	out := NewDetector(30 * time.Second).Annotate(events)
	require.Len(t, out, 3)

	marker := out[1]
	assert.Equal(t, model.CategoryGapMarker, marker.Category)
	assert.Equal(t, model.SeverityWarn, marker.Severity)
	assert.Equal(t, base.Add(time.Second), marker.Timestamp.Time)
	assert.Contains(t, marker.Content, "NO LOGS for 45 seconds")
	assert.Equal(t, int64(45), marker.Metadata["gap_seconds"])
}

func TestAnnotateIgnoresUserPlaneEvents(t *testing.T) {
	base := time.Date(2023, 11, 14, 10, 0, 0, 0, time.UTC)
	events := []model.Event{
		userEvent(base, "sms one"),
		userEvent(base.Add(2*time.Hour), "sms two"),
	}

	out := NewDetector(30 * time.Second).Annotate(events)
	assert.Len(t, out, 2, "sparse user events never anchor gaps")
}

func TestAnnotateUserEventInsideSilence(t *testing.T) {
	base := time.Date(2023, 11, 14, 10, 0, 0, 0, time.UTC)
	events := []model.Event{
		systemEvent(base, "before"),
		userEvent(base.Add(20*time.Second), "sms during silence"),
		systemEvent(base.Add(2*time.Minute), "after"),
	}

	out := NewDetector(30 * time.Second).Annotate(events)
	require.Len(t, out, 4, "gap measured between system anchors only")
	assert.Equal(t, model.CategoryGapMarker, out[1].Category)
	assert.Contains(t, out[1].Content, "2 min")
}

func TestAnnotateBelowThreshold(t *testing.T) {
	base := time.Date(2023, 11, 14, 10, 0, 0, 0, time.UTC)
	events := []model.Event{
		systemEvent(base, "a"),
		systemEvent(base.Add(29*time.Second), "b"),
	}

	out := NewDetector(30 * time.Second).Annotate(events)
	assert.Len(t, out, 2)
}

func TestAnnotateExactThreshold(t *testing.T) {
	base := time.Date(2023, 11, 14, 10, 0, 0, 0, time.UTC)
	events := []model.Event{
		systemEvent(base, "a"),
		systemEvent(base.Add(30*time.Second), "b"),
		systemEvent(base.Add(61*time.Second), "c"),
	}

	out := NewDetector(30 * time.Second).Annotate(events)
	require.Len(t, out, 4, "a silence must exceed the threshold, not meet it")
	assert.Equal(t, model.CategoryGapMarker, out[2].Category)
	assert.Contains(t, out[2].Content, "31 seconds")
}

func TestAnnotateIdempotent(t *testing.T) {
	base := time.Date(2023, 11, 14, 10, 0, 0, 0, time.UTC)
	events := []model.Event{
		systemEvent(base, "before"),
		systemEvent(base.Add(10*time.Minute), "after"),
	}

	d := NewDetector(30 * time.Second)
	once := d.Annotate(events)
	twice := d.Annotate(once)
	assert.Equal(t, once, twice, "re-running annotation adds nothing")
}

func TestAnnotateHourScaleGap(t *testing.T) {
	base := time.Date(2023, 11, 14, 10, 0, 0, 0, time.UTC)
	events := []model.Event{
		systemEvent(base, "before"),
		systemEvent(base.Add(90*time.Minute), "after"),
	}

	out := NewDetector(0).Annotate(events)
	require.Len(t, out, 3)
	assert.Contains(t, out[1].Content, "1.5 hours")
}
