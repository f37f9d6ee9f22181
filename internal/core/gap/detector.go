// Package gap annotates the merged timeline with logging-silence markers.
// A device that stops writing system logs mid-capture is either off, in deep
// doze, or had its buffers tampered with; either way the silence itself is
// evidence and gets an event of its own.
package gap

import (
	"fmt"
	"sort"
	"time"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

// DefaultThreshold is the minimum silence between consecutive system events
// that counts as a gap.
const DefaultThreshold = 30 * time.Second

// Detector finds logging gaps between consecutive SYSTEM_* events. User-plane
// events (SMS, calls, notifications) are naturally sparse and never anchor a
// gap.
type Detector struct {
	Threshold time.Duration
}

// NewDetector creates a gap detector. A non-positive threshold selects the
// default.
func NewDetector(threshold time.Duration) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{Threshold: threshold}
}

// Annotate returns the timeline with one GAP_MARKER inserted after each
// qualifying silence, re-sorted so markers sit at their own timestamps.
// Existing markers are ignored as anchors, which makes the pass idempotent.
func (d *Detector) Annotate(events []model.Event) []model.Event {
	markers := d.detect(events)
	if len(markers) == 0 {
		return events
	}

	out := make([]model.Event, 0, len(events)+len(markers))
	out = append(out, events...)
	out = append(out, markers...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp.Time)
	})
	return out
}

func (d *Detector) detect(events []model.Event) []model.Event {
	var markers []model.Event
	var prev *model.Event

	existing := make(map[string]struct{})
	for i := range events {
		if events[i].Category == model.CategoryGapMarker {
			existing[events[i].Timestamp.String()] = struct{}{}
		}
	}

	for i := range events {
		e := &events[i]
		if !e.Category.IsSystem() {
			continue
		}
		if prev != nil {
			silence := e.Timestamp.Sub(prev.Timestamp.Time)
			if silence > d.Threshold {
				marker := d.marker(prev, e, silence)
				if _, dup := existing[marker.Timestamp.String()]; !dup {
					markers = append(markers, marker)
				}
			}
		}
		prev = e
	}

	if len(markers) > 0 {
		util.LogInfof("Detected %d logging gaps above %s threshold", len(markers), d.Threshold)
	}
	return markers
}

// marker builds the ghost event. It sits one second after the last event
// before the silence so it sorts inside the gap, never on top of the anchor.
func (d *Detector) marker(before, after *model.Event, silence time.Duration) model.Event {
	event := model.NewEvent(
		before.Timestamp.Add(time.Second),
		model.CategoryGapMarker,
		"Logging Silence",
		fmt.Sprintf("[!] NO LOGS for %s (device off, doze, or log tampering)",
			util.FormatGapDuration(silence)),
		model.SeverityWarn,
	)
	event.SetMeta("gap_seconds", int64(silence/time.Second))
	event.SetMeta("gap_resumes_at", after.Timestamp.String())
	return event
}
