// Package enrich runs the post-merge correlation pass. It only ever writes
// metadata; timestamps, categories and content are settled by the time the
// timeline reaches this stage.
package enrich

import (
	"fmt"
	"strings"
	"time"

	"github.com/droidsleuth/go-droid-timeline/internal/core/classifier"
	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

const (
	// DefaultWindow bounds the VoIP context search around each call event.
	DefaultWindow = 30 * time.Second
	// DefaultSessionGap is the largest silence between adjacent VoIP events
	// that still counts as the same call session.
	DefaultSessionGap = 15 * time.Second
	// maxAttachments caps correlated context per VoIP event.
	maxAttachments = 3
)

// Enricher correlates VoIP events with surrounding context and groups them
// into call sessions. Both passes are idempotent.
type Enricher struct {
	Window        time.Duration
	SessionGap    time.Duration
	messagingApps []string
}

// NewEnricher creates an enricher. Non-positive durations and an empty app
// list select the defaults.
func NewEnricher(window, sessionGap time.Duration, messagingApps []string) *Enricher {
	if window <= 0 {
		window = DefaultWindow
	}
	if sessionGap <= 0 {
		sessionGap = DefaultSessionGap
	}
	if len(messagingApps) == 0 {
		messagingApps = classifier.DefaultMessagingApps
	}
	return &Enricher{Window: window, SessionGap: sessionGap, messagingApps: messagingApps}
}

// Enrich mutates events in place. Callers pass the fully merged, sorted
// timeline; gap markers are already present and are never enriched.
func (en *Enricher) Enrich(events []model.Event) {
	en.correlateVoip(events)
	en.groupSessions(events)
}

// correlateVoip attaches up to three same-app events found within the window
// around each VoIP event, plus a confidence flag. Notification corroboration
// is the strongest signal available offline, so any attached notification
// promotes confidence to HIGH.
func (en *Enricher) correlateVoip(events []model.Event) {
	enriched := 0
	for i := range events {
		e := &events[i]
		if e.Category != model.CategoryVoip {
			continue
		}
		app := en.appOf(e)
		if app == "" {
			continue
		}

		var attached []string
		confidence := "MEDIUM"
		for j := range events {
			if len(attached) >= maxAttachments {
				break
			}
			if j == i {
				continue
			}
			other := &events[j]
			delta := other.Timestamp.Sub(e.Timestamp.Time)
			if delta < -en.Window || delta > en.Window {
				continue
			}
			if !en.mentions(other, app) {
				continue
			}
			attached = append(attached, fmt.Sprintf("%s: %s",
				other.Timestamp.String(), other.Content))
			if other.Category == model.CategoryNotification {
				confidence = "HIGH"
			}
		}
		if len(attached) == 0 {
			continue
		}

		e.SetMeta("correlated_app", app)
		e.SetMeta("nearby_events", attached)
		e.SetMeta("confidence", confidence)
		enriched++
	}
	if enriched > 0 {
		util.LogDebugf("Correlated context onto %d VoIP events", enriched)
	}
}

// groupSessions walks consecutive VoIP events and stamps session duration and
// size onto every member of each multi-event session.
func (en *Enricher) groupSessions(events []model.Event) {
	var session []int
	flush := func() {
		if len(session) >= 2 {
			first := events[session[0]].Timestamp.Time
			last := events[session[len(session)-1]].Timestamp.Time
			duration := int64(last.Sub(first) / time.Second)
			for _, idx := range session {
				events[idx].SetMeta("call_duration_seconds", duration)
				events[idx].SetMeta("call_session_events", len(session))
			}
		}
		session = session[:0]
	}

	for i := range events {
		if events[i].Category != model.CategoryVoip {
			continue
		}
		if len(session) > 0 {
			prev := events[session[len(session)-1]].Timestamp.Time
			if events[i].Timestamp.Sub(prev) > en.SessionGap {
				flush()
			}
		}
		session = append(session, i)
	}
	flush()
}

// appOf extracts the messaging app a VoIP event belongs to, from subtype
// first and content as fallback.
func (en *Enricher) appOf(e *model.Event) string {
	for _, hay := range []string{strings.ToLower(e.Subtype), strings.ToLower(e.Content)} {
		for _, app := range en.messagingApps {
			if strings.Contains(hay, app) {
				return app
			}
		}
	}
	return ""
}

func (en *Enricher) mentions(e *model.Event, app string) bool {
	return strings.Contains(strings.ToLower(e.Content), app) ||
		strings.Contains(strings.ToLower(e.Subtype), app)
}
