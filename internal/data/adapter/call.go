package adapter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
	"github.com/droidsleuth/go-droid-timeline/internal/core/timestamp"
	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

// Call-log key regexes require a whitespace-or-line-start boundary so that
// "formatted_number=" never satisfies the "number=" rule.
var (
	callNumberRe   = regexp.MustCompile(`(?:^|\s)number=([^,]+)`)
	callNameRe     = regexp.MustCompile(`(?:^|\s)name=([^,]+)`)
	callDurationRe = regexp.MustCompile(`(?:^|\s)duration=([^,]+)`)
	callTypeRe     = regexp.MustCompile(`(?:^|\s)type=([^,]+)`)
	callDateRe     = regexp.MustCompile(`(?:^|\s)date=(\d+)`)
)

// CallAdapter parses call-log dumpsys rows. Severity policy: INFO for every
// call record; call outcomes are facts, not signals.
type CallAdapter struct {
	resolver *timestamp.Resolver
}

// NewCallAdapter creates a call-log adapter.
func NewCallAdapter(resolver *timestamp.Resolver) *CallAdapter {
	return &CallAdapter{resolver: resolver}
}

func (a *CallAdapter) Name() string { return "calls" }

func (a *CallAdapter) Parse(path string) ([]model.Event, error) {
	var events []model.Event
	dedup := newDedupSet()

	handled, err := forEachLine(path, func(lineNum int, line string) {
		event, ok := a.parseRow(line)
		if !ok {
			return
		}
		event.SourceFile = path
		event.OriginLine = lineNum
		if dedup.insert(dedupKey(event)) {
			events = append(events, event)
		}
	})
	if err != nil {
		return events, err
	}
	if !handled {
		return nil, nil
	}
	return events, nil
}

func (a *CallAdapter) parseRow(line string) (model.Event, bool) {
	number := callNumberRe.FindStringSubmatch(line)
	date := callDateRe.FindStringSubmatch(line)
	if number == nil || date == nil {
		return model.Event{}, false
	}

	ts, ok := a.resolver.Resolve(date[1])
	if !ok {
		return model.Event{}, false
	}

	name := "NULL"
	if m := callNameRe.FindStringSubmatch(line); m != nil {
		name = strings.TrimSpace(m[1])
	}
	duration := "0"
	if m := callDurationRe.FindStringSubmatch(line); m != nil {
		duration = strings.TrimSpace(m[1])
	}

	typeStr := "Unknown"
	if m := callTypeRe.FindStringSubmatch(line); m != nil {
		switch strings.TrimSpace(m[1]) {
		case "1":
			typeStr = "Incoming"
		case "2":
			typeStr = "Outgoing"
		case "3":
			typeStr = "Missed"
		}
	}

	// App-sourced calls surface only in component fields scattered across
	// the row, so the whole line is searched.
	appSource := "Phone"
	lower := strings.ToLower(line)
	if strings.Contains(lower, "whatsapp") {
		appSource = "WhatsApp"
	} else if strings.Contains(lower, "telegram") {
		appSource = "Telegram"
	}

	displayName := strings.TrimSpace(number[1])
	if name != "NULL" && name != "" {
		displayName = name
	}

	var summary string
	if appSource != "Phone" {
		summary = fmt.Sprintf("%s Call (%s): %s", typeStr, appSource, displayName)
	} else {
		summary = fmt.Sprintf("%s Call: %s", typeStr, displayName)
	}

	event := model.NewEvent(ts, model.CategoryCall,
		fmt.Sprintf("%s (%s)", typeStr, appSource),
		util.SanitizeContent(fmt.Sprintf("%s (Dur: %ss)", summary, duration)),
		model.SeverityInfo)
	return event, true
}
