package adapter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/droidsleuth/go-droid-timeline/internal/core/classifier"
	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
	"github.com/droidsleuth/go-droid-timeline/internal/core/timestamp"
	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

// Logcat line shapes. The brief form is tried first, the threadtime form is
// the fallback; multi-buffer captures mix both.
var (
	logcatBriefRe  = regexp.MustCompile(`^(\d{2}-\d{2}\s\d{2}:\d{2}:\d{2}\.\d{3})\s+([VDIWEF])/([^(:]+)(?:\(\s*\d+\))?:?\s+(.*)$`)
	logcatThreadRe = regexp.MustCompile(`^(\d{2}-\d{2}\s\d{2}:\d{2}:\d{2}\.\d{3})\s+(\d+)\s+(\d+)\s+([VDIWEF])\s+([^:]+):\s+(.*)$`)
)

// LogcatAdapter parses logcat -v time / -v threadtime dumps. Severity policy:
// taken directly from the line's priority character (F collapses to ERROR).
type LogcatAdapter struct {
	resolver   *timestamp.Resolver
	classifier *classifier.Classifier
}

// NewLogcatAdapter creates a logcat adapter bound to a resolver and classifier.
func NewLogcatAdapter(resolver *timestamp.Resolver, cls *classifier.Classifier) *LogcatAdapter {
	return &LogcatAdapter{resolver: resolver, classifier: cls}
}

func (a *LogcatAdapter) Name() string { return "logcat" }

// ParsedLine is a decoded logcat line before classification.
type ParsedLine struct {
	Timestamp string
	Priority  byte
	Tag       string
	Message   string
}

// DecodeLogcatLine tries the two known logcat shapes, sanitizing tag and
// message to printable ASCII plus whitespace. Returns ok=false on a miss.
func DecodeLogcatLine(line string) (ParsedLine, bool) {
	if m := logcatBriefRe.FindStringSubmatch(line); m != nil {
		return ParsedLine{
			Timestamp: m[1],
			Priority:  m[2][0],
			Tag:       strings.TrimSpace(util.SanitizePrintable(m[3])),
			Message:   strings.TrimSpace(util.SanitizePrintable(m[4])),
		}, true
	}
	if m := logcatThreadRe.FindStringSubmatch(line); m != nil {
		return ParsedLine{
			Timestamp: m[1],
			Priority:  m[4][0],
			Tag:       strings.TrimSpace(util.SanitizePrintable(m[5])),
			Message:   strings.TrimSpace(util.SanitizePrintable(m[6])),
		}, true
	}
	return ParsedLine{}, false
}

func (a *LogcatAdapter) Parse(path string) ([]model.Event, error) {
	var events []model.Event
	dedup := newDedupSet()

	handled, err := forEachLine(path, func(lineNum int, line string) {
		parsed, ok := DecodeLogcatLine(line)
		if !ok {
			return
		}
		ts, ok := a.resolver.Resolve(parsed.Timestamp)
		if !ok {
			return
		}

		res := a.classifier.Classify(parsed.Tag, parsed.Message)

		event := model.NewEvent(ts, res.Category, res.Subtype,
			fmt.Sprintf("[%c/%s] %s", parsed.Priority, parsed.Tag, parsed.Message),
			model.SeverityFromPriority(parsed.Priority))
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
