package adapter

import (
	"fmt"
	"strings"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
	"github.com/droidsleuth/go-droid-timeline/internal/core/timestamp"
)

// PermissionAdapter rescans logcat for sideload-permission grants. The
// REQUEST_INSTALL_PACKAGES grant is the gate every untrusted APK install
// passes through, so it gets its own high-severity pass over the same file
// the logcat adapter already consumed.
type PermissionAdapter struct {
	resolver *timestamp.Resolver
}

// NewPermissionAdapter creates a permission-grant adapter.
func NewPermissionAdapter(resolver *timestamp.Resolver) *PermissionAdapter {
	return &PermissionAdapter{resolver: resolver}
}

func (a *PermissionAdapter) Name() string { return "permissions" }

var grantWords = []string{"allow", "grant"}

func (a *PermissionAdapter) Parse(path string) ([]model.Event, error) {
	var events []model.Event
	dedup := newDedupSet()

	handled, err := forEachLine(path, func(lineNo int, line string) {
		if !strings.Contains(line, "REQUEST_INSTALL_PACKAGES") {
			return
		}
		lower := strings.ToLower(line)
		granted := false
		for _, w := range grantWords {
			if strings.Contains(lower, w) {
				granted = true
				break
			}
		}
		if !granted {
			return
		}

		parsed, ok := DecodeLogcatLine(line)
		if !ok {
			return
		}
		ts, ok := a.resolver.Resolve(parsed.Timestamp)
		if !ok {
			return
		}

		event := model.NewEvent(ts, model.CategorySecurity, "Permission Grant",
			fmt.Sprintf("Sideload permission granted: %s", parsed.Message),
			model.SeverityError)
		event.SourceFile = path
		event.OriginLine = lineNo
		if dedup.insert(dedupKey(event)) {
			events = append(events, event)
		}
	})
	if err != nil || !handled {
		return nil, err
	}

	return events, nil
}
