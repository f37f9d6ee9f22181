package adapter

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
	"github.com/droidsleuth/go-droid-timeline/internal/core/timestamp"
	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

// NotificationRecord is one pre-extracted notification, produced by the
// external notification-dump parser.
type NotificationRecord struct {
	Timestamp     string `json:"timestamp"`
	AppName       string `json:"app_name"`
	Title         string `json:"title"`
	Text          string `json:"text"`
	Category      string `json:"category"`
	FinancialFlag string `json:"financial_flag"`
}

// NotificationAdapter consumes notification_timeline.json. Severity policy:
// WARN for FINANCIAL reclassifications, INFO otherwise.
type NotificationAdapter struct {
	resolver *timestamp.Resolver
}

// NewNotificationAdapter creates a notification-timeline adapter.
func NewNotificationAdapter(resolver *timestamp.Resolver) *NotificationAdapter {
	return &NotificationAdapter{resolver: resolver}
}

func (a *NotificationAdapter) Name() string { return "notifications" }

func (a *NotificationAdapter) Parse(path string) ([]model.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var records []NotificationRecord
	if err := sonic.Unmarshal(data, &records); err != nil {
		// A corrupt notification dump degrades to zero events rather than
		// aborting the run.
		util.LogWarnf("Skipping malformed notification timeline %s: %v", path, err)
		return nil, nil
	}

	var events []model.Event
	dedup := newDedupSet()

	for i, rec := range records {
		ts, ok := a.resolver.Resolve(rec.Timestamp)
		if !ok {
			continue
		}

		category := model.CategoryNotification
		subtype := rec.Category
		if subtype == "" {
			subtype = "General"
		}
		severity := model.SeverityInfo

		flag := strings.ToUpper(rec.FinancialFlag)
		switch {
		case strings.Contains(flag, "OTP"):
			category, subtype, severity = model.CategoryFinancial, "OTP Received", model.SeverityWarn
		case strings.Contains(flag, "BANK"):
			category, subtype, severity = model.CategoryFinancial, "Bank Alert", model.SeverityWarn
		case strings.Contains(flag, "UPI"):
			category, subtype, severity = model.CategoryFinancial, "UPI Transaction", model.SeverityWarn
		case strings.Contains(flag, "TRANSACTION"):
			category, subtype, severity = model.CategoryFinancial, "General Transaction", model.SeverityWarn
		}

		appName := rec.AppName
		if appName == "" {
			appName = "Unknown"
		}

		event := model.NewEvent(ts, category, subtype,
			util.SanitizeContent(fmt.Sprintf("[%s] %s: %s", appName, rec.Title, rec.Text)),
			severity)
		event.SourceFile = path
		event.OriginLine = i + 1

		if dedup.insert(dedupKey(event)) {
			events = append(events, event)
		}
	}

	return events, nil
}
