package adapter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/droidsleuth/go-droid-timeline/internal/core/model"
	"github.com/droidsleuth/go-droid-timeline/internal/core/timestamp"
	"github.com/droidsleuth/go-droid-timeline/internal/util"
)

// Financial content patterns. A match promotes an SMS straight to FINANCIAL;
// the flag name feeds the subtype.
var financialPatterns = []struct {
	flag    string
	subtype string
	re      *regexp.Regexp
}{
	{"OTP", "OTP Received", regexp.MustCompile(`(?i)\b(?:OTP|one.time.password|verification.code|auth.code)\b.*?\d{4,6}`)},
	{"UPI", "UPI Transaction", regexp.MustCompile(`(?i)\b(?:UPI|PhonePe|Paytm|GPay|Google.Pay|BHIM|Amazon.Pay|Cred|MobiKwik|Freecharge)\b.*?(?:Rs\.?|INR|₹|rupee|rupees)\s*\d+`)},
	{"BANK", "Bank Alert", regexp.MustCompile(`(?i)\b(?:credited|debited|transferred|withdrawn|deposited|balance|account|IFSC|NEFT|RTGS|IMPS)\b.*?(?:Rs\.?|INR|₹|rupee|rupees)\s*\d+`)},
	{"TRANSACTION", "General Transaction", regexp.MustCompile(`(?i)\b(?:paid|sent|received|spent|purchase|bill|invoice|payment|txn|transaction)\b.*?(?:Rs\.?|INR|₹|rupee|rupees)\s*\d+`)},
}

// notificationKeywords mark an SMS as notification-worthy when no financial
// pattern fires.
var notificationKeywords = []string{"otp", "code", "verification", "alert"}

// DefaultFinancialSenders are sender-ID fragments of known bank and payment
// services. A matching sender forces FINANCIAL classification even when the
// body patterns miss (truncated or vernacular alerts).
var DefaultFinancialSenders = []string{
	"SBIINB", "SBIPSG", "HDFCBK", "ICICIB", "AXISBK", "KOTAKB", "PNBSMS",
	"PAYTM", "PHONEPE", "GPAY", "UPIBNK",
}

var (
	smsAddrRe = regexp.MustCompile(`address=([^,]+)`)
	smsBodyRe = regexp.MustCompile(`body=(.*?)(?:, \w+=|$)`)
	smsDateRe = regexp.MustCompile(`date=(\d+)`)
	smsTypeRe = regexp.MustCompile(`(?:^|\s)type=(\d+)`)
)

// SmsAdapter parses SMS dumps in pipe-delimited or raw dumpsys row form.
// Severity policy: INFO baseline, WARN for FINANCIAL classifications.
type SmsAdapter struct {
	resolver         *timestamp.Resolver
	financialSenders []string
}

// NewSmsAdapter creates an SMS adapter. An empty sender list selects the
// defaults.
func NewSmsAdapter(resolver *timestamp.Resolver, financialSenders []string) *SmsAdapter {
	if len(financialSenders) == 0 {
		financialSenders = DefaultFinancialSenders
	}
	return &SmsAdapter{resolver: resolver, financialSenders: financialSenders}
}

func (a *SmsAdapter) Name() string { return "sms" }

func (a *SmsAdapter) Parse(path string) ([]model.Event, error) {
	var events []model.Event
	dedup := newDedupSet()

	handled, err := forEachLine(path, func(lineNum int, line string) {
		var event model.Event
		var ok bool

		switch {
		case strings.Contains(line, " | "):
			event, ok = a.parsePipeDelimited(line)
		case strings.Contains(line, "address="):
			event, ok = a.parseDumpsysRow(line)
		default:
			return
		}
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

// parsePipeDelimited handles "timestamp | direction | sender | body" rows.
func (a *SmsAdapter) parsePipeDelimited(line string) (model.Event, bool) {
	parts := strings.Split(line, " | ")
	if len(parts) < 4 {
		return model.Event{}, false
	}

	ts, ok := a.resolver.Resolve(strings.TrimSpace(parts[0]))
	if !ok {
		return model.Event{}, false
	}

	direction := strings.TrimSpace(parts[1])
	sender := strings.TrimSpace(parts[2])
	body := util.SanitizeContent(strings.TrimSpace(strings.Join(parts[3:], " | ")))
	content := fmt.Sprintf("SMS %s: %s - %s", direction, sender, body)

	category, subtype, severity := a.classify(direction, sender, body)
	return model.NewEvent(ts, category, subtype, content, severity), true
}

// parseDumpsysRow handles raw "Row: N address=..., body=..., date=..." rows.
func (a *SmsAdapter) parseDumpsysRow(line string) (model.Event, bool) {
	addr := smsAddrRe.FindStringSubmatch(line)
	body := smsBodyRe.FindStringSubmatch(line)
	date := smsDateRe.FindStringSubmatch(line)
	if addr == nil || body == nil || date == nil {
		return model.Event{}, false
	}

	ts, ok := a.resolver.Resolve(date[1])
	if !ok {
		return model.Event{}, false
	}

	direction := "RAW"
	if m := smsTypeRe.FindStringSubmatch(line); m != nil {
		switch m[1] {
		case "1":
			direction = "Received"
		case "2":
			direction = "Sent"
		}
	}

	sender := strings.TrimSpace(addr[1])
	text := util.SanitizeContent(strings.TrimSpace(body[1]))
	content := fmt.Sprintf("SMS: %s - %s", sender, text)

	category, subtype, severity := a.classify(direction, sender, text)
	return model.NewEvent(ts, category, subtype, content, severity), true
}

// classify applies the precedence chain: FINANCIAL (body pattern or known
// sender) over NOTIFICATION keywords over plain SMS.
func (a *SmsAdapter) classify(direction, sender, body string) (model.Category, string, model.Severity) {
	for _, p := range financialPatterns {
		if p.re.MatchString(body) {
			return model.CategoryFinancial, fmt.Sprintf("%s (%s)", direction, "FINANCIAL_"+p.flag), model.SeverityWarn
		}
	}

	upperSender := strings.ToUpper(sender)
	for _, known := range a.financialSenders {
		if strings.Contains(upperSender, known) {
			return model.CategoryFinancial, fmt.Sprintf("%s (FINANCIAL_BANK)", direction), model.SeverityWarn
		}
	}

	lowerBody := strings.ToLower(body)
	for _, kw := range notificationKeywords {
		if strings.Contains(lowerBody, kw) {
			return model.CategoryNotification, fmt.Sprintf("%s (Alert)", direction), model.SeverityInfo
		}
	}

	return model.CategorySms, direction, model.SeverityInfo
}
