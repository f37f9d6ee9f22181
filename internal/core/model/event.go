package model

import (
	"time"
)

// Category is the closed event taxonomy. Every event carries exactly one.
type Category string

const (
	CategorySystemLog     Category = "SYSTEM_LOG"
	CategorySystemPower   Category = "SYSTEM_POWER"
	CategorySystemApp     Category = "SYSTEM_APP"
	CategorySystemNetwork Category = "SYSTEM_NETWORK"
	CategorySystemDevice  Category = "SYSTEM_DEVICE"
	CategorySystemSim     Category = "SYSTEM_SIM"
	CategorySystemRadio   Category = "SYSTEM_RADIO"
	CategoryVoip          Category = "VOIP"
	CategorySms           Category = "SMS"
	CategoryCall          Category = "CALL"
	CategoryNotification  Category = "NOTIFICATION"
	CategoryFinancial     Category = "FINANCIAL"
	CategoryAppLifecycle  Category = "APP_LIFECYCLE"
	CategorySecurity      Category = "SECURITY"
	CategoryGapMarker     Category = "GAP_MARKER"
)

// IsSystem reports whether the category belongs to the SYSTEM_* family
// (logcat-derived). Only these participate in gap detection.
func (c Category) IsSystem() bool {
	switch c {
	case CategorySystemLog, CategorySystemPower, CategorySystemApp,
		CategorySystemNetwork, CategorySystemDevice, CategorySystemSim,
		CategorySystemRadio:
		return true
	}
	return false
}

// Severity is an ordinal log severity, ascending.
type Severity int

const (
	SeverityVerbose Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityVerbose:
		return "VERBOSE"
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// SeverityFromPriority maps a logcat priority character to a Severity.
// Fatal collapses into ERROR; anything unrecognized defaults to INFO.
func SeverityFromPriority(p byte) Severity {
	switch p {
	case 'V':
		return SeverityVerbose
	case 'D':
		return SeverityDebug
	case 'I':
		return SeverityInfo
	case 'W':
		return SeverityWarn
	case 'E', 'F':
		return SeverityError
	default:
		return SeverityInfo
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"VERBOSE"`:
		*s = SeverityVerbose
	case `"DEBUG"`:
		*s = SeverityDebug
	case `"WARN"`:
		*s = SeverityWarn
	case `"ERROR"`:
		*s = SeverityError
	default:
		*s = SeverityInfo
	}
	return nil
}

// Timestamp wraps time.Time with the ISO-8601 wire format the timeline
// consumers expect: seconds precision, milliseconds appended only when
// the instant carries a sub-second component.
type Timestamp struct {
	time.Time
}

const (
	wireFormat      = "2006-01-02T15:04:05"
	wireFormatMilli = "2006-01-02T15:04:05.000"
)

func (t Timestamp) String() string {
	if t.Nanosecond() != 0 {
		return t.Format(wireFormatMilli)
	}
	return t.Format(wireFormat)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &time.ParseError{Layout: wireFormat, Value: s}
	}
	s = s[1 : len(s)-1]
	for _, layout := range []string{wireFormatMilli, wireFormat, "2006-01-02T15:04:05.000000", time.RFC3339} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return &time.ParseError{Layout: wireFormat, Value: s}
}

// Event is the canonical timeline unit. Timestamp, Category and Content are
// immutable after creation; Metadata is written once, by the enrichment
// pass. Provenance fields are audit-only and never enter dedup keys.
type Event struct {
	Timestamp  Timestamp      `json:"timestamp"`
	Category   Category       `json:"type"`
	Subtype    string         `json:"subtype"`
	Content    string         `json:"content"`
	Severity   Severity       `json:"severity"`
	SourceFile string         `json:"source_file,omitempty"`
	OriginLine int            `json:"origin_line,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewEvent builds an event at the given instant.
func NewEvent(ts time.Time, category Category, subtype, content string, severity Severity) Event {
	return Event{
		Timestamp: Timestamp{ts},
		Category:  category,
		Subtype:   subtype,
		Content:   content,
		Severity:  severity,
	}
}

// SetMeta lazily initializes and writes a metadata entry.
func (e *Event) SetMeta(key string, value any) {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
}
