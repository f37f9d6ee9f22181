package util

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// LogLevel orders log severities from most to least verbose.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseLogLevel maps a config string to a level, defaulting to INFO.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// LogEntry is one rendered log record.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Output is a log destination. Implementations serialize their own writes.
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// Logger fans log entries out to one or more outputs. A timeline build logs
// to a file by default and mirrors to stderr when debug is on.
type Logger struct {
	mu      sync.RWMutex
	level   LogLevel
	outputs []Output
}

// NewLogger builds a logger writing to logFile, mirroring to stderr when
// debugToConsole is set. At least one destination must result.
func NewLogger(levelStr, logFile string, debugToConsole bool) (*Logger, error) {
	l := &Logger{level: ParseLogLevel(levelStr)}

	if debugToConsole {
		l.outputs = append(l.outputs, NewConsoleOutput())
	}
	if logFile != "" {
		out, err := NewFileOutput(logFile)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", logFile, err)
		}
		l.outputs = append(l.outputs, out)
	}
	if len(l.outputs) == 0 {
		return nil, fmt.Errorf("no log destination: set a log file or enable debug output")
	}
	return l, nil
}

func (l *Logger) log(level LogLevel, msg string) {
	if level < l.level {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	entry := LogEntry{Timestamp: time.Now(), Level: level.String(), Message: msg}
	for _, out := range l.outputs {
		if err := out.Write(entry); err != nil {
			log.Printf("log write failed: %v", err)
		}
	}
}

func (l *Logger) Debug(msg string) { l.log(LevelDebug, msg) }
func (l *Logger) Info(msg string)  { l.log(LevelInfo, msg) }
func (l *Logger) Warn(msg string)  { l.log(LevelWarn, msg) }
func (l *Logger) Error(msg string) { l.log(LevelError, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

// Close flushes and closes every output.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, out := range l.outputs {
		if err := out.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
