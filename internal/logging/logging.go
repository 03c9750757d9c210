package logging

import (
	"log"
	"strings"
)

// Level controls logging verbosity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel maps a level name to a Level. Unknown names fall back to INFO.
func ParseLevel(name string) Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ERROR":
		return LevelError
	case "WARN":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger is a leveled diagnostic sink. The pipeline components receive one
// instead of writing to a process-wide logger, so callers control where
// diagnostics go. A nil *Logger is valid and discards everything.
type Logger struct {
	level Level
	out   *log.Logger
}

func New(level Level) *Logger {
	return &Logger{level: level, out: log.Default()}
}

// Default is used by components constructed without an explicit logger.
var Default = New(LevelInfo)

// SetOutput redirects the logger, mostly so tests can capture it.
func (l *Logger) SetOutput(out *log.Logger) {
	l.out = out
}

func (l *Logger) enabled(level Level) bool {
	return l != nil && l.level >= level
}

func (l *Logger) Error(format string, args ...any) {
	if l.enabled(LevelError) {
		l.out.Printf("[ERROR] "+format, args...)
	}
}

func (l *Logger) Warn(format string, args ...any) {
	if l.enabled(LevelWarn) {
		l.out.Printf("[WARN] "+format, args...)
	}
}

func (l *Logger) Info(format string, args ...any) {
	if l.enabled(LevelInfo) {
		l.out.Printf("[INFO] "+format, args...)
	}
}

func (l *Logger) Debug(format string, args ...any) {
	if l.enabled(LevelDebug) {
		l.out.Printf("[DEBUG] "+format, args...)
	}
}
