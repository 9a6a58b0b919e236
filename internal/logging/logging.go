// Package logging provides collex's ambient logging surface: a leveled
// logger writing ansi-colorized output, mirroring the color conventions
// used throughout the rest of collex's own error formatting.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/starkandwayne/goutils/ansi"
)

// Level is a logging threshold, ordered from most to least verbose.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a
// Level, defaulting to LevelInfo for anything unrecognised.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled, optionally colorized messages to an output stream.
// Safe for concurrent use.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
	color bool
}

// New constructs a Logger writing to os.Stderr at the given level.
func New(level Level, color bool) *Logger {
	return &Logger{out: os.Stderr, level: level, color: color}
}

// SetOutput redirects where log lines are written (tests use this to
// capture output).
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

// SetLevel adjusts the logger's threshold.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) log(level Level, tag, colorTag, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.color {
		fmt.Fprintln(l.out, ansi.Sprintf("@%s{%s}: %s", colorTag, tag, msg))
		return
	}
	fmt.Fprintf(l.out, "%s: %s\n", tag, msg)
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, "DEBUG", "b", format, args...)
}

// Info logs at LevelInfo.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, "INFO", "g", format, args...)
}

// Warn logs at LevelWarn.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, "WARN", "y", format, args...)
}

// Error logs at LevelError.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, "ERROR", "r", format, args...)
}
