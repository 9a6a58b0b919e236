package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, false)
	l.SetOutput(&buf)

	l.Debug("should not appear")
	l.Info("should not appear either")
	l.Warn("careful: %s", "disk low")
	l.Error("boom: %d", 42)

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("expected debug/info to be filtered out, got: %q", out)
	}
	if !strings.Contains(out, "careful: disk low") {
		t.Fatalf("expected warn line, got: %q", out)
	}
	if !strings.Contains(out, "boom: 42") {
		t.Fatalf("expected error line, got: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"info":    LevelInfo,
		"garbage": LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
