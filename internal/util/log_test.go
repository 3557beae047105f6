package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"trace": LevelTrace,
		"TRACE": LevelTrace,
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
	}

	for input, want := range tests {
		if got := ParseLogLevel(input); got != want {
			t.Fatalf("ParseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}

	if got := ParseLogLevel("unknown"); got != LevelInfo {
		t.Fatalf("ParseLogLevel default = %v, want %v", got, LevelInfo)
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LevelInfo, &buf)

	logger.Debugf("hidden %d", 1)
	logger.Infof("visible %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line leaked through info level: %q", out)
	}
	if !strings.Contains(out, "visible 2") {
		t.Fatalf("info line missing from output: %q", out)
	}
}

func TestLoggerSetLevelTakesEffect(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(LevelError, &buf)

	logger.Warnf("early warn")
	logger.SetLevel(LevelDebug)
	logger.Warnf("late warn")

	out := buf.String()
	if strings.Contains(out, "early warn") {
		t.Fatalf("warn line leaked through error level: %q", out)
	}
	if !strings.Contains(out, "late warn") {
		t.Fatalf("warn line missing after SetLevel: %q", out)
	}
}
