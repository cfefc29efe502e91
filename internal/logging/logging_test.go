package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

// captureOutput redirects the standard logger into a buffer for the
// duration of fn.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	orig := log.Writer()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(orig)
	fn()
	return buf.String()
}

func TestLevelTagging(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
		tag  string
	}{
		{"Info", func() { Info("scan complete: %d assets", 3) }, "[INFO]"},
		{"Warn", func() { Warn("slow query") }, "[WARN]"},
		{"Error", func() { Error("conversion failed") }, "[ERROR]"},
		{"Security", func() { Security("rejected stream request") }, "[SECURITY]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t, tt.fn)
			if !strings.Contains(out, tt.tag) {
				t.Errorf("expected output tagged %s, got %q", tt.tag, out)
			}
		})
	}
}

func TestDebugSuppressedByDefault(t *testing.T) {
	if IsDebugEnabled() {
		t.Skip("debug logging enabled in this environment")
	}

	out := captureOutput(t, func() { Debug("segment request: %s", "playlist.m3u8") })
	if out != "" {
		t.Errorf("expected debug output suppressed, got %q", out)
	}
}

func TestSecurityIgnoresLevel(t *testing.T) {
	// Rejected gateway requests must always land in the log, whatever
	// the configured level.
	out := captureOutput(t, func() {
		Security("stream request rejected for %d: %s", 42, "bad extension")
	})
	if !strings.Contains(out, "[SECURITY]") || !strings.Contains(out, "bad extension") {
		t.Errorf("expected security line, got %q", out)
	}
}

func TestFormatArgs(t *testing.T) {
	out := captureOutput(t, func() { Info("job %d is %s", 42, "ready") })
	if !strings.Contains(out, "job 42 is ready") {
		t.Errorf("expected formatted message, got %q", out)
	}
}

func TestLevelOrdering(t *testing.T) {
	levels := []LogLevel{LevelDebug, LevelInfo, LevelWarn, LevelError}
	for i := 0; i < len(levels)-1; i++ {
		if levels[i] >= levels[i+1] {
			t.Errorf("expected %v < %v", levels[i], levels[i+1])
		}
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(99), "unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestIsDebugEnabledMatchesLevel(t *testing.T) {
	if IsDebugEnabled() != (GetLevel() <= LevelDebug) {
		t.Error("IsDebugEnabled disagrees with GetLevel")
	}
}

func TestPassThroughHelpers(t *testing.T) {
	out := captureOutput(t, func() {
		Printf("banner line %d", 1)
		Println("banner line 2")
	})
	if !strings.Contains(out, "banner line 1") || !strings.Contains(out, "banner line 2") {
		t.Errorf("expected pass-through output, got %q", out)
	}
}
