package logger

import (
	"os"
	"strings"
	"testing"

	"occupancy/internal/config"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()

	l, err := NewLogger(&config.Config{LogDirectory: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func readLog(t *testing.T, l *Logger, level Level) string {
	t.Helper()

	data, err := os.ReadFile(l.Path(level))
	if err != nil {
		t.Fatalf("Failed to read %s: %v", level.FileName(), err)
	}
	return string(data)
}

func TestLogger_WritesPerLevelFiles(t *testing.T) {
	l := newTestLogger(t)

	l.Info("zone %s created", "zone-0")
	l.Warning("camera %d unreachable", 3)
	l.Error("failed: %v", "boom")

	if got := readLog(t, l, LevelInfo); !strings.Contains(got, "zone zone-0 created") {
		t.Errorf("Info log missing entry: %q", got)
	}
	if got := readLog(t, l, LevelWarning); !strings.Contains(got, "camera 3 unreachable") {
		t.Errorf("Warning log missing entry: %q", got)
	}
	if got := readLog(t, l, LevelError); !strings.Contains(got, "failed: boom") {
		t.Errorf("Error log missing entry: %q", got)
	}
	if got := readLog(t, l, LevelError); strings.Contains(got, "zone-0") {
		t.Error("Info entries must not reach the error log")
	}
}

func TestLogger_CleanLogs(t *testing.T) {
	l := newTestLogger(t)

	l.Warning("something odd")
	if err := l.CleanLogs(LevelWarning); err != nil {
		t.Fatalf("CleanLogs failed: %v", err)
	}

	if got := readLog(t, l, LevelWarning); got != "" {
		t.Errorf("Expected empty warning log, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"info", true},
		{"warning", true},
		{"error", true},
		{"debug", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, ok := ParseLevel(tt.name); ok != tt.ok {
			t.Errorf("ParseLevel(%q) ok = %v, expected %v", tt.name, ok, tt.ok)
		}
	}
}
