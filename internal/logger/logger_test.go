package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, c := range cases {
		if got := parseLevel(c.in); got != c.want {
			t.Errorf("parseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestUninitializedLoggerIsNoop(t *testing.T) {
	Initialize(Config{}) // no sinks
	// Must not panic.
	Debug("d")
	Info("i", "k", "v")
	Warn("w")
	Error("e")
}

func TestFileSinkWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digsim.log")
	Initialize(Config{
		Level:         "DEBUG",
		FileEnabled:   true,
		FilePath:      path,
		FileMaxSizeMB: 1,
	})
	defer Initialize(Config{})

	Info("batch complete", "runs", 100)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	line := string(b)
	if !strings.Contains(line, `"msg":"batch complete"`) {
		t.Fatalf("log line missing message: %s", line)
	}
	if !strings.Contains(line, `"runs":100`) {
		t.Fatalf("log line missing attr: %s", line)
	}
}
