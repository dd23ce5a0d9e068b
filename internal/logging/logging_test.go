package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetAndFor(t *testing.T) {
	defer Set(nil)

	L().Info("dropped")

	var buf bytes.Buffer
	Set(New(&buf, slog.LevelInfo))
	For("editor").Info("saved", "title", "Cloud Bunny")
	For("editor").Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "component=editor") || !strings.Contains(out, `title="Cloud Bunny"`) {
		t.Errorf("unexpected log output: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged at info level: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) error = nil")
	}
}
