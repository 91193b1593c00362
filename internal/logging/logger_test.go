package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestConsoleHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("matched line", "component", "align", "line", 12, "retakes", 2)

	line := buf.String()
	if !strings.Contains(line, "INFO align: matched line") {
		t.Errorf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "line=12") || !strings.Contains(line, "retakes=2") {
		t.Errorf("attrs missing: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Warn("skipping converter", "reason", "binary not found")

	if !strings.Contains(buf.String(), `reason="binary not found"`) {
		t.Errorf("value with spaces should be quoted: %q", buf.String())
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("should be dropped")
	logger.Warn("should be kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info record leaked through warn filter: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestJSONHandlerKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("render complete", "output", "chapter01.flac")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v: %q", err, buf.String())
	}
	for _, key := range []string{"ts", "level", "msg", "output"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("key %q missing from %v", key, payload)
		}
	}
	if payload["level"] != "info" {
		t.Errorf("level = %v, want info", payload["level"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unsupported format")
	}
}
