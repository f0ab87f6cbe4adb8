package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/zapponejosh/perpetual-calendar/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{LogLevel: "info", LogFormat: "json"}, &buf)

	log.Info("simulation complete", slog.Int("days", 368))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "simulation complete" {
		t.Errorf("msg = %v, want %q", entry["msg"], "simulation complete")
	}
	if entry["days"] != float64(368) {
		t.Errorf("days = %v, want 368", entry["days"])
	}
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{LogLevel: "warn", LogFormat: "text"}, &buf)

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	base := New(&config.Config{LogLevel: "info", LogFormat: "text"}, &buf)

	ctx := WithRequestID(context.Background(), "req-42")
	if got := RequestID(ctx); got != "req-42" {
		t.Fatalf("RequestID() = %q, want %q", got, "req-42")
	}

	FromContext(ctx, base).Info("hello")
	if !strings.Contains(buf.String(), "request_id=req-42") {
		t.Errorf("log line missing request id: %q", buf.String())
	}

	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID() on empty context = %q, want empty", got)
	}
}
