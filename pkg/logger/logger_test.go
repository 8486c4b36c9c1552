package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" info ":  zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Output: &buf, Service: "dealership-api"})

	log.Info().Msg("hidden")
	log.Warn().Str("account_id", "a-1").Msg("login failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var event map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if event["level"] != "warn" || event["message"] != "login failed" {
		t.Fatalf("unexpected event: %v", event)
	}
	if event["service"] != "dealership-api" || event["account_id"] != "a-1" {
		t.Fatalf("missing fields: %v", event)
	}
	if _, ok := event["time"]; !ok {
		t.Fatal("expected timestamp field")
	}
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Pretty: true, Output: &buf})
	log.Info().Msg("ready")

	out := buf.String()
	if !strings.Contains(out, "ready") || strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected console output, got %q", out)
	}
}

func TestNew_IndependentInstances(t *testing.T) {
	var a, b bytes.Buffer
	la := New(Options{Level: "error", Output: &a})
	lb := New(Options{Level: "debug", Output: &b})

	la.Debug().Msg("dropped")
	lb.Debug().Msg("kept")

	if a.Len() != 0 {
		t.Fatalf("expected no output from error-level logger, got %q", a.String())
	}
	if !strings.Contains(b.String(), "kept") {
		t.Fatalf("expected debug output, got %q", b.String())
	}
}
