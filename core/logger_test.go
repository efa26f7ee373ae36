package core

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestProductionLoggerLevelFiltering(t *testing.T) {
	cases := []struct {
		level   string
		debug   bool
		info    bool
		warn    bool
		errored bool
	}{
		{"debug", true, true, true, true},
		{"info", false, true, true, true},
		{"warn", false, false, true, true},
		{"error", false, false, false, true},
		// Unknown levels fall back to info.
		{"verbose", false, true, true, true},
	}

	for _, tc := range cases {
		var buf bytes.Buffer
		logger := NewProductionLogger(&buf, tc.level, "text")

		logger.Debug("d", nil)
		logger.Info("i", nil)
		logger.Warn("w", nil)
		logger.Error("e", nil)

		out := buf.String()
		checks := []struct {
			tag  string
			want bool
		}{
			{"DEBUG", tc.debug},
			{"INFO", tc.info},
			{"WARN", tc.warn},
			{"ERROR", tc.errored},
		}
		for _, c := range checks {
			if got := strings.Contains(out, c.tag); got != c.want {
				t.Errorf("level %q: %s emitted = %v, want %v", tc.level, c.tag, got, c.want)
			}
		}
	}
}

func TestProductionLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewProductionLogger(&buf, "info", "json")

	logger.Info("request dispatched", map[string]interface{}{
		"actor_id": "wallet",
		"attempts": 2,
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output not JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "info" || entry["message"] != "request dispatched" {
		t.Errorf("entry = %v", entry)
	}
	if entry["actor_id"] != "wallet" || entry["attempts"] != 2.0 {
		t.Errorf("fields = %v", entry)
	}
	if entry["timestamp"] == "" {
		t.Error("entry has no timestamp")
	}
}

func TestProductionLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewProductionLogger(&buf, "info", "text")

	logger.Warn("cache miss", map[string]interface{}{"actor_id": "wallet"})

	out := buf.String()
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "cache miss") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "actor_id=wallet") {
		t.Errorf("output missing field: %q", out)
	}
}

func TestProductionLoggerUnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewProductionLogger(&buf, "info", "xml")

	logger.Info("hello", nil)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("fallback output not JSON: %v (%q)", err, buf.String())
	}
}
