package config

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, "warn", true)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info().Msg("dropped")
	log.Warn().Str("k", "v").Msg("kept")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected exactly one json line, got %q: %v", buf.String(), err)
	}
	if line["message"] != "kept" || line["k"] != "v" || line["level"] != "warn" {
		t.Fatalf("unexpected line: %v", line)
	}
}

func TestNewLoggerBadLevel(t *testing.T) {
	if _, err := NewLogger(&bytes.Buffer{}, "loud", false); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
