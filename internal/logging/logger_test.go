package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestErrorIncludesFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(zapcore.AddSync(&buf), false)
	defer SetOutput(zapcore.AddSync(&bytes.Buffer{}), false)

	Error("resolve failed", errors.New("boom"), Fields{"battle_id": "b1"})

	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["level"] != "error" || entry["msg"] != "resolve failed" || entry["error"] != "boom" || entry["battle_id"] != "b1" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing timestamp")
	}
}

func TestDebugDroppedByDefault(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(zapcore.AddSync(&buf), false)
	Debug("hidden", nil)
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered, got %q", buf.String())
	}
	SetOutput(zapcore.AddSync(&buf), true)
	Debug("shown", nil)
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("debug should be written when enabled")
	}
	SetOutput(zapcore.AddSync(&bytes.Buffer{}), false)
}
