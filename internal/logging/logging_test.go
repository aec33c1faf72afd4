package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetOutputWritesStructuredEvents(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(&bytes.Buffer{})

	Info().Int("display", 2).Msg("crossed")

	var event map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if event["msg"] != "crossed" {
		t.Errorf("msg = %v, want crossed", event["msg"])
	}
	if event["display"] != float64(2) {
		t.Errorf("display = %v, want 2", event["display"])
	}
	if _, ok := event["ts"]; !ok {
		t.Error("expected ts field from timestamp hook")
	}
}

func TestSetDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetDebug(false)

	Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug event written at info level: %q", buf.String())
	}

	SetDebug(true)
	Debug().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug event missing after SetDebug(true): %q", buf.String())
	}
}

func TestInitCreatesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hop.log")
	if err := Init(path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Warn().Msg("written")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "written") {
		t.Errorf("log file missing event: %q", data)
	}
}
