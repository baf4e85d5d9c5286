package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/crimson-sun/logwarden/internal/model"
)

func testReport() model.Report {
	return model.Report{
		RunID:      "run-1",
		Source:     "access.log",
		StartedAt:  time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC),
		Validation: model.ValidationResult{Valid: true, Mode: "strict", FailIndex: -1},
		Records:    2,
		Threshold:  10,
		Clients:    []model.ClientRequestCount{{ClientAddress: "1.1.1.1", Count: 2}},
		Top:        &model.TopEndpoint{Endpoint: "/index.html", Count: 2},
		Suspicious: []model.SuspiciousClient{},
	}
}

// captureStdout redirects os.Stdout to capture output.
func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestOutputCompactJSON(t *testing.T) {
	result := captureStdout(func() {
		out := New(JSON, false)
		out.Write(context.Background(), testReport())
	})

	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["run_id"] != "run-1" {
		t.Fatalf("expected run_id=run-1, got %v", m["run_id"])
	}
	top, ok := m["top_endpoint"].(map[string]any)
	if !ok || top["endpoint"] != "/index.html" {
		t.Fatalf("unexpected top_endpoint %v", m["top_endpoint"])
	}
}

func TestOutputPrettyJSON(t *testing.T) {
	result := captureStdout(func() {
		out := New(JSON, true)
		out.Write(context.Background(), testReport())
	})

	if !strings.Contains(result, "  ") {
		t.Fatal("expected indented output for pretty mode")
	}
	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected multi-line pretty output, got %d lines", len(lines))
	}
}

func TestOutputText(t *testing.T) {
	result := captureStdout(func() {
		out := New(Text, false)
		out.Write(context.Background(), testReport())
	})
	if !strings.Contains(result, "/index.html (Accessed 2 times)") {
		t.Fatalf("unexpected text output:\n%s", result)
	}
	if !strings.Contains(result, "No suspicious activity detected.") {
		t.Fatalf("expected no-suspicious line:\n%s", result)
	}
}

func TestOutputCSV(t *testing.T) {
	result := captureStdout(func() {
		out := New(CSV, false)
		out.Write(context.Background(), testReport())
	})
	if !strings.HasPrefix(result, "IP Requests:\nIP Address,Request Count\n1.1.1.1,2\n") {
		t.Fatalf("unexpected CSV output:\n%s", result)
	}
}

func TestCloseIsNoop(t *testing.T) {
	if err := New(Text, false).Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}
