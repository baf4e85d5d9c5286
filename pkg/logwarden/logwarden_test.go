package logwarden

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func accessLine(ip, method, endpoint string, status int) string {
	return fmt.Sprintf(`%s - - [10/Oct/2020:13:55:36 -0700] "%s %s HTTP/1.1" %d 2326`, ip, method, endpoint, status)
}

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "access.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyze(t *testing.T) {
	var lines []string
	for i := 0; i < 11; i++ {
		lines = append(lines, accessLine("10.0.0.9", "POST", "/login", 401))
	}
	lines = append(lines,
		accessLine("192.168.1.1", "GET", "/index.html", 200),
		accessLine("192.168.1.1", "GET", "/index.html", 200),
	)

	a := New(WithClock(clockz.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))
	r, err := a.Analyze(writeLog(t, lines...))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if r.Records != 13 {
		t.Errorf("Records = %d, want 13", r.Records)
	}
	if len(r.Clients) != 2 || r.Clients[0] != (ClientCount{ClientAddress: "10.0.0.9", Count: 11}) {
		t.Errorf("Clients = %+v", r.Clients)
	}
	if r.Top == nil || *r.Top != (Endpoint{Endpoint: "/login", Count: 11}) {
		t.Errorf("Top = %+v", r.Top)
	}
	if len(r.Suspicious) != 1 || r.Suspicious[0] != (Suspect{ClientAddress: "10.0.0.9", FailedLoginCount: 11}) {
		t.Errorf("Suspicious = %+v", r.Suspicious)
	}
	if r.RunID == "" {
		t.Error("expected a run ID")
	}
}

func TestAnalyzeThresholdOption(t *testing.T) {
	path := writeLog(t,
		accessLine("1.1.1.1", "POST", "/login", 401),
		accessLine("1.1.1.1", "POST", "/login", 401),
	)
	r, err := New(WithThreshold(1)).Analyze(path)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(r.Suspicious) != 1 || r.Threshold != 1 {
		t.Errorf("Suspicious = %+v, Threshold = %d", r.Suspicious, r.Threshold)
	}
}

func TestAnalyzeInvalidLog(t *testing.T) {
	path := writeLog(t, accessLine("1.1.1.1", "GET", "/", 200), "garbage")

	r, err := New().Analyze(path)
	if !errors.Is(err, ErrInvalidLog) {
		t.Fatalf("expected ErrInvalidLog, got %v", err)
	}
	var mle *MalformedLineError
	if !errors.As(err, &mle) || mle.Index != 1 {
		t.Errorf("expected MalformedLineError at 1, got %v", err)
	}
	if r.Validation.Valid || r.Validation.FailLine != "garbage" {
		t.Errorf("Validation = %+v", r.Validation)
	}

	r, err = New(WithRequireValid(false)).Analyze(path)
	if err != nil {
		t.Fatalf("Analyze with invalid allowed: %v", err)
	}
	if r.Records != 1 || r.Skipped != 1 {
		t.Errorf("Records = %d, Skipped = %d; want 1, 1", r.Records, r.Skipped)
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, err := New().Analyze(filepath.Join(t.TempDir(), "nope.log"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestValidateModes(t *testing.T) {
	path := writeLog(t, `10.1.1.1 "GET whatever`)

	v, err := New().Validate(path)
	if err != nil {
		t.Fatal(err)
	}
	if v.Valid || v.FailIndex != 0 || v.Mode != "strict" {
		t.Errorf("strict Validation = %+v", v)
	}

	v, err = New(WithLenientValidation()).Validate(path)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Valid || v.FailIndex != -1 || v.Mode != "lenient" {
		t.Errorf("lenient Validation = %+v", v)
	}
}

func TestParse(t *testing.T) {
	path := writeLog(t,
		accessLine("1.1.1.1", "GET", "/a", 200),
		"not a log line",
		`2.2.2.2 - - [10/Oct/2020:13:55:36 -0700] "POST /login HTTP/1.1" 401 0 "bad password"`,
	)
	recs, err := New().Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Message != nil {
		t.Errorf("expected nil message, got %q", *recs[0].Message)
	}
	if recs[1].Message == nil || *recs[1].Message != "bad password" {
		t.Errorf("unexpected message %v", recs[1].Message)
	}
	ts, err := recs[1].Time()
	if err != nil {
		t.Fatal(err)
	}
	if ts.Year() != 2020 || ts.Month() != time.October {
		t.Errorf("Time = %v", ts)
	}
}

func TestRecordFunctions(t *testing.T) {
	recs := []Record{
		{ClientAddress: "1.1.1.1", Endpoint: "/a", StatusCode: 200},
		{ClientAddress: "2.2.2.2", Endpoint: "/b", StatusCode: 401},
		{ClientAddress: "2.2.2.2", Endpoint: "/b", StatusCode: 401},
		{ClientAddress: "1.1.1.1", Endpoint: "/a", StatusCode: 200},
	}

	got := ClientRequestCounts(recs)
	want := []ClientCount{{ClientAddress: "1.1.1.1", Count: 2}, {ClientAddress: "2.2.2.2", Count: 2}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ClientRequestCounts = %+v, want %+v", got, want)
	}

	top, err := TopEndpoint(recs)
	if err != nil {
		t.Fatal(err)
	}
	if top != (Endpoint{Endpoint: "/a", Count: 2}) {
		t.Errorf("TopEndpoint = %+v", top)
	}

	if s := SuspiciousClients(recs, 1); len(s) != 1 || s[0].ClientAddress != "2.2.2.2" {
		t.Errorf("SuspiciousClients(1) = %+v", s)
	}
	if s := SuspiciousClients(recs, 2); len(s) != 0 {
		t.Errorf("SuspiciousClients(2) = %+v, want none", s)
	}
}

func TestTopEndpointEmpty(t *testing.T) {
	if _, err := TopEndpoint(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	r := New().Summarize(nil)
	if r.Records != 0 || r.Top != nil {
		t.Errorf("empty Summarize = %+v", r)
	}
	if r.Clients == nil || r.Suspicious == nil {
		t.Error("expected non-nil empty slices")
	}
}
