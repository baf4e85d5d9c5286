package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crimson-sun/logwarden/internal/model"
)

func testReport() model.Report {
	return model.Report{
		RunID:      "run-42",
		Source:     "access.log",
		Validation: model.ValidationResult{Valid: true, Mode: "strict", FailIndex: -1},
		Records:    15,
		Threshold:  10,
		Clients:    []model.ClientRequestCount{{ClientAddress: "2.2.2.2", Count: 15}},
		Top:        &model.TopEndpoint{Endpoint: "/login", Count: 15},
		Suspicious: []model.SuspiciousClient{{ClientAddress: "2.2.2.2", FailedLoginCount: 15}},
	}
}

func TestWritePostsReport(t *testing.T) {
	var got model.Report
	var contentType, custom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
		contentType = r.Header.Get("Content-Type")
		custom = r.Header.Get("X-Token")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	out := New(srv.URL, WithHeaders(map[string]string{"X-Token": "secret"}))
	if err := out.Write(context.Background(), testReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	if got.RunID != "run-42" {
		t.Errorf("RunID = %q, want run-42", got.RunID)
	}
	if len(got.Suspicious) != 1 || got.Suspicious[0].FailedLoginCount != 15 {
		t.Errorf("unexpected suspicious %+v", got.Suspicious)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if custom != "secret" {
		t.Errorf("X-Token = %q, want secret", custom)
	}
}

func TestRetryOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	out := New(srv.URL, WithBackoff(time.Millisecond))
	if err := out.Write(context.Background(), testReport()); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestNoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	out := New(srv.URL, WithBackoff(time.Millisecond))
	err := out.Write(context.Background(), testReport())
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("expected HTTP 400 error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 attempt, got %d", calls.Load())
	}
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	out := New(srv.URL, WithBackoff(time.Millisecond))
	if err := out.Write(context.Background(), testReport()); err == nil {
		t.Fatal("expected error after retries")
	}
	if calls.Load() != maxRetries+1 {
		t.Fatalf("expected %d attempts, got %d", maxRetries+1, calls.Load())
	}
}

func TestContextCancelStopsRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	out := New(srv.URL, WithBackoff(time.Hour))
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	done := make(chan error, 1)
	go func() { done <- out.Write(ctx, testReport()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected cancellation error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Write did not return after cancel")
	}
}
