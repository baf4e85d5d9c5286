package logwarden

import (
	"time"

	"github.com/crimson-sun/logwarden/internal/model"
)

// Errors returned by the Analyzer. Match them with errors.Is.
var (
	ErrNotFound      = model.ErrNotFound      // input path could not be opened
	ErrEmptyInput    = model.ErrEmptyInput    // TopEndpoint on zero records
	ErrMalformedLine = model.ErrMalformedLine // a line failed validation
	ErrInvalidLog    = model.ErrInvalidLog    // Analyze stopped on a failed validation
)

// MalformedLineError identifies the first line that failed validation.
type MalformedLineError = model.MalformedLineError

// Record is one parsed access-log line.
// This is the stable public type; internal representations may evolve
// independently without breaking consumers.
type Record struct {
	ClientAddress string  `json:"client_address"`
	Timestamp     string  `json:"timestamp"` // raw, e.g. 10/Oct/2020:13:55:36 -0700
	Method        string  `json:"method"`
	Endpoint      string  `json:"endpoint"`
	StatusCode    int     `json:"status_code"`
	ResponseSize  int64   `json:"response_size"`
	Message       *string `json:"message,omitempty"` // nil when absent
}

// Time parses the raw timestamp.
func (r Record) Time() (time.Time, error) {
	return r.internal().Time()
}

// ClientCount is the number of requests made by one client.
type ClientCount struct {
	ClientAddress string `json:"client_address"`
	Count         int    `json:"count"`
}

// Endpoint is the most requested endpoint and its request count.
type Endpoint struct {
	Endpoint string `json:"endpoint"`
	Count    int    `json:"count"`
}

// Suspect is a client with more failed logins than the threshold.
type Suspect struct {
	ClientAddress    string `json:"client_address"`
	FailedLoginCount int    `json:"failed_login_count"`
}

// Validation is the outcome of checking a file against the line grammar.
type Validation struct {
	Valid     bool   `json:"valid"`
	Mode      string `json:"mode"`
	Lines     int    `json:"lines"`
	FailIndex int    `json:"fail_index"` // zero-based, -1 when Valid
	FailLine  string `json:"fail_line,omitempty"`
}

// Report is the result of one analysis run.
type Report struct {
	RunID      string        `json:"run_id"`
	Source     string        `json:"source"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Validation Validation    `json:"validation"`
	Records    int           `json:"records"`
	Skipped    int           `json:"skipped"`
	Threshold  int           `json:"threshold"`
	Clients    []ClientCount `json:"clients"`
	Top        *Endpoint     `json:"top_endpoint,omitempty"`
	Suspicious []Suspect     `json:"suspicious"`
}

func (r Record) internal() model.LogRecord {
	return model.LogRecord{
		ClientAddress: r.ClientAddress,
		Timestamp:     r.Timestamp,
		Method:        r.Method,
		Endpoint:      r.Endpoint,
		StatusCode:    r.StatusCode,
		ResponseSize:  r.ResponseSize,
		Message:       r.Message,
	}
}

func recordFromModel(m model.LogRecord) Record {
	return Record{
		ClientAddress: m.ClientAddress,
		Timestamp:     m.Timestamp,
		Method:        m.Method,
		Endpoint:      m.Endpoint,
		StatusCode:    m.StatusCode,
		ResponseSize:  m.ResponseSize,
		Message:       m.Message,
	}
}

func validationFromModel(v model.ValidationResult) Validation {
	return Validation{
		Valid:     v.Valid,
		Mode:      v.Mode,
		Lines:     v.Lines,
		FailIndex: v.FailIndex,
		FailLine:  v.FailLine,
	}
}

func clientsFromModel(cs []model.ClientRequestCount) []ClientCount {
	out := make([]ClientCount, len(cs))
	for i, c := range cs {
		out[i] = ClientCount{ClientAddress: c.ClientAddress, Count: c.Count}
	}
	return out
}

func suspectsFromModel(ss []model.SuspiciousClient) []Suspect {
	out := make([]Suspect, len(ss))
	for i, s := range ss {
		out[i] = Suspect{ClientAddress: s.ClientAddress, FailedLoginCount: s.FailedLoginCount}
	}
	return out
}

func reportFromModel(r model.Report) Report {
	out := Report{
		RunID:      r.RunID,
		Source:     r.Source,
		StartedAt:  r.StartedAt,
		Duration:   r.Duration,
		Validation: validationFromModel(r.Validation),
		Records:    r.Records,
		Skipped:    r.Skipped,
		Threshold:  r.Threshold,
		Clients:    clientsFromModel(r.Clients),
		Suspicious: suspectsFromModel(r.Suspicious),
	}
	if r.Top != nil {
		out.Top = &Endpoint{Endpoint: r.Top.Endpoint, Count: r.Top.Count}
	}
	return out
}
