package model

import "time"

// ValidationResult is the outcome of checking a file against the line grammar.
// FailIndex is the zero-based line index of the first failing line, -1 when Valid.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Mode      string `json:"mode"`
	Lines     int    `json:"lines"`
	FailIndex int    `json:"fail_index"`
	FailLine  string `json:"fail_line,omitempty"`
}

// Err returns a *MalformedLineError describing the first failing line,
// or nil if the file passed.
func (v ValidationResult) Err() error {
	if v.Valid {
		return nil
	}
	return &MalformedLineError{Index: v.FailIndex, Line: v.FailLine}
}

// Report is the structured result of one analysis run.
type Report struct {
	RunID      string               `json:"run_id"`
	Source     string               `json:"source"`
	StartedAt  time.Time            `json:"started_at"`
	Duration   time.Duration        `json:"duration"`
	Validation ValidationResult     `json:"validation"`
	Records    int                  `json:"records"`
	Skipped    int                  `json:"skipped"`
	Threshold  int                  `json:"threshold"`
	Clients    []ClientRequestCount `json:"clients"`
	Top        *TopEndpoint         `json:"top_endpoint,omitempty"` // nil when the run had no records
	Suspicious []SuspiciousClient   `json:"suspicious"`
}
