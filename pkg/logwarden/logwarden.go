package logwarden

import (
	"fmt"

	"github.com/crimson-sun/logwarden/internal/engine"
	"github.com/crimson-sun/logwarden/internal/engine/aggregator"
	"github.com/crimson-sun/logwarden/internal/engine/parser"
	"github.com/crimson-sun/logwarden/internal/engine/store"
	"github.com/crimson-sun/logwarden/internal/engine/threat"
	"github.com/crimson-sun/logwarden/internal/engine/validator"
	"github.com/crimson-sun/logwarden/internal/model"
)

// Analyzer validates, parses, and analyzes access logs.
// Safe for concurrent use.
type Analyzer struct {
	engine    *engine.Engine
	validator *validator.Validator
	detector  *threat.Detector
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	mode := validator.Strict
	if o.lenient {
		mode = validator.Lenient
	}
	v := validator.New(mode)
	d := threat.New(o.threshold)
	eng := engine.New(v, d,
		engine.WithClock(o.clock),
		engine.WithRequireValid(o.requireValid),
	)
	return &Analyzer{engine: eng, validator: v, detector: d}
}

// Validate checks every non-empty line of the file at path. A file that fails
// the check is reported in the result, not as an error; the error is
// ErrNotFound when the path cannot be opened.
func (a *Analyzer) Validate(path string) (Validation, error) {
	res, err := a.validator.Validate(path)
	if err != nil {
		return Validation{}, fmt.Errorf("logwarden: %w", err)
	}
	return validationFromModel(res), nil
}

// Parse returns the records of every line that matches the grammar, in file
// order. Lines that do not match are skipped.
func (a *Analyzer) Parse(path string) ([]Record, error) {
	res, err := parser.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("logwarden: %w", err)
	}
	out := make([]Record, 0, res.Store.Len())
	for _, rec := range res.Store.All() {
		out = append(out, recordFromModel(rec))
	}
	return out, nil
}

// Analyze validates and parses the file at path and computes all statistics.
func (a *Analyzer) Analyze(path string) (Report, error) {
	r, err := a.engine.Analyze(path)
	if err != nil {
		return reportFromModel(r), fmt.Errorf("logwarden: %w", err)
	}
	return reportFromModel(r), nil
}

// Summarize computes all statistics over records the caller already holds.
func (a *Analyzer) Summarize(records []Record) Report {
	return reportFromModel(a.engine.AnalyzeStore(storeOf(records)))
}

// ClientRequestCounts counts requests per client, highest first; ties keep
// first-appearance order.
func ClientRequestCounts(records []Record) []ClientCount {
	return clientsFromModel(aggregator.ClientRequestCounts(storeOf(records)))
}

// TopEndpoint returns the most requested endpoint, the earliest seen on ties.
// Fails with ErrEmptyInput when records is empty.
func TopEndpoint(records []Record) (Endpoint, error) {
	top, err := aggregator.TopEndpoint(storeOf(records))
	if err != nil {
		return Endpoint{}, fmt.Errorf("logwarden: %w", err)
	}
	return Endpoint{Endpoint: top.Endpoint, Count: top.Count}, nil
}

// SuspiciousClients returns clients with strictly more than threshold
// failed logins (status 401), highest first.
func SuspiciousClients(records []Record, threshold int) []Suspect {
	return suspectsFromModel(threat.New(threshold).Detect(storeOf(records)))
}

func storeOf(records []Record) *store.Store {
	recs := make([]model.LogRecord, len(records))
	for i, r := range records {
		recs[i] = r.internal()
	}
	return store.FromRecords(recs)
}
