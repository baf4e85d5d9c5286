package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"

	"github.com/crimson-sun/logwarden/internal/engine/aggregator"
	"github.com/crimson-sun/logwarden/internal/engine/parser"
	"github.com/crimson-sun/logwarden/internal/engine/store"
	"github.com/crimson-sun/logwarden/internal/engine/threat"
	"github.com/crimson-sun/logwarden/internal/engine/validator"
	"github.com/crimson-sun/logwarden/internal/model"
	"github.com/crimson-sun/logwarden/internal/source"
)

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to stamp and time runs. Default: clockz.RealClock.
func WithClock(c clockz.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRequireValid makes Analyze stop when validation fails instead of
// parsing whatever lines match. Default: true.
func WithRequireValid(require bool) Option {
	return func(e *Engine) { e.requireValid = require }
}

// WithIDFunc sets the run ID generator. Default: random UUIDs.
func WithIDFunc(f func() string) Option {
	return func(e *Engine) { e.newID = f }
}

// Engine orchestrates the validate → parse → aggregate → detect run.
// It holds no per-run state; every Analyze call builds and discards its own store.
type Engine struct {
	validator    *validator.Validator
	detector     *threat.Detector
	clock        clockz.Clock
	requireValid bool
	newID        func() string
}

// New creates an Engine with the provided components.
func New(v *validator.Validator, d *threat.Detector, opts ...Option) *Engine {
	e := &Engine{
		validator:    v,
		detector:     d,
		clock:        clockz.RealClock,
		requireValid: true,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze runs a full analysis of the log at path.
//
// An unreadable path fails with model.ErrNotFound. A file that fails
// validation fails with model.ErrInvalidLog when the engine requires valid
// input; the partial report (with the validation result) is still returned.
// A readable file without any valid record is not an error: the report has
// zero records and a nil Top.
func (e *Engine) Analyze(path string) (model.Report, error) {
	start := e.clock.Now()
	report := model.Report{
		RunID:     e.newID(),
		Source:    path,
		StartedAt: start,
		Threshold: e.detector.Threshold,
	}
	log := slog.With("run_id", report.RunID, "source", path)

	open, err := e.opener(path)
	if err != nil {
		return report, fmt.Errorf("engine analyze: %w", err)
	}

	in, err := open()
	if err != nil {
		return report, fmt.Errorf("engine analyze: %w", err)
	}
	val, err := e.validator.ValidateReader(in)
	in.Close()
	if err != nil {
		return report, fmt.Errorf("engine analyze: %w", err)
	}
	report.Validation = val
	if !val.Valid {
		log.Warn("log validation failed", "mode", val.Mode, "line", val.FailIndex, "text", val.FailLine)
		if e.requireValid {
			report.Duration = e.clock.Now().Sub(start)
			return report, fmt.Errorf("engine analyze: %w: %w", model.ErrInvalidLog, val.Err())
		}
	}
	log.Debug("validation finished", "valid", val.Valid, "lines", val.Lines)

	in, err = open()
	if err != nil {
		return report, fmt.Errorf("engine analyze: %w", err)
	}
	parsed, err := parser.ParseReader(in)
	in.Close()
	if err != nil {
		return report, fmt.Errorf("engine analyze: %w", err)
	}
	report.Records = parsed.Store.Len()
	report.Skipped = parsed.Skipped
	if report.Records == 0 {
		log.Warn("no valid log entries found", "lines", parsed.Lines)
	}

	e.summarize(&report, parsed.Store)
	report.Duration = e.clock.Now().Sub(start)

	log.Info("analysis complete",
		"records", report.Records,
		"skipped", report.Skipped,
		"clients", len(report.Clients),
		"suspicious", len(report.Suspicious),
		"duration", report.Duration)
	return report, nil
}

// AnalyzeStore computes the aggregates for records already in a store.
// Validation is not run; the report is marked valid.
func (e *Engine) AnalyzeStore(s *store.Store) model.Report {
	start := e.clock.Now()
	report := model.Report{
		RunID:      e.newID(),
		StartedAt:  start,
		Threshold:  e.detector.Threshold,
		Validation: model.ValidationResult{Valid: true, Mode: e.validator.Mode.String(), Lines: s.Len(), FailIndex: -1},
		Records:    s.Len(),
	}
	e.summarize(&report, s)
	report.Duration = e.clock.Now().Sub(start)
	return report
}

func (e *Engine) summarize(report *model.Report, s *store.Store) {
	report.Clients = aggregator.ClientRequestCounts(s)
	report.Suspicious = e.detector.Detect(s)

	top, err := aggregator.TopEndpoint(s)
	switch {
	case err == nil:
		report.Top = &top
	case errors.Is(err, model.ErrEmptyInput):
		// No records, no top endpoint.
	default:
		slog.Warn("top endpoint failed", "run_id", report.RunID, "error", err)
	}
}

// opener returns a function that yields a fresh reader over the input for
// each pass. Standard input can only be read once, so it is buffered.
func (e *Engine) opener(path string) (func() (io.ReadCloser, error), error) {
	if path != source.Stdin {
		return func() (io.ReadCloser, error) { return source.Open(path) }, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, nil
}
