package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/crimson-sun/logwarden/internal/model"
	"github.com/crimson-sun/logwarden/internal/output"
)

// Analyzer produces a report for one input. *engine.Engine satisfies it.
type Analyzer interface {
	Analyze(path string) (model.Report, error)
}

// Pipeline connects an analyzer and an output.
type Pipeline struct {
	analyzer Analyzer
	output   output.Output
}

// New creates a Pipeline from the given components.
func New(a Analyzer, out output.Output) *Pipeline {
	return &Pipeline{
		analyzer: a,
		output:   out,
	}
}

// Run analyzes the input at path and writes the report to the output.
//
// A run that fails validation still delivers its partial report (so the
// failing line is visible) before the validation error is returned.
// Any other analysis failure, such as an unreadable input, writes nothing.
func (p *Pipeline) Run(ctx context.Context, path string) (model.Report, error) {
	if err := ctx.Err(); err != nil {
		return model.Report{}, err
	}

	report, err := p.analyzer.Analyze(path)
	if err != nil && !errors.Is(err, model.ErrInvalidLog) {
		return report, fmt.Errorf("pipeline analyze: %w", err)
	}
	if werr := p.output.Write(ctx, report); werr != nil {
		return report, errors.Join(err, fmt.Errorf("pipeline output: %w", werr))
	}
	if err != nil {
		return report, fmt.Errorf("pipeline analyze: %w", err)
	}
	return report, nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
