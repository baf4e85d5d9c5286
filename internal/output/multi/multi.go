package multi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/logwarden/internal/model"
	"github.com/crimson-sun/logwarden/internal/output"
)

// Multi delivers one report to several destinations, typically the console
// plus a CSV export and a webhook. A failing destination does not stop the
// others: a rejected webhook POST still leaves the report on stdout and in
// the CSV file.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi over the given outputs, written in order.
func New(outputs ...output.Output) *Multi {
	return &Multi{outputs: outputs}
}

// Write hands the report to every output. Failures are tagged with the
// output's position and type and returned together via errors.Join.
func (m *Multi) Write(ctx context.Context, report model.Report) error {
	var errs []error
	for i, o := range m.outputs {
		if err := o.Write(ctx, report); err != nil {
			slog.Warn("report delivery failed", "run_id", report.RunID, "output", fmt.Sprintf("%T", o), "error", err)
			errs = append(errs, fmt.Errorf("output %d (%T): %w", i, o, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every output, joining their errors.
func (m *Multi) Close() error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
