package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimson-sun/logwarden/internal/model"
	"github.com/crimson-sun/logwarden/internal/output"
)

// Format selects how the report is rendered.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	CSV  Format = "csv"
)

// Output writes each report to stdout as text tables, JSON, or the CSV export.
type Output struct {
	format Format
	pretty bool
}

// New creates a stdout Output. pretty only affects JSON.
func New(format Format, pretty bool) *Output {
	return &Output{format: format, pretty: pretty}
}

func (o *Output) Write(_ context.Context, report model.Report) error {
	var err error
	switch o.format {
	case JSON:
		enc := json.NewEncoder(os.Stdout)
		if o.pretty {
			enc.SetIndent("", "  ")
		}
		err = enc.Encode(report)
	case CSV:
		err = output.WriteCSV(os.Stdout, report)
	default:
		err = output.WriteText(os.Stdout, report)
	}
	if err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
