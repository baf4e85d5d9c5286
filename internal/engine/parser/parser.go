// Package parser turns access-log lines into the ordered record store of a run.
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/crimson-sun/logwarden/internal/engine/grammar"
	"github.com/crimson-sun/logwarden/internal/engine/store"
	"github.com/crimson-sun/logwarden/internal/source"
)

// Result holds the outcome of parsing one input.
type Result struct {
	Store   *store.Store // sealed, in line order
	Lines   int          // lines read, blank ones included
	Skipped int          // non-blank lines that did not match the grammar
}

// Parse reads path and builds a Store from every line that matches the grammar.
// Lines that do not match, or exceed source.MaxLineSize, are skipped.
// Only an unreadable input is an error.
func Parse(path string) (Result, error) {
	rc, err := source.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("parser: %w", err)
	}
	defer rc.Close()
	return ParseReader(rc)
}

// ParseReader is Parse over an already-open reader.
func ParseReader(r io.Reader) (Result, error) {
	res := Result{Store: store.New()}
	err := source.Lines(r, func(l source.Line) bool {
		res.Lines++
		if l.TooLong {
			res.Skipped++
			return true
		}
		rec, ok := grammar.Parse(l.Text)
		if !ok {
			if strings.TrimSpace(l.Text) != "" {
				res.Skipped++
			}
			return true
		}
		res.Store.Append(rec)
		return true
	})
	if err != nil {
		return Result{}, fmt.Errorf("parser: %w", err)
	}
	res.Store.Seal()
	return res, nil
}
