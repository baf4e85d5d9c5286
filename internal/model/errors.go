package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the input path could not be opened for reading.
	ErrNotFound = errors.New("input not found")

	// ErrEmptyInput means an aggregation that needs at least one record got none.
	ErrEmptyInput = errors.New("empty input")

	// ErrMalformedLine marks a line that does not satisfy the grammar.
	// Informational: only the validator reports it.
	ErrMalformedLine = errors.New("malformed line")

	// ErrInvalidLog means validation failed and the run was configured to stop.
	ErrInvalidLog = errors.New("invalid log file")
)

// MalformedLineError identifies the first line that failed validation.
type MalformedLineError struct {
	Index int    // zero-based line index
	Line  string // raw line text
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Index, ErrMalformedLine, e.Line)
}

// Is lets errors.Is(err, ErrMalformedLine) match.
func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// NotFound wraps an open failure for path so it matches ErrNotFound
// while keeping the underlying cause.
func NotFound(path string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrNotFound, path, cause)
}
