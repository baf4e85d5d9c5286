// Package validator checks that every line of an access log conforms to the grammar.
package validator

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/crimson-sun/logwarden/internal/engine/grammar"
	"github.com/crimson-sun/logwarden/internal/model"
	"github.com/crimson-sun/logwarden/internal/source"
)

// Mode selects how strictly lines are checked.
type Mode int

const (
	Strict  Mode = iota // every non-empty line must match the full grammar
	Lenient             // every non-empty line must contain an address and a quoted method
)

func (m Mode) String() string {
	switch m {
	case Lenient:
		return "lenient"
	default:
		return "strict"
	}
}

// ParseMode converts "strict" or "lenient" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	default:
		return Strict, fmt.Errorf("unknown validation mode %q", s)
	}
}

var (
	addressRe = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)
	methodRe  = regexp.MustCompile(`"(GET|POST|PUT|DELETE|OPTIONS|HEAD)`)
)

// Validator checks log files line by line.
type Validator struct {
	Mode Mode
}

// New creates a Validator with the given mode.
func New(mode Mode) *Validator {
	return &Validator{Mode: mode}
}

// Validate opens path and checks it. The returned error is non-nil only when
// the file cannot be read (model.ErrNotFound on open failure); a file that
// fails the check is reported through the result.
func (v *Validator) Validate(path string) (model.ValidationResult, error) {
	rc, err := source.Open(path)
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("validator: %w", err)
	}
	defer rc.Close()
	return v.ValidateReader(rc)
}

// ValidateReader checks lines from r. It stops at the first failing line.
// A line longer than source.MaxLineSize always fails.
func (v *Validator) ValidateReader(r io.Reader) (model.ValidationResult, error) {
	res := model.ValidationResult{Valid: true, Mode: v.Mode.String(), FailIndex: -1}
	err := source.Lines(r, func(l source.Line) bool {
		res.Lines++
		if !l.TooLong {
			trimmed := strings.TrimSpace(l.Text)
			if trimmed == "" || v.lineOK(trimmed) {
				return true
			}
		}
		res.Valid = false
		res.FailIndex = l.Index
		res.FailLine = failLine(l)
		return false
	})
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("validator: %w", err)
	}
	return res, nil
}

// failLinePrefix bounds how much of an over-long line the result carries.
const failLinePrefix = 256

func failLine(l source.Line) string {
	if l.TooLong && len(l.Text) > failLinePrefix {
		return l.Text[:failLinePrefix] + "..."
	}
	return l.Text
}

func (v *Validator) lineOK(line string) bool {
	if v.Mode == Lenient {
		return addressRe.MatchString(line) && methodRe.MatchString(line)
	}
	return grammar.Matches(line)
}
