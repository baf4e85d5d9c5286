package logwarden

import "github.com/zoobzio/clockz"

type options struct {
	threshold    int
	lenient      bool
	requireValid bool
	clock        clockz.Clock
}

// Option configures an Analyzer.
type Option func(*options)

// WithThreshold sets the failed-login count a client must exceed to be
// reported as suspicious. Default: 10.
func WithThreshold(n int) Option {
	return func(o *options) {
		o.threshold = n
	}
}

// WithLenientValidation only requires each line to contain an address and a
// quoted HTTP method instead of matching the full line grammar.
func WithLenientValidation() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// WithRequireValid controls whether Analyze stops on a file that fails
// validation (ErrInvalidLog) or parses the lines that do match. Default: true.
func WithRequireValid(require bool) Option {
	return func(o *options) {
		o.requireValid = require
	}
}

// WithClock sets the clock used for report timestamps and durations.
func WithClock(c clockz.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func defaultOptions() options {
	return options{
		threshold:    10,
		requireValid: true,
		clock:        clockz.RealClock,
	}
}
