package model

import "time"

// TimestampLayout is the access-log timestamp format, e.g. 10/Oct/2020:13:55:36 -0700.
const TimestampLayout = "02/Jan/2006:15:04:05 -0700"

// LogRecord is one access-log line that satisfied the line grammar.
type LogRecord struct {
	ClientAddress string  `json:"client_address"`
	Timestamp     string  `json:"timestamp"` // raw, as captured between [ ]
	Method        string  `json:"method"`
	Endpoint      string  `json:"endpoint"`
	StatusCode    int     `json:"status_code"`
	ResponseSize  int64   `json:"response_size"`
	Message       *string `json:"message,omitempty"` // nil when the line has no trailing quoted field
}

// Time parses the raw timestamp. The record keeps the raw string; callers
// that need date arithmetic pay for the parse.
func (r LogRecord) Time() (time.Time, error) {
	return time.Parse(TimestampLayout, r.Timestamp)
}

// HasMessage reports whether the line carried a trailing quoted message.
func (r LogRecord) HasMessage() bool {
	return r.Message != nil
}
