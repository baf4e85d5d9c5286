// Package grammar holds the access-log line pattern shared by the validator
// and the parser. Both go through Parse so they cannot disagree on what a
// valid line is.
package grammar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/crimson-sun/logwarden/internal/model"
)

// Pattern is the full-line grammar:
//
//	1.1.1.1 - - [10/Oct/2020:13:55:36 -0700] "GET /index.html HTTP/1.1" 200 1024 "optional message"
//
// Address groups are digits of any magnitude; octet ranges are not checked.
// Parse is narrower than Pattern: a status that does not fit an int or a
// size that does not fit an int64 is a non-match, so use Parse or Matches
// rather than compiling Pattern directly.
const Pattern = `^(?P<ip>\d+\.\d+\.\d+\.\d+) - - ` +
	`\[(?P<timestamp>[^\]]+)\] ` +
	`"(?P<method>[A-Z]+) (?P<endpoint>/[^ "]*) [^"]+" ` +
	`(?P<status>\d+) ` +
	`(?P<size>\d+)(?: "(?P<message>[^"]*)")?$`

var (
	lineRe = regexp.MustCompile(Pattern)

	ipIdx        = lineRe.SubexpIndex("ip")
	timestampIdx = lineRe.SubexpIndex("timestamp")
	methodIdx    = lineRe.SubexpIndex("method")
	endpointIdx  = lineRe.SubexpIndex("endpoint")
	statusIdx    = lineRe.SubexpIndex("status")
	sizeIdx      = lineRe.SubexpIndex("size")
	messageIdx   = lineRe.SubexpIndex("message")
)

// Parse matches line (after trimming surrounding whitespace) against the
// grammar and returns the record it describes. ok is false when the line
// does not match, including status or size values too large to represent.
func Parse(line string) (rec model.LogRecord, ok bool) {
	line = strings.TrimSpace(line)
	loc := lineRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return model.LogRecord{}, false
	}
	group := func(i int) string { return line[loc[2*i]:loc[2*i+1]] }

	status, err := strconv.Atoi(group(statusIdx))
	if err != nil {
		return model.LogRecord{}, false
	}
	size, err := strconv.ParseInt(group(sizeIdx), 10, 64)
	if err != nil {
		return model.LogRecord{}, false
	}

	rec = model.LogRecord{
		ClientAddress: group(ipIdx),
		Timestamp:     group(timestampIdx),
		Method:        group(methodIdx),
		Endpoint:      group(endpointIdx),
		StatusCode:    status,
		ResponseSize:  size,
	}
	// An unmatched optional group reports -1 offsets.
	if loc[2*messageIdx] >= 0 {
		msg := group(messageIdx)
		rec.Message = &msg
	}
	return rec, true
}

// Matches reports whether line satisfies the grammar.
func Matches(line string) bool {
	_, ok := Parse(line)
	return ok
}
