// Package source reads access-log input line by line.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/logwarden/internal/model"
)

// Stdin is the path that selects standard input instead of a file.
const Stdin = "-"

// MaxLineSize bounds the text kept for a single log line. Longer lines are
// still consumed whole but are reported with TooLong set.
const MaxLineSize = 1024 * 1024 // 1MB

const readBufSize = 64 * 1024

var errDirectory = errors.New("is a directory")

// Line is one newline-delimited line of input.
type Line struct {
	Index   int    // zero-based
	Text    string // terminator stripped; at most MaxLineSize bytes
	TooLong bool   // the line exceeded MaxLineSize and Text holds only its prefix
}

// Open opens path for reading. Any failure to open it, or a path that names
// a directory, is reported as model.ErrNotFound.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdin {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, model.NotFound(path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, model.NotFound(path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, model.NotFound(path, errDirectory)
	}
	return f, nil
}

// Lines calls fn for every line of r. Iteration stops early when fn returns
// false. A failure of the underlying reader means the input is unreadable
// and wraps model.ErrNotFound.
func Lines(r io.Reader, fn func(Line) bool) error {
	br := bufio.NewReaderSize(r, readBufSize)
	for i := 0; ; i++ {
		text, tooLong, err := readLine(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("source: read: %w: %w", model.ErrNotFound, err)
		}
		if !fn(Line{Index: i, Text: text, TooLong: tooLong}) {
			return nil
		}
	}
}

// readLine returns the next line, joining the fragments bufio.Reader hands
// back for lines longer than its buffer. Bytes past MaxLineSize are dropped.
func readLine(br *bufio.Reader) (string, bool, error) {
	var (
		buf     []byte
		tooLong bool
		started bool
	)
	for {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			if err == io.EOF && started {
				return string(buf), tooLong, nil
			}
			return "", false, err
		}
		started = true
		if room := MaxLineSize - len(buf); len(frag) > room {
			buf = append(buf, frag[:room]...)
			tooLong = true
		} else {
			buf = append(buf, frag...)
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// Each opens path and calls fn for every line. It is Open followed by Lines.
func Each(path string, fn func(Line) bool) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return Lines(rc, fn)
}
