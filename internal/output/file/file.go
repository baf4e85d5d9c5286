package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/crimson-sun/logwarden/internal/model"
	"github.com/crimson-sun/logwarden/internal/output"
)

const defaultBufSize = 64 * 1024 // 64KB

// Option configures a file Output.
type Option func(*Output)

// WithBufSize sets the bufio.Writer buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// WithPerm sets the permission bits of the written file. Default: 0644.
func WithPerm(perm os.FileMode) Option {
	return func(o *Output) { o.perm = perm }
}

// Output writes the CSV export of a report to a file. Each Write replaces
// the file in one rename, so the path holds either the previous export or
// the new one in full. Nothing is written until the first report arrives.
type Output struct {
	mu      sync.Mutex
	path    string
	bufSize int
	perm    os.FileMode
}

// New creates a file Output for path. The parent directory must exist;
// an existing file at path is left untouched until Write.
func New(path string, opts ...Option) (*Output, error) {
	o := &Output{
		path:    path,
		bufSize: defaultBufSize,
		perm:    0644,
	}
	for _, opt := range opts {
		opt(o)
	}

	dir := filepath.Dir(o.path)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("file output: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("file output: %s is not a directory", dir)
	}
	return o, nil
}

// Write replaces the file with the CSV export of report.
func (o *Output) Write(_ context.Context, report model.Report) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(o.path), filepath.Base(o.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("file output: create temp: %w", err)
	}
	tmpPath := tmp.Name()

	done := false
	defer func() {
		if !done {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriterSize(tmp, o.bufSize)
	if err := output.WriteCSV(w, report); err != nil {
		return fmt.Errorf("file output: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("file output: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file output: close temp: %w", err)
	}
	if err := os.Chmod(tmpPath, o.perm); err != nil {
		return fmt.Errorf("file output: chmod: %w", err)
	}
	if err := os.Rename(tmpPath, o.path); err != nil {
		return fmt.Errorf("file output: rename to %s: %w", o.path, err)
	}
	done = true
	return nil
}

// Close is a no-op; every Write leaves a complete file behind.
func (o *Output) Close() error {
	return nil
}

// Path returns the file being written.
func (o *Output) Path() string {
	return o.path
}
