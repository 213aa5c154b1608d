// Package runlog keeps the operator-facing record of generation runs: a
// plain text file that every run appends to, one timestamped line per event.
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Log appends progress lines to a shared text file and mirrors them to an
// interactive writer. Lines look like:
//
//	[2025-01-02T15:04:05Z] [1a2b3c4d] [1/3] Plato
type Log struct {
	path  string
	runID string
	out   io.Writer
	now   func() time.Time

	mu   sync.Mutex
	file *os.File
}

// New opens (or creates) the log file at path in append mode. out may be
// nil when nothing should be mirrored.
func New(path string, out io.Writer) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	return &Log{
		path:  path,
		runID: NewRunID(),
		out:   out,
		now:   time.Now,
		file:  file,
	}, nil
}

// NewRunID returns a short random identifier for one run.
func NewRunID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// Path returns the file backing this log.
func (l *Log) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// RunID returns the identifier stamped on every line of this run.
func (l *Log) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Printf formats and appends one line. Write errors on the file are
// swallowed: losing a log line must not fail a generation.
func (l *Log) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		_, _ = fmt.Fprintf(l.file, "[%s] [%s] %s\n", l.now().UTC().Format(time.RFC3339), l.runID, msg)
	}
	if l.out != nil {
		_, _ = fmt.Fprintln(l.out, msg)
	}
}

// Close closes the underlying file.
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
