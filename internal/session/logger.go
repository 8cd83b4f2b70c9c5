package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

const (
	logSuffix           = "-session.jsonl"
	compressedLogSuffix = logSuffix + ".gz"
)

// ErrLoggerClosed is returned by Log after Close.
var ErrLoggerClosed = errors.New("session log is closed")

// Logger receives the events of one or more runs.
type Logger interface {
	Log(event Event) error
	Close() error
}

// JSONLogger appends events to an NDJSON file. A ".gz" path is written as a
// gzip stream that is flushed after every event, so a log cut short by a
// crash still decodes up to the last event.
type JSONLogger struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	zw     *gzip.Writer
	enc    *json.Encoder
	count  int
	closed bool
}

// NewJSONLogger opens path for appending, creating parent directories.
func NewJSONLogger(path string) (*JSONLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating session log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening session log: %w", err)
	}

	l := &JSONLogger{path: path, file: f}
	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		l.zw = gzip.NewWriter(f)
		w = l.zw
	}
	l.enc = json.NewEncoder(w)
	return l, nil
}

// Log writes event as one line.
func (l *JSONLogger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLoggerClosed
	}
	if err := l.enc.Encode(event); err != nil {
		return fmt.Errorf("writing session event: %w", err)
	}
	if l.zw != nil {
		if err := l.zw.Flush(); err != nil {
			return fmt.Errorf("flushing session log: %w", err)
		}
	}
	l.count++
	return nil
}

// Close finishes the gzip stream, if any, and closes the file. Closing twice
// is a no-op.
func (l *JSONLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	var errs []error
	if l.zw != nil {
		errs = append(errs, l.zw.Close())
	}
	errs = append(errs, l.file.Close())
	return errors.Join(errs...)
}

func (l *JSONLogger) Path() string {
	return l.path
}

// Count is the number of events written so far.
func (l *JSONLogger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// NopLogger discards every event. It stands in when session logging is off.
type NopLogger struct{}

func (NopLogger) Log(Event) error { return nil }
func (NopLogger) Close() error    { return nil }

// DefaultLogPath returns a new session log path inside dir. The timestamp
// sorts logs by start time; the suffix keeps runs started in the same second
// apart.
func DefaultLogPath(dir string) string {
	ts := time.Now().UTC().Format("20060102T150405Z")
	return filepath.Join(dir, ts+"-"+uuid.NewString()[:8]+logSuffix)
}

// isLogFile reports whether name looks like a session log, plain or gzipped.
func isLogFile(name string) bool {
	return strings.HasSuffix(name, logSuffix) || strings.HasSuffix(name, compressedLogSuffix)
}

// openLog opens a session log for reading, decompressing ".gz" files.
func openLog(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close() //nolint:errcheck
		return nil, err
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	return errors.Join(g.Reader.Close(), g.file.Close())
}
