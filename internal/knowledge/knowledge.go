// Package knowledge loads the DynamoDB expert-knowledge document that is
// injected into every evaluation request.
package knowledge

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultPath is where the architect prompt lives in a repository checkout.
const DefaultPath = "src/dynamodb-mcp-server/awslabs/dynamodb_mcp_server/prompts/dynamodb_architect.md"

// fallbackRel locates the architect prompt relative to the directory that
// holds the running binary.
const fallbackRel = "../../awslabs/dynamodb_mcp_server/prompts/dynamodb_architect.md"

var executable = os.Executable

// DefaultFallback returns the architect prompt path next to the running
// binary, or "" when the binary's location is unknown.
func DefaultFallback() string {
	exe, err := executable()
	if err != nil {
		slog.Debug("Cannot locate executable for knowledge fallback", "error", err)
		return ""
	}
	return filepath.Join(filepath.Dir(exe), fallbackRel)
}

// Source hands out expert-knowledge text.
type Source interface {
	Knowledge() string
}

// File reads the expert-knowledge document on first use and caches it for the
// lifetime of the value. It is safe for concurrent use.
type File struct {
	primary  string
	fallback string
	readFile func(string) ([]byte, error)

	once   sync.Once
	text   string
	err    error
	loaded string
}

// NewFile returns a source that tries primary, then fallback. An empty
// fallback disables the second attempt.
func NewFile(primary, fallback string) *File {
	return &File{primary: primary, fallback: fallback, readFile: os.ReadFile}
}

// Knowledge returns the document text. When neither path can be read it
// returns a placeholder describing the failure so evaluation can proceed.
func (f *File) Knowledge() string {
	f.once.Do(f.load)
	return f.text
}

// Err reports the load failure, if the placeholder is in use.
func (f *File) Err() error {
	f.once.Do(f.load)
	return f.err
}

// Path reports which file was loaded. It is empty when loading failed.
func (f *File) Path() string {
	f.once.Do(f.load)
	return f.loaded
}

func (f *File) load() {
	var errs []error
	for _, p := range []string{f.primary, f.fallback} {
		if p == "" {
			continue
		}
		data, err := f.readFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		f.text = string(data)
		f.loaded = p
		slog.Debug("Loaded expert knowledge", "path", p, "bytes", len(data))
		return
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no expert knowledge path configured"))
	}
	f.err = fmt.Errorf("expert knowledge not found at %q or fallback %q: %w", f.primary, f.fallback, errors.Join(errs...))
	f.text = Placeholder(f.err)
	slog.Warn("Using minimal context for evaluation", "error", f.err)
}

// Placeholder is the text substituted for expert knowledge when loading fails.
func Placeholder(err error) string {
	return fmt.Sprintf("Error loading DynamoDB expert knowledge: %v. Using minimal context for evaluation.", err)
}

// Static is a fixed knowledge source.
type Static string

func (s Static) Knowledge() string { return string(s) }
