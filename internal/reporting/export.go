// Package reporting renders evaluation reports for files and terminals.
package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/statistics"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatJUnit    Format = "junit"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatJUnit}
}

// ParseFormat accepts a format name; "md" and "yml" are aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "junit", "xml":
		return FormatJUnit, nil
	}
	return "", fmt.Errorf("unknown output format %q (want json, yaml, markdown or junit)", s)
}

// FormatForPath guesses a format from a file extension, ignoring a trailing
// ".gz". It returns fallback when the extension is not recognized.
func FormatForPath(path string, fallback Format) Format {
	path = strings.TrimSuffix(path, ".gz")
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".md":
		return FormatMarkdown
	case ".xml":
		return FormatJUnit
	}
	return fallback
}

// Batch is the document written for a batch run.
type Batch struct {
	Summary *statistics.Summary `json:"summary" yaml:"summary"`
	Reports []*models.Report    `json:"reports" yaml:"reports"`
	// MinScore is the quality gate applied to JUnit output.
	MinScore float64 `json:"min_score,omitempty" yaml:"min_score,omitempty"`
}

// WriteReport encodes a single report.
func WriteReport(w io.Writer, format Format, report *models.Report) error {
	switch format {
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(report))
		return err
	case FormatJUnit:
		return writeJUnit(w, ConvertToJUnit("ddbeval", []*models.Report{report}, 0))
	}
	return encode(w, format, report)
}

// WriteBatch encodes a batch run.
func WriteBatch(w io.Writer, format Format, batch *Batch) error {
	switch format {
	case FormatMarkdown:
		_, err := io.WriteString(w, BatchMarkdown(batch))
		return err
	case FormatJUnit:
		return writeJUnit(w, ConvertToJUnit("ddbeval", batch.Reports, batch.MinScore))
	}
	return encode(w, format, batch)
}

func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}

// WriteFile creates path, with parent directories, and hands write a writer
// for it. A ".gz" suffix gzips the output.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	if !strings.HasSuffix(path, ".gz") {
		return write(f)
	}

	zw := gzip.NewWriter(f)
	if err := write(zw); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing gzip stream: %w", err)
	}
	return nil
}

// ReadReport loads a report written as JSON or YAML, gzipped or not.
func ReadReport(path string) (*models.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer zr.Close() //nolint:errcheck
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	// yaml.v3 also reads JSON documents
	var report models.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &report, nil
}
