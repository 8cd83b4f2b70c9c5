// Package scenario holds the structured modeling requests that drive
// evaluation runs.
package scenario

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spboyer/ddbeval/internal/models"
)

// DefaultName is the scenario used when none is requested.
const DefaultName = "Simple E-commerce Schema"

var (
	// ErrNotFound is returned when no scenario has the requested name.
	ErrNotFound = errors.New("scenario not found")
	// ErrInvalid is wrapped by every ValidationError.
	ErrInvalid = errors.New("invalid scenario file")
)

//go:embed builtin/scenarios.yaml
var builtinYAML []byte

// ValidationError lists every schema violation found in a scenario file.
type ValidationError struct {
	Source   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s:\n  %s", ErrInvalid, e.Source, strings.Join(e.Problems, "\n  "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

type file struct {
	Scenarios []models.Scenario `yaml:"scenarios"`
}

// Catalog is an ordered set of uniquely named scenarios.
type Catalog struct {
	scenarios []models.Scenario
}

// Builtin returns a catalog of the embedded scenarios.
func Builtin() *Catalog {
	scs, err := Parse("builtin", builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded scenarios are invalid: %v", err))
	}
	return &Catalog{scenarios: scs}
}

// LoadFile reads and validates a scenario file.
func LoadFile(path string) ([]models.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(path, data)
}

// Parse validates data against the scenario schema and decodes it. source
// only names the data in errors.
func Parse(source string, data []byte) ([]models.Scenario, error) {
	if problems := Validate(data); len(problems) > 0 {
		return nil, &ValidationError{Source: source, Problems: problems}
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", source, err)
	}

	seen := map[string]bool{}
	for _, s := range f.Scenarios {
		if seen[s.Name] {
			return nil, &ValidationError{Source: source, Problems: []string{fmt.Sprintf("duplicate scenario name %q", s.Name)}}
		}
		seen[s.Name] = true
	}
	return f.Scenarios, nil
}

// Add appends scenarios, replacing any existing scenario with the same name.
func (c *Catalog) Add(scs ...models.Scenario) {
	for _, s := range scs {
		i := slices.IndexFunc(c.scenarios, func(existing models.Scenario) bool { return existing.Name == s.Name })
		if i >= 0 {
			c.scenarios[i] = s
			continue
		}
		c.scenarios = append(c.scenarios, s)
	}
}

// List returns every scenario in catalog order.
func (c *Catalog) List() []models.Scenario {
	return slices.Clone(c.scenarios)
}

// Names returns the scenario names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.scenarios))
	for _, s := range c.scenarios {
		names = append(names, s.Name)
	}
	return names
}

// Get finds a scenario by exact name, then case-insensitively. Surrounding
// whitespace is ignored and a blank name selects DefaultName.
func (c *Catalog) Get(name string) (models.Scenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}

	for _, s := range c.scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	for _, s := range c.scenarios {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return models.Scenario{}, fmt.Errorf("%w: %q (available: %s)", ErrNotFound, name, strings.Join(c.Names(), ", "))
}
