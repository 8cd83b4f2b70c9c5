// Package wizard holds the interactive prompts of the CLI.
package wizard

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/scenario"
)

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ScenarioOptions builds one select option per scenario, labeled with its
// complexity when known.
func ScenarioOptions(scs []models.Scenario) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(scs))
	for _, sc := range scs {
		label := sc.Name
		if sc.Complexity != "" {
			label = fmt.Sprintf("%s (%s)", sc.Name, sc.Complexity)
		}
		opts = append(opts, huh.NewOption(label, sc.Name))
	}
	return opts
}

// PickScenario asks the user to choose a scenario from the catalog. The
// default scenario is preselected.
func PickScenario(in io.Reader, out io.Writer, catalog *scenario.Catalog) (models.Scenario, error) {
	choice := scenario.DefaultName

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Scenario").
				Description("Which modeling request should the assistant work through?").
				Options(ScenarioOptions(catalog.List())...).
				Value(&choice),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if !IsTerminal(in) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return models.Scenario{}, fmt.Errorf("scenario picker failed: %w", err)
	}

	return catalog.Get(choice)
}
