package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/reporting"
	"github.com/spboyer/ddbeval/internal/scenario"
	"github.com/spboyer/ddbeval/internal/wizard"
)

type runOptions struct {
	engineFlags
	scenarioName  string
	outputPath    string
	format        string
	listScenarios bool
	verbose       bool
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate the assistant on one scenario",
		Long: `Run one scenario end to end: converse with the assistant, extract the modeling
session and data model from its final answer, and score both.

Without --scenario an interactive picker is shown on a terminal; otherwise the
default scenario is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommandE(cmd, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.scenarioName, "scenario", "s", "", "Scenario to evaluate (default: "+scenario.DefaultName+")")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Write the report to this file (.json, .yaml, .md, .xml, optionally .gz)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Report format: json, yaml, markdown, junit (default: from --output extension)")
	cmd.Flags().BoolVar(&opts.listScenarios, "list-scenarios", false, "List available scenarios and exit")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print conversation turns as they happen")

	return cmd
}

func runCommandE(cmd *cobra.Command, opts *runOptions) error {
	out := cmd.OutOrStdout()

	catalog, err := opts.loadCatalog()
	if err != nil {
		return err
	}
	if opts.listScenarios {
		printScenarios(out, catalog)
		return nil
	}

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	sc, err := chooseScenario(cmd, catalog, opts.scenarioName)
	if err != nil {
		return err
	}

	format, err := resolveFormat(opts.format, opts.outputPath, cfg.Output.Format)
	if err != nil {
		return err
	}

	if cfg.Conversation.Engine != engineMock {
		warnUnknownModel(cfg.Conversation.Model)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	p, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close(context.WithoutCancel(ctx))

	fmt.Fprintf(out, "Model: %s\nJudge: %s (%s)\nScenario: %s\n\n", //nolint:errcheck
		cfg.Conversation.Model, cfg.Judge.Engine, cfg.JudgeModel(), sc.Name)

	p.runner.OnProgress(progressPrinter(out, opts.verbose))
	report := p.runner.Run(ctx, sc)

	printReport(out, report)

	if opts.outputPath != "" {
		if err := reporting.WriteFile(opts.outputPath, func(w io.Writer) error {
			return reporting.WriteReport(w, format, report)
		}); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Fprintf(out, "\nReport saved to: %s\n", opts.outputPath) //nolint:errcheck
	}

	if report.Status == models.StatusError {
		return &EvaluationFailedError{Message: fmt.Sprintf("evaluation of %q failed: %s", sc.Name, report.Message)}
	}
	return nil
}

// chooseScenario resolves --scenario, or asks on a terminal when it is blank.
func chooseScenario(cmd *cobra.Command, catalog *scenario.Catalog, name string) (models.Scenario, error) {
	if name == "" && wizard.IsTerminal(cmd.InOrStdin()) {
		return wizard.PickScenario(cmd.InOrStdin(), cmd.OutOrStdout(), catalog)
	}
	return catalog.Get(name)
}

// resolveFormat picks the explicit --format, else the output extension, else
// the configured default.
func resolveFormat(flag, outputPath, configured string) (reporting.Format, error) {
	if flag != "" {
		return reporting.ParseFormat(flag)
	}
	fallback, err := reporting.ParseFormat(configured)
	if err != nil {
		return "", err
	}
	return reporting.FormatForPath(outputPath, fallback), nil
}
