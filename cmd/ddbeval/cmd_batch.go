package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/spboyer/ddbeval/internal/metrics"
	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/reporting"
	"github.com/spboyer/ddbeval/internal/scenario"
	"github.com/spboyer/ddbeval/internal/statistics"
)

type batchOptions struct {
	engineFlags
	scenarios   []string
	workers     int
	outputPath  string
	format      string
	metricsFile string
	minScore    float64
	interpret   bool
	verbose     bool
}

func newBatchCommand() *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Evaluate the assistant on several scenarios",
		Long: `Run every scenario, or the ones named with --scenario, with bounded
concurrency and summarize the scores.

The command fails when any run ends in error, or when --min-score is set and a
family scores below it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return batchCommandE(cmd, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringArrayVarP(&opts.scenarios, "scenario", "s", nil, "Scenario to include (can be repeated, default: all)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Concurrent scenario runs (default: 4)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Write the batch report to this file (.json, .yaml, .md, .xml, optionally .gz)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Report format: json, yaml, markdown, junit (default: from --output extension)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus text-format metrics to this file")
	cmd.Flags().Float64Var(&opts.minScore, "min-score", 0, "Fail when a family's overall score is below this value")
	cmd.Flags().BoolVar(&opts.interpret, "interpret", false, "Print a plain-language interpretation of the results")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print run phases as they happen")

	return cmd
}

func batchCommandE(cmd *cobra.Command, opts *batchOptions) error {
	out := cmd.OutOrStdout()

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Batch.Workers = opts.workers
	}
	if cmd.Flags().Changed("min-score") {
		cfg.Batch.MinScore = opts.minScore
	}

	catalog, err := opts.loadCatalog()
	if err != nil {
		return err
	}
	scs, err := selectScenarios(catalog, opts.scenarios)
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

	fmt.Fprintf(out, "Running %d scenario(s) with %d worker(s)\n\n", len(scs), cfg.Batch.Workers) //nolint:errcheck

	p.runner.OnProgress(progressPrinter(out, opts.verbose))
	reports := p.runner.RunBatch(ctx, scs, cfg.Batch.Workers)

	batch := &reporting.Batch{
		Summary:  statistics.Summarize(reports, -1),
		Reports:  reports,
		MinScore: cfg.Batch.MinScore,
	}
	printBatchSummary(out, batch)
	if opts.interpret {
		fmt.Fprintln(out)                                     //nolint:errcheck
		fmt.Fprint(out, reporting.FormatSummaryReport(batch)) //nolint:errcheck
	}

	if opts.metricsFile != "" {
		rec := metrics.NewRecorder()
		for _, r := range reports {
			rec.Observe(r)
		}
		if err := rec.WriteFile(opts.metricsFile); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nMetrics saved to: %s\n", opts.metricsFile) //nolint:errcheck
	}

	if opts.outputPath != "" {
		if err := reporting.WriteFile(opts.outputPath, func(w io.Writer) error {
			return reporting.WriteBatch(w, format, batch)
		}); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Fprintf(out, "\nReport saved to: %s\n", opts.outputPath) //nolint:errcheck
	}

	return batchFailure(reports, cfg.Batch.MinScore)
}

// selectScenarios returns the named scenarios, or the whole catalog.
func selectScenarios(catalog *scenario.Catalog, names []string) ([]models.Scenario, error) {
	if len(names) == 0 {
		return catalog.List(), nil
	}
	scs := make([]models.Scenario, 0, len(names))
	for _, n := range names {
		sc, err := catalog.Get(n)
		if err != nil {
			return nil, err
		}
		scs = append(scs, sc)
	}
	return scs, nil
}

// batchFailure reports failed runs and, when minScore is positive, families
// scoring below it.
func batchFailure(reports []*models.Report, minScore float64) error {
	failed := failedRuns(reports)

	below := 0
	if minScore > 0 {
		for _, r := range reports {
			for _, res := range []*models.EvaluationResult{r.SessionEvaluation, r.ModelEvaluation} {
				if res != nil && res.OverallScore < minScore {
					below++
				}
			}
		}
	}

	if failed == 0 && below == 0 {
		return nil
	}
	return &EvaluationFailedError{
		Message: fmt.Sprintf("batch completed with %d failed run(s) and %d evaluation(s) below %.2f", failed, below, minScore),
	}
}
