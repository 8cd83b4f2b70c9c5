package orchestration

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/spboyer/ddbeval/internal/models"
)

// DefaultWorkers bounds RunBatch when no worker count is given.
const DefaultWorkers = 4

// RunBatch runs every scenario with at most workers runs in flight and
// returns the reports in scenario order.
func (r *Runner) RunBatch(ctx context.Context, scenarios []models.Scenario, workers int) []*models.Report {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	reports := make([]*models.Report, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, sc := range scenarios {
		g.Go(func() error {
			reports[i] = r.Run(ctx, sc)
			slog.Debug("Batch run finished", "scenario", sc.Name, "index", i, "status", reports[i].Status)
			return nil
		})
	}

	// Run never fails, so neither does the group.
	_ = g.Wait()
	return reports
}
