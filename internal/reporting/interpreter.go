package reporting

import (
	"fmt"
	"strings"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/quality"
	"github.com/spboyer/ddbeval/internal/statistics"
)

// InterpretScore returns a plain-language label for a 1-10 overall score.
func InterpretScore(score float64) string {
	switch quality.Classify(score) {
	case quality.Excellent:
		return "Excellent (8.5 and above)"
	case quality.Good:
		return "Good (7.0-8.5)"
	case quality.Acceptable:
		return "Acceptable (5.5-7.0)"
	case quality.NeedsImprovement:
		return "Needs Improvement (4.0-5.5)"
	default:
		return "Poor (below 4.0)"
	}
}

// InterpretSpread explains how consistent a family's scores were.
func InterpretSpread(fs statistics.FamilySummary) string {
	switch {
	case fs.Count < 2:
		return "Not enough runs to judge consistency."
	case fs.StdDev < 0.5:
		return fmt.Sprintf("Scores are consistent across scenarios (std dev %.2f).", fs.StdDev)
	case fs.StdDev < 1.5:
		return fmt.Sprintf("Scores vary moderately across scenarios (std dev %.2f).", fs.StdDev)
	default:
		return fmt.Sprintf("Scores vary widely across scenarios (std dev %.2f). Look at the weakest scenarios first.", fs.StdDev)
	}
}

// WeakestDimension returns the lowest scoring dimension of a result.
func WeakestDimension(f dimensions.Family, res *models.EvaluationResult) (dimensions.Dimension, float64) {
	var weakest dimensions.Dimension
	low := 11.0
	for _, d := range f.Dimensions() {
		if v, ok := res.Score(d); ok && v < low {
			weakest, low = d, v
		}
	}
	return weakest, low
}

// FormatSummaryReport produces a plain-language interpretation of a batch.
func FormatSummaryReport(batch *Batch) string {
	var b strings.Builder

	b.WriteString("=== Interpretation ===\n\n")

	s := batch.Summary
	if s == nil {
		s = statistics.Summarize(batch.Reports, -1)
	}

	b.WriteString(s.Headline() + "\n")
	if s.Evaluated > 0 {
		fmt.Fprintf(&b, "Average:       %.2f, %s\n", s.AverageScore, InterpretScore(s.AverageScore))
	}
	fmt.Fprintf(&b, "Runs:          %d evaluated, %d degraded, %d failed, %d skipped out of %d total\n",
		s.Evaluated, s.Degraded, s.Failed, s.Skipped, s.Total)

	for _, fs := range s.Families {
		if fs.Count == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s: mean %.2f, %s\n", fs.Family.Title(), fs.Mean, InterpretScore(fs.Mean))
		fmt.Fprintf(&b, "  %s\n", InterpretSpread(fs))
	}

	if len(batch.Reports) > 0 {
		b.WriteString("\nPer-Scenario Interpretation:\n")
		for _, r := range batch.Reports {
			icon := "✗"
			if r.Status == models.StatusSuccess && len(r.Errors) == 0 && scored(r) {
				icon = "✓"
			}
			fmt.Fprintf(&b, "  %s %s: %s\n", icon, r.Scenario, r.Status)
			for _, f := range dimensions.Families() {
				res := r.Evaluation(f)
				if res == nil {
					continue
				}
				d, low := WeakestDimension(f, res)
				fmt.Fprintf(&b, "    %s: %.2f, weakest %s (%.1f)\n", f.Title(), res.OverallScore, d.Title(), low)
			}
			if r.Message != "" {
				fmt.Fprintf(&b, "    %s\n", r.Message)
			}
		}
	}

	return b.String()
}

// scored reports whether any dimension family produced a result.
func scored(r *models.Report) bool {
	for _, f := range dimensions.Families() {
		if r.Evaluation(f) != nil {
			return true
		}
	}
	return false
}
