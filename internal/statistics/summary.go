// Package statistics summarizes batches of evaluation reports.
package statistics

import (
	"fmt"
	"math"
	"slices"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/quality"
)

// FamilySummary describes the overall scores one family received across a
// batch.
type FamilySummary struct {
	Family         dimensions.Family     `json:"family" yaml:"family"`
	Count          int                   `json:"count" yaml:"count"`
	Mean           float64               `json:"mean" yaml:"mean"`
	Min            float64               `json:"min" yaml:"min"`
	Max            float64               `json:"max" yaml:"max"`
	StdDev         float64               `json:"std_dev" yaml:"std_dev"`
	CI95           ConfidenceInterval    `json:"ci95" yaml:"ci95"`
	DimensionMeans map[string]float64    `json:"dimension_means" yaml:"dimension_means"`
	Distribution   map[quality.Level]int `json:"distribution" yaml:"distribution"`
}

// Summary is the roll-up of a batch run.
type Summary struct {
	Total int `json:"total" yaml:"total"`
	// Evaluated counts reports with at least one evaluation result.
	Evaluated int `json:"evaluated" yaml:"evaluated"`
	// Degraded counts successful reports without evaluations, i.e. extraction
	// failures.
	Degraded     int             `json:"degraded" yaml:"degraded"`
	Failed       int             `json:"failed" yaml:"failed"`
	Skipped      int             `json:"skipped" yaml:"skipped"`
	AverageScore float64         `json:"average_score" yaml:"average_score"`
	Families     []FamilySummary `json:"families" yaml:"families"`
	// FailedScenarios names every report that produced no evaluation.
	FailedScenarios []string `json:"failed_scenarios,omitempty" yaml:"failed_scenarios,omitempty"`
}

// Headline is the one line description of the batch.
func (s *Summary) Headline() string {
	return fmt.Sprintf("Evaluated %d scenarios with average score of %.2f/10", s.Evaluated, s.AverageScore)
}

// Summarize rolls up reports. seed drives the bootstrap; pass a negative
// value for a random seed.
func Summarize(reports []*models.Report, seed int64) *Summary {
	s := &Summary{Total: len(reports)}

	var overall []float64
	for _, r := range reports {
		switch r.Status {
		case models.StatusSkipped:
			s.Skipped++
		case models.StatusError:
			s.Failed++
		}

		var scores []float64
		for _, f := range dimensions.Families() {
			if res := r.Evaluation(f); res != nil {
				scores = append(scores, res.OverallScore)
			}
		}
		if len(scores) == 0 {
			if r.Status == models.StatusSuccess {
				s.Degraded++
			}
			s.FailedScenarios = append(s.FailedScenarios, r.Scenario)
			continue
		}
		s.Evaluated++
		overall = append(overall, mean(scores))
	}

	s.AverageScore = round2(mean(overall))

	for _, f := range dimensions.Families() {
		s.Families = append(s.Families, summarizeFamily(f, reports, seed))
	}
	return s
}

func summarizeFamily(f dimensions.Family, reports []*models.Report, seed int64) FamilySummary {
	fs := FamilySummary{
		Family:         f,
		DimensionMeans: map[string]float64{},
		Distribution:   map[quality.Level]int{},
	}
	for _, level := range quality.Levels() {
		fs.Distribution[level] = 0
	}

	var scores []float64
	perDim := map[string][]float64{}
	for _, r := range reports {
		res := r.Evaluation(f)
		if res == nil {
			continue
		}
		scores = append(scores, res.OverallScore)
		fs.Distribution[res.QualityLevel]++
		for _, d := range f.Dimensions() {
			if v, ok := res.Score(d); ok {
				perDim[d.ID()] = append(perDim[d.ID()], v)
			}
		}
	}

	fs.Count = len(scores)
	if fs.Count == 0 {
		return fs
	}

	fs.Mean = round2(mean(scores))
	fs.Min = slices.Min(scores)
	fs.Max = slices.Max(scores)
	fs.StdDev = round2(stddev(scores))
	fs.CI95 = BootstrapCIWithSeed(scores, 0.95, seed)
	for id, vs := range perDim {
		fs.DimensionMeans[id] = round2(mean(vs))
	}
	return fs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
