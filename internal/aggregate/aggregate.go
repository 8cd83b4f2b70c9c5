// Package aggregate turns raw engine outputs into scored evaluation results.
package aggregate

import (
	"math"
	"strings"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/quality"
	"github.com/spboyer/ddbeval/internal/scoring"
)

// Aggregate scores every dimension of family from raw, averages them with
// equal weight and classifies the mean.
//
// A blank or missing field is recovered like any other text, which gives the
// neutral score, and the dimension is recorded as unanswered.
func Aggregate(family dimensions.Family, raw map[string]string) models.EvaluationResult {
	dims := family.Dimensions()

	res := models.EvaluationResult{
		Family:         family,
		Scores:         make(map[string]float64, len(dims)),
		Justifications: map[string]string{},
		QualityLevel:   quality.Unknown,
		RubricVersion:  dimensions.RubricVersion,
	}

	if len(dims) == 0 {
		return res
	}

	total := 0.0
	for _, d := range dims {
		text := raw[d.OutputField()]
		if strings.TrimSpace(text) == "" {
			res.Unanswered = append(res.Unanswered, d.ID())
		}

		score := scoring.Recover(text)
		res.Scores[d.ID()] = score
		total += score
	}

	res.OverallScore = round2(total / float64(len(dims)))
	res.QualityLevel = quality.Classify(res.OverallScore)

	for _, j := range family.Justifications() {
		res.Justifications[j.Key] = raw[j.Name]
	}

	return res
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
