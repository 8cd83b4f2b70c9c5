package aggregate

import (
	"math"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/quality"
)

func TestAggregate_Design(t *testing.T) {
	raw := map[string]string{
		"completeness_score":               "9",
		"technical_accuracy_score":         "Score: 8/10",
		"access_pattern_coverage_score":    "7",
		"scalability_considerations_score": "8.5",
		"cost_optimization_score":          "6",
		"completeness_justification":       "covers everything",
		"technical_justification":          "keys are sound",
		"overall_assessment":               "strong design",
	}

	res := Aggregate(dimensions.Design, raw)

	require.Equal(t, dimensions.Design, res.Family)
	require.Equal(t, map[string]float64{
		"completeness":               9,
		"technical_accuracy":         8,
		"access_pattern_coverage":    7,
		"scalability_considerations": 8.5,
		"cost_optimization":          6,
	}, res.Scores)
	require.Equal(t, 7.7, res.OverallScore)
	require.Equal(t, quality.Good, res.QualityLevel)
	require.Equal(t, map[string]string{
		"completeness": "covers everything",
		"technical":    "keys are sound",
		"overall":      "strong design",
	}, res.Justifications)
	require.Empty(t, res.Unanswered)
	require.Equal(t, dimensions.RubricVersion, res.RubricVersion)
}

func TestAggregate_Unanswered(t *testing.T) {
	raw := map[string]string{
		"requirements_engineering_score": "10",
		"access_pattern_analysis_score":  "   ",
		"methodology_adherence_score":    "it was fine",
		"technical_reasoning_score":      "4",
	}

	res := Aggregate(dimensions.Process, raw)

	require.Len(t, res.Scores, 5)
	require.Equal(t, []string{"access_pattern_analysis", "process_documentation"}, res.Unanswered)
	require.Equal(t, 7.0, res.Scores["access_pattern_analysis"])
	require.Equal(t, 7.0, res.Scores["process_documentation"])
	// "fine" matches no band, so recovery also falls back
	require.Equal(t, 7.0, res.Scores["methodology_adherence"])
	require.Equal(t, 7.0, res.OverallScore)
	require.Equal(t, quality.Good, res.QualityLevel)

	require.Len(t, res.Justifications, 4)
	require.Equal(t, "", res.Justifications["overall"])
}

func TestAggregate_EmptyOutputs(t *testing.T) {
	for _, f := range dimensions.Families() {
		res := Aggregate(f, nil)
		require.Len(t, res.Scores, 5)
		require.Len(t, res.Unanswered, 5)
		require.Equal(t, 7.0, res.OverallScore)
	}
}

func TestAggregate_MeanProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for _, f := range dimensions.Families() {
		for range 500 {
			raw := map[string]string{}
			sum := 0.0
			for _, d := range f.Dimensions() {
				// whole tenths so the text round-trips exactly
				v := float64(10+rng.IntN(91)) / 10
				sum += v
				raw[d.OutputField()] = strconv.FormatFloat(v, 'f', 1, 64)
			}

			res := Aggregate(f, raw)
			require.InDelta(t, math.Round(sum/5*100)/100, res.OverallScore, 1e-9)
			require.GreaterOrEqual(t, res.OverallScore, 1.0)
			require.LessOrEqual(t, res.OverallScore, 10.0)
			require.Equal(t, quality.Classify(res.OverallScore), res.QualityLevel)
		}
	}
}

func TestAggregate_UnknownFamily(t *testing.T) {
	res := Aggregate(dimensions.Family("nope"), map[string]string{"x": "1"})
	require.Empty(t, res.Scores)
	require.Equal(t, quality.Unknown, res.QualityLevel)
}
