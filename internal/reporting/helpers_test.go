package reporting

import (
	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/quality"
)

func result(f dimensions.Family, score float64) *models.EvaluationResult {
	scores := map[string]float64{}
	for _, d := range f.Dimensions() {
		scores[d.ID()] = score
	}
	return &models.EvaluationResult{
		Family:         f,
		Scores:         scores,
		OverallScore:   score,
		QualityLevel:   quality.Classify(score),
		Justifications: map[string]string{"overall": "solid " + f.String()},
		RubricVersion:  dimensions.RubricVersion,
	}
}

func sampleReport(scenario string, design, process float64) *models.Report {
	r := models.NewReport("run-"+scenario, scenario)
	r.Status = models.StatusSuccess
	r.ModelUsed = "claude-sonnet-4"
	r.Timestamp = "2025-06-01T10:00:00.000000Z"
	r.SetEvaluation(result(dimensions.Design, design))
	r.SetEvaluation(result(dimensions.Process, process))
	r.PerformanceMetadata = models.PerformanceMetadata{
		ConversationDuration:      12.5,
		SessionEvaluationDuration: 3,
		ModelEvaluationDuration:   2,
		TotalDuration:             18,
	}
	return r
}
