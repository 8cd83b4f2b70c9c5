package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/quality"
)

// ReportStatus is the top-level outcome of a run.
type ReportStatus string

const (
	StatusSuccess ReportStatus = "success"
	StatusError   ReportStatus = "error"
	StatusSkipped ReportStatus = "skipped"
)

// EvaluationResult is the aggregated outcome of one dimension family.
// It is built once by the aggregator and not modified afterwards.
type EvaluationResult struct {
	Family         dimensions.Family  `json:"family" yaml:"family"`
	Scores         map[string]float64 `json:"scores" yaml:"scores"`
	OverallScore   float64            `json:"overall_score" yaml:"overall_score"`
	QualityLevel   quality.Level      `json:"quality_level" yaml:"quality_level"`
	Justifications map[string]string  `json:"justifications" yaml:"justifications"`
	// Unanswered lists dimensions whose engine field came back empty.
	Unanswered    []string `json:"unanswered,omitempty" yaml:"unanswered,omitempty"`
	RubricVersion string   `json:"rubric_version" yaml:"rubric_version"`
}

// Score returns the recorded score for a dimension.
func (r *EvaluationResult) Score(d dimensions.Dimension) (float64, bool) {
	v, ok := r.Scores[d.ID()]
	return v, ok
}

// PerformanceMetadata holds phase durations in seconds.
type PerformanceMetadata struct {
	ConversationDuration      float64 `json:"conversation_duration" yaml:"conversation_duration"`
	SessionEvaluationDuration float64 `json:"session_evaluation_duration" yaml:"session_evaluation_duration"`
	ModelEvaluationDuration   float64 `json:"model_evaluation_duration" yaml:"model_evaluation_duration"`
	TotalDuration             float64 `json:"total_duration" yaml:"total_duration"`
}

type QualityAssessment struct {
	SessionQualityLevel quality.Level `json:"session_quality_level" yaml:"session_quality_level"`
	ModelQualityLevel   quality.Level `json:"model_quality_level" yaml:"model_quality_level"`
}

// Report is the complete record of one scenario run. SessionEvaluation and
// ModelEvaluation are nil when extraction failed or that family's engine call
// failed.
type Report struct {
	RunID               string              `json:"run_id" yaml:"run_id"`
	Status              ReportStatus        `json:"status" yaml:"status"`
	Message             string              `json:"message,omitempty" yaml:"message,omitempty"`
	Scenario            string              `json:"scenario" yaml:"scenario"`
	ModelUsed           string              `json:"model_used,omitempty" yaml:"model_used,omitempty"`
	Conversation        []ConversationTurn  `json:"conversation" yaml:"conversation"`
	ModelingSession     string              `json:"modeling_session" yaml:"modeling_session"`
	DataModel           string              `json:"data_model" yaml:"data_model"`
	SessionEvaluation   *EvaluationResult   `json:"session_evaluation" yaml:"session_evaluation"`
	ModelEvaluation     *EvaluationResult   `json:"model_evaluation" yaml:"model_evaluation"`
	QualityAssessment   QualityAssessment   `json:"quality_assessment" yaml:"quality_assessment"`
	PerformanceMetadata PerformanceMetadata `json:"performance_metadata" yaml:"performance_metadata"`
	// Errors maps a dimension family to the engine failure that left it empty.
	Errors        map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
	RubricVersion string            `json:"rubric_version" yaml:"rubric_version"`
	Timestamp     string            `json:"timestamp" yaml:"timestamp"`
}

// Evaluation returns the result for a family, or nil.
func (r *Report) Evaluation(f dimensions.Family) *EvaluationResult {
	switch f {
	case dimensions.Design:
		return r.ModelEvaluation
	case dimensions.Process:
		return r.SessionEvaluation
	}
	return nil
}

// SetEvaluation stores a result under its family and refreshes the quality
// assessment.
func (r *Report) SetEvaluation(res *EvaluationResult) {
	switch res.Family {
	case dimensions.Design:
		r.ModelEvaluation = res
	case dimensions.Process:
		r.SessionEvaluation = res
	}
	r.QualityAssessment = r.assessQuality()
}

func (r *Report) assessQuality() QualityAssessment {
	qa := QualityAssessment{SessionQualityLevel: quality.Unknown, ModelQualityLevel: quality.Unknown}
	if r.SessionEvaluation != nil {
		qa.SessionQualityLevel = r.SessionEvaluation.QualityLevel
	}
	if r.ModelEvaluation != nil {
		qa.ModelQualityLevel = r.ModelEvaluation.QualityLevel
	}
	return qa
}

// NewReport starts a report with an unknown quality assessment.
func NewReport(runID, scenario string) *Report {
	r := &Report{
		RunID:         runID,
		Scenario:      scenario,
		Conversation:  []ConversationTurn{},
		RubricVersion: dimensions.RubricVersion,
	}
	r.QualityAssessment = r.assessQuality()
	return r
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// FormatTimestamp renders t as ISO-8601 with microseconds.
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.000000Z07:00")
}

// UnixSeconds converts t into fractional Unix seconds.
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
