package main

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/orchestration"
	"github.com/spboyer/ddbeval/internal/quality"
	"github.com/spboyer/ddbeval/internal/reporting"
	"github.com/spboyer/ddbeval/internal/scenario"
	"github.com/spboyer/ddbeval/internal/statistics"
)

func evaluation(f dimensions.Family, score float64) *models.EvaluationResult {
	scores := map[string]float64{}
	for _, d := range f.Dimensions() {
		scores[d.ID()] = score
	}
	return &models.EvaluationResult{
		Family:        f,
		Scores:        scores,
		OverallScore:  score,
		QualityLevel:  quality.Classify(score),
		RubricVersion: dimensions.RubricVersion,
	}
}

func successReport(name string, design, process float64) *models.Report {
	r := models.NewReport("run-"+name, name)
	r.Status = models.StatusSuccess
	r.Timestamp = "2025-06-01T10:00:00.000000Z"
	r.SetEvaluation(evaluation(dimensions.Design, design))
	r.SetEvaluation(evaluation(dimensions.Process, process))
	r.PerformanceMetadata = models.PerformanceMetadata{
		ConversationDuration:      12.5,
		SessionEvaluationDuration: 3,
		ModelEvaluationDuration:   2,
		TotalDuration:             18,
	}
	return r
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 4))
	// wide runes take two columns
	assert.Equal(t, "表 ", padRight("表", 3))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ééé…", truncate("éééééé", 4))
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, successReport("Gaming Leaderboard", 7.6, 8.2))
	out := buf.String()

	assert.Contains(t, out, "EVALUATION RESULTS: Gaming Leaderboard")
	assert.Contains(t, out, "Total Duration: 18.00s")
	assert.Contains(t, out, "Conversation:         12.50s")
	assert.Contains(t, out, "MODELING SESSION EVALUATION")
	assert.Contains(t, out, "DATA MODEL EVALUATION")
	assert.Contains(t, out, "Overall Score: 7.60 (good)")
	assert.Contains(t, out, "Requirements Engineering:     8.2/10")
	assert.Contains(t, out, "Session Quality: good")
	assert.Contains(t, out, "Evaluation Timestamp: 2025-06-01T10:00:00.000000Z")
	assert.NotContains(t, out, "Evaluation Status")

	// process is printed before design
	assert.Less(t, strings.Index(out, "MODELING SESSION"), strings.Index(out, "DATA MODEL EVALUATION"))
}

func TestPrintReport_FailedFamily(t *testing.T) {
	r := successReport("Gaming Leaderboard", 7.6, 8.2)
	r.SessionEvaluation = nil
	r.Errors = map[string]string{dimensions.Process.String(): "judge unavailable"}

	var buf bytes.Buffer
	printReport(&buf, r)

	assert.Contains(t, buf.String(), "Modeling Session evaluation failed: judge unavailable")
}

func TestPrintReport_Skipped(t *testing.T) {
	r := models.NewReport("run-1", "Gaming Leaderboard")
	r.Status = models.StatusSkipped
	r.Message = "OPENAI_API_KEY is not set"

	var buf bytes.Buffer
	printReport(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "Evaluation Status: skipped")
	assert.Contains(t, out, "Message: OPENAI_API_KEY is not set")
	assert.NotContains(t, out, "Total Duration")
}

func TestPrintBatchSummary(t *testing.T) {
	failed := models.NewReport("run-3", "Broken")
	failed.Status = models.StatusError
	failed.Message = "conversation failed"

	reports := []*models.Report{
		successReport("Gaming Leaderboard", 8, 7),
		successReport("Online Shop", 6, 9),
		failed,
	}
	batch := &reporting.Batch{Summary: statistics.Summarize(reports, 1), Reports: reports}

	var buf bytes.Buffer
	printBatchSummary(&buf, batch)
	out := buf.String()

	assert.Contains(t, out, "BATCH RESULTS")
	assert.Contains(t, out, "Gaming Leaderboard")
	assert.Contains(t, out, "7.00     8.00")
	assert.Contains(t, out, "error     -        -")
	assert.Contains(t, out, "Evaluated 2 scenarios")
	assert.Contains(t, out, "Not evaluated: Broken")
}

func TestPrintScenarios_MarksDefault(t *testing.T) {
	var buf bytes.Buffer
	printScenarios(&buf, scenario.Builtin())

	assert.Contains(t, buf.String(), scenario.DefaultName+" (default)")
	assert.Contains(t, buf.String(), "Complexity:")
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	quiet := progressPrinter(&buf, false)
	quiet(orchestration.ProgressEvent{EventType: orchestration.EventRunStart, Scenario: "Shop"})
	quiet(orchestration.ProgressEvent{EventType: orchestration.EventPhase, Scenario: "Shop", Phase: orchestration.PhaseConversing})
	quiet(orchestration.ProgressEvent{EventType: orchestration.EventAgentPrompt, Details: map[string]any{"prompt": "hello"}})

	out := buf.String()
	assert.Contains(t, out, "▶ Shop")
	assert.NotContains(t, out, "[PROMPT]")
	assert.NotContains(t, out, string(orchestration.PhaseConversing))

	buf.Reset()
	verbose := progressPrinter(&buf, true)
	verbose(orchestration.ProgressEvent{EventType: orchestration.EventAgentPrompt, Details: map[string]any{"prompt": strings.Repeat("x", 300)}})
	require.Contains(t, buf.String(), "[PROMPT] "+strings.Repeat("x", 199)+"…")
}

func TestProgressPrinter_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	listener := progressPrinter(&buf, false)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listener(orchestration.ProgressEvent{EventType: orchestration.EventRunStart, Scenario: "Shop"})
		}()
	}
	wg.Wait()

	require.Equal(t, 20, strings.Count(buf.String(), "▶ Shop"))
}
