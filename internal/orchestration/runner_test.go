package orchestration

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/execution"
	"github.com/spboyer/ddbeval/internal/judge"
	"github.com/spboyer/ddbeval/internal/knowledge"
	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/quality"
	"github.com/spboyer/ddbeval/internal/scenario"
)

var (
	designScores = map[string]string{
		"completeness_score":               "9",
		"technical_accuracy_score":         "Score: 8/10",
		"access_pattern_coverage_score":    "7",
		"scalability_considerations_score": "8.5",
		"cost_optimization_score":          "6",
		"overall_assessment":               "solid model",
	}
	processScores = map[string]string{
		"requirements_engineering_score": "8",
		"access_pattern_analysis_score":  "8",
		"methodology_adherence_score":    "7",
		"technical_reasoning_score":      "6",
		"process_documentation_score":    "9",
		"overall_session_assessment":     "well run",
	}
)

// stubJudge answers each family with fixed outputs and fails the families in
// failing.
type stubJudge struct {
	mu       sync.Mutex
	requests []*judge.Request
	failing  map[string]error
}

func (s *stubJudge) Evaluate(_ context.Context, req *judge.Request) (map[string]string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if err := s.failing[req.Name]; err != nil {
		return nil, err
	}
	if req.Name == dimensions.Design.String() {
		return designScores, nil
	}
	return processScores, nil
}

func (s *stubJudge) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// tickingClock advances one second per read.
type tickingClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func testScenario(t *testing.T) models.Scenario {
	t.Helper()
	s, err := scenario.Builtin().Get(scenario.DefaultName)
	require.NoError(t, err)
	return s
}

func newTestRunner(conv execution.ConversationEngine, j judge.Engine, opts ...RunnerOption) *Runner {
	clock := &tickingClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]RunnerOption{
		WithKnowledge(knowledge.Static("expert knowledge")),
		WithClock(clock.Now),
		WithModelID("gpt-4o"),
	}, opts...)
	return NewRunner(conv, j, opts...)
}

func TestRun_EndToEnd(t *testing.T) {
	conv := execution.NewMockEngine()
	j := &stubJudge{}

	var phases []Phase
	var mu sync.Mutex
	r := newTestRunner(conv, j, WithProgress(func(e ProgressEvent) {
		if e.EventType == EventPhase {
			mu.Lock()
			phases = append(phases, e.Phase)
			mu.Unlock()
		}
	}))

	report := r.Run(context.Background(), testScenario(t))

	require.Equal(t, models.StatusSuccess, report.Status)
	require.Empty(t, report.Message)
	require.Empty(t, report.Errors)
	require.Equal(t, "Simple E-commerce Schema", report.Scenario)
	require.Equal(t, "gpt-4o", report.ModelUsed)
	require.NotEmpty(t, report.RunID)
	require.Equal(t, dimensions.RubricVersion, report.RubricVersion)

	// conversation
	require.Len(t, report.Conversation, 4)
	for i, turn := range report.Conversation {
		require.Equal(t, i+1, turn.TurnNumber)
		if i%2 == 0 {
			require.Equal(t, models.RoleUser, turn.Role)
		} else {
			require.Equal(t, models.RoleAssistant, turn.Role)
		}
		if i > 0 {
			require.Greater(t, turn.Timestamp, report.Conversation[i-1].Timestamp)
		}
	}
	require.Equal(t, scenario.Opener, report.Conversation[0].Content)
	require.Equal(t, scenario.ComprehensiveMessage(testScenario(t)), report.Conversation[2].Content)
	require.Equal(t, []string{scenario.Opener, scenario.ComprehensiveMessage(testScenario(t))}, conv.Prompts())

	// sections
	require.Contains(t, report.ModelingSession, "# DynamoDB Modeling Session")
	require.Equal(t, "# DynamoDB Data Model (dynamodb_data_model.md)\n\nSingle table design.", report.DataModel)

	// evaluations
	require.NotNil(t, report.ModelEvaluation)
	require.NotNil(t, report.SessionEvaluation)
	require.Equal(t, math.Round((9+8+7+8.5+6)/5*100)/100, report.ModelEvaluation.OverallScore)
	require.Equal(t, math.Round((8+8+7+6+9)/5.0*100)/100, report.SessionEvaluation.OverallScore)
	require.Equal(t, quality.Good, report.ModelEvaluation.QualityLevel)
	require.Equal(t, "solid model", report.ModelEvaluation.Justifications["overall"])
	require.Equal(t, models.QualityAssessment{
		SessionQualityLevel: quality.Good,
		ModelQualityLevel:   quality.Good,
	}, report.QualityAssessment)

	// judge inputs
	require.Equal(t, 2, j.calls())
	for _, req := range j.requests {
		require.Equal(t, scenario.RequirementSummary(testScenario(t)), req.Inputs[0].Value)
		require.Equal(t, "expert knowledge", req.Inputs[2].Value)
		if req.Name == "design" {
			require.Equal(t, report.DataModel, req.Inputs[1].Value)
		} else {
			require.Equal(t, report.ModelingSession, req.Inputs[1].Value)
		}
	}

	// metadata
	md := report.PerformanceMetadata
	require.Greater(t, md.ConversationDuration, 0.0)
	require.Greater(t, md.SessionEvaluationDuration, 0.0)
	require.Greater(t, md.ModelEvaluationDuration, 0.0)
	require.GreaterOrEqual(t, md.TotalDuration, md.ConversationDuration)
	_, err := time.Parse(time.RFC3339Nano, report.Timestamp)
	require.NoError(t, err)

	require.Equal(t, []Phase{PhaseConversing, PhaseExtracting, PhaseEvaluating, PhaseReporting}, phases)
}

func TestRun_ExtractionFailure(t *testing.T) {
	j := &stubJudge{}
	conv := execution.NewMockEngine("hello", execution.NewAssistantMessage("Here is a design with no fenced blocks."))

	report := newTestRunner(conv, j).Run(context.Background(), testScenario(t))

	require.Equal(t, models.StatusSuccess, report.Status)
	require.Contains(t, report.Message, "wrong_section_count")
	require.Nil(t, report.ModelEvaluation)
	require.Nil(t, report.SessionEvaluation)
	require.Empty(t, report.ModelingSession)
	require.Empty(t, report.DataModel)
	require.Len(t, report.Conversation, 4)
	require.Equal(t, 0, j.calls())
	require.Equal(t, quality.Unknown, report.QualityAssessment.ModelQualityLevel)
}

func TestRun_ConversationFailure(t *testing.T) {
	j := &stubJudge{}
	conv := execution.NewMockEngine("hello", errors.New("throttled"))

	report := newTestRunner(conv, j).Run(context.Background(), testScenario(t))

	require.Equal(t, models.StatusSuccess, report.Status)
	require.Contains(t, report.Message, "malformed")
	require.Len(t, report.Conversation, 3, "the unanswered prompt is still recorded")
	require.Nil(t, report.ModelEvaluation)
	require.Nil(t, report.SessionEvaluation)
	require.Equal(t, 0, j.calls())
}

func TestRun_OneFamilyFails(t *testing.T) {
	j := &stubJudge{failing: map[string]error{
		"design": errors.New("engine timeout"),
	}}

	report := newTestRunner(execution.NewMockEngine(), j).Run(context.Background(), testScenario(t))

	require.Equal(t, models.StatusSuccess, report.Status)
	require.Nil(t, report.ModelEvaluation)
	require.NotNil(t, report.SessionEvaluation)
	require.Contains(t, report.Errors["design"], "engine timeout")
	require.Contains(t, report.Errors["design"], judge.ErrEngineInvocation.Error())
	require.NotContains(t, report.Errors, "process")
	require.Equal(t, quality.Unknown, report.QualityAssessment.ModelQualityLevel)
	require.Equal(t, quality.Good, report.QualityAssessment.SessionQualityLevel)
}

func TestRun_AllFamiliesFail(t *testing.T) {
	j := &stubJudge{failing: map[string]error{
		"design":  errors.New("down"),
		"process": errors.New("down"),
	}}

	var final Phase
	r := newTestRunner(execution.NewMockEngine(), j, WithProgress(func(e ProgressEvent) {
		if e.EventType == EventRunComplete {
			final = e.Phase
		}
	}))

	report := r.Run(context.Background(), testScenario(t))

	require.Equal(t, models.StatusError, report.Status)
	require.Len(t, report.Errors, 2)
	require.Contains(t, report.Message, "Evaluation failed")
	require.Equal(t, PhaseFailed, final)
}

func TestRun_PreflightSkips(t *testing.T) {
	conv := execution.NewMockEngine()
	j := &stubJudge{}

	r := newTestRunner(conv, j, WithPreflight(func(context.Context) error {
		return errors.New("no credentials")
	}))

	report := r.Run(context.Background(), testScenario(t))

	require.Equal(t, models.StatusSkipped, report.Status)
	require.Equal(t, "Skipped: no credentials", report.Message)
	require.Empty(t, conv.Prompts())
	require.Equal(t, 0, j.calls())
	require.NotEmpty(t, report.Timestamp)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := newTestRunner(execution.NewMockEngine(), &stubJudge{}).Run(ctx, testScenario(t))

	require.Equal(t, models.StatusSuccess, report.Status)
	require.Contains(t, report.Message, "malformed")
	require.Contains(t, report.Message, "Run cancelled (context canceled)")
	require.Nil(t, report.ModelEvaluation)
	require.NotNil(t, report.Conversation)
}

func TestRun_PanicBecomesErrorReport(t *testing.T) {
	// the third clock read happens while the first turn is recorded
	calls := 0
	clock := func() time.Time {
		calls++
		if calls == 3 {
			panic("clock broke")
		}
		return time.Unix(int64(calls), 0)
	}

	report := NewRunner(execution.NewMockEngine(), &stubJudge{},
		WithKnowledge(knowledge.Static("")),
		WithClock(clock),
	).Run(context.Background(), testScenario(t))

	require.Equal(t, models.StatusError, report.Status)
	require.Contains(t, report.Message, "clock broke")
	require.NotEmpty(t, report.Timestamp)
}

func TestRunBatch(t *testing.T) {
	j := &stubJudge{}
	scs := scenario.Builtin().List()

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	r := newTestRunner(execution.NewMockEngine(), j, WithProgress(func(e ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		switch e.EventType {
		case EventRunStart:
			inFlight++
			maxInFlight = max(maxInFlight, inFlight)
		case EventRunComplete:
			inFlight--
		}
	}))

	reports := r.RunBatch(context.Background(), scs, 2)

	require.Len(t, reports, len(scs))
	for i, rep := range reports {
		require.Equal(t, scs[i].Name, rep.Scenario)
		require.Equal(t, models.StatusSuccess, rep.Status)
	}
	require.LessOrEqual(t, maxInFlight, 2)
	require.Equal(t, 2*len(scs), j.calls())

	ids := []string{}
	for _, rep := range reports {
		ids = append(ids, rep.RunID)
	}
	slices.Sort(ids)
	require.Len(t, slices.Compact(ids), len(scs))
}
