package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spboyer/ddbeval/internal/aggregate"
	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/evaluator"
	"github.com/spboyer/ddbeval/internal/execution"
	"github.com/spboyer/ddbeval/internal/judge"
	"github.com/spboyer/ddbeval/internal/knowledge"
	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/scenario"
	"github.com/spboyer/ddbeval/internal/sections"
)

// Runner drives one scenario at a time through conversation, extraction,
// evaluation and reporting. A Runner holds no per-run state, so Run may be
// called concurrently.
type Runner struct {
	conversation execution.ConversationEngine
	judge        judge.Engine
	knowledge    knowledge.Source
	evaluator    *evaluator.Evaluator

	modelID   string
	now       func() time.Time
	preflight func(ctx context.Context) error

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithKnowledge sets the expert-knowledge handle shared by every run.
func WithKnowledge(src knowledge.Source) RunnerOption {
	return func(r *Runner) {
		r.knowledge = src
	}
}

// WithModelID records the conversation model in reports.
func WithModelID(id string) RunnerOption {
	return func(r *Runner) {
		r.modelID = id
	}
}

// WithClock replaces time.Now. The clock is read from several goroutines.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// WithPreflight sets a check that runs before any engine call. When it fails
// the run is reported as skipped.
func WithPreflight(check func(ctx context.Context) error) RunnerOption {
	return func(r *Runner) {
		r.preflight = check
	}
}

// WithProgress registers a progress listener.
func WithProgress(listener ProgressListener) RunnerOption {
	return func(r *Runner) {
		r.listeners = append(r.listeners, listener)
	}
}

// NewRunner creates a runner. The caller owns both engines and is
// responsible for initializing and shutting them down.
func NewRunner(conversation execution.ConversationEngine, judgeEngine judge.Engine, opts ...RunnerOption) *Runner {
	r := &Runner{
		conversation: conversation,
		judge:        judgeEngine,
		now:          time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	if r.knowledge == nil {
		r.knowledge = knowledge.NewFile(knowledge.DefaultPath, knowledge.DefaultFallback())
	}
	r.evaluator = evaluator.New(r.judge, r.knowledge)
	return r
}

// OnProgress registers a progress listener
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// run carries the state of a single scenario run.
type run struct {
	*Runner
	scenario models.Scenario
	report   *models.Report
	start    time.Time
	phase    Phase
}

func (r *run) enter(phase Phase) {
	slog.Debug("Run phase", "runID", r.report.RunID, "from", r.phase, "to", phase)
	r.phase = phase
	r.notifyProgress(ProgressEvent{
		EventType: EventPhase,
		RunID:     r.report.RunID,
		Scenario:  r.scenario.Name,
		Phase:     phase,
	})
}

// Run evaluates one scenario. It never fails: every path, including engine
// failures and cancellation, ends in a report with an explicit status.
func (r *Runner) Run(ctx context.Context, sc models.Scenario) (report *models.Report) {
	rn := &run{
		Runner:   r,
		scenario: sc,
		report:   models.NewReport(models.NewRunID(), sc.Name),
		start:    r.now(),
		phase:    PhaseInit,
	}
	rn.report.ModelUsed = r.modelID

	defer func() {
		if p := recover(); p != nil {
			slog.Error("Run panicked", "runID", rn.report.RunID, "panic", p, "stack", string(debug.Stack()))
			rn.report.Status = models.StatusError
			rn.report.Message = fmt.Sprintf("Evaluation failed: %v", p)
		}
		rn.finish()
		report = rn.report
	}()

	r.notifyProgress(ProgressEvent{
		EventType: EventRunStart,
		RunID:     rn.report.RunID,
		Scenario:  sc.Name,
		Phase:     PhaseInit,
		Details:   map[string]any{"model": r.modelID},
	})

	if r.preflight != nil {
		if err := r.preflight(ctx); err != nil {
			slog.Warn("Skipping evaluation", "scenario", sc.Name, "error", err)
			rn.report.Status = models.StatusSkipped
			rn.report.Message = fmt.Sprintf("Skipped: %v", err)
			return
		}
	}

	rn.enter(PhaseConversing)
	payload := rn.converse(ctx)

	rn.enter(PhaseExtracting)
	extraction := sections.Extract(payload)
	if !extraction.OK() {
		slog.Warn("Could not extract guidance sections", "scenario", sc.Name, "outcome", extraction.Outcome, "detail", extraction.Detail)
		rn.report.Status = models.StatusSuccess
		rn.report.Message = fmt.Sprintf("Section extraction failed (%s): %s", extraction.Outcome, extraction.Detail)
		if err := ctx.Err(); err != nil {
			rn.report.Message = fmt.Sprintf("Run cancelled (%v). %s", err, rn.report.Message)
		}
		return
	}
	rn.report.ModelingSession = extraction.Session
	rn.report.DataModel = extraction.Design

	rn.enter(PhaseEvaluating)
	rn.evaluate(ctx, extraction)

	rn.report.Status = models.StatusSuccess
	if len(rn.report.Errors) == len(dimensions.Families()) {
		rn.report.Status = models.StatusError
		rn.report.Message = "Evaluation failed: every dimension family evaluation failed"
	}
	return
}

func (r *run) finish() {
	r.enter(PhaseReporting)

	end := r.now()
	r.report.PerformanceMetadata.TotalDuration = end.Sub(r.start).Seconds()
	r.report.Timestamp = models.FormatTimestamp(end)

	final := PhaseDone
	if r.report.Status == models.StatusError {
		final = PhaseFailed
	}
	r.phase = final

	r.notifyProgress(ProgressEvent{
		EventType:  EventRunComplete,
		RunID:      r.report.RunID,
		Scenario:   r.scenario.Name,
		Phase:      final,
		Status:     r.report.Status,
		DurationMs: end.Sub(r.start).Milliseconds(),
		Details:    runDetails(r.report),
	})
}

// converse holds the two-exchange conversation and returns the final
// assistant payload. A failing collaborator does not abort the run: the
// error text becomes the payload and extraction rejects it.
func (r *run) converse(ctx context.Context) string {
	start := r.now()
	conv := models.NewConversation(func() float64 { return models.UnixSeconds(r.now()) })

	payload, err := r.exchange(ctx, conv)
	if err != nil {
		slog.Error("Conversation failed", "scenario", r.scenario.Name, "turns", conv.Len(), "error", err)
		payload = fmt.Sprintf("Error during conversation: %v", err)
	}

	r.report.Conversation = conv.Turns()
	r.report.PerformanceMetadata.ConversationDuration = r.now().Sub(start).Seconds()
	return payload
}

func (r *run) exchange(ctx context.Context, conv *models.Conversation) (string, error) {
	chat, err := r.conversation.StartChat(ctx)
	if err != nil {
		return "", fmt.Errorf("starting conversation: %w", err)
	}

	var reply string
	for _, prompt := range []string{scenario.Opener, scenario.ComprehensiveMessage(r.scenario)} {
		turn := conv.Append(models.RoleUser, prompt)
		r.notifyProgress(ProgressEvent{
			EventType: EventAgentPrompt,
			RunID:     r.report.RunID,
			Scenario:  r.scenario.Name,
			Phase:     PhaseConversing,
			Details:   map[string]any{"turn": turn.TurnNumber, "prompt": prompt},
		})

		resp, err := chat.Send(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("turn %d: %w", turn.TurnNumber+1, err)
		}

		reply = execution.ToText(resp)
		turn = conv.Append(models.RoleAssistant, reply)
		r.notifyProgress(ProgressEvent{
			EventType: EventAgentResponse,
			RunID:     r.report.RunID,
			Scenario:  r.scenario.Name,
			Phase:     PhaseConversing,
			Details:   map[string]any{"turn": turn.TurnNumber, "response": reply},
		})
	}
	return reply, nil
}

type familyOutcome struct {
	result   *models.EvaluationResult
	err      error
	duration time.Duration
}

// evaluate scores both families concurrently. A failing family does not
// cancel the other.
func (r *run) evaluate(ctx context.Context, extraction sections.Extraction) {
	summary := scenario.RequirementSummary(r.scenario)
	families := dimensions.Families()
	outcomes := make([]familyOutcome, len(families))

	var g errgroup.Group
	for i, family := range families {
		section := extraction.Design
		if family == dimensions.Process {
			section = extraction.Session
		}

		g.Go(func() error {
			start := r.now()
			raw, err := r.evaluator.Evaluate(ctx, family, summary, section)
			outcomes[i].duration = r.now().Sub(start)
			if err != nil {
				outcomes[i].err = err
				return nil
			}

			res := aggregate.Aggregate(family, raw)
			outcomes[i].result = &res
			return nil
		})
	}
	_ = g.Wait()

	for i, family := range families {
		o := outcomes[i]

		switch family {
		case dimensions.Design:
			r.report.PerformanceMetadata.ModelEvaluationDuration = o.duration.Seconds()
		case dimensions.Process:
			r.report.PerformanceMetadata.SessionEvaluationDuration = o.duration.Seconds()
		}

		event := ProgressEvent{
			EventType:  EventEvaluationComplete,
			RunID:      r.report.RunID,
			Scenario:   r.scenario.Name,
			Phase:      PhaseEvaluating,
			Family:     family,
			DurationMs: o.duration.Milliseconds(),
		}

		if o.err != nil {
			slog.Warn("Evaluation failed", "scenario", r.scenario.Name, "family", family, "error", o.err)
			if r.report.Errors == nil {
				r.report.Errors = map[string]string{}
			}
			r.report.Errors[family.String()] = o.err.Error()
			event.Status = models.StatusError
			event.Details = map[string]any{"error": o.err.Error()}
		} else {
			r.report.SetEvaluation(o.result)
			event.Status = models.StatusSuccess
			event.Details = map[string]any{
				"overall_score": o.result.OverallScore,
				"quality_level": string(o.result.QualityLevel),
			}
		}
		r.notifyProgress(event)
	}
}

func runDetails(report *models.Report) map[string]any {
	d := map[string]any{}
	for _, f := range dimensions.Families() {
		if res := report.Evaluation(f); res != nil {
			d[f.String()+"_score"] = res.OverallScore
		}
	}
	if report.Message != "" {
		d["message"] = report.Message
	}
	return d
}
