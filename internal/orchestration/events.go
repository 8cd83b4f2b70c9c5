package orchestration

import (
	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/models"
)

// Phase is a state of the run state machine.
type Phase string

const (
	PhaseInit       Phase = "init"
	PhaseConversing Phase = "conversing"
	PhaseExtracting Phase = "extracting"
	// PhaseEvaluating covers both family evaluations, which run in parallel.
	PhaseEvaluating Phase = "evaluating"
	PhaseReporting  Phase = "reporting"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

const (
	EventRunStart           EventType = "run_start"
	EventPhase              EventType = "phase"
	EventAgentPrompt        EventType = "agent_prompt"
	EventAgentResponse      EventType = "agent_response"
	EventEvaluationComplete EventType = "evaluation_complete"
	EventRunComplete        EventType = "run_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType  EventType
	RunID      string
	Scenario   string
	Phase      Phase
	Family     dimensions.Family
	Status     models.ReportStatus
	DurationMs int64
	Details    map[string]any
}
