// Package session writes and reads NDJSON logs of evaluation runs.
package session

import (
	"log/slog"
	"time"

	"github.com/spboyer/ddbeval/internal/orchestration"
)

// EventType identifies the kind of session event.
type EventType string

const (
	EventRunStart           EventType = "run_start"
	EventPhase              EventType = "phase"
	EventAgentPrompt        EventType = "agent_prompt"
	EventAgentResponse      EventType = "agent_response"
	EventEvaluationComplete EventType = "evaluation_complete"
	EventRunComplete        EventType = "run_complete"
	EventError              EventType = "error"
)

// Event is a single timestamped entry in a session log.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	RunID     string         `json:"run_id,omitempty"`
	Scenario  string         `json:"scenario,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, data map[string]any) Event {
	return Event{
		Timestamp: time.Now().UTC(),
		Type:      t,
		Data:      data,
	}
}

// RunStartData returns event data for a run start.
func RunStartData(model string) map[string]any {
	return map[string]any{
		"model": model,
	}
}

// PhaseData returns event data for a phase transition.
func PhaseData(phase orchestration.Phase) map[string]any {
	return map[string]any{
		"phase": string(phase),
	}
}

// TurnData returns event data for one side of a conversation turn.
func TurnData(turn int, content string) map[string]any {
	return map[string]any{
		"turn":    turn,
		"content": content,
		"length":  len(content),
	}
}

// EvaluationData returns event data for a finished family evaluation.
func EvaluationData(family, status string, durationMs int64, details map[string]any) map[string]any {
	d := map[string]any{
		"family":      family,
		"status":      status,
		"duration_ms": durationMs,
	}
	for k, v := range details {
		d[k] = v
	}
	return d
}

// RunCompleteData returns event data for a run end.
func RunCompleteData(status string, durationMs int64, details map[string]any) map[string]any {
	d := map[string]any{
		"status":      status,
		"duration_ms": durationMs,
	}
	for k, v := range details {
		d[k] = v
	}
	return d
}

// ErrorData returns event data for an error.
func ErrorData(message string, details map[string]any) map[string]any {
	d := map[string]any{
		"message": message,
	}
	for k, v := range details {
		d[k] = v
	}
	return d
}

// FromProgress converts a runner progress event into a session event.
func FromProgress(ev orchestration.ProgressEvent) Event {
	var out Event
	switch ev.EventType {
	case orchestration.EventRunStart:
		model, _ := ev.Details["model"].(string) //nolint:errcheck
		out = NewEvent(EventRunStart, RunStartData(model))
	case orchestration.EventPhase:
		out = NewEvent(EventPhase, PhaseData(ev.Phase))
	case orchestration.EventAgentPrompt:
		turn, _ := ev.Details["turn"].(int)        //nolint:errcheck
		prompt, _ := ev.Details["prompt"].(string) //nolint:errcheck
		out = NewEvent(EventAgentPrompt, TurnData(turn, prompt))
	case orchestration.EventAgentResponse:
		turn, _ := ev.Details["turn"].(int)            //nolint:errcheck
		response, _ := ev.Details["response"].(string) //nolint:errcheck
		out = NewEvent(EventAgentResponse, TurnData(turn, response))
	case orchestration.EventEvaluationComplete:
		out = NewEvent(EventEvaluationComplete, EvaluationData(ev.Family.String(), string(ev.Status), ev.DurationMs, ev.Details))
	case orchestration.EventRunComplete:
		out = NewEvent(EventRunComplete, RunCompleteData(string(ev.Status), ev.DurationMs, ev.Details))
	default:
		out = NewEvent(EventType(ev.EventType), ev.Details)
	}
	out.RunID = ev.RunID
	out.Scenario = ev.Scenario
	return out
}

// Listener returns a progress listener that writes every event to logger.
// Write failures are logged and otherwise ignored.
func Listener(logger Logger) orchestration.ProgressListener {
	return func(ev orchestration.ProgressEvent) {
		if err := logger.Log(FromProgress(ev)); err != nil {
			slog.Warn("Failed to write session event", "type", ev.EventType, "error", err)
		}
	}
}
