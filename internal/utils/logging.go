package utils

import (
	"context"
	"log/slog"

	copilot "github.com/github/copilot-sdk/go"
)

// SessionLogger returns a copilot event handler that logs every event at debug
// level, tagged with the component that owns the session.
func SessionLogger(component string) copilot.SessionEventHandler {
	return func(event copilot.SessionEvent) {
		logSessionEvent(component, event)
	}
}

func logSessionEvent(component string, event copilot.SessionEvent) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"component", component,
		"type", event.Type,
	}

	attrs = addIf(attrs, "content", event.Data.Content)
	attrs = addIf(attrs, "toolName", event.Data.ToolName)
	attrs = addIf(attrs, "toolCallID", event.Data.ToolCallID)
	attrs = addIf(attrs, "reasoningText", event.Data.ReasoningText)
	attrs = addIf(attrs, "message", event.Data.Message)

	slog.Debug("Session event", attrs...)
}

func addIf[T any](attrs []any, name string, v *T) []any {
	if v != nil {
		attrs = append(attrs, name, *v)
	}
	return attrs
}
