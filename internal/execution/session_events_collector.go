package execution

import (
	"strings"
	"sync"

	copilot "github.com/github/copilot-sdk/go"
)

const sessionFailedUnknown = "session failed with unknown error"

// SessionEventsCollector gathers the assistant output and tool activity of a
// single SendAndWait exchange.
type SessionEventsCollector struct {
	mu          sync.Mutex
	outputParts []string
	toolsUsed   []string
	errorMsg    string
}

// NewSessionEventsCollector creates a new SessionEventsCollector.
func NewSessionEventsCollector() *SessionEventsCollector {
	return &SessionEventsCollector{}
}

// On is a callback, intended to be passed to [copilot.Session.On] to receive
// events in real-time.
func (coll *SessionEventsCollector) On(event copilot.SessionEvent) {
	coll.mu.Lock()
	defer coll.mu.Unlock()

	switch event.Type {
	case copilot.AssistantMessage:
		if event.Data.Content != nil {
			coll.outputParts = append(coll.outputParts, *event.Data.Content)
		}
	case copilot.ToolExecutionStart:
		// report_intent always precedes the real tool call and carries nothing useful.
		if event.Data.ToolName != nil && *event.Data.ToolName != "report_intent" {
			coll.toolsUsed = append(coll.toolsUsed, *event.Data.ToolName)
		}
	case copilot.SessionError:
		if event.Data.Message == nil || *event.Data.Message == "" {
			coll.errorMsg = sessionFailedUnknown
		} else {
			coll.errorMsg = *event.Data.Message
		}
	}
}

// Output joins the assistant messages, separated by blank lines.
func (coll *SessionEventsCollector) Output() string {
	coll.mu.Lock()
	defer coll.mu.Unlock()

	var parts []string
	for _, p := range coll.outputParts {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}

// ToolsUsed lists tool names in invocation order.
func (coll *SessionEventsCollector) ToolsUsed() []string {
	coll.mu.Lock()
	defer coll.mu.Unlock()
	return append([]string(nil), coll.toolsUsed...)
}

// ErrorMessage returns the session error, if any.
func (coll *SessionEventsCollector) ErrorMessage() string {
	coll.mu.Lock()
	defer coll.mu.Unlock()
	return coll.errorMsg
}
