package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ConversationEngine is the assistant under evaluation.
type ConversationEngine interface {
	// Initialize sets up the engine
	Initialize(ctx context.Context) error

	// StartChat opens a conversation that keeps history across Send calls.
	StartChat(ctx context.Context) (Chat, error)

	// Shutdown cleans up resources
	Shutdown(ctx context.Context) error
}

// Chat is one ongoing conversation with the assistant.
type Chat interface {
	// Send delivers a user prompt and returns the assistant's reply. The reply
	// may be a string or a structured value; use ToText to normalize it.
	Send(ctx context.Context, prompt string) (any, error)
}

// ContentBlock is one text part of an assistant message.
type ContentBlock struct {
	Text string `json:"text"`
}

// AssistantMessage is the structured reply produced by the engines in this
// package: {"role": "assistant", "content": [{"text": "..."}]}
type AssistantMessage struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// NewAssistantMessage wraps text in a single content block.
func NewAssistantMessage(text string) *AssistantMessage {
	return &AssistantMessage{Role: "assistant", Content: []ContentBlock{{Text: text}}}
}

// Message returns the serialized message, which is what gets recorded in the
// transcript and handed to section extraction.
func (m *AssistantMessage) Message() string {
	b, err := json.Marshal(m)
	if err != nil {
		return m.Text()
	}
	return string(b)
}

// Text joins the text of every content block.
func (m *AssistantMessage) Text() string {
	var b strings.Builder
	for _, c := range m.Content {
		b.WriteString(c.Text)
	}
	return b.String()
}

type messager interface{ Message() string }
type texter interface{ Text() string }
type contenter interface{ Content() string }

// ToText normalizes an engine reply to text. It checks, in order: a string,
// a Message/Text/Content method, a map with a message/text/content string
// key, then falls back to fmt.Sprint. It never panics.
func ToText(v any) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case messager:
		return t.Message()
	case texter:
		return t.Text()
	case contenter:
		return t.Content()
	case map[string]string:
		for _, key := range []string{"message", "text", "content"} {
			if s, ok := t[key]; ok {
				return s
			}
		}
	case map[string]any:
		for _, key := range []string{"message", "text", "content"} {
			if s, ok := t[key].(string); ok {
				return s
			}
		}
	}
	return fmt.Sprint(v)
}
