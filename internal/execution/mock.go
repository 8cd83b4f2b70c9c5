package execution

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockEngine is a scripted conversation engine for tests and dry runs.
// Each chat replays Replies in order; once they run out it answers with
// DefaultReply.
type MockEngine struct {
	// Replies are returned by successive Send calls of every chat. An error
	// value is returned as the Send error.
	Replies []any

	mu      sync.Mutex
	prompts []string
}

// NewMockEngine creates a mock engine with scripted replies.
func NewMockEngine(replies ...any) *MockEngine {
	return &MockEngine{Replies: replies}
}

func (m *MockEngine) Initialize(ctx context.Context) error {
	return nil
}

func (m *MockEngine) StartChat(ctx context.Context) (Chat, error) {
	return &mockChat{engine: m}, nil
}

func (m *MockEngine) Shutdown(ctx context.Context) error {
	return nil
}

// Prompts returns every prompt received, across all chats.
func (m *MockEngine) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

func (m *MockEngine) record(prompt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
}

type mockChat struct {
	engine *MockEngine
	turn   int
}

func (c *mockChat) Send(ctx context.Context, prompt string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.engine.record(prompt)

	i := c.turn
	c.turn++
	if i < len(c.engine.Replies) {
		if err, ok := c.engine.Replies[i].(error); ok {
			return nil, err
		}
		return c.engine.Replies[i], nil
	}
	return DefaultReply(prompt), nil
}

// DefaultReply answers a prompt with a canned message. Prompts that ask for
// the two guidance blocks get a well-formed two-section reply.
func DefaultReply(prompt string) *AssistantMessage {
	if !strings.Contains(prompt, "Output exactly two blocks") {
		return NewAssistantMessage("I gather requirements, list access patterns, then design keys and indexes around them.")
	}

	first, _, _ := strings.Cut(prompt, "\n")
	text := fmt.Sprintf("```markdown\n# DynamoDB Modeling Session (dynamodb_requirement.md)\n\nRequest: %s\n```\n\n"+
		"```markdown\n# DynamoDB Data Model (dynamodb_data_model.md)\n\nSingle table design.\n```", first)
	return NewAssistantMessage(text)
}
