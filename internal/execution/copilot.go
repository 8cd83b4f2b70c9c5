package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	copilot "github.com/github/copilot-sdk/go"

	"github.com/spboyer/ddbeval/internal/utils"
)

// CopilotEngine drives the assistant under evaluation through the GitHub
// Copilot SDK.
type CopilotEngine struct {
	modelID    string
	workingDir string

	client CopilotClient

	startOnce sync.Once
	startErr  error
}

// CopilotEngineOptions customizes NewCopilotEngine.
type CopilotEngineOptions struct {
	// WorkingDir is the directory the assistant's tools operate in.
	WorkingDir string
	// NewCopilotClient replaces the real client, for tests.
	NewCopilotClient func(clientOptions *copilot.ClientOptions) CopilotClient
}

// NewCopilotEngine creates an engine. modelID may be blank, in which case the
// copilot CLI picks its own default model.
func NewCopilotEngine(modelID string, options *CopilotEngineOptions) *CopilotEngine {
	if options == nil {
		options = &CopilotEngineOptions{}
	}

	clientOptions := &copilot.ClientOptions{
		LogLevel:  "error",
		AutoStart: copilot.Bool(false),
	}

	newClient := options.NewCopilotClient
	if newClient == nil {
		newClient = NewCopilotClient
	}

	return &CopilotEngine{
		modelID:    modelID,
		workingDir: options.WorkingDir,
		client:     newClient(clientOptions),
	}
}

// Initialize is a no-op; the client starts on first use.
func (e *CopilotEngine) Initialize(ctx context.Context) error {
	return ctx.Err()
}

// StartChat creates a fresh copilot session.
func (e *CopilotEngine) StartChat(ctx context.Context) (Chat, error) {
	e.startOnce.Do(func() {
		// AutoStart misbehaves when several goroutines race to start the client.
		e.startErr = e.client.Start(ctx)
	})

	if e.startErr != nil {
		return nil, fmt.Errorf("copilot failed to start: %w", e.startErr)
	}

	session, err := e.client.CreateSession(ctx, &copilot.SessionConfig{
		Model:               e.modelID,
		OnPermissionRequest: AllowAllTools,
		WorkingDirectory:    e.workingDir,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Debug("Started conversation session", "sessionID", session.SessionID(), "model", e.modelID)
	return &copilotChat{session: session}, nil
}

// Shutdown stops the copilot client.
func (e *CopilotEngine) Shutdown(ctx context.Context) error {
	if err := e.client.Stop(); err != nil {
		slog.Info("failed to stop client", "error", err)
	}
	return nil
}

type copilotChat struct {
	session CopilotSession
}

func (c *copilotChat) Send(ctx context.Context, prompt string) (any, error) {
	collector := NewSessionEventsCollector()

	unsubscribe := c.session.On(collector.On)
	defer unsubscribe()

	unsubscribe = c.session.On(utils.SessionLogger("conversation"))
	defer unsubscribe()

	resp, err := c.session.SendAndWait(ctx, copilot.MessageOptions{
		Prompt: prompt,
	})

	if err != nil {
		return nil, fmt.Errorf("copilot session %s: %w", c.session.SessionID(), err)
	}

	if msg := collector.ErrorMessage(); msg != "" {
		return nil, errors.New(msg)
	}

	text := collector.Output()
	if text == "" && resp != nil && resp.Data.Content != nil {
		text = *resp.Data.Content
	}

	if tools := collector.ToolsUsed(); len(tools) > 0 {
		slog.Debug("Assistant used tools", "tools", tools)
	}

	return NewAssistantMessage(text), nil
}
