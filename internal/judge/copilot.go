package judge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	copilot "github.com/github/copilot-sdk/go"
	"github.com/go-viper/mapstructure/v2"

	"github.com/spboyer/ddbeval/internal/execution"
	"github.com/spboyer/ddbeval/internal/utils"
)

const submitToolName = "submit_evaluation"

// CopilotEngine asks a Copilot model to score content and collects the
// result through a tool call, so the outputs arrive as structured arguments
// instead of free text.
type CopilotEngine struct {
	modelID string
	client  execution.CopilotClient

	startOnce sync.Once
	startErr  error
}

type CopilotEngineOptions struct {
	// NewCopilotClient replaces the real client, for tests.
	NewCopilotClient func(clientOptions *copilot.ClientOptions) execution.CopilotClient
}

func NewCopilotEngine(modelID string, options *CopilotEngineOptions) *CopilotEngine {
	if options == nil {
		options = &CopilotEngineOptions{}
	}

	newClient := options.NewCopilotClient
	if newClient == nil {
		newClient = execution.NewCopilotClient
	}

	return &CopilotEngine{
		modelID: modelID,
		client: newClient(&copilot.ClientOptions{
			LogLevel:  "error",
			AutoStart: copilot.Bool(false),
		}),
	}
}

func (e *CopilotEngine) Evaluate(ctx context.Context, req *Request) (map[string]string, error) {
	e.startOnce.Do(func() {
		e.startErr = e.client.Start(ctx)
	})

	if e.startErr != nil {
		return nil, invocationError(req, fmt.Errorf("copilot failed to start: %w", e.startErr))
	}

	sub := &submission{}

	session, err := e.client.CreateSession(ctx, &copilot.SessionConfig{
		Model:               e.modelID,
		Tools:               []copilot.Tool{sub.tool(req)},
		OnPermissionRequest: execution.AllowAllTools,
	})
	if err != nil {
		return nil, invocationError(req, fmt.Errorf("failed to create judge session: %w", err))
	}

	unsubscribe := session.On(utils.SessionLogger("judge/" + req.Name))
	defer unsubscribe()

	resp, err := session.SendAndWait(ctx, copilot.MessageOptions{
		Prompt: renderPrompt(req, respondWithTool),
		Mode:   "enqueue",
	})
	if err != nil {
		return nil, invocationError(req, fmt.Errorf("copilot session %s: %w", session.SessionID(), err))
	}

	if fields, ok := sub.result(); ok {
		return fields, nil
	}

	// Some models answer inline despite the instructions.
	if resp != nil && resp.Data.Content != nil {
		if fields, err := parseFields(*resp.Data.Content); err == nil {
			slog.Debug("Judge answered without the submit tool", "evaluation", req.Name)
			return fields, nil
		}
	}

	return nil, invocationError(req, fmt.Errorf("judge never called %s", submitToolName))
}

// Close stops the copilot client.
func (e *CopilotEngine) Close() error {
	return e.client.Stop()
}

// submission receives the tool call. The last call wins.
type submission struct {
	mu     sync.Mutex
	fields map[string]string
}

func (s *submission) tool(req *Request) copilot.Tool {
	properties := map[string]any{
		ReasoningField: map[string]any{
			"type":        "string",
			"description": "Your step by step reasoning",
		},
	}
	required := []string{ReasoningField}

	for _, out := range req.Outputs {
		properties[out.Name] = map[string]any{
			"type":        "string",
			"description": out.Description,
		}
		required = append(required, out.Name)
	}

	return copilot.Tool{
		Name:        submitToolName,
		Description: "Submit the completed evaluation. Call this exactly once with every field filled in.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
		Handler: func(invocation copilot.ToolInvocation) (copilot.ToolResult, error) {
			var args map[string]any

			if err := mapstructure.Decode(invocation.Arguments, &args); err != nil {
				slog.Warn("Unreadable evaluation submission", "evaluation", req.Name, "error", err)
				return copilot.ToolResult{}, nil
			}

			s.mu.Lock()
			s.fields = stringify(args)
			s.mu.Unlock()
			return copilot.ToolResult{}, nil
		},
	}
}

func (s *submission) result() (map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields, s.fields != nil
}
