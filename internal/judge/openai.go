package judge

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	defaultJudgeTemperature = 0.1
	defaultJudgeMaxTokens   = 2000
)

// OpenAIConfig configures an OpenAI compatible judge endpoint.
type OpenAIConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	// Temperature and MaxTokens fall back to 0.1 and 2000 when zero.
	Temperature float64
	MaxTokens   int
}

// OpenAIEngine scores through any OpenAI compatible chat completion API and
// reads the outputs from a JSON reply.
type OpenAIEngine struct {
	llm         llms.Model
	temperature float64
	maxTokens   int
}

// NewOpenAIEngine builds an engine over langchaingo's OpenAI client.
func NewOpenAIEngine(cfg OpenAIConfig) (*OpenAIEngine, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	token := cfg.APIKey
	if token == "" {
		// the client requires a token even for endpoints that ignore it
		token = "unused"
	}
	opts = append(opts, openai.WithToken(token))

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}
	e := NewOpenAIEngineFromModel(llm)
	if cfg.Temperature > 0 {
		e.temperature = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		e.maxTokens = cfg.MaxTokens
	}
	return e, nil
}

// NewOpenAIEngineFromModel wraps an existing langchaingo model.
func NewOpenAIEngineFromModel(llm llms.Model) *OpenAIEngine {
	return &OpenAIEngine{
		llm:         llm,
		temperature: defaultJudgeTemperature,
		maxTokens:   defaultJudgeMaxTokens,
	}
}

func (e *OpenAIEngine) Evaluate(ctx context.Context, req *Request) (map[string]string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, e.llm, renderPrompt(req, respondWithJSON),
		llms.WithTemperature(e.temperature),
		llms.WithMaxTokens(e.maxTokens),
	)
	if err != nil {
		return nil, invocationError(req, fmt.Errorf("LLM generation failed: %w", err))
	}

	fields, err := parseFields(text)
	if err != nil {
		return nil, invocationError(req, err)
	}
	return fields, nil
}
