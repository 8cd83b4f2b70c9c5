package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spboyer/ddbeval/internal/cache"
	"github.com/spboyer/ddbeval/internal/execution"
	"github.com/spboyer/ddbeval/internal/judge"
	"github.com/spboyer/ddbeval/internal/knowledge"
	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/orchestration"
	"github.com/spboyer/ddbeval/internal/projectconfig"
	"github.com/spboyer/ddbeval/internal/scenario"
	"github.com/spboyer/ddbeval/internal/session"
	"github.com/spboyer/ddbeval/internal/utils"
)

const (
	engineCopilot = "copilot"
	engineOpenAI  = "openai"
	engineMock    = "mock"

	// mockJudgeScore is what --judge mock gives every dimension.
	mockJudgeScore = "8"
)

// knownModelPatterns are substrings of model names the evaluation has been
// run against.
var knownModelPatterns = []string{
	"bedrock/", "anthropic", "claude", "titan", "cohere", "ai21",
	"gpt", "gemini", "o1", "o3", "o4", "llama", "mistral",
}

// engineFlags are the flags run and batch share. Each one overrides the
// matching .ddbeval.yaml value only when it was given.
type engineFlags struct {
	engine        string
	model         string
	judge         string
	judgeModel    string
	judgeBaseURL  string
	cacheDir      string
	timeout       time.Duration
	knowledge     string
	sessionLog    bool
	scenarioFiles []string
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.engine, "engine", projectconfig.DefaultConversationEngine, "Conversation engine: copilot, mock")
	cmd.Flags().StringVar(&f.model, "model", projectconfig.DefaultConversationModel, "Model the assistant under evaluation runs on")
	cmd.Flags().StringVar(&f.judge, "judge", projectconfig.DefaultJudgeEngine, "Reasoning engine that scores the output: copilot, openai, mock")
	cmd.Flags().StringVar(&f.judgeModel, "judge-model", "", "Model for the reasoning engine (default: --model)")
	cmd.Flags().StringVar(&f.judgeBaseURL, "judge-base-url", "", "Base URL of an OpenAI compatible judge endpoint")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "", "Reuse reasoning engine answers stored in this directory (e.g. "+cache.DefaultDir+")")
	cmd.Flags().DurationVar(&f.timeout, "timeout", projectconfig.DefaultJudgeTimeout*time.Second, "Timeout for each judge evaluation")
	cmd.Flags().StringVar(&f.knowledge, "knowledge", "", "Path to the DynamoDB expert-knowledge document")
	cmd.Flags().BoolVar(&f.sessionLog, "session-log", false, "Write an NDJSON event log of the run")
	cmd.Flags().StringArrayVar(&f.scenarioFiles, "scenario-file", nil, "YAML file with extra scenarios (can be repeated)")
}

// loadConfig reads .ddbeval.yaml from the working directory upwards and
// applies the flags that were set.
func (f *engineFlags) loadConfig(cmd *cobra.Command) (*projectconfig.ProjectConfig, error) {
	cfg, err := projectconfig.Load(".")
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		slog.Debug("Loaded project config", "path", cfg.Path)
	}

	changed := cmd.Flags().Changed
	if changed("engine") {
		cfg.Conversation.Engine = f.engine
	}
	if changed("model") {
		cfg.Conversation.Model = f.model
	}
	if changed("judge") {
		cfg.Judge.Engine = f.judge
	}
	if changed("judge-model") {
		cfg.Judge.Model = f.judgeModel
	}
	if changed("judge-base-url") {
		cfg.Judge.BaseURL = f.judgeBaseURL
	}
	if changed("cache-dir") {
		cfg.Judge.CacheDir = f.cacheDir
	}
	if changed("timeout") {
		cfg.Judge.Timeout = int(f.timeout / time.Second)
	}
	if changed("knowledge") {
		cfg.Knowledge.Path = f.knowledge
	}
	if changed("session-log") {
		cfg.Output.SessionLog = utils.Ptr(f.sessionLog)
	}
	return cfg, nil
}

// loadCatalog returns the builtin scenarios plus any scenario files.
func (f *engineFlags) loadCatalog() (*scenario.Catalog, error) {
	catalog := scenario.Builtin()
	for _, path := range f.scenarioFiles {
		scs, err := scenario.LoadFile(path)
		if err != nil {
			return nil, err
		}
		catalog.Add(scs...)
	}
	return catalog, nil
}

// pipeline owns the engines and session log behind one runner.
type pipeline struct {
	runner       *orchestration.Runner
	conversation execution.ConversationEngine
	logger       session.Logger
	closers      []func() error
}

func newPipeline(ctx context.Context, cfg *projectconfig.ProjectConfig) (*pipeline, error) {
	p := &pipeline{logger: session.NopLogger{}}

	conv, err := newConversationEngine(cfg)
	if err != nil {
		return nil, err
	}
	if err := conv.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initializing conversation engine: %w", err)
	}
	p.conversation = conv

	judgeEngine, closer, err := newJudgeEngine(cfg)
	if err != nil {
		p.Close(ctx)
		return nil, err
	}
	if closer != nil {
		p.closers = append(p.closers, closer)
	}

	opts := []orchestration.RunnerOption{
		orchestration.WithModelID(cfg.Conversation.Model),
		orchestration.WithKnowledge(newKnowledge(cfg)),
		orchestration.WithPreflight(preflight(cfg)),
	}

	if cfg.Output.SessionLog != nil && *cfg.Output.SessionLog {
		path := session.DefaultLogPath(cfg.Output.SessionsDir)
		logger, err := session.NewJSONLogger(path)
		if err != nil {
			p.Close(ctx)
			return nil, err
		}
		p.logger = logger
		opts = append(opts, orchestration.WithProgress(session.Listener(logger)))
		slog.Info("Writing session log", "path", path)
	}

	p.runner = orchestration.NewRunner(conv, judgeEngine, opts...)
	return p, nil
}

// Close shuts the engines down and closes the session log.
func (p *pipeline) Close(ctx context.Context) {
	if p.conversation != nil {
		if err := p.conversation.Shutdown(ctx); err != nil {
			slog.Warn("Failed to shut down conversation engine", "error", err)
		}
	}
	for _, c := range p.closers {
		if err := c(); err != nil {
			slog.Warn("Failed to stop judge", "error", err)
		}
	}
	if err := p.logger.Close(); err != nil {
		slog.Warn("Failed to close session log", "error", err)
	}
}

func newConversationEngine(cfg *projectconfig.ProjectConfig) (execution.ConversationEngine, error) {
	switch cfg.Conversation.Engine {
	case engineCopilot:
		return execution.NewCopilotEngine(cfg.Conversation.Model, nil), nil
	case engineMock:
		return execution.NewMockEngine(), nil
	}
	return nil, fmt.Errorf("unknown conversation engine %q (supported: %s, %s)", cfg.Conversation.Engine, engineCopilot, engineMock)
}

// newJudgeEngine builds the configured reasoning engine wrapped in rate
// limiting and a per-call timeout. The returned closer may be nil.
func newJudgeEngine(cfg *projectconfig.ProjectConfig) (judge.Engine, func() error, error) {
	var (
		engine judge.Engine
		closer func() error
	)

	switch cfg.Judge.Engine {
	case engineCopilot:
		e := judge.NewCopilotEngine(cfg.JudgeModel(), nil)
		engine, closer = e, e.Close
	case engineOpenAI:
		e, err := judge.NewOpenAIEngine(judge.OpenAIConfig{
			BaseURL:     cfg.Judge.BaseURL,
			Model:       cfg.JudgeModel(),
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Temperature: cfg.Judge.Temperature,
			MaxTokens:   cfg.Judge.MaxTokens,
		})
		if err != nil {
			return nil, nil, err
		}
		engine = e
	case engineMock:
		// no pacing needed for canned answers
		return judge.NewMockEngine(mockJudgeScore), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown judge engine %q (supported: %s, %s, %s)", cfg.Judge.Engine, engineCopilot, engineOpenAI, engineMock)
	}

	engine = judge.WithRateLimit(engine, cfg.Judge.RequestsPerSecond, cfg.Judge.Burst)
	engine = judge.WithTimeout(engine, cfg.Judge.TimeoutDuration())
	// outermost, so hits skip the rate limiter
	engine = cache.Wrap(engine, cache.New(configRelative(cfg, cfg.Judge.CacheDir)), cfg.JudgeModel())
	return engine, closer, nil
}

// configRelative resolves a relative path from the config file against the
// file's directory.
func configRelative(cfg *projectconfig.ProjectConfig, path string) string {
	baseDir := ""
	if cfg.Path != "" {
		baseDir = filepath.Dir(cfg.Path)
	}
	return utils.ResolvePath(path, baseDir)
}

// newKnowledge resolves the knowledge paths relative to the config file.
func newKnowledge(cfg *projectconfig.ProjectConfig) knowledge.Source {
	return knowledge.NewFile(
		configRelative(cfg, cfg.Knowledge.Path),
		configRelative(cfg, cfg.Knowledge.Fallback),
	)
}

// preflight checks engine credentials before a run spends any calls.
func preflight(cfg *projectconfig.ProjectConfig) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cfg.Judge.Engine == engineOpenAI && cfg.Judge.BaseURL == "" && os.Getenv("OPENAI_API_KEY") == "" {
			return errors.New("OPENAI_API_KEY is not set and no judge base URL is configured")
		}
		return nil
	}
}

// knownModel reports whether name matches a known model family.
func knownModel(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, p := range knownModelPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// warnUnknownModel logs a warning for model names outside every known family.
// It never rejects the name.
func warnUnknownModel(name string) {
	if name != "" && !knownModel(name) {
		slog.Warn("Model name doesn't match any known model family", "model", name)
	}
}

// failedRuns counts reports in error status.
func failedRuns(reports []*models.Report) int {
	n := 0
	for _, r := range reports {
		if r.Status == models.StatusError {
			n++
		}
	}
	return n
}
