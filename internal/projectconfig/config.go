// Package projectconfig provides the ProjectConfig struct and loader for
// .ddbeval.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spboyer/ddbeval/internal/knowledge"
	"github.com/spboyer/ddbeval/internal/utils"
)

// FileName is the configuration file looked up from the working directory.
const FileName = ".ddbeval.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultConversationEngine = "copilot"
	DefaultConversationModel  = "claude-sonnet-4"

	DefaultJudgeEngine            = "copilot"
	DefaultJudgeTemperature       = 0.1
	DefaultJudgeMaxTokens         = 2000
	DefaultJudgeRequestsPerSecond = 50.0 / 60.0
	DefaultJudgeBurst             = 5
	DefaultJudgeTimeout           = 300

	DefaultKnowledgePath = knowledge.DefaultPath

	DefaultWorkers      = 4
	DefaultFormat       = "json"
	DefaultResultsDir   = "results/"
	DefaultSessionsDir  = ".ddbeval/sessions"
	maxParentDirsSearch = 10
)

// ConversationConfig selects the assistant under evaluation.
type ConversationConfig struct {
	Engine string `yaml:"engine,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// JudgeConfig configures the reasoning engine that scores conversations.
type JudgeConfig struct {
	Engine string `yaml:"engine,omitempty"`
	// Model defaults to the conversation model when blank.
	Model             string  `yaml:"model,omitempty"`
	BaseURL           string  `yaml:"base_url,omitempty"`
	Temperature       float64 `yaml:"temperature,omitempty"`
	MaxTokens         int     `yaml:"max_tokens,omitempty"`
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"`
	Burst             int     `yaml:"burst,omitempty"`
	// Timeout is in seconds.
	Timeout int `yaml:"timeout,omitempty"`
	// CacheDir stores engine answers for reuse. Blank disables caching.
	CacheDir string `yaml:"cache_dir,omitempty"`
}

// TimeoutDuration converts Timeout into a duration.
func (j JudgeConfig) TimeoutDuration() time.Duration {
	return time.Duration(j.Timeout) * time.Second
}

// KnowledgeConfig locates the expert-knowledge document.
type KnowledgeConfig struct {
	Path     string `yaml:"path,omitempty"`
	Fallback string `yaml:"fallback,omitempty"`
}

// BatchConfig holds batch execution settings.
type BatchConfig struct {
	Workers  int     `yaml:"workers,omitempty"`
	MinScore float64 `yaml:"min_score,omitempty"`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	Format      string `yaml:"format,omitempty"`
	ResultsDir  string `yaml:"results_dir,omitempty"`
	SessionsDir string `yaml:"sessions_dir,omitempty"`
	SessionLog  *bool  `yaml:"session_log,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .ddbeval.yaml.
type ProjectConfig struct {
	Conversation ConversationConfig `yaml:"conversation,omitempty"`
	Judge        JudgeConfig        `yaml:"judge,omitempty"`
	Knowledge    KnowledgeConfig    `yaml:"knowledge,omitempty"`
	Batch        BatchConfig        `yaml:"batch,omitempty"`
	Output       OutputConfig       `yaml:"output,omitempty"`
	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Conversation: ConversationConfig{
			Engine: DefaultConversationEngine,
			Model:  DefaultConversationModel,
		},
		Judge: JudgeConfig{
			Engine:            DefaultJudgeEngine,
			Temperature:       DefaultJudgeTemperature,
			MaxTokens:         DefaultJudgeMaxTokens,
			RequestsPerSecond: DefaultJudgeRequestsPerSecond,
			Burst:             DefaultJudgeBurst,
			Timeout:           DefaultJudgeTimeout,
		},
		Knowledge: KnowledgeConfig{
			Path:     DefaultKnowledgePath,
			Fallback: knowledge.DefaultFallback(),
		},
		Batch: BatchConfig{
			Workers: DefaultWorkers,
		},
		Output: OutputConfig{
			Format:      DefaultFormat,
			ResultsDir:  DefaultResultsDir,
			SessionsDir: DefaultSessionsDir,
			SessionLog:  utils.Ptr(false),
		},
	}
}

// JudgeModel returns the judge model, falling back to the conversation model.
func (c *ProjectConfig) JudgeModel() string {
	if c.Judge.Model != "" {
		return c.Judge.Model
	}
	return c.Conversation.Model
}

// Load finds .ddbeval.yaml by walking up from startDir, unmarshals it, and
// fills in missing fields with defaults. If no config file is found, returns
// defaults with a nil error. Real I/O errors are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mergeConfig(cfg, &fileCfg)
	cfg.Path = path
	return cfg, nil
}

// findConfigFile walks up from dir looking for .ddbeval.yaml. Returns
// os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for range maxParentDirsSearch {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Conversation
	if src.Conversation.Engine != "" {
		dst.Conversation.Engine = src.Conversation.Engine
	}
	if src.Conversation.Model != "" {
		dst.Conversation.Model = src.Conversation.Model
	}

	// Judge
	if src.Judge.Engine != "" {
		dst.Judge.Engine = src.Judge.Engine
	}
	if src.Judge.Model != "" {
		dst.Judge.Model = src.Judge.Model
	}
	if src.Judge.BaseURL != "" {
		dst.Judge.BaseURL = src.Judge.BaseURL
	}
	if src.Judge.Temperature != 0 {
		dst.Judge.Temperature = src.Judge.Temperature
	}
	if src.Judge.MaxTokens != 0 {
		dst.Judge.MaxTokens = src.Judge.MaxTokens
	}
	if src.Judge.RequestsPerSecond != 0 {
		dst.Judge.RequestsPerSecond = src.Judge.RequestsPerSecond
	}
	if src.Judge.Burst != 0 {
		dst.Judge.Burst = src.Judge.Burst
	}
	if src.Judge.Timeout != 0 {
		dst.Judge.Timeout = src.Judge.Timeout
	}
	if src.Judge.CacheDir != "" {
		dst.Judge.CacheDir = src.Judge.CacheDir
	}

	// Knowledge
	if src.Knowledge.Path != "" {
		dst.Knowledge.Path = src.Knowledge.Path
	}
	if src.Knowledge.Fallback != "" {
		dst.Knowledge.Fallback = src.Knowledge.Fallback
	}

	// Batch
	if src.Batch.Workers != 0 {
		dst.Batch.Workers = src.Batch.Workers
	}
	if src.Batch.MinScore != 0 {
		dst.Batch.MinScore = src.Batch.MinScore
	}

	// Output
	if src.Output.Format != "" {
		dst.Output.Format = src.Output.Format
	}
	if src.Output.ResultsDir != "" {
		dst.Output.ResultsDir = src.Output.ResultsDir
	}
	if src.Output.SessionsDir != "" {
		dst.Output.SessionsDir = src.Output.SessionsDir
	}
	if src.Output.SessionLog != nil {
		dst.Output.SessionLog = src.Output.SessionLog
	}
}
