package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spboyer/ddbeval/internal/judge"
	"github.com/spboyer/ddbeval/internal/models"
	"github.com/spboyer/ddbeval/internal/projectconfig"
)

func TestKnownModel(t *testing.T) {
	for _, name := range []string{
		"claude-sonnet-4",
		"bedrock/anthropic.claude-3-5-sonnet",
		"gpt-4.1",
		"GPT-5",
		"gemini-2.5-pro",
		"o3-mini",
		"amazon.titan-text",
		"  Llama-3.1-70B  ",
	} {
		assert.True(t, knownModel(name), name)
	}

	for _, name := range []string{"", "my-local-model", "phi"} {
		assert.False(t, knownModel(name), name)
	}
}

func TestNewConversationEngine(t *testing.T) {
	cfg := projectconfig.New()

	cfg.Conversation.Engine = engineMock
	conv, err := newConversationEngine(cfg)
	require.NoError(t, err)
	require.NotNil(t, conv)

	cfg.Conversation.Engine = "telepathy"
	_, err = newConversationEngine(cfg)
	require.ErrorContains(t, err, `unknown conversation engine "telepathy"`)
}

func TestNewJudgeEngine(t *testing.T) {
	t.Run("mock", func(t *testing.T) {
		cfg := projectconfig.New()
		cfg.Judge.Engine = engineMock

		engine, closer, err := newJudgeEngine(cfg)
		require.NoError(t, err)
		require.Nil(t, closer)

		mock, ok := engine.(*judge.MockEngine)
		require.True(t, ok, "mock judge should not be wrapped")
		require.Equal(t, mockJudgeScore, mock.Score)
	})

	t.Run("openai", func(t *testing.T) {
		t.Setenv("OPENAI_API_KEY", "")
		cfg := projectconfig.New()
		cfg.Judge.Engine = engineOpenAI
		cfg.Judge.BaseURL = "http://localhost:11434/v1"
		cfg.Judge.Model = "llama3.1"

		engine, closer, err := newJudgeEngine(cfg)
		require.NoError(t, err)
		require.Nil(t, closer)
		require.NotNil(t, engine)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := projectconfig.New()
		cfg.Judge.Engine = "oracle"

		_, _, err := newJudgeEngine(cfg)
		require.ErrorContains(t, err, `unknown judge engine "oracle"`)
	})
}

func TestPreflight(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := projectconfig.New()
	require.NoError(t, preflight(cfg)(context.Background()))

	cfg.Judge.Engine = engineOpenAI
	require.ErrorContains(t, preflight(cfg)(context.Background()), "OPENAI_API_KEY")

	cfg.Judge.BaseURL = "http://localhost:8080/v1"
	require.NoError(t, preflight(cfg)(context.Background()))

	cfg.Judge.BaseURL = ""
	t.Setenv("OPENAI_API_KEY", "sk-test")
	require.NoError(t, preflight(cfg)(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, preflight(cfg)(ctx), context.Canceled)
}

func TestNewKnowledge_ResolvesAgainstConfigDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "architect.md"), []byte("# Architect"), 0644))

	cfg := projectconfig.New()
	cfg.Path = filepath.Join(dir, projectconfig.FileName)
	cfg.Knowledge.Path = "architect.md"

	require.Equal(t, "# Architect", newKnowledge(cfg).Knowledge())
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(projectconfig.FileName, []byte(`conversation:
  model: gpt-4.1
judge:
  engine: openai
  timeout: 60
`), 0644))

	flags := &engineFlags{}
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	flags.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--judge", "mock", "--timeout", "90s", "--session-log"}))

	cfg, err := flags.loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1", cfg.Conversation.Model, "unset flag keeps file value")
	assert.Equal(t, engineMock, cfg.Judge.Engine)
	assert.Equal(t, 90*time.Second, cfg.Judge.TimeoutDuration())
	require.NotNil(t, cfg.Output.SessionLog)
	assert.True(t, *cfg.Output.SessionLog)
}

func TestLoadCatalog_ScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`scenarios:
  - name: Ticketing
    description: Event ticket sales
    complexity: beginner
    user_input: Customers buy tickets for concerts.
`), 0644))

	flags := &engineFlags{scenarioFiles: []string{path}}
	catalog, err := flags.loadCatalog()
	require.NoError(t, err)

	sc, err := catalog.Get("Ticketing")
	require.NoError(t, err)
	require.Equal(t, "Event ticket sales", sc.Description)

	flags.scenarioFiles = []string{filepath.Join(dir, "missing.yaml")}
	_, err = flags.loadCatalog()
	require.Error(t, err)
}

func TestFailedRuns(t *testing.T) {
	reports := []*models.Report{
		{Status: models.StatusSuccess},
		{Status: models.StatusError},
		{Status: models.StatusSkipped},
		{Status: models.StatusError},
	}
	require.Equal(t, 2, failedRuns(reports))
	require.Zero(t, failedRuns(nil))
}

func TestNewJudgeEngine_Cached(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	dir := t.TempDir()

	cfg := projectconfig.New()
	cfg.Path = filepath.Join(dir, projectconfig.FileName)
	cfg.Judge.Engine = engineOpenAI
	cfg.Judge.CacheDir = "cache"

	engine, _, err := newJudgeEngine(cfg)
	require.NoError(t, err)
	_, isOpenAI := engine.(*judge.OpenAIEngine)
	require.False(t, isOpenAI, "engine should be wrapped")
	assert.Equal(t, filepath.Join(dir, "cache"), configRelative(cfg, cfg.Judge.CacheDir))
}
