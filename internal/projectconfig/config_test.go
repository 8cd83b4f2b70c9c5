package projectconfig

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spboyer/ddbeval/internal/knowledge"
)

func TestNew_ReturnsAllDefaults(t *testing.T) {
	cfg := New()

	// Conversation
	assertEqual(t, "Conversation.Engine", "copilot", cfg.Conversation.Engine)
	assertEqual(t, "Conversation.Model", "claude-sonnet-4", cfg.Conversation.Model)

	// Judge
	assertEqual(t, "Judge.Engine", "copilot", cfg.Judge.Engine)
	assertEqual(t, "Judge.Model", "", cfg.Judge.Model)
	assertEqualFloat(t, "Judge.Temperature", 0.1, cfg.Judge.Temperature)
	assertEqualInt(t, "Judge.MaxTokens", 2000, cfg.Judge.MaxTokens)
	assertEqualFloat(t, "Judge.RequestsPerSecond", 50.0/60.0, cfg.Judge.RequestsPerSecond)
	assertEqualInt(t, "Judge.Burst", 5, cfg.Judge.Burst)
	assertEqualInt(t, "Judge.Timeout", 300, cfg.Judge.Timeout)

	// Knowledge
	assertEqual(t, "Knowledge.Path", knowledge.DefaultPath, cfg.Knowledge.Path)
	assertEqual(t, "Knowledge.Fallback", knowledge.DefaultFallback(), cfg.Knowledge.Fallback)

	// Batch
	assertEqualInt(t, "Batch.Workers", 4, cfg.Batch.Workers)
	assertEqualFloat(t, "Batch.MinScore", 0, cfg.Batch.MinScore)

	// Output
	assertEqual(t, "Output.Format", "json", cfg.Output.Format)
	assertEqual(t, "Output.ResultsDir", "results/", cfg.Output.ResultsDir)
	assertEqual(t, "Output.SessionsDir", ".ddbeval/sessions", cfg.Output.SessionsDir)
	assertBoolPtr(t, "Output.SessionLog", false, cfg.Output.SessionLog)

	assertEqual(t, "Path", "", cfg.Path)
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".ddbeval.yaml", `
conversation:
  engine: mock
  model: gpt-4o
judge:
  engine: openai
  model: gpt-4o-mini
  base_url: http://localhost:11434/v1
  temperature: 0.3
  max_tokens: 4000
  requests_per_second: 2
  burst: 1
  timeout: 60
  cache_dir: .cache/judge
knowledge:
  path: docs/architect.md
  fallback: /opt/ddb/architect.md
batch:
  workers: 8
  min_score: 7
output:
  format: yaml
  results_dir: out/
  sessions_dir: logs/
  session_log: true
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	assertEqual(t, "Conversation.Engine", "mock", cfg.Conversation.Engine)
	assertEqual(t, "Conversation.Model", "gpt-4o", cfg.Conversation.Model)
	assertEqual(t, "Judge.Engine", "openai", cfg.Judge.Engine)
	assertEqual(t, "Judge.Model", "gpt-4o-mini", cfg.Judge.Model)
	assertEqual(t, "Judge.BaseURL", "http://localhost:11434/v1", cfg.Judge.BaseURL)
	assertEqualFloat(t, "Judge.Temperature", 0.3, cfg.Judge.Temperature)
	assertEqualInt(t, "Judge.MaxTokens", 4000, cfg.Judge.MaxTokens)
	assertEqualFloat(t, "Judge.RequestsPerSecond", 2, cfg.Judge.RequestsPerSecond)
	assertEqualInt(t, "Judge.Burst", 1, cfg.Judge.Burst)
	assertEqualInt(t, "Judge.Timeout", 60, cfg.Judge.Timeout)
	assertEqual(t, "Judge.CacheDir", ".cache/judge", cfg.Judge.CacheDir)
	assertEqual(t, "Knowledge.Path", "docs/architect.md", cfg.Knowledge.Path)
	assertEqual(t, "Knowledge.Fallback", "/opt/ddb/architect.md", cfg.Knowledge.Fallback)
	assertEqualInt(t, "Batch.Workers", 8, cfg.Batch.Workers)
	assertEqualFloat(t, "Batch.MinScore", 7, cfg.Batch.MinScore)
	assertEqual(t, "Output.Format", "yaml", cfg.Output.Format)
	assertEqual(t, "Output.ResultsDir", "out/", cfg.Output.ResultsDir)
	assertEqual(t, "Output.SessionsDir", "logs/", cfg.Output.SessionsDir)
	assertBoolPtr(t, "Output.SessionLog", true, cfg.Output.SessionLog)
	assertEqual(t, "Path", filepath.Join(dir, ".ddbeval.yaml"), cfg.Path)

	if cfg.Judge.TimeoutDuration() != time.Minute {
		t.Errorf("TimeoutDuration = %v, want 1m", cfg.Judge.TimeoutDuration())
	}
}

func TestLoad_PartialConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".ddbeval.yaml", `
conversation:
  model: gpt-4o-mini
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	assertEqual(t, "Conversation.Model", "gpt-4o-mini", cfg.Conversation.Model)

	// untouched sections keep defaults
	assertEqual(t, "Conversation.Engine", "copilot", cfg.Conversation.Engine)
	assertEqualInt(t, "Judge.Timeout", 300, cfg.Judge.Timeout)
	assertEqualInt(t, "Batch.Workers", 4, cfg.Batch.Workers)
	assertBoolPtr(t, "Output.SessionLog", false, cfg.Output.SessionLog)
}

func TestJudgeModel_FallsBackToConversationModel(t *testing.T) {
	cfg := New()
	assertEqual(t, "JudgeModel()", "claude-sonnet-4", cfg.JudgeModel())

	cfg.Judge.Model = "gpt-4o"
	assertEqual(t, "JudgeModel()", "gpt-4o", cfg.JudgeModel())
}

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertEqual(t, "Conversation.Model", DefaultConversationModel, cfg.Conversation.Model)
	assertEqual(t, "Path", "", cfg.Path)
}

func TestLoad_WalksUpParents(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".ddbeval.yaml", "batch:\n  workers: 2\n")

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nested)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertEqualInt(t, "Batch.Workers", 2, cfg.Batch.Workers)
	assertEqual(t, "Path", filepath.Join(root, ".ddbeval.yaml"), cfg.Path)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".ddbeval.yaml", "judge: [not, a, mapping")

	if _, err := Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_UnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced")
	}

	dir := t.TempDir()
	writeFile(t, dir, ".ddbeval.yaml", "batch:\n  workers: 2\n")
	if err := os.Chmod(filepath.Join(dir, ".ddbeval.yaml"), 0o000); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("expected read error")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func assertEqual(t *testing.T, field, want, got string) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %q, want %q", field, got, want)
	}
}

func assertEqualInt(t *testing.T, field string, want, got int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", field, got, want)
	}
}

func assertEqualFloat(t *testing.T, field string, want, got float64) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", field, got, want)
	}
}

func assertBoolPtr(t *testing.T, field string, want bool, got *bool) {
	t.Helper()
	if got == nil {
		t.Errorf("%s is nil, want *%v", field, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", field, *got, want)
	}
}
