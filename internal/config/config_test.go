package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"contentgen/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config file, got exists=true for %s", resolved)
	}
	if cfg.OpenAI.BaseURL != "https://api.openai.com/v1" {
		t.Fatalf("unexpected openai base url: %s", cfg.OpenAI.BaseURL)
	}
	if cfg.Pipeline.CaptionWordsPerLine != 4 {
		t.Fatalf("unexpected caption grouping default: %d", cfg.Pipeline.CaptionWordsPerLine)
	}
	if cfg.MiniMax.PollMaxAttempts != 120 || cfg.MiniMax.PollIntervalSeconds != 5 {
		t.Fatalf("unexpected minimax poll defaults: %+v", cfg.MiniMax)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
storage_root = "` + filepath.Join(dir, "storage") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[openai]
api_key = "sk-test"
base_url = "https://example.test/v1/"

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.OpenAI.BaseURL != "https://example.test/v1" {
		t.Fatalf("base url not trimmed: %s", cfg.OpenAI.BaseURL)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("logging format not normalized: %s", cfg.Logging.Format)
	}
	if cfg.DatabasePath() != filepath.Join(dir, "storage", "contentgen.db") {
		t.Fatalf("unexpected database path: %s", cfg.DatabasePath())
	}
	if cfg.VideosDir() != filepath.Join(dir, "storage", "videos") {
		t.Fatalf("unexpected videos dir: %s", cfg.VideosDir())
	}
}

func TestValidateRejectsMiniMaxWithoutGroup(t *testing.T) {
	cfg := config.Default()
	cfg.MiniMax.APIKey = "key"
	cfg.MiniMax.GroupID = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for minimax key without group id")
	}
}

func TestEnvironmentFallbackForAPIKeys(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("ELEVENLABS_API_KEY", "env-eleven")

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OpenAI.APIKey != "env-openai" {
		t.Fatalf("openai key not read from environment: %q", cfg.OpenAI.APIKey)
	}
	if cfg.ElevenLabs.APIKey != "env-eleven" {
		t.Fatalf("elevenlabs key not read from environment: %q", cfg.ElevenLabs.APIKey)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config did not load cleanly: exists=%v err=%v", exists, err)
	}
}
