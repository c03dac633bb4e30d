package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reelpost/internal/config"
)

func TestLoadDefaultConfigUsesEnvAndExpandsPaths(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "tmdb-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "reelpost")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.TMDB.APIKey != "tmdb-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.Telegram.BotToken != "bot-token" {
		t.Fatalf("expected bot token from env, got %q", cfg.Telegram.BotToken)
	}
	if cfg.CoalesceDelay() != 10*time.Second {
		t.Fatalf("unexpected coalesce delay: %s", cfg.CoalesceDelay())
	}
	if cfg.LookupTimeout() != 5*time.Second {
		t.Fatalf("unexpected lookup timeout: %s", cfg.LookupTimeout())
	}
	if !cfg.Telegram.Spoiler {
		t.Fatal("expected spoiler enabled by default")
	}
	if cfg.Poster.FallbackURL == "" {
		t.Fatal("expected fallback poster default")
	}
	if got := cfg.DatabasePath(); got != filepath.Join(wantState, "files.db") {
		t.Fatalf("unexpected database path: %q", got)
	}
}

func TestLoadParsesFile(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
state_dir = "` + filepath.ToSlash(filepath.Join(dir, "state")) + `"

[telegram]
bot_token = " token "
source_channels = [-1001, -1002]
destination_channel = -1003

[coalesce]
delay_seconds = 4

[search_api]
poster_keys = ["", "  "]

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected existing config at %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Telegram.BotToken != "token" {
		t.Fatalf("expected trimmed token, got %q", cfg.Telegram.BotToken)
	}
	if len(cfg.Telegram.SourceChannels) != 2 || cfg.Telegram.DestinationChannel != -1003 {
		t.Fatalf("unexpected channels: %+v", cfg.Telegram)
	}
	if cfg.CoalesceDelay() != 4*time.Second {
		t.Fatalf("unexpected delay: %s", cfg.CoalesceDelay())
	}
	if len(cfg.SearchAPI.PosterKeys) != 2 || cfg.SearchAPI.PosterKeys[0] != "jisshu-4" {
		t.Fatalf("expected blank poster keys to fall back to defaults, got %v", cfg.SearchAPI.PosterKeys)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lower-cased log format, got %q", cfg.Logging.Format)
	}
	if err := cfg.ValidateRuntime(); err != nil {
		t.Fatalf("ValidateRuntime returned error: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero delay", func(c *config.Config) { c.Coalesce.DelaySeconds = 0 }, "coalesce.delay_seconds"},
		{"zero lookup timeout", func(c *config.Config) { c.Lookup.TimeoutSeconds = 0 }, "lookup.timeout_seconds"},
		{"missing fallback poster", func(c *config.Config) { c.Poster.FallbackURL = "" }, "poster.fallback_url"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad button url", func(c *config.Config) { c.Telegram.RequestButtonURL = "not a url" }, "request_button_url"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateRuntimeRequiresTelegramRouting(t *testing.T) {
	cfg := config.Default()
	if err := cfg.ValidateRuntime(); err == nil || !strings.Contains(err.Error(), "bot_token") {
		t.Fatalf("expected bot token error, got %v", err)
	}
	cfg.Telegram.BotToken = "token"
	if err := cfg.ValidateRuntime(); err == nil || !strings.Contains(err.Error(), "destination_channel") {
		t.Fatalf("expected destination error, got %v", err)
	}
	cfg.Telegram.DestinationChannel = -100
	cfg.Telegram.SourceChannels = []int64{-100}
	if err := cfg.ValidateRuntime(); err == nil || !strings.Contains(err.Error(), "must not include") {
		t.Fatalf("expected loop error, got %v", err)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Coalesce.DelaySeconds != 10 {
		t.Fatalf("unexpected sample delay: %d", cfg.Coalesce.DelaySeconds)
	}
}
