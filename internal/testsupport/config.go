package testsupport

import (
	"path/filepath"
	"testing"

	"reelpost/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Telegram.BotToken = "test-token"
	cfgVal.Telegram.SourceChannels = []int64{-1001}
	cfgVal.Telegram.DestinationChannel = -1002
	cfgVal.TMDB.APIKey = ""
	cfgVal.SearchAPI.Enabled = false
	cfgVal.Notifications.NtfyTopic = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithTMDB points the TMDB source at baseURL with a test key.
func WithTMDB(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.APIKey = "test"
		b.cfg.TMDB.BaseURL = baseURL
	}
}

// WithSearchAPI enables the search API source at baseURL.
func WithSearchAPI(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.SearchAPI.Enabled = true
		b.cfg.SearchAPI.BaseURL = baseURL
	}
}

// WithTelegramAPI points the bot client at baseURL.
func WithTelegramAPI(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Telegram.APIBaseURL = baseURL
	}
}

// WithNtfy enables operator alerts at topic.
func WithNtfy(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
