package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Telegram contains Bot API credentials and channel routing.
type Telegram struct {
	BotToken           string  `toml:"bot_token"`
	APIBaseURL         string  `toml:"api_base_url"`
	SourceChannels     []int64 `toml:"source_channels"`
	DestinationChannel int64   `toml:"destination_channel"`
	RequestTimeout     int     `toml:"request_timeout"`
	PollTimeout        int     `toml:"poll_timeout"`
	RequestButtonText  string  `toml:"request_button_text"`
	RequestButtonURL   string  `toml:"request_button_url"`
	Spoiler            bool    `toml:"spoiler"`
}

// Coalesce controls the per-release accumulation window.
type Coalesce struct {
	DelaySeconds int `toml:"delay_seconds"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	ImageBaseURL string `toml:"image_base_url"`
	Language     string `toml:"language"`
}

// SearchAPI configures the general-purpose poster search collaborator.
type SearchAPI struct {
	Enabled    bool     `toml:"enabled"`
	BaseURL    string   `toml:"base_url"`
	PosterKeys []string `toml:"poster_keys"`
}

// Lookup contains settings shared by every metadata collaborator.
type Lookup struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Poster contains the image used when no collaborator supplies one.
type Poster struct {
	FallbackURL string `toml:"fallback_url"`
}

// Notifications contains configuration for ntfy operator alerts.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelpost.
//
// Configuration sections by subsystem:
//   - Paths: state (sqlite, lock) and log directories
//   - Telegram: bot credentials, source channels, destination channel, post button
//   - Coalesce: accumulation delay per release
//   - TMDB: structured title/poster lookup
//   - SearchAPI: secondary poster search lookup
//   - Lookup: per-call timeout for every collaborator
//   - Poster: fallback image
//   - Notifications: ntfy operator alerts
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Telegram      Telegram      `toml:"telegram"`
	Coalesce      Coalesce      `toml:"coalesce"`
	TMDB          TMDB          `toml:"tmdb"`
	SearchAPI     SearchAPI     `toml:"search_api"`
	Lookup        Lookup        `toml:"lookup"`
	Poster        Poster        `toml:"poster"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelpost/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelpost.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath is the sqlite file holding persisted file records.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.StateDir, "files.db")
}

// LogPath is the daemon log file, or "" when no log directory is set.
func (c *Config) LogPath() string {
	if c.Paths.LogDir == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "reelpost.log")
}

// LockPath is the single-instance lock file used by the daemon.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "reelpost.lock")
}

// CoalesceDelay returns the fixed accumulation window.
func (c *Config) CoalesceDelay() time.Duration {
	return time.Duration(c.Coalesce.DelaySeconds) * time.Second
}

// LookupTimeout bounds every metadata collaborator call.
func (c *Config) LookupTimeout() time.Duration {
	return time.Duration(c.Lookup.TimeoutSeconds) * time.Second
}

// TelegramRequestTimeout bounds sendPhoto/editMessageMedia calls.
func (c *Config) TelegramRequestTimeout() time.Duration {
	return time.Duration(c.Telegram.RequestTimeout) * time.Second
}

// TelegramPollTimeout is the long-poll duration passed to getUpdates.
func (c *Config) TelegramPollTimeout() time.Duration {
	return time.Duration(c.Telegram.PollTimeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
