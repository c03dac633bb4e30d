package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable by every command.
func (c *Config) Validate() error {
	if c.Coalesce.DelaySeconds <= 0 {
		return errors.New("coalesce.delay_seconds must be positive")
	}
	if c.Lookup.TimeoutSeconds <= 0 {
		return errors.New("lookup.timeout_seconds must be positive")
	}
	if c.Poster.FallbackURL == "" {
		return errors.New("poster.fallback_url must be set")
	}
	if c.SearchAPI.Enabled {
		if _, err := url.ParseRequestURI(c.SearchAPI.BaseURL); err != nil {
			return fmt.Errorf("search_api.base_url: %w", err)
		}
	}
	if c.Telegram.RequestButtonURL != "" {
		if _, err := url.ParseRequestURI(c.Telegram.RequestButtonURL); err != nil {
			return fmt.Errorf("telegram.request_button_url: %w", err)
		}
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// ValidateRuntime checks the settings the daemon needs to talk to Telegram.
// Offline commands (inspect, lookup) only require Validate.
func (c *Config) ValidateRuntime() error {
	if c.Telegram.BotToken == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/reelpost/config.toml"
		}
		return fmt.Errorf("telegram.bot_token is required. Set TELEGRAM_BOT_TOKEN env var or edit %s (create with 'reelpost config init')", defaultPath)
	}
	if c.Telegram.DestinationChannel == 0 {
		return errors.New("telegram.destination_channel must be set")
	}
	if len(c.Telegram.SourceChannels) == 0 {
		return errors.New("telegram.source_channels must list at least one channel")
	}
	for _, id := range c.Telegram.SourceChannels {
		if id == c.Telegram.DestinationChannel {
			return fmt.Errorf("telegram.source_channels must not include the destination channel %d", id)
		}
	}
	return nil
}
