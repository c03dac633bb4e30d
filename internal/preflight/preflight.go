package preflight

import (
	"context"

	"reelpost/internal/config"
	"reelpost/internal/telegram"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Bot is the part of the Telegram client the token check needs.
type Bot interface {
	GetMe(ctx context.Context) (Identity, error)
}

// Identity is the account a bot token resolves to.
type Identity struct {
	Username string
}

// TelegramBot adapts a bot client for CheckTelegram.
func TelegramBot(client *telegram.Client) Bot {
	if client == nil {
		return nil
	}
	return telegramBot{client: client}
}

type telegramBot struct {
	client *telegram.Client
}

func (b telegramBot) GetMe(ctx context.Context) (Identity, error) {
	user, err := b.client.GetMe(ctx)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Username: user.Username}, nil
}

// RunAll executes all applicable preflight checks for the given config.
// bot may be nil when no token is configured.
func RunAll(ctx context.Context, cfg *config.Config, bot Bot) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("State directory", cfg.Paths.StateDir)}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if bot != nil {
		results = append(results, CheckTelegram(ctx, bot))
	}
	if cfg.TMDB.APIKey != "" {
		results = append(results, CheckTMDB(ctx, cfg.TMDB.BaseURL, cfg.TMDB.APIKey))
	}
	if cfg.SearchAPI.Enabled {
		results = append(results, CheckReachable(ctx, "Search API", cfg.SearchAPI.BaseURL))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
