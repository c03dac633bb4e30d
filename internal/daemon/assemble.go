package daemon

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"reelpost/internal/config"
	"reelpost/internal/enrich"
	"reelpost/internal/enrich/searchapi"
	"reelpost/internal/enrich/tmdb"
	"reelpost/internal/filestore"
	"reelpost/internal/ingest"
	"reelpost/internal/notifications"
	"reelpost/internal/pipeline"
	"reelpost/internal/publish"
	"reelpost/internal/telegram"
)

// NewEnricher builds the lookup chain from config: TMDB first when an API
// key is set, then the search API when enabled.
func NewEnricher(cfg *config.Config, logger *slog.Logger) (*enrich.Enricher, error) {
	httpClient := &http.Client{Timeout: cfg.LookupTimeout()}
	var sources []enrich.Source
	if strings.TrimSpace(cfg.TMDB.APIKey) != "" {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdb.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("tmdb client: %w", err)
		}
		sources = append(sources, tmdb.NewSource(client, cfg.TMDB.ImageBaseURL))
	}
	if cfg.SearchAPI.Enabled {
		src, err := searchapi.New(cfg.SearchAPI.BaseURL, cfg.SearchAPI.PosterKeys, searchapi.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("search api: %w", err)
		}
		sources = append(sources, src)
	}
	return enrich.New(cfg.LookupTimeout(), logger, sources...), nil
}

// NewTelegramClient builds the bot client. Its HTTP timeout covers the long
// poll plus the request timeout.
func NewTelegramClient(cfg *config.Config) (*telegram.Client, error) {
	httpClient := &http.Client{Timeout: cfg.TelegramPollTimeout() + cfg.TelegramRequestTimeout()}
	return telegram.New(cfg.Telegram.BotToken,
		telegram.WithBaseURL(cfg.Telegram.APIBaseURL),
		telegram.WithHTTPClient(httpClient),
	)
}

// NewPublisher builds the publisher for the configured destination channel.
func NewPublisher(cfg *config.Config, transport publish.Transport, counter publish.FileCounter, logger *slog.Logger) (*publish.Publisher, error) {
	var links []publish.Link
	if url := strings.TrimSpace(cfg.Telegram.RequestButtonURL); url != "" {
		links = append(links, publish.Link{Text: cfg.Telegram.RequestButtonText, URL: url})
	}
	opts := []publish.Option{publish.WithLogger(logger)}
	if counter != nil {
		opts = append(opts, publish.WithFileCounter(counter))
	}
	return publish.New(transport, publish.NewIndex(), publish.Config{
		Destination:    cfg.Telegram.DestinationChannel,
		FallbackPoster: cfg.Poster.FallbackURL,
		Links:          links,
	}, opts...)
}

// NewPipeline assembles enrichment and publishing behind a coalescing queue.
func NewPipeline(cfg *config.Config, client *telegram.Client, store *filestore.Store, notifier notifications.Service, logger *slog.Logger) (*pipeline.Pipeline, error) {
	enricher, err := NewEnricher(cfg, logger)
	if err != nil {
		return nil, err
	}
	var counter publish.FileCounter
	if store != nil {
		counter = store
	}
	pub, err := NewPublisher(cfg, telegram.NewChannel(client, cfg.Telegram.Spoiler), counter, logger)
	if err != nil {
		return nil, err
	}
	return pipeline.New(cfg.CoalesceDelay(), enricher, pub,
		pipeline.WithLogger(logger),
		pipeline.WithNotifier(notifier),
	)
}

// Assemble wires a complete daemon from configuration. The caller owns the
// returned daemon and must Close it.
func Assemble(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.ValidateRuntime(); err != nil {
		return nil, err
	}
	store, err := filestore.Open(cfg)
	if err != nil {
		return nil, err
	}
	client, err := NewTelegramClient(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	notifier := notifications.NewService(cfg)
	pipe, err := NewPipeline(cfg, client, store, notifier, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	watcher := ingest.NewWatcher(client, store, pipe, cfg.Telegram.SourceChannels,
		ingest.WithLogger(logger),
		ingest.WithPollTimeout(cfg.TelegramPollTimeout()),
	)
	d, err := New(cfg, store, watcher, pipe, logger, notifier)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return d, nil
}

// DrainTimeout bounds shutdown: one full window plus time for its lookups
// and publish call.
func DrainTimeout(cfg *config.Config) time.Duration {
	return cfg.CoalesceDelay() + cfg.LookupTimeout() + 2*cfg.TelegramRequestTimeout()
}
