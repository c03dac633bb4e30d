package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"reelpost/internal/enrich"
	"reelpost/internal/logging"
	"reelpost/internal/release"
)

// FileCounter reports how many files are stored for a key.
type FileCounter interface {
	CountByKey(ctx context.Context, key release.Key) (int, error)
}

// Config holds the destination settings.
type Config struct {
	Destination    int64
	FallbackPoster string
	Links          []Link
}

// Result describes a completed publish.
type Result struct {
	Handle  Handle
	Edited  bool
	Summary Summary
}

// Publisher creates or refreshes the single post for each key.
type Publisher struct {
	transport Transport
	index     *Index
	counter   FileCounter
	cfg       Config
	logger    *slog.Logger

	keyMu sync.Mutex
	locks map[release.Key]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithFileCounter enables the stored-files total.
func WithFileCounter(counter FileCounter) Option {
	return func(p *Publisher) {
		p.counter = counter
	}
}

// WithLogger sets the publisher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logging.NewComponentLogger(logger, "publish")
	}
}

// New creates a Publisher. A nil index gets a fresh one.
func New(transport Transport, index *Index, cfg Config, opts ...Option) (*Publisher, error) {
	if transport == nil {
		return nil, errors.New("publish transport required")
	}
	cfg.FallbackPoster = strings.TrimSpace(cfg.FallbackPoster)
	if cfg.FallbackPoster == "" {
		return nil, errors.New("fallback poster required")
	}
	if index == nil {
		index = NewIndex()
	}
	p := &Publisher{
		transport: transport,
		index:     index,
		cfg:       cfg,
		logger:    logging.NewComponentLogger(nil, "publish"),
		locks:     make(map[release.Key]*keyLock),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Index returns the posted index.
func (p *Publisher) Index() *Index {
	return p.index
}

// Prepare aggregates the batch and renders the post without sending it.
func (p *Publisher) Prepare(ctx context.Context, key release.Key, batch []release.FileDescriptor, md enrich.Metadata) (Summary, Post, error) {
	summary, err := Aggregate(key, batch)
	if err != nil {
		return Summary{}, Post{}, err
	}
	if p.counter != nil {
		total, err := p.counter.CountByKey(ctx, key)
		switch {
		case err != nil:
			p.logger.Debug("file count unavailable",
				logging.String(logging.FieldReleaseKey, key.String()),
				logging.Error(err),
			)
		case total > summary.Recent:
			summary.Total = total
		}
	}

	poster := strings.TrimSpace(md.PosterURL)
	if poster == "" {
		poster = p.cfg.FallbackPoster
	}
	post := Post{
		Destination: p.cfg.Destination,
		PhotoURL:    poster,
		Caption:     Render(summary, md),
		Links:       p.cfg.Links,
	}
	return summary, post, nil
}

// PublishOrUpdate edits the post recorded for key, or sends a new one when
// there is none or the edit fails. The index is read at call time and only
// written after a successful send. Calls for the same key are serialized.
func (p *Publisher) PublishOrUpdate(ctx context.Context, key release.Key, batch []release.FileDescriptor, md enrich.Metadata) (Result, error) {
	summary, post, err := p.Prepare(ctx, key, batch, md)
	if err != nil {
		return Result{}, err
	}

	unlock := p.lock(key)
	defer unlock()

	if handle, ok := p.index.Get(key); ok {
		err := p.transport.Edit(ctx, handle, post)
		if err == nil {
			p.logger.Info("post updated",
				logging.String(logging.FieldReleaseKey, key.String()),
				logging.Int64("message_id", int64(handle)),
				logging.Int("files", summary.Recent),
			)
			return Result{Handle: handle, Edited: true, Summary: summary}, nil
		}
		p.logger.Warn("edit failed; sending new post",
			logging.String(logging.FieldReleaseKey, key.String()),
			logging.Int64("message_id", int64(handle)),
			logging.Error(err),
			logging.Alert("edit_failed"),
		)
	}

	handle, err := p.transport.Send(ctx, post)
	if err != nil {
		return Result{Summary: summary}, fmt.Errorf("send post for %q: %w", key, err)
	}
	p.index.Put(key, handle)
	p.logger.Info("post created",
		logging.String(logging.FieldReleaseKey, key.String()),
		logging.Int64("message_id", int64(handle)),
		logging.Int("files", summary.Recent),
	)
	return Result{Handle: handle, Summary: summary}, nil
}

func (p *Publisher) lock(key release.Key) func() {
	p.keyMu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &keyLock{}
		p.locks[key] = l
	}
	l.refs++
	p.keyMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.keyMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, key)
		}
		p.keyMu.Unlock()
	}
}
