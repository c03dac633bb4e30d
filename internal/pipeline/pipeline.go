// Package pipeline connects classification, coalescing, enrichment, and
// publishing into the flow run for every upload.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"reelpost/internal/coalesce"
	"reelpost/internal/enrich"
	"reelpost/internal/logging"
	"reelpost/internal/notifications"
	"reelpost/internal/publish"
	"reelpost/internal/release"
)

// Resolver looks up display metadata for a key. It must not fail.
type Resolver interface {
	Resolve(ctx context.Context, key release.Key) enrich.Metadata
}

// Publisher creates or refreshes the post for a key.
type Publisher interface {
	PublishOrUpdate(ctx context.Context, key release.Key, batch []release.FileDescriptor, md enrich.Metadata) (publish.Result, error)
}

// Pipeline owns the coalescing queue and runs each closed batch through
// enrichment and publishing.
type Pipeline struct {
	queue     *coalesce.Queue
	resolver  Resolver
	publisher Publisher
	notifier  notifications.Service
	logger    *slog.Logger
	newID     func() string
	clock     func(time.Duration) <-chan time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithNotifier forwards publish failures and internal faults to an operator.
func WithNotifier(n notifications.Service) Option {
	return func(p *Pipeline) {
		if n != nil {
			p.notifier = n
		}
	}
}

// WithLogger sets the pipeline logger; the queue logs through it too.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock replaces the coalescing timer source.
func WithClock(after func(time.Duration) <-chan time.Time) Option {
	return func(p *Pipeline) {
		p.clock = after
	}
}

// New builds a Pipeline whose windows last delay.
func New(delay time.Duration, resolver Resolver, publisher Publisher, opts ...Option) (*Pipeline, error) {
	if resolver == nil || publisher == nil {
		return nil, errors.New("pipeline requires a resolver and a publisher")
	}
	p := &Pipeline{
		resolver:  resolver,
		publisher: publisher,
		notifier:  noopNotifier{},
		logger:    logging.NewNop(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}

	queue, err := coalesce.New(delay, p.Flush,
		coalesce.WithLogger(p.logger),
		coalesce.WithClock(p.clock),
		coalesce.WithEmptyBatchHook(p.emptyBatch),
	)
	if err != nil {
		return nil, err
	}
	p.queue = queue
	p.logger = logging.NewComponentLogger(p.logger, "pipeline")
	return p, nil
}

// Submit classifies an upload and queues it. It reports the derived key and
// whether the upload opened a new window.
func (p *Pipeline) Submit(ctx context.Context, ev release.Event) (release.Key, bool) {
	key, desc := release.Describe(ev)
	return key, p.Enqueue(ctx, key, desc)
}

// Enqueue queues an already classified upload.
func (p *Pipeline) Enqueue(ctx context.Context, key release.Key, desc release.FileDescriptor) bool {
	return p.queue.Enqueue(ctx, key, desc)
}

// State exposes the queue state for inspection.
func (p *Pipeline) State() *coalesce.State {
	return p.queue.State()
}

// Drain waits for every open window to flush.
func (p *Pipeline) Drain(ctx context.Context) error {
	return p.queue.Drain(ctx)
}

// Flush enriches and publishes one closed batch. It is the queue's flush
// callback and is exported for one-shot runs.
func (p *Pipeline) Flush(ctx context.Context, key release.Key, batch []release.FileDescriptor) error {
	logger := p.logger.With(
		logging.String(logging.FieldFlushID, p.newID()),
		logging.String(logging.FieldReleaseKey, key.String()),
	)
	started := time.Now()
	logger.Info("flushing batch",
		logging.String(logging.FieldEventType, "flush"),
		logging.Int("files", len(batch)),
	)

	md := p.resolver.Resolve(ctx, key)
	logger.Debug("metadata resolved",
		logging.String("title", md.Title),
		logging.String("kind", md.Kind),
		logging.Bool("poster", md.PosterURL != ""),
	)

	res, err := p.publisher.PublishOrUpdate(ctx, key, batch, md)
	if errors.Is(err, publish.ErrEmptyBatch) {
		logger.Error("flush observed empty batch", logging.Alert("empty_batch"))
		p.notify(ctx, logger, notifications.EventInvariant, notifications.Payload{
			"key":    key.String(),
			"detail": "flush observed empty batch",
		})
		return err
	}
	if err != nil {
		logger.Warn("publish failed; batch dropped",
			logging.Int("files", len(batch)),
			logging.Error(err),
			logging.Alert("publish_failed"),
		)
		p.notify(ctx, logger, notifications.EventPublishFailed, notifications.Payload{
			"key":   key.String(),
			"files": len(batch),
			"error": err,
		})
		return fmt.Errorf("publish %q: %w", key, err)
	}

	logger.Info("batch published",
		logging.String(logging.FieldEventType, "published"),
		logging.Int64("message_id", int64(res.Handle)),
		logging.Bool("edited", res.Edited),
		logging.Int("total_files", res.Summary.Total),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func (p *Pipeline) emptyBatch(key release.Key) {
	p.notify(context.Background(), p.logger, notifications.EventInvariant, notifications.Payload{
		"key":    key.String(),
		"detail": "window closed with empty batch",
	})
}

func (p *Pipeline) notify(ctx context.Context, logger *slog.Logger, event notifications.Event, payload notifications.Payload) {
	if err := p.notifier.Publish(ctx, event, payload); err != nil {
		logger.Debug("operator notification failed",
			logging.String(logging.FieldEventType, string(event)),
			logging.Error(err),
		)
	}
}

type noopNotifier struct{}

func (noopNotifier) Publish(context.Context, notifications.Event, notifications.Payload) error {
	return nil
}
