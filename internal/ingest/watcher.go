// Package ingest long-polls the bot for new channel posts and feeds uploads
// from the configured source channels into the pipeline.
//
// Each upload is persisted before it is queued; an upload the store has
// already seen is skipped, so forwarded duplicates never reach a post.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"reelpost/internal/filestore"
	"reelpost/internal/logging"
	"reelpost/internal/release"
	"reelpost/internal/telegram"
)

// UpdateSource yields channel posts.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
}

// Store persists uploads and the poll offset.
type Store interface {
	SaveFile(ctx context.Context, rec filestore.Record) error
	Offset(ctx context.Context) (int64, error)
	SetOffset(ctx context.Context, offset int64) error
}

// Sink receives classified uploads.
type Sink interface {
	Enqueue(ctx context.Context, key release.Key, desc release.FileDescriptor) bool
}

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// Watcher runs the poll loop.
type Watcher struct {
	updates     UpdateSource
	store       Store
	sink        Sink
	sources     []int64
	pollTimeout time.Duration
	logger      *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logging.NewComponentLogger(logger, "ingest")
	}
}

// WithPollTimeout sets the server-side long-poll wait.
func WithPollTimeout(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.pollTimeout = d
		}
	}
}

// NewWatcher builds a Watcher that accepts posts from sources only.
func NewWatcher(updates UpdateSource, store Store, sink Sink, sources []int64, opts ...Option) *Watcher {
	w := &Watcher{
		updates:     updates,
		store:       store,
		sink:        sink,
		sources:     slices.Clone(sources),
		pollTimeout: 30 * time.Second,
		logger:      logging.NewComponentLogger(nil, "ingest"),
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls until ctx is cancelled. Poll errors are retried with backoff.
func (w *Watcher) Run(ctx context.Context) error {
	offset, err := w.store.Offset(ctx)
	if err != nil {
		return err
	}
	w.logger.Info("watching source channels",
		logging.Int("sources", len(w.sources)),
		logging.Int64("offset", offset),
	)

	backoff := minBackoff
	for {
		if ctx.Err() != nil {
			return nil
		}
		next, err := w.Poll(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Warn("poll failed",
				logging.Error(err),
				logging.Duration("retry_in", backoff),
			)
			if err := w.sleep(ctx, backoff); err != nil {
				return nil
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = minBackoff
		offset = next
	}
}

// Poll fetches one batch of updates after offset, handles them, and returns
// the next offset. The new offset is stored before returning.
func (w *Watcher) Poll(ctx context.Context, offset int64) (int64, error) {
	updates, err := w.updates.GetUpdates(ctx, offset, w.pollTimeout)
	if err != nil {
		return offset, err
	}
	next := offset
	for _, u := range updates {
		w.Handle(ctx, u)
		if u.UpdateID >= next {
			next = u.UpdateID + 1
		}
	}
	if next != offset {
		if err := w.store.SetOffset(ctx, next); err != nil {
			w.logger.Warn("store offset failed", logging.Int64("offset", next), logging.Error(err))
		}
	}
	return next, nil
}

// Handle processes one update and reports whether it was queued.
func (w *Watcher) Handle(ctx context.Context, u telegram.Update) bool {
	post := u.ChannelPost
	if post == nil || !slices.Contains(w.sources, post.Chat.ID) {
		return false
	}
	media := post.Media()
	if media == nil || strings.TrimSpace(media.FileUniqueID) == "" {
		return false
	}

	ev := release.Event{
		Filename:  media.FileName,
		Caption:   post.Caption,
		FileRef:   media.FileID,
		SizeBytes: media.FileSize,
	}
	key, desc := release.Describe(ev)
	rec := filestore.Record{
		FileUniqueID: media.FileUniqueID,
		FileID:       media.FileID,
		FileName:     media.FileName,
		Caption:      post.Caption,
		MimeType:     media.MimeType,
		SizeBytes:    media.FileSize,
		ReleaseKey:   key,
		SourceChat:   post.Chat.ID,
		MessageID:    post.MessageID,
	}
	if post.Date > 0 {
		rec.CreatedAt = time.Unix(post.Date, 0)
	}

	if err := w.store.SaveFile(ctx, rec); err != nil {
		if errors.Is(err, filestore.ErrDuplicate) {
			w.logger.Debug("duplicate upload skipped",
				logging.String(logging.FieldReleaseKey, key.String()),
				logging.String("file_name", media.FileName),
			)
			return false
		}
		w.logger.Warn("save upload failed",
			logging.String(logging.FieldReleaseKey, key.String()),
			logging.String("file_name", media.FileName),
			logging.Error(err),
		)
		return false
	}

	w.logger.Info("upload received",
		logging.String(logging.FieldReleaseKey, key.String()),
		logging.String(logging.FieldEventType, "upload"),
		logging.String("file_name", media.FileName),
		logging.String("category", desc.Category.String()),
	)
	w.sink.Enqueue(ctx, key, desc)
	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
