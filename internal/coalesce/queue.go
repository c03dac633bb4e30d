package coalesce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"reelpost/internal/logging"
	"reelpost/internal/release"
)

// FlushFunc receives a closed batch. The slice is owned by the callee. On
// error the batch is dropped; nothing is requeued.
type FlushFunc func(ctx context.Context, key release.Key, batch []release.FileDescriptor) error

// Queue runs one fixed accumulation window per key.
type Queue struct {
	state   *State
	delay   time.Duration
	flush   FlushFunc
	after   func(time.Duration) <-chan time.Time
	onEmpty func(key release.Key)
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// Option configures a Queue.
type Option func(*Queue)

// WithClock replaces time.After, letting tests close windows on demand.
func WithClock(after func(time.Duration) <-chan time.Time) Option {
	return func(q *Queue) {
		if after != nil {
			q.after = after
		}
	}
}

// WithLogger sets the queue logger.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		q.logger = logging.NewComponentLogger(logger, "coalesce")
	}
}

// WithEmptyBatchHook is called when a window closes with nothing to flush,
// which only a broken critical section can cause.
func WithEmptyBatchHook(hook func(key release.Key)) Option {
	return func(q *Queue) {
		q.onEmpty = hook
	}
}

// WithState shares an existing State, e.g. for introspection from the CLI.
func WithState(state *State) Option {
	return func(q *Queue) {
		if state != nil {
			q.state = state
		}
	}
}

// New creates a Queue that waits delay after the first arrival for a key
// before calling flush.
func New(delay time.Duration, flush FlushFunc, opts ...Option) (*Queue, error) {
	if delay <= 0 {
		return nil, fmt.Errorf("coalesce delay must be positive, got %s", delay)
	}
	if flush == nil {
		return nil, errors.New("coalesce flush func required")
	}
	q := &Queue{
		state:  NewState(),
		delay:  delay,
		flush:  flush,
		after:  time.After,
		logger: logging.NewComponentLogger(nil, "coalesce"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// State exposes the queue's owned state for read-only inspection.
func (q *Queue) State() *State {
	return q.state
}

// Enqueue appends desc to the batch for key. It reports whether this call
// opened a new window; an arrival inside an open window is absorbed without
// restarting the timer. Enqueue never blocks on the window itself.
//
// The flush runs with ctx's values but not its cancellation: once opened, a
// window always closes and flushes.
func (q *Queue) Enqueue(ctx context.Context, key release.Key, desc release.FileDescriptor) bool {
	if !q.state.add(key, desc) {
		q.logger.Debug("descriptor joined open window",
			logging.String(logging.FieldReleaseKey, key.String()),
			logging.Int("pending", q.state.Pending(key)),
		)
		return false
	}

	timer := q.after(q.delay)
	q.wg.Add(1)
	go q.window(context.WithoutCancel(ctx), key, timer)

	q.logger.Debug("window opened",
		logging.String(logging.FieldReleaseKey, key.String()),
		logging.Duration("delay", q.delay),
	)
	return true
}

func (q *Queue) window(ctx context.Context, key release.Key, timer <-chan time.Time) {
	defer q.wg.Done()
	<-timer

	batch := q.state.pop(key)
	if len(batch) == 0 {
		q.logger.Error("window closed with empty batch",
			logging.String(logging.FieldReleaseKey, key.String()),
			logging.Alert("empty_batch"),
		)
		if q.onEmpty != nil {
			q.onEmpty(key)
		}
		return
	}

	q.logger.Info("window closed",
		logging.String(logging.FieldReleaseKey, key.String()),
		logging.Int("files", len(batch)),
	)
	if err := q.flush(ctx, key, batch); err != nil {
		q.logger.Debug("batch dropped",
			logging.String(logging.FieldReleaseKey, key.String()),
			logging.Int("files", len(batch)),
			logging.Error(err),
		)
	}
}

// Drain waits until every open window has closed and flushed, or ctx ends.
func (q *Queue) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain coalesce queue (%d open windows): %w", q.state.Keys(), ctx.Err())
	}
}
