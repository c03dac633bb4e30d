package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"reelpost/internal/config"
	"reelpost/internal/filestore"
	"reelpost/internal/logging"
	"reelpost/internal/notifications"
)

// Runner is the inbound loop; it returns when ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// Drainer flushes pending work on shutdown.
type Drainer interface {
	Drain(ctx context.Context) error
}

// Daemon coordinates the background services and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *filestore.Store
	watcher  Runner
	drainer  Drainer
	notifier notifications.Service

	lockPath string
	lock     *flock.Flock

	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
	runErr  error
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Files        int
	Keys         int
	DatabasePath string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *filestore.Store, watcher Runner, drainer Drainer, logger *slog.Logger, notifier notifications.Service) (*Daemon, error) {
	if cfg == nil || store == nil || watcher == nil || drainer == nil {
		return nil, errors.New("daemon requires config, store, watcher, and drainer")
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		watcher:  watcher,
		drainer:  drainer,
		notifier: notifier,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the watcher.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another reelpost instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.runErr = nil
	go func(done chan struct{}) {
		defer close(done)
		if err := d.watcher.Run(runCtx); err != nil {
			d.logger.Error("watcher stopped", logging.Error(err))
			d.mu.Lock()
			d.runErr = err
			d.mu.Unlock()
		}
	}(d.done)

	d.running.Store(true)
	d.logger.Info("reelpost daemon started",
		logging.String("lock", d.lockPath),
		logging.Int("sources", len(d.cfg.Telegram.SourceChannels)),
	)
	d.notify(ctx, notifications.EventDaemonStarted, notifications.Payload{"sources": len(d.cfg.Telegram.SourceChannels)})
	return nil
}

// Done is closed when the watcher exits, whether by Stop or on its own.
func (d *Daemon) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return d.done
}

// Err returns the error the watcher stopped with, if any.
func (d *Daemon) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runErr
}

// Stop ends polling, waits up to drainTimeout for open windows to flush,
// and releases the daemon lock.
func (d *Daemon) Stop(drainTimeout time.Duration) {
	d.mu.Lock()
	if !d.running.Load() {
		d.mu.Unlock()
		return
	}
	cancel, done := d.cancel, d.done
	d.cancel = nil
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-done

	ctx, stop := context.WithTimeout(context.Background(), drainTimeout)
	defer stop()
	if err := d.drainer.Drain(ctx); err != nil {
		d.logger.Warn("pending batches not flushed before shutdown",
			logging.Error(err),
			logging.Alert("drain_timeout"),
		)
	}

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("reelpost daemon stopped")
	d.notify(context.Background(), notifications.EventDaemonStopped, nil)
}

// Close stops the daemon and closes the store.
func (d *Daemon) Close(drainTimeout time.Duration) error {
	d.Stop(drainTimeout)
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
	}
	files, keys, err := d.store.Stats(ctx)
	if err != nil {
		d.logger.Debug("file stats unavailable", logging.Error(err))
		return status
	}
	status.Files, status.Keys = files, keys
	return status
}

func (d *Daemon) notify(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if err := d.notifier.Publish(ctx, event, payload); err != nil {
		d.logger.Debug("operator notification failed", logging.Error(err))
	}
}
