package daemon_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"reelpost/internal/daemon"
	"reelpost/internal/testsupport"
)

type blockingWatcher struct {
	started atomic.Bool
}

func (w *blockingWatcher) Run(ctx context.Context) error {
	w.started.Store(true)
	<-ctx.Done()
	return nil
}

type failingWatcher struct{}

func (failingWatcher) Run(context.Context) error { return errors.New("offset unreadable") }

type countingDrainer struct {
	calls atomic.Int32
}

func (d *countingDrainer) Drain(context.Context) error {
	d.calls.Add(1)
	return nil
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SaveFile(t, store, "u1", "Film 2020")
	watcher := &blockingWatcher{}
	drainer := &countingDrainer{}

	d, err := daemon.New(cfg, store, watcher, drainer, nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	status := d.Status(ctx)
	if !status.Running || status.Files != 1 || status.Keys != 1 {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.LockFilePath != cfg.LockPath() || status.DatabasePath != cfg.DatabasePath() {
		t.Fatalf("unexpected paths: %+v", status)
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop(time.Second)
	if d.Status(ctx).Running {
		t.Fatal("expected daemon to be stopped")
	}
	if drainer.calls.Load() != 1 {
		t.Fatalf("expected one drain, got %d", drainer.calls.Load())
	}
	select {
	case <-d.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}
	// Stopping twice is a no-op.
	d.Stop(time.Second)
	if drainer.calls.Load() != 1 {
		t.Fatal("second Stop drained again")
	}
}

func TestDaemonLockPreventsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	first, err := daemon.New(cfg, store, &blockingWatcher{}, &countingDrainer{}, nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	second, err := daemon.New(cfg, store, &blockingWatcher{}, &countingDrainer{}, nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	t.Cleanup(func() { first.Stop(time.Second) })

	if err := second.Start(ctx); err == nil {
		t.Fatal("expected lock contention error")
	}
}

func TestDaemonReportsWatcherFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, store, failingWatcher{}, &countingDrainer{}, nil, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher exit not reported")
	}
	if d.Err() == nil {
		t.Fatal("expected watcher error")
	}
	d.Stop(time.Second)
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := daemon.New(nil, nil, nil, nil, nil, nil); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

func TestAssembleValidatesRuntimeConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Telegram.DestinationChannel = 0
	if _, err := daemon.Assemble(cfg, nil); err == nil {
		t.Fatal("expected error without destination channel")
	}
}

func TestAssembleWiresSources(t *testing.T) {
	tmdbServer := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(tmdbServer.Close)
	cfg := testsupport.NewConfig(t,
		testsupport.WithTMDB(tmdbServer.URL),
		testsupport.WithSearchAPI(tmdbServer.URL+"/api.php"),
	)

	enricher, err := daemon.NewEnricher(cfg, nil)
	if err != nil {
		t.Fatalf("NewEnricher: %v", err)
	}
	names := enricher.Sources()
	if len(names) != 2 || names[0] != "tmdb" || names[1] != "search_api" {
		t.Fatalf("sources = %v", names)
	}

	d, err := daemon.Assemble(cfg, nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if err := d.Close(time.Second); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestDrainTimeoutCoversWindow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if got := daemon.DrainTimeout(cfg); got <= cfg.CoalesceDelay() {
		t.Fatalf("drain timeout %s does not exceed window %s", got, cfg.CoalesceDelay())
	}
}
