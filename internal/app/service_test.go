package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cellar-market/internal/config"
	"github.com/cellar-market/internal/provider"
	"github.com/cellar-market/internal/service"
)

type stubService struct {
	name     string
	startErr error
	block    bool

	mu      sync.Mutex
	stopped bool
	order   *[]string
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Start(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return nil
	}
	return s.startErr
}

func (s *stubService) Stop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.order != nil {
		*s.order = append(*s.order, s.name)
	}
	return nil
}

func TestRunnerStopsAllWhenOneFails(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	first := &stubService{name: "first", block: true, order: &order}
	second := &stubService{name: "second", startErr: boom, order: &order}

	err := NewRunner(first, nil, second).Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Fatalf("services should stop in reverse order, got %v", order)
	}
}

func TestRunnerCanceledContextIsClean(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := &stubService{name: "blocking", block: true}
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if err := NewRunner(svc).Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("canceled run should return nil, got %v", err)
	}
	if !svc.stopped {
		t.Fatalf("service should be stopped")
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner(nil).Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
}

func TestNormalizeOptionsUsesConfiguredShutdown(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.ShutdownTimeoutSeconds = 3
	opts := normalizeOptions(Options{Config: cfg})
	if opts.ShutdownTimeout != 3*time.Second || opts.Mode != ModeAll || opts.Logger == nil {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if got := normalizeOptions(Options{}).ShutdownTimeout; got != defaultShutdownTimeout {
		t.Fatalf("default shutdown want %s got %s", defaultShutdownTimeout, got)
	}
}

func TestBuildRunnerRejectsBadModes(t *testing.T) {
	cfg := &config.Config{}
	container := &provider.Container{Config: cfg}

	if _, err := BuildRunner(cfg, container, "batch"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
	if _, err := BuildRunner(cfg, container, ModeWorker); err == nil {
		t.Fatalf("worker mode without queue should fail")
	}
}

type countingReloader struct {
	calls int
	err   error
}

func (r *countingReloader) Reload() (*service.CatalogReloadResult, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &service.CatalogReloadResult{Count: 3, Version: uint64(r.calls)}, nil
}

func TestCatalogReloadService(t *testing.T) {
	if _, err := NewCatalogReloadService("not a cron", &countingReloader{}); err == nil {
		t.Fatalf("invalid cron expression should fail")
	}
	if _, err := NewCatalogReloadService("", &countingReloader{}); err == nil {
		t.Fatalf("empty cron expression should fail")
	}

	reloader := &countingReloader{}
	svc, err := NewCatalogReloadService("@every 1h", reloader)
	if err != nil {
		t.Fatalf("build cron service: %v", err)
	}
	if len(svc.scheduler.Entries()) != 1 {
		t.Fatalf("expected one scheduled entry")
	}

	runCatalogReload(reloader)
	reloader.err = errors.New("disk gone")
	runCatalogReload(reloader)
	if reloader.calls != 2 {
		t.Fatalf("reload should run on each tick, got %d", reloader.calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("start should exit cleanly, got %v", err)
	}
	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
