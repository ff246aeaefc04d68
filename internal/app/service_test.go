package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/boxorder-next/internal/config"
	"github.com/boxorder-next/internal/provider"
)

type fakeService struct {
	name     string
	startErr error
	stopped  atomic.Bool
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	<-ctx.Done()
	return nil
}

func (f *fakeService) Stop(_ context.Context) error {
	f.stopped.Store(true)
	return nil
}

func TestRunnerStopsAllOnCancel(t *testing.T) {
	a := &fakeService{name: "http"}
	b := &fakeService{name: "holding_sweeper"}
	runner := NewRunner(a, b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx, time.Second, nil) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not return")
	}
	if !a.stopped.Load() || !b.stopped.Load() {
		t.Fatalf("expected every service stopped")
	}
}

func TestRunnerReturnsStartError(t *testing.T) {
	boom := errors.New("listen failed")
	healthy := &fakeService{name: "worker"}
	runner := NewRunner(&fakeService{name: "http", startErr: boom}, healthy)

	if err := runner.Run(context.Background(), time.Second, nil); !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}
	if !healthy.stopped.Load() {
		t.Fatalf("expected remaining service stopped")
	}
}

func TestRunnerNames(t *testing.T) {
	runner := NewRunner(&fakeService{name: "http"}, nil, &fakeService{name: "worker"})
	names := runner.Names()
	if len(names) != 2 || names[0] != "http" || names[1] != "worker" {
		t.Fatalf("unexpected names: %v", names)
	}
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("expected error for empty runner")
	}
}

func TestBuildServicesWorkerModeRequiresQueue(t *testing.T) {
	cfg := &config.Config{}
	if _, err := buildServices(cfg, ModeWorker, &provider.Container{Config: cfg}); err == nil {
		t.Fatalf("expected worker mode without queue to fail")
	}
	if _, err := BuildRunner(cfg, "batch"); err == nil {
		t.Fatalf("expected unknown mode to fail")
	}
}

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts := normalizeOptions(Options{})
	if opts.Mode != ModeAll || opts.ShutdownTimeout != 10*time.Second || opts.Logger == nil {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}
