package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/o4o-platform/settlement/internal/config"
)

type fakeService struct {
	name     string
	startErr error
	block    bool

	mu      sync.Mutex
	stopped chan struct{}
	order   *[]string
}

func newFakeService(name string, order *[]string) *fakeService {
	return &fakeService{name: name, block: true, stopped: make(chan struct{}), order: order}
}

func (s *fakeService) Name() string { return s.name }

func (s *fakeService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	if !s.block {
		return nil
	}
	select {
	case <-ctx.Done():
	case <-s.stopped:
	}
	return nil
}

func (s *fakeService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order != nil {
		*s.order = append(*s.order, s.name)
	}
	select {
	case <-s.stopped:
	default:
		close(s.stopped)
	}
	return nil
}

func TestRunnerStopsInReverseOrderOnCancel(t *testing.T) {
	var order []string
	first := newFakeService("http", &order)
	second := newFakeService("worker", &order)
	runner := NewRunner(first, nil, second)
	if names := runner.Names(); len(names) != 2 {
		t.Fatalf("nil service should be dropped, got %v", names)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx, time.Second, nil) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("cancel should return nil, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("runner did not stop")
	}
	if len(order) != 2 || order[0] != "worker" || order[1] != "http" {
		t.Fatalf("stop order want [worker http] got %v", order)
	}
}

func TestRunnerReturnsStartError(t *testing.T) {
	boom := errors.New("listen failed")
	failing := &fakeService{name: "http", startErr: boom, stopped: make(chan struct{})}
	healthy := newFakeService("worker", nil)

	err := NewRunner(failing, healthy).Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}
}

func TestRunnerWithoutServices(t *testing.T) {
	if err := NewRunner().Run(context.Background(), time.Second, nil); err == nil {
		t.Fatalf("empty runner should fail")
	}
	if err := RunWithOptions(nil, Options{}); err == nil {
		t.Fatalf("nil runner should fail")
	}
}

func TestHTTPServiceServesUntilStopped(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	svc := NewHTTPService(config.ServerConfig{Host: "127.0.0.1", Port: "0"}, handler)

	done := make(chan error, 1)
	go func() { done <- svc.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for svc.Addr() == nil {
		if time.Now().After(deadline) {
			t.Fatalf("http service did not start listening")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get("http://" + svc.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status want 204 got %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Stop(ctx); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start should return nil after stop, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("start did not return after stop")
	}
}

func TestValidMode(t *testing.T) {
	for _, mode := range []string{"", ModeAll, ModeAPI, ModeWorker} {
		if !ValidMode(mode) {
			t.Fatalf("mode %q should be valid", mode)
		}
	}
	if ValidMode("scheduler") {
		t.Fatalf("unknown mode should be rejected")
	}
	if opts := normalizeOptions(Options{}); opts.Mode != ModeAll || opts.ShutdownTimeout != defaultShutdownTimeout {
		t.Fatalf("normalize defaults mismatch: %+v", opts)
	}
}
