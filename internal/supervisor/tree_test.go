// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// stubService counts starts and fails its first failures runs.
type stubService struct {
	name     string
	failures int32
	starts   atomic.Int32
	started  chan struct{}
}

func newStubService(name string, failures int32) *stubService {
	return &stubService{name: name, failures: failures, started: make(chan struct{}, 16)}
}

func (s *stubService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	select {
	case s.started <- struct{}{}:
	default:
	}
	if n <= s.failures {
		return errors.New("broker unavailable")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) String() string { return s.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitStarted(t *testing.T, svc *stubService, want int32) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for svc.starts.Load() < want {
		select {
		case <-svc.started:
		case <-deadline:
			t.Fatalf("%s started %d times, want %d", svc.name, svc.starts.Load(), want)
		}
	}
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor is nil")
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
	}

	custom, _ := NewSupervisorTree(quietLogger(), TreeConfig{FailureThreshold: 2, ShutdownTimeout: time.Second})
	if custom.config.FailureThreshold != 2 || custom.config.ShutdownTimeout != time.Second {
		t.Errorf("explicit values overridden: %+v", custom.config)
	}
	if custom.config.FailureDecay != 30 {
		t.Errorf("FailureDecay = %v, want default 30", custom.config.FailureDecay)
	}
}

func TestSupervisorTree_StartsEveryLayer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		add  func(*SupervisorTree, suture.Service) suture.ServiceToken
	}{
		{"maintenance", (*SupervisorTree).AddMaintenanceService},
		{"messaging", (*SupervisorTree).AddMessagingService},
		{"api", (*SupervisorTree).AddAPIService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
			svc := newStubService(tt.name, 0)
			tt.add(tree, svc)

			ctx, cancel := context.WithCancel(context.Background())
			errCh := tree.ServeBackground(ctx)

			waitStarted(t, svc, 1)
			cancel()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, context.Canceled) {
					t.Errorf("Serve() error = %v", err)
				}
			case <-time.After(3 * time.Second):
				t.Fatal("tree did not stop after cancellation")
			}

			report, err := tree.UnstoppedServiceReport()
			if err != nil {
				t.Fatalf("UnstoppedServiceReport() error = %v", err)
			}
			if len(report) != 0 {
				t.Errorf("unstopped services: %v", report)
			}
		})
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	failing := newStubService("event-processor", 2)
	stable := newStubService("http-server", 0)
	tree.AddMessagingService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.ServeBackground(ctx)

	waitStarted(t, failing, 3)
	waitStarted(t, stable, 1)

	if got := stable.starts.Load(); got != 1 {
		t.Errorf("stable service started %d times, want 1", got)
	}
}
