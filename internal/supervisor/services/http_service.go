// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultHTTPShutdownTimeout = 10 * time.Second

// errHTTPStopped is returned when the listener exits without a shutdown
// request, so suture restarts the service.
var errHTTPStopped = errors.New("http server stopped unexpectedly")

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService adapts an HTTPServer to suture.Service. The match API
// runs in the api layer of the tree.
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
}

// NewHTTPServerService returns a service for server. shutdownTimeout bounds
// the graceful drain; values <= 0 mean 10s.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultHTTPShutdownTimeout
	}
	return &HTTPServerService{server: server, shutdownTimeout: shutdownTimeout}
}

// Serve listens until ctx is canceled, then drains in-flight requests.
func (s *HTTPServerService) Serve(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			return errHTTPStopped
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	// ctx is already done, so the drain gets its own deadline.
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	<-done
	return ctx.Err()
}

// String names the service in supervisor logs.
func (s *HTTPServerService) String() string {
	return "http-server"
}
