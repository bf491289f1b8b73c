// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package services

import (
	"context"
	"fmt"
	"time"
)

// EventPipeline is the event processor lifecycle. It is satisfied by
// *eventprocessor.Processor.
type EventPipeline interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	IsRunning() bool
}

// EventProcessorService adapts the Start/Shutdown lifecycle to suture's
// Serve. When the router stops on its own (broker failure, closed
// subscription) Serve returns an error so the supervisor restarts it.
type EventProcessorService struct {
	pipeline        EventPipeline
	shutdownTimeout time.Duration
	pollInterval    time.Duration
	name            string
}

// NewEventProcessorService wraps pipeline. A non-positive timeout defaults to 10s.
func NewEventProcessorService(pipeline EventPipeline, shutdownTimeout time.Duration) *EventProcessorService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EventProcessorService{
		pipeline:        pipeline,
		shutdownTimeout: shutdownTimeout,
		pollInterval:    5 * time.Second,
		name:            "event-processor",
	}
}

// Serve implements suture.Service.
func (s *EventProcessorService) Serve(ctx context.Context) error {
	if err := s.pipeline.Start(ctx); err != nil {
		return fmt.Errorf("event processor start failed: %w", err)
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return ctx.Err()

		case <-ticker.C:
			if !s.pipeline.IsRunning() {
				s.shutdown()
				return fmt.Errorf("event processor stopped unexpectedly")
			}
		}
	}
}

// shutdown uses a fresh context because the serve context is usually canceled.
func (s *EventProcessorService) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.pipeline.Shutdown(ctx)
}

// String implements fmt.Stringer for suture logging.
func (s *EventProcessorService) String() string {
	return s.name
}
