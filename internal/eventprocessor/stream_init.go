// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamContext is the subset of jetstream.JetStream used for stream
// management, narrowed for testing.
type JetStreamContext interface {
	Stream(ctx context.Context, name string) (jetstream.Stream, error)
	CreateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
	UpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// StreamInitializer creates or updates the match stream.
type StreamInitializer struct {
	js     JetStreamContext
	config StreamConfig
}

// NewStreamInitializer returns an initializer for cfg. The stream must
// capture at least one subject.
func NewStreamInitializer(js JetStreamContext, cfg *StreamConfig) (*StreamInitializer, error) {
	switch {
	case js == nil:
		return nil, errors.New("JetStream context required")
	case cfg == nil:
		return nil, errors.New("stream config required")
	case len(cfg.Subjects) == 0:
		return nil, fmt.Errorf("stream %s has no subjects", cfg.Name)
	}
	return &StreamInitializer{js: js, config: *cfg}, nil
}

// EnsureStream creates the stream when it is missing. An existing stream is
// updated so limit changes take effect on restart.
func (s *StreamInitializer) EnsureStream(ctx context.Context) (jetstream.Stream, error) {
	name := s.config.Name
	desired := s.jetStreamConfig()

	var (
		stream jetstream.Stream
		op     string
	)
	_, err := s.js.Stream(ctx, name)
	switch {
	case err == nil:
		op = "update"
		stream, err = s.js.UpdateStream(ctx, desired)
	case errors.Is(err, jetstream.ErrStreamNotFound):
		op = "create"
		stream, err = s.js.CreateStream(ctx, desired)
	default:
		op = "check"
	}
	if err != nil {
		return nil, fmt.Errorf("%s stream %s: %w", op, name, err)
	}
	return stream, nil
}

// jetStreamConfig keeps match traffic on disk with limits retention. Old
// messages are discarded first once a limit is hit.
func (s *StreamInitializer) jetStreamConfig() jetstream.StreamConfig {
	c := s.config
	return jetstream.StreamConfig{
		Name:       c.Name,
		Subjects:   c.Subjects,
		Storage:    jetstream.FileStorage,
		Replicas:   c.Replicas,
		Retention:  jetstream.LimitsPolicy,
		Discard:    jetstream.DiscardOld,
		MaxAge:     c.MaxAge,
		MaxBytes:   c.MaxBytes,
		MaxMsgs:    c.MaxMsgs,
		Duplicates: c.DuplicateWindow,
	}
}

// Config returns a copy of the stream configuration.
func (s *StreamInitializer) Config() StreamConfig {
	return s.config
}
