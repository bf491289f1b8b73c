// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/visitormatch/internal/metrics"
)

// Publisher wraps a Watermill publisher with circuit breaker protection.
// It implements message.Publisher so the router can publish handler
// output through it.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	mu             sync.RWMutex
	closed         bool
}

// NewPublisher wraps pub. A nil breaker publishes without protection.
func NewPublisher(pub message.Publisher, cb *gobreaker.CircuitBreaker[interface{}]) *Publisher {
	return &Publisher{
		publisher:      pub,
		circuitBreaker: cb,
	}
}

const (
	publishRetryAttempts = 3
	publishRetryWait     = 100 * time.Millisecond
)

// NewNATSPublisher creates a JetStream publisher. The stream is pre-created
// by StreamInitializer, so auto provisioning is disabled.
func NewNATSPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	natsOpts := append(
		natsConnOptions("visitormatch-publisher", cfg.MaxReconnects, cfg.ReconnectWait, logger),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
	)

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			TrackMsgId: cfg.EnableTrackMsgID,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(publishRetryAttempts),
				natsgo.RetryWait(publishRetryWait),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return pub, nil
}

// Publish sends msgs to topic one at a time, stopping at the first
// failure. Messages without a Nats-Msg-Id get their UUID so JetStream drops
// redelivered duplicates.
func (p *Publisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPublisherClosed
	}
	for _, msg := range msgs {
		if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
			msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
		}
		if err := p.publishOne(topic, msg); err != nil {
			return fmt.Errorf("publish message %s: %w", msg.UUID, err)
		}
		metrics.RecordEventPublished(topic)
	}
	return nil
}

// publishOne routes through the breaker when one is configured, so an
// unreachable broker fails fast once it trips.
func (p *Publisher) publishOne(topic string, msg *message.Message) error {
	if p.circuitBreaker == nil {
		return p.publisher.Publish(topic, msg)
	}
	_, err := p.circuitBreaker.Execute(func() (interface{}, error) {
		return nil, p.publisher.Publish(topic, msg)
	})
	return err
}

// BreakerState returns the breaker state, or "closed" without a breaker.
func (p *Publisher) BreakerState() gobreaker.State {
	if p.circuitBreaker == nil {
		return gobreaker.StateClosed
	}
	return p.circuitBreaker.State()
}

// Close gracefully shuts down the publisher. It is idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.publisher.Close()
}
