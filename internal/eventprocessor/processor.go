// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/visitormatch/internal/config"
	"github.com/tomtom215/visitormatch/internal/logging"
	"github.com/tomtom215/visitormatch/internal/matching"
	"github.com/tomtom215/visitormatch/internal/models"
)

// Handler names registered on the router.
const (
	fingerprintHandlerName = "fingerprint-match"
	visitorHandlerName     = "visitor-match"
)

// Processor consumes match requests from the event transport, runs them
// through the engine and publishes results. A processor can be started
// again after Shutdown; Close releases the transport for good.
type Processor struct {
	cfg       config.EventsConfig
	topics    Topics
	logger    watermill.LoggerAdapter
	transport *Transport
	publisher *Publisher
	handlers  *MatchHandlers

	fingerprintSub message.Subscriber
	visitorSub     message.Subscriber

	mu     sync.Mutex
	router *Router
	done   chan struct{}
	closed bool
}

// NewProcessor connects the transport and prepares the handlers.
func NewProcessor(ctx context.Context, cfg config.EventsConfig, engine *matching.Engine, logger watermill.LoggerAdapter) (*Processor, error) {
	if engine == nil {
		return nil, fmt.Errorf("matching engine required")
	}
	if logger == nil {
		logger = logging.NewWatermillAdapter()
	}

	transport, err := NewTransport(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	topics := TopicsFromConfig(&cfg)
	p := &Processor{
		cfg:       cfg,
		topics:    topics,
		logger:    logger,
		transport: transport,
		publisher: NewPublisher(transport.Publisher(), NewCircuitBreaker(CircuitBreakerConfigFromEvents("match-results", &cfg))),
		handlers:  NewMatchHandlers(engine, topics, cfg.ResultCacheSize, cfg.ResultCacheTTL),
	}

	if p.fingerprintSub, err = transport.Subscriber("fingerprint"); err != nil {
		_ = p.Close()
		return nil, err
	}
	if p.visitorSub, err = transport.Subscriber("visitor"); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

// Start builds a router and blocks until every handler is subscribed. The
// router stops when ctx is canceled or Shutdown is called.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrProcessorClosed
	}
	if p.router != nil {
		return fmt.Errorf("event processor already running")
	}

	routerCfg := RouterConfigFromEvents(&p.cfg)
	router, err := NewRouter(&routerCfg, p.publisher, p.logger)
	if err != nil {
		return err
	}
	// The processor owns the publisher and subscribers across restarts.
	pub := BorrowedPublisher(p.publisher)
	router.AddHandler(fingerprintHandlerName, p.topics.FingerprintRequests, BorrowedSubscriber(p.fingerprintSub),
		p.topics.FingerprintResults, pub, p.handlers.HandleFingerprint)
	router.AddHandler(visitorHandlerName, p.topics.VisitorRequests, BorrowedSubscriber(p.visitorSub),
		p.topics.VisitorResults, pub, p.handlers.HandleVisitor)

	done := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		defer close(done)
		if err := router.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-router.Running():
	case err := <-errCh:
		return fmt.Errorf("event router failed to start: %w", err)
	case <-ctx.Done():
		_ = router.Close()
		<-done
		return ctx.Err()
	}

	p.router = router
	p.done = done
	logging.Info().
		Str("transport", p.transport.Kind()).
		Strs("topics", []string{p.topics.FingerprintRequests, p.topics.VisitorRequests}).
		Msg("Event processor started")
	return nil
}

// Shutdown stops the router, waiting for in-flight handlers until ctx is done.
func (p *Processor) Shutdown(ctx context.Context) {
	p.mu.Lock()
	router, done := p.router, p.done
	p.router, p.done = nil, nil
	p.mu.Unlock()

	if router == nil {
		return
	}
	if err := router.Close(); err != nil {
		logging.Error().Err(err).Msg("Event router close failed")
	}
	select {
	case <-done:
	case <-ctx.Done():
		logging.Warn().Msg("Event router did not stop before shutdown deadline")
	}
}

// IsRunning reports whether the router is processing messages.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.router != nil && p.router.IsRunning()
}

// Name identifies the processor in readiness checks.
func (p *Processor) Name() string {
	return "events"
}

// Ready reports whether requests are being consumed and results can be
// published.
func (p *Processor) Ready(ctx context.Context) error {
	if !p.IsRunning() {
		return ErrNotRunning
	}
	if p.publisher.BreakerState() == gobreaker.StateOpen {
		return ErrBreakerOpen
	}
	return p.transport.Ready(ctx)
}

// Topics returns the configured topic names.
func (p *Processor) Topics() Topics {
	return p.topics
}

// Subscribe returns a subscription on the processor's transport, for
// consumers of result topics running in the same process.
func (p *Processor) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	sub, err := p.transport.Subscriber("results-" + topic)
	if err != nil {
		return nil, err
	}
	return sub.Subscribe(ctx, topic)
}

// SubmitFingerprint publishes a fingerprint match request.
func (p *Processor) SubmitFingerprint(ctx context.Context, req *models.FingerprintMatchRequest) error {
	return p.submit(ctx, p.topics.FingerprintRequests, KindFingerprint, req, req.RequestID)
}

// SubmitVisitor publishes a visitor match request.
func (p *Processor) SubmitVisitor(ctx context.Context, req *models.VisitorMatchRequest) error {
	return p.submit(ctx, p.topics.VisitorRequests, KindVisitor, req, req.RequestID)
}

func (p *Processor) submit(ctx context.Context, topic, kind string, req interface{}, requestID string) error {
	payload, err := SerializeRequest(req)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set(MetadataKind, kind)
	if requestID != "" {
		msg.Metadata.Set(MetadataRequestID, requestID)
	}
	cid := logging.CorrelationIDFromContext(ctx)
	if cid == "" {
		cid = logging.GenerateCorrelationID()
	}
	middleware.SetCorrelationID(cid, msg)

	return p.publisher.Publish(topic, msg)
}

// CacheStats reports result cache hits, misses and size.
func (p *Processor) CacheStats() (hits, misses int64, size int) {
	return p.handlers.CacheStats()
}

// Close stops the router and releases the publisher and transport.
func (p *Processor) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), p.closeTimeout())
	defer cancel()
	p.Shutdown(ctx)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	return errors.Join(p.publisher.Close(), p.transport.Close())
}

func (p *Processor) closeTimeout() time.Duration {
	if p.cfg.CloseTimeout > 0 {
		return p.cfg.CloseTimeout
	}
	return DefaultRouterConfig().CloseTimeout
}

// CleanupExpired purges expired cached results.
func (p *Processor) CleanupExpired() int {
	return p.handlers.results.CleanupExpired()
}
