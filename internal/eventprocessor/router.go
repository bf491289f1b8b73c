// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     10 * time.Second,
		RetryMultiplier:      2.0,
		ThrottlePerSecond:    0, // Disabled by default
		PoisonQueueTopic:     "match.poison",
	}
}

// Router wraps the Watermill router with the middleware stack every match
// handler runs behind:
//
//   - Recoverer: turns handler panics into errors
//   - CorrelationID: copies the correlation ID onto produced messages
//   - Retry: exponential backoff for transient failures
//   - Throttle: optional rate limit
//   - PoisonQueue: messages that exhaust their retries are parked
type Router struct {
	router   *message.Router
	config   RouterConfig
	logger   watermill.LoggerAdapter
	handlers map[string]*message.Handler
}

// NewRouter creates a router. A nil poison publisher disables the poison queue.
func NewRouter(cfg *RouterConfig, poisonPublisher message.Publisher, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if cfg == nil {
		defaultCfg := DefaultRouterConfig()
		cfg = &defaultCfg
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Middleware order matters: the poison queue must be outermost of the
	// error handling so it only sees errors that survived every retry.
	if poisonPublisher != nil && cfg.PoisonQueueTopic != "" {
		poisonQueue, err := middleware.PoisonQueue(poisonPublisher, cfg.PoisonQueueTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		wmRouter.AddMiddleware(poisonQueue)
	}

	wmRouter.AddMiddleware(middleware.CorrelationID)

	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      cfg.RetryMultiplier,
		Logger:          logger,
	}
	wmRouter.AddMiddleware(retry.Middleware)

	if cfg.ThrottlePerSecond > 0 {
		throttle := middleware.NewThrottle(cfg.ThrottlePerSecond, time.Second)
		wmRouter.AddMiddleware(throttle.Middleware)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)

	return &Router{
		router:   wmRouter,
		config:   *cfg,
		logger:   logger,
		handlers: make(map[string]*message.Handler),
	}, nil
}

// AddHandler registers a handler that consumes subscribeTopic and publishes
// its output to publishTopic. Watermill closes a handler's subscriber and
// publisher when the router closes; wrap them with Borrowed when they
// outlive the router.
func (r *Router) AddHandler(
	name string,
	subscribeTopic string,
	subscriber message.Subscriber,
	publishTopic string,
	publisher message.Publisher,
	handler message.HandlerFunc,
) *message.Handler {
	h := r.router.AddHandler(name, subscribeTopic, subscriber, publishTopic, publisher, handler)
	r.handlers[name] = h
	return h
}

// Handlers returns the registered handler names.
func (r *Router) Handlers() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Run starts the router and blocks until ctx is canceled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once every handler is subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// IsRunning reports whether the router is processing messages. Watermill's
// own IsRunning stays true after Close.
func (r *Router) IsRunning() bool {
	return r.router.IsRunning() && !r.router.IsClosed()
}

// Close stops the router, waiting up to CloseTimeout for in-flight handlers.
func (r *Router) Close() error {
	return r.router.Close()
}

// borrowedPublisher is a publisher whose lifecycle belongs to someone else.
type borrowedPublisher struct{ message.Publisher }

func (borrowedPublisher) Close() error { return nil }

// borrowedSubscriber is a subscriber whose lifecycle belongs to someone else.
// Subscriptions still end when the router cancels their context.
type borrowedSubscriber struct{ message.Subscriber }

func (borrowedSubscriber) Close() error { return nil }

// BorrowedPublisher hides Close so the router cannot close pub.
func BorrowedPublisher(pub message.Publisher) message.Publisher {
	return borrowedPublisher{pub}
}

// BorrowedSubscriber hides Close so the router cannot close sub.
func BorrowedSubscriber(sub message.Subscriber) message.Subscriber {
	return borrowedSubscriber{sub}
}
