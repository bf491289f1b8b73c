// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"regexp"
	"strings"
	"time"

	"github.com/tomtom215/visitormatch/internal/config"
)

// StreamName is the JetStream stream holding every match topic.
const StreamName = "VISITORMATCH"

// Topics names the request, result and poison topics.
type Topics struct {
	FingerprintRequests string
	FingerprintResults  string
	VisitorRequests     string
	VisitorResults      string
	Poison              string
}

// TopicsFromConfig extracts the topic names from the events configuration.
func TopicsFromConfig(cfg *config.EventsConfig) Topics {
	return Topics{
		FingerprintRequests: cfg.FingerprintRequestTopic,
		FingerprintResults:  cfg.FingerprintResultTopic,
		VisitorRequests:     cfg.VisitorRequestTopic,
		VisitorResults:      cfg.VisitorResultTopic,
		Poison:              cfg.PoisonTopic,
	}
}

// All returns every topic, requests first.
func (t Topics) All() []string {
	return []string{t.FingerprintRequests, t.VisitorRequests, t.FingerprintResults, t.VisitorResults, t.Poison}
}

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int // -1 picks a random free port
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// DefaultServerConfig returns production defaults for the embedded server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats",
		JetStreamMaxMem:   256 << 20, // 256MB
		JetStreamMaxStore: 1 << 30,   // 1GB
	}
}

// PublisherConfig holds publisher configuration.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool // nolint:revive // ID is correct per Go conventions
}

// DefaultPublisherConfig returns production defaults for publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1, // Unlimited
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024, // 8MB
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds subscriber configuration.
type SubscriberConfig struct {
	URL              string
	DurableName      string
	QueueGroup       string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration
	// StreamName binds the subscriber to an existing stream. Stream and
	// durable names cannot contain dots, so topics are never used as names.
	StreamName string
}

// DefaultSubscriberConfig returns production defaults for a subscriber of
// one request topic. name distinguishes the durable consumer per handler.
func DefaultSubscriberConfig(url, queueGroup, name string) SubscriberConfig {
	durable := consumerName(queueGroup + "-" + name)
	return SubscriberConfig{
		URL:              url,
		DurableName:      durable,
		QueueGroup:       durable,
		SubscribersCount: 4,
		AckWaitTimeout:   30 * time.Second,
		MaxDeliver:       5,
		MaxAckPending:    1000,
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		StreamName:       StreamName,
	}
}

var invalidConsumerChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// consumerName maps s to a valid JetStream durable name.
func consumerName(s string) string {
	return strings.Trim(invalidConsumerChars.ReplaceAllString(s, "_"), "_")
}

// StreamConfig holds JetStream stream configuration.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns the stream configuration covering topics.
// Match requests are short-lived, so retention is one day.
func DefaultStreamConfig(topics Topics) StreamConfig {
	return StreamConfig{
		Name:            StreamName,
		Subjects:        topics.All(),
		MaxAge:          24 * time.Hour,
		MaxBytes:        1 << 30, // 1GB
		MaxMsgs:         -1,      // Unlimited
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Allowed in half-open state
	Interval         time.Duration // Reset interval for counts
	Timeout          time.Duration // Time to stay open
	FailureThreshold uint32        // Failures before opening
}

// CircuitBreakerConfigFromEvents builds the result publisher breaker settings.
func CircuitBreakerConfigFromEvents(name string, cfg *config.EventsConfig) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         cfg.BreakerInterval,
		Timeout:          cfg.BreakerTimeout,
		FailureThreshold: cfg.BreakerMaxFailures,
	}
}

// RouterConfig holds configuration for the Watermill Router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// Throttle configuration (messages per second, 0 = disabled)
	ThrottlePerSecond int64

	// PoisonQueue configuration
	PoisonQueueTopic string
}

// RouterConfigFromEvents builds router settings from the events configuration.
func RouterConfigFromEvents(cfg *config.EventsConfig) RouterConfig {
	return RouterConfig{
		CloseTimeout:         cfg.CloseTimeout,
		RetryMaxRetries:      cfg.RetryCount,
		RetryInitialInterval: cfg.RetryInitialInterval,
		RetryMaxInterval:     10 * time.Second,
		RetryMultiplier:      2.0,
		PoisonQueueTopic:     cfg.PoisonTopic,
	}
}
