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
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/visitormatch/internal/config"
)

// Transport kinds accepted in EventsConfig.Transport.
const (
	TransportGoChannel = "gochannel"
	TransportNATS      = "nats"
)

// Transport owns the broker side of the pipeline: the embedded server, the
// management connection and one subscriber per handler. The publisher it
// creates is owned and closed by the caller.
type Transport struct {
	kind      string
	cfg       config.EventsConfig
	logger    watermill.LoggerAdapter
	publisher message.Publisher

	// gochannel
	pubSub *gochannel.GoChannel

	// nats
	url    string
	server *EmbeddedServer
	conn   *natsgo.Conn

	mu          sync.Mutex
	subscribers []message.Subscriber
	closed      bool
}

// NewTransport connects the configured transport. For NATS it optionally
// starts the embedded server and ensures the match stream exists.
func NewTransport(ctx context.Context, cfg config.EventsConfig, logger watermill.LoggerAdapter) (*Transport, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	t := &Transport{kind: cfg.Transport, cfg: cfg, logger: logger}

	switch cfg.Transport {
	case TransportGoChannel, "":
		t.kind = TransportGoChannel
		t.pubSub = gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, logger)
		t.publisher = t.pubSub
		return t, nil

	case TransportNATS:
		if err := t.connectNATS(ctx); err != nil {
			_ = t.Close()
			return nil, err
		}
		return t, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Transport)
	}
}

func (t *Transport) connectNATS(ctx context.Context) error {
	t.url = t.cfg.NATSURL

	if t.cfg.Embedded {
		serverCfg := DefaultServerConfig()
		serverCfg.Port = t.cfg.EmbeddedPort
		serverCfg.StoreDir = t.cfg.StoreDir

		srv, err := NewEmbeddedServer(&serverCfg)
		if err != nil {
			return fmt.Errorf("start embedded NATS: %w", err)
		}
		t.server = srv
		t.url = srv.ClientURL()
		t.logger.Info("Embedded NATS server started", watermill.LogFields{"url": t.url})
	}

	conn, err := natsgo.Connect(t.url,
		natsgo.Name("visitormatch-admin"),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS at %s: %w", t.url, err)
	}
	t.conn = conn

	js, err := jetstream.New(conn)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	streamCfg := DefaultStreamConfig(TopicsFromConfig(&t.cfg))
	initializer, err := NewStreamInitializer(js, &streamCfg)
	if err != nil {
		return err
	}
	if _, err := initializer.EnsureStream(ctx); err != nil {
		return err
	}

	pub, err := NewNATSPublisher(DefaultPublisherConfig(t.url), t.logger)
	if err != nil {
		return err
	}
	t.publisher = pub
	return nil
}

// Kind returns the transport kind.
func (t *Transport) Kind() string {
	return t.kind
}

// Publisher returns the raw broker publisher.
func (t *Transport) Publisher() message.Publisher {
	return t.publisher
}

// Subscriber returns a subscriber for the handler called name. NATS
// subscribers get a durable consumer derived from the queue group and name;
// the in-memory transport shares one pub/sub.
func (t *Transport) Subscriber(name string) (message.Subscriber, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrProcessorClosed
	}

	if t.kind == TransportGoChannel {
		return t.pubSub, nil
	}

	subCfg := DefaultSubscriberConfig(t.url, t.cfg.QueueGroup, name)
	if t.cfg.CloseTimeout > 0 {
		subCfg.CloseTimeout = t.cfg.CloseTimeout
	}
	if t.cfg.RetryCount > 0 {
		subCfg.MaxDeliver = t.cfg.RetryCount + 2
	}

	sub, err := NewNATSSubscriber(&subCfg, t.logger)
	if err != nil {
		return nil, err
	}
	t.subscribers = append(t.subscribers, sub)
	return sub, nil
}

// Ready reports whether the broker is reachable.
func (t *Transport) Ready(_ context.Context) error {
	if t.kind == TransportGoChannel {
		return nil
	}
	if t.conn == nil || !t.conn.IsConnected() {
		return ErrNATSDisconnected
	}
	return nil
}

// Close releases subscribers, the management connection and the embedded
// server. It is idempotent.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	var errs []error
	for _, sub := range t.subscribers {
		if err := sub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if t.pubSub != nil {
		if err := t.pubSub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close gochannel: %w", err))
		}
	}
	if t.conn != nil {
		t.conn.Close()
	}
	if t.server != nil {
		timeout := t.cfg.CloseTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := t.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown embedded NATS: %w", err))
		}
	}
	return errors.Join(errs...)
}
