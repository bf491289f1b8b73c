// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
)

// natsConnOptions returns the connection options shared by publishers and
// subscribers. Connections retry forever and log state changes.
func natsConnOptions(name string, maxReconnects int, wait time.Duration, logger watermill.LoggerAdapter) []natsgo.Option {
	fields := watermill.LogFields{"connection": name}
	return []natsgo.Option{
		natsgo.Name(name),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(maxReconnects),
		natsgo.ReconnectWait(wait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS connection lost", err, fields)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS connection restored", fields.Add(watermill.LogFields{
				"url": nc.ConnectedUrl(),
			}))
		}),
	}
}

// NewNATSSubscriber creates a durable JetStream queue subscriber for one
// request topic. Each topic gets its own durable so consumers never collide.
func NewNATSSubscriber(cfg *SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	if cfg == nil {
		return nil, fmt.Errorf("subscriber config is required")
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	js := wmNats.JetStreamConfig{
		AutoProvision: true,
		DurablePrefix: cfg.DurableName,
		SubscribeOptions: []natsgo.SubOpt{
			natsgo.DeliverNew(),
			natsgo.AckWait(cfg.AckWaitTimeout),
			natsgo.MaxDeliver(cfg.MaxDeliver),
			natsgo.MaxAckPending(cfg.MaxAckPending),
		},
	}
	// Topics contain dots and cannot name a stream, so bind to the stream
	// StreamInitializer created instead of provisioning one per topic.
	if cfg.StreamName != "" {
		js.AutoProvision = false
		js.SubscribeOptions = append(js.SubscribeOptions, natsgo.BindStream(cfg.StreamName))
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: cfg.SubscribersCount,
		AckWaitTimeout:   cfg.AckWaitTimeout,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsConnOptions("visitormatch-"+cfg.DurableName, cfg.MaxReconnects, cfg.ReconnectWait, logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        js,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}
	return sub, nil
}
