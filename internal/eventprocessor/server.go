// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

const (
	embeddedServerName = "visitormatch-events"
	embeddedReadyWait  = 30 * time.Second

	// Candidate lists in a single request can be large.
	embeddedMaxPayload = 8 << 20
)

var errServerNotReady = errors.New("embedded NATS server not ready")

// EmbeddedServer is an in-process NATS server with JetStream, used when no
// external NATS URL is configured.
type EmbeddedServer struct {
	ns  *server.Server
	url string
}

// serverOptions translates cfg into nats-server options.
func serverOptions(cfg *ServerConfig) *server.Options {
	return &server.Options{
		ServerName:         embeddedServerName,
		Host:               cfg.Host,
		Port:               cfg.Port,
		NoSigs:             true,
		MaxPayload:         embeddedMaxPayload,
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: cfg.JetStreamMaxMem,
		JetStreamMaxStore:  cfg.JetStreamMaxStore,
	}
}

// NewEmbeddedServer starts the server and blocks until it accepts clients.
func NewEmbeddedServer(cfg *ServerConfig) (*EmbeddedServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("server config is required")
	}

	ns, err := server.NewServer(serverOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}
	ns.ConfigureLogger()
	go ns.Start()

	if !ns.ReadyForConnections(embeddedReadyWait) {
		ns.Shutdown()
		return nil, fmt.Errorf("%w after %s", errServerNotReady, embeddedReadyWait)
	}
	return &EmbeddedServer{ns: ns, url: ns.ClientURL()}, nil
}

// ClientURL is the nats:// URL for local clients.
func (s *EmbeddedServer) ClientURL() string { return s.url }

// IsRunning reports whether the server is running.
func (s *EmbeddedServer) IsRunning() bool { return s.ns.Running() }

// JetStreamEnabled reports whether JetStream is active.
func (s *EmbeddedServer) JetStreamEnabled() bool { return s.ns.JetStreamEnabled() }

// Shutdown stops the server. It returns ctx.Err() if ctx ends before the
// server has fully stopped.
func (s *EmbeddedServer) Shutdown(ctx context.Context) error {
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		s.ns.Shutdown()
		s.ns.WaitForShutdown()
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
