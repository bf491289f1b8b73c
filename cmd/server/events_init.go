// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/visitormatch/internal/api"
	"github.com/tomtom215/visitormatch/internal/config"
	"github.com/tomtom215/visitormatch/internal/eventprocessor"
	"github.com/tomtom215/visitormatch/internal/logging"
	"github.com/tomtom215/visitormatch/internal/matching"
	"github.com/tomtom215/visitormatch/internal/supervisor"
	"github.com/tomtom215/visitormatch/internal/supervisor/services"
)

const (
	eventsShutdownTimeout = 10 * time.Second
	cacheJanitorInterval  = time.Minute
)

// initEventPipeline creates the asynchronous match pipeline when
// EVENTS_ENABLED=true and registers it with the supervisor tree:
//
//   - the router runs as a messaging-layer service
//   - the result cache janitor runs as a maintenance-layer service
//   - the pipeline joins the /health/ready checks
//
// It returns nil when events are disabled. The caller owns Close.
func initEventPipeline(ctx context.Context, cfg *config.EventsConfig, engine *matching.Engine, handler *api.Handler, tree *supervisor.SupervisorTree) (*eventprocessor.Processor, error) {
	if !cfg.Enabled {
		logging.Info().Msg("Event pipeline disabled (EVENTS_ENABLED=false)")
		return nil, nil
	}

	processor, err := eventprocessor.NewProcessor(ctx, *cfg, engine, logging.NewWatermillAdapter())
	if err != nil {
		return nil, fmt.Errorf("create event processor: %w", err)
	}

	handler.AddReadinessCheck(processor)
	tree.AddMessagingService(services.NewEventProcessorService(processor, eventsShutdownTimeout))
	tree.AddMaintenanceService(services.NewCacheJanitorService("match-results", processor, cacheJanitorInterval))

	topics := processor.Topics()
	logging.Info().
		Str("transport", cfg.Transport).
		Bool("embedded", cfg.Embedded).
		Str("fingerprint_topic", topics.FingerprintRequests).
		Str("visitor_topic", topics.VisitorRequests).
		Msg("Event pipeline added to supervisor tree")

	return processor, nil
}
