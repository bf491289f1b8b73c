// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package api

import (
	"context"
	"time"

	"github.com/tomtom215/visitormatch/internal/config"
	"github.com/tomtom215/visitormatch/internal/matching"
	"github.com/tomtom215/visitormatch/internal/middleware"
)

// DefaultMaxBodyBytes bounds request bodies when the server config leaves it unset.
const DefaultMaxBodyBytes int64 = 4 << 20

// ReadinessCheck reports whether a dependency can serve traffic. The event
// processor registers one for its message transport.
type ReadinessCheck interface {
	Name() string
	Ready(ctx context.Context) error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: JSON encoding, decoding and validation helpers
//   - handlers_match.go: Fingerprint and visitor match endpoints
//   - handlers_health.go: Liveness, readiness and performance endpoints
type Handler struct {
	engine       *matching.Engine
	perfMon      *middleware.PerformanceMonitor
	checks       []ReadinessCheck
	maxBodyBytes int64
	version      string
	startTime    time.Time
}

// NewHandler creates a new API handler.
//
// Example:
//
//	engine := matching.NewEngine(cfg.Matching)
//	handler := api.NewHandler(engine, &cfg.Server, version)
//	router := api.NewRouter(handler, authMiddleware, cfg)
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(engine *matching.Engine, server *config.ServerConfig, version string) *Handler {
	maxBody := server.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Handler{
		engine:       engine,
		perfMon:      middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowRequestThreshold),
		maxBodyBytes: maxBody,
		version:      version,
		startTime:    time.Now(),
	}
}

// AddReadinessCheck registers a dependency consulted by HealthReady.
func (h *Handler) AddReadinessCheck(check ReadinessCheck) {
	h.checks = append(h.checks, check)
}

// PerformanceMonitor returns the request sampler installed by the router.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}
