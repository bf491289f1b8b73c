// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/visitormatch/internal/matching"
	"github.com/tomtom215/visitormatch/internal/middleware"
	"github.com/tomtom215/visitormatch/internal/models"
)

// readinessTimeout bounds the total time spent in readiness checks.
const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:  "alive",
			Version: h.version,
			Uptime:  time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only if every registered dependency is ready, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	ready := h.engine != nil
	checks := map[string]string{"engine": "ok"}
	if h.engine == nil {
		checks["engine"] = "not configured"
	}
	for _, check := range h.checks {
		if err := check.Ready(ctx); err != nil {
			ready = false
			checks[check.Name()] = err.Error()
			continue
		}
		checks[check.Name()] = "ok"
	}

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: models.HealthStatus{
			Status:  status,
			Version: h.version,
			Uptime:  time.Since(h.startTime).Seconds(),
			Checks:  checks,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// PerformanceStats is the body of GET /api/v1/stats/performance.
type PerformanceStats struct {
	Endpoints []middleware.EndpointStats `json:"endpoints"`
	Engine    matching.EngineStats       `json:"engine"`
	Samples   int                        `json:"samples"`
}

// Performance returns per-endpoint latency percentiles and engine counters.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	stats := PerformanceStats{
		Endpoints: h.perfMon.Stats(),
		Samples:   h.perfMon.Len(),
	}
	if h.engine != nil {
		stats.Engine = h.engine.Stats()
	}
	respondSuccess(w, stats, models.Metadata{})
}
