// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

/*
Package middleware provides HTTP middleware for the matching API.

Components are written as func(http.HandlerFunc) http.HandlerFunc and are
adapted to chi's r.Use() by the api package.

Key Components:

  - RequestID: X-Request-ID propagation with request and correlation IDs in
    the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - PerformanceMonitor: ring buffer of recent requests with per-endpoint
    latency percentiles and slow request logging

Middleware Stack:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(chiMiddleware(middleware.PrometheusMetrics))
	    r.Use(chiMiddleware(perfMon.Middleware))
	    r.Post("/match/visitor", handler.MatchVisitor)
	})

Route patterns are only known after chi dispatches the request, so the
metrics middleware reads them once the wrapped handler returns. Requests
that never reach a route are labelled "unmatched".

Thread Safety:

PerformanceMonitor guards its ring with a sync.RWMutex. The other
components hold no shared state beyond Prometheus collectors.

See Also:

  - internal/api: router and handlers wrapped by this middleware
  - internal/metrics: Prometheus metric definitions
*/
package middleware
