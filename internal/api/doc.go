// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

/*
Package api provides the HTTP interface to the matching engine.

Routes are served by a chi router. Every response uses the models.APIResponse
envelope with status "success" or "error".

Endpoints:

	POST /api/v1/match/fingerprint   best previous fingerprint and per-field similarity
	POST /api/v1/match/visitor       visitor score in [0,100] and impossible-travel flag
	GET  /api/v1/health/live         liveness probe
	GET  /api/v1/health/ready        readiness probe (engine and message transport)
	GET  /api/v1/stats/performance   latency percentiles and engine counters
	GET  /metrics                    Prometheus exposition

Middleware Stack:

Global: request ID, real IP, panic recovery, CORS. Match routes add per-IP
rate limiting (go-chi/httprate), security headers, Prometheus and
performance sampling, gzip compression, and bearer authentication when
AUTH_MODE=jwt.

Request Handling:

Bodies are decoded with goccy/go-json, limited to SERVER_MAX_BODY_BYTES, and
unknown fields are rejected. Struct validation uses go-playground/validator.
Engine errors wrapping models.ErrInvalidInput or models.ErrMissingField are
returned as 400 VALIDATION_ERROR; any other error is a 500 INTERNAL_ERROR
whose detail is logged but not returned.

Example request:

	curl -X POST localhost:8080/api/v1/match/fingerprint \
	    -H 'Content-Type: application/json' \
	    -d '{"new_fingerprint": {...}, "previous_fingerprints": [{...}]}'
*/
package api
