// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package models

import "time"

// APIResponse is the envelope of every HTTP response. Status is "success"
// with Data set, or "error" with Error set.
//
//	{"status":"success","data":{"match_score":97.56,"ip_timing_red_flag":false},
//	 "metadata":{"timestamp":"2026-03-01T12:00:00Z","query_time_ms":2,"candidates":3}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced. Candidates counts the
// previous records evaluated.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Candidates  int       `json:"candidates,omitempty"`
}

// APIError is the error body. Code is one of the api.ErrCode* values, e.g.
// VALIDATION_ERROR or RATE_LIMIT_EXCEEDED. Details carries field-level
// validation failures.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the body of the liveness and readiness probes. Checks
// maps readiness check names to "ok" or their failure.
type HealthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Uptime  float64           `json:"uptime_seconds"`
	Checks  map[string]string `json:"checks,omitempty"`
}
