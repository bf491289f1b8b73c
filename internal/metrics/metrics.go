// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Match kinds used as the "kind" label.
const (
	KindFingerprint = "fingerprint"
	KindVisitor     = "visitor"
)

// Match outcomes used as the "outcome" label.
const (
	OutcomeMatched  = "matched"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

var (
	// Matching Engine Metrics
	MatchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visitormatch_match_requests_total",
			Help: "Total number of match requests by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	MatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "visitormatch_match_duration_seconds",
			Help:    "Duration of a match over all candidates in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"kind"},
	)

	MatchScore = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "visitormatch_match_score",
			Help: "Distribution of best match scores (fingerprint 0-1, visitor 0-score_cap)",
			// Covers both the unit fingerprint range and the visitor range.
			Buckets: []float64{0.1, 0.25, 0.5, 0.75, 0.9, 1, 5, 10, 25, 50, 75, 100},
		},
		[]string{"kind"},
	)

	MatchCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "visitormatch_candidates",
			Help:    "Number of candidates per match request",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000, 10000},
		},
		[]string{"kind"},
	)

	RedFlagsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "visitormatch_red_flags_total",
			Help: "Total number of visitor matches that raised the IP timing red flag",
		},
	)

	ShortCircuitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "visitormatch_short_circuits_total",
			Help: "Total number of fingerprint matches stopped early by a perfect candidate",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts by result",
		},
		[]string{"result"}, // result: "success", "missing", "invalid", "expired"
	)

	// Event Processing Metrics
	EventsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_processed_total",
			Help: "Total number of match request messages handled",
		},
		[]string{"topic", "outcome"}, // outcome: "completed", "rejected", "failed"
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of match result messages published",
		},
		[]string{"topic"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordMatch records the outcome of one match request. score and
// candidates are only observed for successful matches.
func RecordMatch(kind, outcome string, duration time.Duration, score float64, candidates int) {
	MatchRequestsTotal.WithLabelValues(kind, outcome).Inc()
	MatchDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if outcome != OutcomeMatched {
		return
	}
	MatchScore.WithLabelValues(kind).Observe(score)
	MatchCandidates.WithLabelValues(kind).Observe(float64(candidates))
}

// RecordRedFlag counts a visitor match that raised the IP timing red flag.
func RecordRedFlag() {
	RedFlagsTotal.Inc()
}

// RecordShortCircuit counts a fingerprint match stopped by a perfect candidate.
func RecordShortCircuit() {
	ShortCircuitsTotal.Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRateLimitHit counts a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordAuthAttempt counts an authentication attempt.
func RecordAuthAttempt(result string) {
	AuthAttemptsTotal.WithLabelValues(result).Inc()
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEventProcessed records a handled match request message.
func RecordEventProcessed(topic, outcome string) {
	EventsProcessedTotal.WithLabelValues(topic, outcome).Inc()
}

// RecordEventPublished records a published match result message.
func RecordEventPublished(topic string) {
	EventsPublishedTotal.WithLabelValues(topic).Inc()
}

// RecordCircuitBreakerTransition records a breaker state change. States use
// gobreaker's names: "closed", "half-open", "open".
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// SetAppInfo publishes the running version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
