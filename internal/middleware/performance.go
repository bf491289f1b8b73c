// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package middleware

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/tomtom215/visitormatch/internal/logging"
)

// DefaultSlowRequestThreshold is the latency above which a request is logged.
const DefaultSlowRequestThreshold = time.Second

// RequestSample is one observed request.
type RequestSample struct {
	Endpoint   string
	Method     string
	Duration   time.Duration
	StatusCode int
	Timestamp  time.Time
}

// EndpointStats summarizes the samples held for one endpoint.
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	AvgMS        float64 `json:"avg_ms"`
	P50MS        float64 `json:"p50_ms"`
	P95MS        float64 `json:"p95_ms"`
	P99MS        float64 `json:"p99_ms"`
	MaxMS        float64 `json:"max_ms"`
}

// PerformanceMonitor keeps a fixed-size ring of recent request samples and
// derives per-endpoint latency percentiles from it. It complements the
// Prometheus histograms with an in-process view served by the stats endpoint.
type PerformanceMonitor struct {
	mu            sync.RWMutex
	samples       []RequestSample
	next          int
	full          bool
	slowThreshold time.Duration
}

// NewPerformanceMonitor creates a monitor holding up to capacity samples.
// A non-positive slowThreshold uses DefaultSlowRequestThreshold.
func NewPerformanceMonitor(capacity int, slowThreshold time.Duration) *PerformanceMonitor {
	if capacity < 1 {
		capacity = 1
	}
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowRequestThreshold
	}
	return &PerformanceMonitor{
		samples:       make([]RequestSample, capacity),
		slowThreshold: slowThreshold,
	}
}

// Record adds a sample, overwriting the oldest once the ring is full.
func (pm *PerformanceMonitor) Record(s RequestSample) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.samples[pm.next] = s
	pm.next++
	if pm.next == len(pm.samples) {
		pm.next = 0
		pm.full = true
	}
}

// Len returns the number of samples currently held.
func (pm *PerformanceMonitor) Len() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.lenLocked()
}

func (pm *PerformanceMonitor) lenLocked() int {
	if pm.full {
		return len(pm.samples)
	}
	return pm.next
}

// Stats returns per-endpoint statistics ordered by request count, busiest first.
func (pm *PerformanceMonitor) Stats() []EndpointStats {
	pm.mu.RLock()
	byEndpoint := make(map[string][]RequestSample)
	for _, s := range pm.samples[:pm.lenLocked()] {
		key := s.Method + " " + s.Endpoint
		byEndpoint[key] = append(byEndpoint[key], s)
	}
	pm.mu.RUnlock()

	stats := make([]EndpointStats, 0, len(byEndpoint))
	for endpoint, samples := range byEndpoint {
		durations := make([]time.Duration, len(samples))
		var total time.Duration
		var errors int64
		for i, s := range samples {
			durations[i] = s.Duration
			total += s.Duration
			if s.StatusCode >= http.StatusInternalServerError {
				errors++
			}
		}
		slices.Sort(durations)

		stats = append(stats, EndpointStats{
			Endpoint:     endpoint,
			RequestCount: int64(len(samples)),
			ErrorCount:   errors,
			AvgMS:        millis(total / time.Duration(len(samples))),
			P50MS:        millis(percentile(durations, 0.50)),
			P95MS:        millis(percentile(durations, 0.95)),
			P99MS:        millis(percentile(durations, 0.99)),
			MaxMS:        millis(durations[len(durations)-1]),
		})
	}

	slices.SortFunc(stats, func(a, b EndpointStats) int {
		if a.RequestCount != b.RequestCount {
			return int(b.RequestCount - a.RequestCount)
		}
		if a.Endpoint < b.Endpoint {
			return -1
		}
		if a.Endpoint > b.Endpoint {
			return 1
		}
		return 0
	})
	return stats
}

// Middleware samples every request and logs those slower than the threshold.
func (pm *PerformanceMonitor) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next(wrapper, r)

		elapsed := time.Since(start)
		endpoint := routePattern(r)
		pm.Record(RequestSample{
			Endpoint:   endpoint,
			Method:     r.Method,
			Duration:   elapsed,
			StatusCode: wrapper.statusCode,
			Timestamp:  start,
		})

		if elapsed > pm.slowThreshold {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("endpoint", endpoint).
				Int("status", wrapper.statusCode).
				Dur("duration", elapsed).
				Dur("threshold", pm.slowThreshold).
				Msg("Slow request detected")
		}
	}
}

// percentile uses the nearest-rank method on an ascending slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
