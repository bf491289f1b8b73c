// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/visitormatch/internal/metrics"
)

func TestPrometheusMetrics_StatusCodes(t *testing.T) {
	t.Parallel()

	statusCodes := []int{
		http.StatusOK,
		http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusRequestEntityTooLarge,
		http.StatusInternalServerError,
	}

	for _, code := range statusCodes {
		t.Run(http.StatusText(code), func(t *testing.T) {
			t.Parallel()
			handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			})

			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/match/visitor", nil))

			if rec.Code != code {
				t.Errorf("Expected status %d, got %d", code, rec.Code)
			}
		})
	}
}

func TestPrometheusMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/probe/{id}", PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/probe/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/probe/1", "/probe/2", "/probe/3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("Expected status 418 for %s, got %d", path, rec.Code)
		}
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("Expected 3 requests under the route pattern, got %v", got)
	}
}

func TestPrometheusMetrics_WithoutRouter(t *testing.T) {
	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodDelete, unmatchedEndpoint, "200")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodDelete, "/anything/at/all", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("Expected unmatched request to be counted once, got %v", got)
	}
}

func TestPrometheusMetrics_ActiveRequestsReturnToBaseline(t *testing.T) {
	before := testutil.ToFloat64(metrics.APIActiveRequests)

	var during float64
	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(metrics.APIActiveRequests)
	})
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if during < before+1 {
		t.Errorf("Expected active requests to rise during the handler, before=%v during=%v", before, during)
	}
	if after := testutil.ToFloat64(metrics.APIActiveRequests); after != before {
		t.Errorf("Expected active requests back at %v, got %v", before, after)
	}
}

func TestMetricsResponseWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		write    func(w http.ResponseWriter)
		wantCode int
	}{
		{
			name:     "defaults to 200 when only body is written",
			write:    func(w http.ResponseWriter) { _, _ = w.Write([]byte("body")) },
			wantCode: http.StatusOK,
		},
		{
			name:     "captures explicit status",
			write:    func(w http.ResponseWriter) { w.WriteHeader(http.StatusBadRequest) },
			wantCode: http.StatusBadRequest,
		},
		{
			name: "keeps first status",
			write: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusCreated)
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := &metricsResponseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
			tt.write(w)
			if w.statusCode != tt.wantCode {
				t.Errorf("statusCode = %d, want %d", w.statusCode, tt.wantCode)
			}
		})
	}
}

func TestMetricsResponseWriter_Unwrap(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := &metricsResponseWriter{ResponseWriter: rec}
	if w.Unwrap() != rec {
		t.Error("Unwrap should return the wrapped writer")
	}
}

func BenchmarkPrometheusMetrics(b *testing.B) {
	handler := PrometheusMetrics(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/fingerprint", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler(httptest.NewRecorder(), req)
	}
}
