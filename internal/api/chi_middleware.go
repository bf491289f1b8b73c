// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/visitormatch/internal/config"
	"github.com/tomtom215/visitormatch/internal/metrics"
)

// Health probes get a generous fixed budget so orchestrators are never
// throttled by the match limit.
const (
	healthRateLimitRequests = 1000
	healthRateLimitWindow   = time.Minute
)

// ChiMiddlewareConfig configures CORS and per-IP rate limiting.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSExposedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
	// RateLimitKeyFunc defaults to httprate.KeyByIP.
	RateLimitKeyFunc httprate.KeyFunc
}

// DefaultChiMiddlewareConfig allows no cross-origin callers until origins
// are configured.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSExposedHeaders: []string{"X-Request-ID"},
		CORSMaxAge:         86400,
		RateLimitRequests:  100,
		RateLimitWindow:    time.Minute,
	}
}

// ChiMiddlewareConfigFromSecurity applies the CORS_* and RATE_LIMIT_*
// settings over the defaults.
func ChiMiddlewareConfigFromSecurity(sec *config.SecurityConfig) *ChiMiddlewareConfig {
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = sec.CORSOrigins
	cfg.RateLimitRequests = sec.RateLimitReqs
	cfg.RateLimitWindow = sec.RateLimitWindow
	cfg.RateLimitDisabled = sec.RateLimitDisabled
	return cfg
}

// ChiMiddleware holds the CORS and rate limit middleware built from one
// ChiMiddlewareConfig.
type ChiMiddleware struct {
	cors   func(http.Handler) http.Handler
	match  func(http.Handler) http.Handler
	health func(http.Handler) http.Handler
}

// NewChiMiddleware builds the middleware. A nil cfg uses the defaults.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
	}
	return &ChiMiddleware{
		cors: cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   cfg.CORSAllowedMethods,
			AllowedHeaders:   cfg.CORSAllowedHeaders,
			ExposedHeaders:   cfg.CORSExposedHeaders,
			AllowCredentials: cfg.CORSAllowCredentials,
			MaxAge:           cfg.CORSMaxAge,
		}),
		match:  newRateLimiter(cfg, cfg.RateLimitRequests, cfg.RateLimitWindow),
		health: newRateLimiter(cfg, healthRateLimitRequests, healthRateLimitWindow),
	}
}

// CORS must be mounted globally so OPTIONS preflights reach it.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler { return m.cors }

// RateLimit limits match and stats requests per client IP.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler { return m.match }

// RateLimitHealth limits health probes per client IP.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler { return m.health }

func passthrough(next http.Handler) http.Handler { return next }

// newRateLimiter returns an httprate limiter, or a passthrough when limiting
// is disabled or requests is not positive.
func newRateLimiter(cfg *ChiMiddlewareConfig, requests int, window time.Duration) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled || requests <= 0 {
		return passthrough
	}
	key := cfg.RateLimitKeyFunc
	if key == nil {
		key = httprate.KeyByIP
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(key),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimitHit(r.URL.Path)
			respondError(w, http.StatusTooManyRequests, ErrCodeRateLimited, "Too many requests, retry later", nil)
		}),
	)
}

// securityHeaders are set on every API response. Match responses describe
// personal data, so nothing is cacheable.
var securityHeaders = [...][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Cache-Control", "no-store"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
}

// APISecurityHeaders sets securityHeaders, plus HSTS when the request came
// in over TLS directly or through a proxy that sets X-Forwarded-Proto.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range securityHeaders {
				h.Set(kv[0], kv[1])
			}
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
