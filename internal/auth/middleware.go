// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/visitormatch/internal/logging"
	"github.com/tomtom215/visitormatch/internal/metrics"
	"github.com/tomtom215/visitormatch/internal/models"
)

// Auth attempt results recorded in metrics.
const (
	resultSuccess   = "success"
	resultMissing   = "missing"
	resultInvalid   = "invalid"
	resultExpired   = "expired"
	resultThrottled = "throttled"
)

// Middleware enforces bearer token authentication on the match endpoints.
type Middleware struct {
	mode       AuthMode
	jwtManager *JWTManager
	security   *logging.SecurityLogger
	failures   *FailureLimiter
}

// NewMiddleware creates the authentication middleware. jwtManager may be
// nil only when mode is AuthModeNone.
func NewMiddleware(mode AuthMode, jwtManager *JWTManager) *Middleware {
	return &Middleware{
		mode:       mode,
		jwtManager: jwtManager,
		security:   logging.NewSecurityLogger(),
	}
}

// WithFailureLimiter makes the middleware answer 429 to clients that exceed
// the limiter's failed attempt budget.
func (m *Middleware) WithFailureLimiter(limiter *FailureLimiter) *Middleware {
	m.failures = limiter
	return m
}

// Authenticate is middleware that enforces authentication.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.mode == AuthModeNone {
			next(w, r)
			return
		}

		if m.failures != nil && m.failures.Blocked(r.RemoteAddr) {
			metrics.RecordAuthAttempt(resultThrottled)
			m.security.LogAuthFailure(r.RemoteAddr, r.URL.Path, "", "too many failed attempts")
			writeThrottled(w)
			return
		}

		token, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			m.recordFailure(r)
			metrics.RecordAuthAttempt(resultMissing)
			m.security.LogAuthFailure(r.RemoteAddr, r.URL.Path, "", err.Error())
			writeUnauthorized(w, err)
			return
		}

		subject, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			result := resultInvalid
			if errors.Is(err, ErrExpiredCredentials) {
				result = resultExpired
			}
			m.recordFailure(r)
			metrics.RecordAuthAttempt(result)
			m.security.LogAuthFailure(r.RemoteAddr, r.URL.Path, token, err.Error())
			writeUnauthorized(w, err)
			return
		}

		metrics.RecordAuthAttempt(resultSuccess)
		m.security.LogAuthSuccess(subject.ID, r.URL.Path)
		next(w, r.WithContext(ContextWithSubject(r.Context(), subject)))
	}
}

func (m *Middleware) recordFailure(r *http.Request) {
	if m.failures != nil {
		m.failures.RecordFailure(r.RemoteAddr)
	}
}

// extractBearerToken parses an "Authorization: Bearer <token>" header value.
func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrNoCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidCredentials
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoCredentials
	}
	return token, nil
}

// writeUnauthorized sends a 401 in the standard response envelope. The
// message only distinguishes missing, invalid and expired credentials.
func writeUnauthorized(w http.ResponseWriter, err error) {
	message := ErrInvalidCredentials.Error()
	switch {
	case errors.Is(err, ErrNoCredentials):
		message = ErrNoCredentials.Error()
	case errors.Is(err, ErrExpiredCredentials):
		message = ErrExpiredCredentials.Error()
	}

	w.Header().Set("WWW-Authenticate", `Bearer realm="visitormatch"`)
	writeAuthError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", message)
}

func writeThrottled(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "60")
	writeAuthError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "too many failed authentication attempts")
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	}
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logging.Error().Err(encErr).Msg("Failed to encode auth error response")
	}
}
