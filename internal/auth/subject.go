// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

// AuthMode selects how match endpoints authenticate callers.
type AuthMode string

const (
	AuthModeNone AuthMode = "none" // no authentication
	AuthModeJWT  AuthMode = "jwt"  // HS256 bearer tokens
)

// ParseAuthMode maps AUTH_MODE to an AuthMode. The empty string means none.
func ParseAuthMode(s string) (AuthMode, error) {
	if s == "" {
		return AuthModeNone, nil
	}
	if m := AuthMode(s); m == AuthModeNone || m == AuthModeJWT {
		return m, nil
	}
	return "", fmt.Errorf("invalid auth mode: %s", s)
}

func (m AuthMode) String() string { return string(m) }

// Credential errors. Their messages are returned to clients verbatim.
var (
	ErrNoCredentials      = errors.New("no credentials provided")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExpiredCredentials = errors.New("credentials expired")
)

// AuthSubject is the caller behind a verified token, usually an upstream
// checkout or signup service.
type AuthSubject struct {
	ID        string    `json:"id"`               // sub claim
	Issuer    string    `json:"issuer,omitempty"` // iss claim
	Scopes    []string  `json:"scopes,omitempty"` // space-separated scope claim
	ExpiresAt time.Time `json:"expires_at"`
}

// HasScope reports whether the subject holds scope. It is false for a nil
// subject.
func (s *AuthSubject) HasScope(scope string) bool {
	return s != nil && slices.Contains(s.Scopes, scope)
}

type subjectKey struct{}

// ContextWithSubject returns ctx carrying subject.
func ContextWithSubject(ctx context.Context, subject *AuthSubject) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// SubjectFromContext returns the subject set by the auth middleware, or nil
// for unauthenticated requests.
func SubjectFromContext(ctx context.Context) *AuthSubject {
	s, _ := ctx.Value(subjectKey{}).(*AuthSubject)
	return s
}
