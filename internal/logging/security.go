// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

// Visitor records are personal data. Nothing from an identity, address or
// payment sub-record is logged unmasked.

// SecurityLogger logs authentication events with sanitized values.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger with component=auth.
func NewSecurityLogger() *SecurityLogger {
	return &SecurityLogger{logger: WithComponent("auth")}
}

// NewSecurityLoggerWithLogger creates a security logger with a custom zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "auth").Logger()}
}

// LogAuthFailure records a rejected bearer token.
func (l *SecurityLogger) LogAuthFailure(ip, path, token, reason string) {
	l.logger.Warn().
		Str("event", "auth_failure").
		Str("ip", ip).
		Str("path", path).
		Str("token", SanitizeToken(token)).
		Str("reason", SanitizeError(reason)).
		Msg("Authentication failed")
}

// LogAuthSuccess records an accepted bearer token.
func (l *SecurityLogger) LogAuthSuccess(subject, path string) {
	l.logger.Debug().
		Str("event", "auth_success").
		Str("subject", SanitizeUserID(subject)).
		Str("path", path).
		Msg("Authenticated")
}

// SanitizeToken masks a token, keeping the first and last 4 characters.
// Example: "eyJhbGciOiJIUzI1NiJ9.e30.sig" -> "eyJh....sig"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUserID masks an identifier for privacy.
// Example: "visitor-12345678" -> "visi...5678"
func SanitizeUserID(userID string) string {
	if userID == "" {
		return ""
	}
	if len(userID) <= 8 {
		return "***"
	}
	return userID[:4] + "..." + userID[len(userID)-4:]
}

// SanitizeEmail masks the local part of an email address.
// Example: "john.doe@example.com" -> "jo***@example.com"
func SanitizeEmail(email string) string {
	if email == "" {
		return ""
	}

	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}

	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

// SanitizePhone keeps only the last 2 digits of a phone number.
// Example: "+44 20 7946 0018" -> "***18"
func SanitizePhone(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	if len(digits) <= 4 {
		return "***"
	}
	return "***" + string(digits[len(digits)-2:])
}

// SanitizeError hides error messages that mention credentials and truncates
// the rest.
func SanitizeError(err string) string {
	lower := strings.ToLower(err)
	for _, pattern := range []string{"password", "secret", "bearer", "authorization", "cookie"} {
		if strings.Contains(lower, pattern) {
			return "authentication error"
		}
	}
	return truncateString(err, 200)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
