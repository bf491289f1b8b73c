// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSanitizers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"token empty", SanitizeToken, "", ""},
		{"token short", SanitizeToken, "abc", "***"},
		{"token long", SanitizeToken, "eyJhbGciOiJIUzI1NiJ9.e30.sig", "eyJh....sig"},
		{"user id short", SanitizeUserID, "v-1", "***"},
		{"user id long", SanitizeUserID, "visitor-12345678", "visi...5678"},
		{"email", SanitizeEmail, "john.doe@example.com", "jo***@example.com"},
		{"email short local", SanitizeEmail, "jd@example.com", "***@example.com"},
		{"email no at", SanitizeEmail, "not-an-email", "***"},
		{"phone", SanitizePhone, "+44 20 7946 0018", "***18"},
		{"phone short", SanitizePhone, "123", "***"},
		{"error with secret", SanitizeError, "invalid jwt secret", "authentication error"},
		{"plain error", SanitizeError, "token is expired", "token is expired"},
	}

	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSanitizeError_Truncates(t *testing.T) {
	t.Parallel()

	got := SanitizeError(strings.Repeat("x", 300))
	if len(got) != 203 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected truncation to 200 chars plus ellipsis, got %d", len(got))
	}
}

func TestSecurityLogger_LogAuthFailure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecurityLoggerWithLogger(zerolog.New(&buf))

	logger.LogAuthFailure("203.0.113.7", "/api/v1/match/visitor", "eyJhbGciOiJIUzI1NiJ9.e30.sig", "token is expired")

	output := buf.String()
	for _, want := range []string{`"component":"auth"`, `"event":"auth_failure"`, `"token":"eyJh....sig"`, `"reason":"token is expired"`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
	if strings.Contains(output, "e30") {
		t.Errorf("raw token leaked: %s", output)
	}
}
