// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package models

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the comparators and both matchers.
// Callers match with errors.Is; every error returned by the engine wraps one of these.
var (
	// ErrInvalidInput marks structurally invalid input: an empty candidate list,
	// an unparsable timestamp or version string, or a negative/unknown weight.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingField marks a required record that is absent and has no
	// minimal-similarity fallback (for example a nil new visitor).
	ErrMissingField = errors.New("missing field")
)

// InvalidInputf wraps ErrInvalidInput with a formatted message.
func InvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// MissingFieldError wraps ErrMissingField for the named field.
func MissingFieldError(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}
