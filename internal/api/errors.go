// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package api

import (
	"net/http"

	"github.com/tomtom215/visitormatch/internal/matching"
	"github.com/tomtom215/visitormatch/internal/metrics"
)

// Error codes for API responses
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeBodyTooLarge     = "BODY_TOO_LARGE"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeCanceled         = "REQUEST_CANCELED"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// statusClientClosedRequest is the de facto status for a request whose
// client went away before the response was ready.
const statusClientClosedRequest = 499

// respondEngineError maps a matching engine error to an HTTP response.
// Invalid input and missing fields are the caller's fault; everything else
// is reported without internal detail.
func respondEngineError(w http.ResponseWriter, err error) {
	switch matching.Outcome(err) {
	case metrics.OutcomeInvalid:
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
	case metrics.OutcomeCanceled:
		respondError(w, statusClientClosedRequest, ErrCodeCanceled, "Request canceled", nil)
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", err)
	}
}
