// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/visitormatch/internal/logging"
	"github.com/tomtom215/visitormatch/internal/models"
)

// MatchFingerprint scores a new browser fingerprint against previous ones
// and returns the best candidate.
//
// POST /api/v1/match/fingerprint
//
// Request body: models.FingerprintMatchRequest
// Response data: models.FingerprintMatchResponse
func (h *Handler) MatchFingerprint(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.FingerprintMatchRequest
	if !decodeJSONBody(w, r, h.maxBodyBytes, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	if req.RequestID == "" {
		req.RequestID = logging.RequestIDFromContext(r.Context())
	}

	resp, err := h.engine.MatchFingerprint(r.Context(), &req)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondSuccess(w, resp, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Candidates:  len(req.PreviousFingerprints),
	})
}

// MatchVisitor scores a new visitor against previous visitors across
// telemetry, payment, address and identity attributes.
//
// POST /api/v1/match/visitor
//
// Request body: models.VisitorMatchRequest
// Response data: models.VisitorMatchResponse
func (h *Handler) MatchVisitor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.VisitorMatchRequest
	if !decodeJSONBody(w, r, h.maxBodyBytes, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	if req.RequestID == "" {
		req.RequestID = logging.RequestIDFromContext(r.Context())
	}

	resp, err := h.engine.MatchVisitor(r.Context(), &req)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondSuccess(w, resp, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Candidates:  len(req.PreviousVisitors),
	})
}
