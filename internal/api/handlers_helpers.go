// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/visitormatch/internal/logging"
	"github.com/tomtom215/visitormatch/internal/models"
	"github.com/tomtom215/visitormatch/internal/validation"
)

// sanitizeLogValue escapes ASCII control characters as \xNN so request
// data cannot forge log lines.
func sanitizeLogValue(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if isControl(r) {
			fmt.Fprintf(&b, `\x%02x`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isControl(r rune) bool { return r < 0x20 || r == 0x7F }

// respondJSON writes response with status. A marshal failure becomes a
// bare 500.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondSuccess(w http.ResponseWriter, data interface{}, meta models.Metadata) {
	meta.Timestamp = time.Now()
	respondJSON(w, http.StatusOK, &models.APIResponse{Status: "success", Data: data, Metadata: meta})
}

func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}

// respondError writes an error envelope. err, when set, is logged and never
// sent to the client.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}
	respondAPIError(w, status, &models.APIError{Code: code, Message: message})
}

// respondValidationError sends a 400 carrying the validator's field details.
func respondValidationError(w http.ResponseWriter, apiErr *models.APIError) {
	respondAPIError(w, http.StatusBadRequest, apiErr)
}

// bodyError is a request body rejection ready to send.
type bodyError struct {
	status  int
	code    string
	message string
}

// readJSONBody returns the raw body, or why it was refused.
func readJSONBody(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, *bodyError) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			return nil, &bodyError{http.StatusUnsupportedMediaType, ErrCodeInvalidJSON, "Content-Type must be application/json"}
		}
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return nil, &bodyError{http.StatusRequestEntityTooLarge, ErrCodeBodyTooLarge, fmt.Sprintf("Request body exceeds %d bytes", maxBytes)}
	case err != nil:
		return nil, &bodyError{http.StatusBadRequest, ErrCodeInvalidJSON, "Failed to read request body"}
	case len(bytes.TrimSpace(data)) == 0:
		return nil, &bodyError{http.StatusBadRequest, ErrCodeInvalidJSON, "Request body is empty"}
	}
	return data, nil
}

// decodeJSONBody reads exactly one JSON document of at most maxBytes into
// dst. Unknown fields and trailing data are rejected. On failure the error
// response has been written and it returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, maxBytes int64, dst interface{}) bool {
	data, berr := readJSONBody(w, r, maxBytes)
	if berr == nil {
		berr = decodeStrict(data, dst)
	}
	if berr != nil {
		respondError(w, berr.status, berr.code, berr.message, nil)
		return false
	}
	return true
}

func decodeStrict(data []byte, dst interface{}) *bodyError {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		// Custom unmarshalers report semantic problems as ErrInvalidInput.
		if errors.Is(err, models.ErrInvalidInput) {
			return &bodyError{http.StatusBadRequest, ErrCodeValidation, sanitizeLogValue(err.Error())}
		}
		return &bodyError{http.StatusBadRequest, ErrCodeInvalidJSON, "Invalid JSON: " + sanitizeLogValue(err.Error())}
	}
	if dec.More() {
		return &bodyError{http.StatusBadRequest, ErrCodeInvalidJSON, "Request body must contain a single JSON object"}
	}
	return nil
}

// validateRequest runs struct validation and converts failures to the API
// error shape. It returns nil for a valid request.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	e := verr.ToAPIError()
	return &models.APIError{Code: e.Code, Message: e.Message, Details: e.Details}
}
