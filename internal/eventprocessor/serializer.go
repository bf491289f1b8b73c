// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/visitormatch/internal/models"
)

// SerializeResult converts a match result to JSON bytes.
func SerializeResult(result *MatchResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("result is nil")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return data, nil
}

// DeserializeResult parses JSON bytes into a match result.
func DeserializeResult(data []byte) (*MatchResult, error) {
	var result MatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

// DeserializeFingerprintRequest parses a fingerprint match request payload.
// Malformed JSON, unknown keys and trailing data wrap models.ErrInvalidInput
// so they are never retried.
func DeserializeFingerprintRequest(data []byte) (*models.FingerprintMatchRequest, error) {
	var req models.FingerprintMatchRequest
	if err := decodeStrict(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DeserializeVisitorRequest parses a visitor match request payload with the
// same rules as DeserializeFingerprintRequest.
func DeserializeVisitorRequest(data []byte) (*models.VisitorMatchRequest, error) {
	var req models.VisitorMatchRequest
	if err := decodeStrict(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// decodeStrict decodes exactly one JSON document into dst, rejecting keys
// dst does not declare. A misspelled attribute would otherwise decode as
// absent and silently lower the score.
func decodeStrict(data []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return asInvalidInput(err)
	}
	if dec.More() {
		return models.InvalidInputf("malformed request payload: trailing data after JSON document")
	}
	return nil
}

// SerializeRequest marshals a fingerprint or visitor request for publishing.
func SerializeRequest(req interface{}) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return data, nil
}

func asInvalidInput(err error) error {
	if errors.Is(err, models.ErrInvalidInput) {
		return err
	}
	return models.InvalidInputf("malformed request payload: %v", err)
}
