// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import (
	"time"

	"github.com/tomtom215/visitormatch/internal/models"
)

// Message metadata keys.
const (
	MetadataRequestID     = "request_id"
	MetadataCorrelationID = "correlation_id"
	MetadataKind          = "kind"
)

// Match kinds carried in MatchResult.Kind and the kind metadata key.
const (
	KindFingerprint = "fingerprint"
	KindVisitor     = "visitor"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// MatchResult is published to a result topic for every consumed request.
// Exactly one of Fingerprint, Visitor or Error is set.
type MatchResult struct {
	RequestID   string                           `json:"request_id"`
	Kind        string                           `json:"kind"`
	Status      string                           `json:"status"`
	Fingerprint *models.FingerprintMatchResponse `json:"fingerprint,omitempty"`
	Visitor     *models.VisitorMatchResponse     `json:"visitor,omitempty"`
	Error       *models.APIError                 `json:"error,omitempty"`
	CompletedAt time.Time                        `json:"completed_at"`
}

// Failed reports whether the request was rejected.
func (r *MatchResult) Failed() bool {
	return r.Status == StatusError
}
