// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package models

// FingerprintMatchRequest is the body of POST /api/v1/match/fingerprint and
// the payload of fingerprint match request messages.
type FingerprintMatchRequest struct {
	RequestID            string             `json:"request_id,omitempty" validate:"omitempty,max=128"`
	NewFingerprint       *Fingerprint       `json:"new_fingerprint" validate:"required"`
	PreviousFingerprints []*Fingerprint     `json:"previous_fingerprints" validate:"required,min=1,max=10000,dive,required"`
	Weights              FingerprintWeights `json:"weights,omitempty" validate:"omitempty,dive,gte=0"`
}

// FingerprintMatchResponse reports the best fingerprint candidate.
//
// MatchScore is the similarity in [0,1] expressed as a percentage rounded to
// two decimals (100 * round(score, 4)).
type FingerprintMatchResponse struct {
	RequestID      string             `json:"request_id,omitempty"`
	MatchScore     float64            `json:"match_score"`
	MatchResults   map[string]float64 `json:"match_results"`
	CandidateIndex int                `json:"candidate_index"`
	Evaluated      int                `json:"evaluated"`
}

// VisitorMatchRequest is the body of POST /api/v1/match/visitor and the
// payload of visitor match request messages.
type VisitorMatchRequest struct {
	RequestID        string            `json:"request_id,omitempty" validate:"omitempty,max=128"`
	NewVisitor       *VisitorProfile   `json:"new_visitor" validate:"required"`
	PreviousVisitors []*VisitorProfile `json:"previous_visitors" validate:"required,min=1,max=10000,dive,required"`
	Weights          *VisitorWeights   `json:"weights,omitempty"`
}

// CategoryScores is the best score per visitor category before capping.
type CategoryScores struct {
	Telemetry float64 `json:"telemetry"`
	Payment   float64 `json:"payment_methods"`
	Address   float64 `json:"visitor_addresses"`
	Identity  float64 `json:"visitor_users"`
}

// VisitorMatchResponse reports the combined visitor score in [0,100].
type VisitorMatchResponse struct {
	RequestID       string         `json:"request_id,omitempty"`
	MatchScore      float64        `json:"match_score"`
	IPTimingRedFlag bool           `json:"ip_timing_red_flag"`
	Categories      CategoryScores `json:"categories"`
}
