// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

/*
Package models defines the data structures exchanged with the matching engine.

Key Components:

  - Fingerprint: browser/device fingerprint (41 compared attributes)
  - VisitorProfile: IP history, payment method, address and identity of a visitor
  - Timestamp: optional time in the collector format (YYYY-MM-DD HH:MM:SS.ffffff)
  - FingerprintWeights / VisitorWeights: per-call weight configuration
  - FingerprintMatchRequest / VisitorMatchRequest and their responses
  - APIResponse: standardized HTTP response wrapper

Optional Data:

Records are captured by third-party collectors and are frequently incomplete.
Boolean and integer attributes are pointers, strings use "" for absent, and
Timestamp carries an explicit Valid flag. Comparators treat every absent value
as minimal similarity, never as an error.

Errors:

All engine errors wrap ErrInvalidInput or ErrMissingField and are matched with
errors.Is.

Thread Safety:

Models are plain values. The engine never mutates records passed to it.
*/
package models
