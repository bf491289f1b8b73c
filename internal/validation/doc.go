// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator that reports field names by their
// json tags (so errors point at "previous_visitors[2].props.latitude" rather
// than Go field names) and registers the dotted_version tag used by
// fingerprint version attributes.
//
// # Quick Start
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// # Custom Tags
//
//   - dotted_version: one or more dot-separated runs of ASCII digits ("120", "17.4.1")
package validation
