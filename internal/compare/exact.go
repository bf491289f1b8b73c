// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package compare

// ExactMatch reports whether both strings are present (non-empty) and equal.
func ExactMatch(prev, next string) bool {
	return prev != "" && next != "" && prev == next
}

// ExactValue reports whether both optional values are present and equal.
func ExactValue[T comparable](prev, next *T) bool {
	if prev == nil || next == nil {
		return false
	}
	return *prev == *next
}

// AsymmetricMatch compares a revocable capability. A capability may be lost
// between observations (true then false) but never newly gained (false then
// true). Both values must be present.
func AsymmetricMatch(prev, next *bool) bool {
	if prev == nil || next == nil {
		return false
	}
	return *prev || *prev == *next
}
