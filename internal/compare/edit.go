// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package compare

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// EditDistance returns the Levenshtein distance between prev and next divided
// by the rune length of prev, capped at 1. A missing side yields 1.
func EditDistance(prev, next string) float64 {
	if prev == "" || next == "" {
		return 1
	}
	if prev == next {
		return 0
	}
	distance := levenshtein.ComputeDistance(prev, next)
	return math.Min(1, float64(distance)/float64(utf8.RuneCountInString(prev)))
}

// EditSimilarity is 1 - EditDistance.
func EditSimilarity(prev, next string) float64 {
	return 1 - EditDistance(prev, next)
}
