// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package compare

import "strings"

// DefaultSetThreshold is the maximum Dice distance at which two sets match.
const DefaultSetThreshold = 0.5

// ParseSet splits a comma-delimited string into a set. Tokens are trimmed and
// empty tokens are dropped, so "" parses to the empty set.
func ParseSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}

// DiceDistance returns 1 - 2|A∩B| / (|A|+|B|). Two empty sets have distance 0.
func DiceDistance(a, b map[string]struct{}) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for k := range small {
		if _, ok := large[k]; ok {
			shared++
		}
	}
	return 1 - float64(2*shared)/float64(total)
}

// MatchSet reports (as 0 or 1) whether the two comma-delimited sets are within
// threshold Dice distance. Two empty sets match; a missing side never matches.
func MatchSet(prev, next *string, threshold float64) float64 {
	if prev == nil || next == nil {
		return 0
	}
	a, b := ParseSet(*prev), ParseSet(*next)
	if len(a) == 0 || len(b) == 0 {
		return Bool(len(a) == 0 && len(b) == 0)
	}
	return Bool(DiceDistance(a, b) <= threshold)
}
