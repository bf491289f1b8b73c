// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package compare

import "sort"

// Result maps a field name to its comparator outcome in [0,1].
type Result map[string]float64

// Bool coerces a boolean outcome to 0 or 1.
func Bool(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Keys returns the field names in lexical order.
func (r Result) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
