// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

// Package score combines per-field comparator outcomes into a single match
// score. Both the fingerprint matcher and the visitor matcher aggregate
// through Aggregate so that weighting behaves identically everywhere.
package score

import (
	"math"
	"sort"

	"github.com/tomtom215/visitormatch/internal/compare"
	"github.com/tomtom215/visitormatch/internal/models"
)

// Weights maps a result field to a non-negative weight.
//
// An empty or nil Weights means unweighted aggregation. When weights are
// present, a result field without a weight contributes with weight 0.
type Weights map[string]float64

// Aggregate combines a result into one score.
//
// Weighted: sum of w[k]*r[k], divided by the sum of w[k] over the result's
// fields when averaged. Unweighted: sum of r[k], divided by the field count
// when averaged. A zero denominator yields 0.
func Aggregate(result compare.Result, weights Weights, averaged bool) float64 {
	if len(result) == 0 {
		return 0
	}

	// Sum in key order so equal inputs always give bit-identical scores.
	keys := result.Keys()

	if len(weights) == 0 {
		var total float64
		for _, k := range keys {
			total += result[k]
		}
		if !averaged {
			return total
		}
		return total / float64(len(keys))
	}

	var total, weightSum float64
	for _, k := range keys {
		w := weights[k]
		total += w * result[k]
		weightSum += w
	}
	if !averaged {
		return total
	}
	if weightSum == 0 {
		return 0
	}
	return total / weightSum
}

// Validate checks that every weight is finite and non-negative and, when
// known is non-empty, that every key names a known field.
func Validate(weights Weights, known []string) error {
	var allowed map[string]struct{}
	if len(known) > 0 {
		allowed = make(map[string]struct{}, len(known))
		for _, k := range known {
			allowed[k] = struct{}{}
		}
	}

	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		w := weights[k]
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return models.InvalidInputf("weight %q must be a finite non-negative number, got %v", k, w)
		}
		if allowed != nil {
			if _, ok := allowed[k]; !ok {
				return models.InvalidInputf("unknown weight key %q", k)
			}
		}
	}
	return nil
}
