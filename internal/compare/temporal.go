// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package compare

import (
	"math"
	"time"

	"github.com/tomtom215/visitormatch/internal/models"
)

// Measure is a real-valued comparison that may have no comparable data.
// An unknown Measure always aggregates as minimal similarity.
type Measure struct {
	Value float64
	Known bool
}

// Known returns a known Measure.
func Known(v float64) Measure {
	return Measure{Value: v, Known: true}
}

// Unknown is the Measure for missing inputs.
var Unknown = Measure{}

// Proximity maps the magnitude of the measure onto [0,1] similarity:
// 1 - min(1, |v|/scale). Unknown measures and non-positive scales give 0.
func (m Measure) Proximity(scale float64) float64 {
	if !m.Known || scale <= 0 {
		return 0
	}
	return 1 - math.Min(1, math.Abs(m.Value)/scale)
}

// Similarity is Proximity with a scale of 1.
func (m Measure) Similarity() float64 {
	return m.Proximity(1)
}

// TimestampDifference returns next - prev in seconds (signed). The result is
// Unknown when either timestamp is absent.
func TimestampDifference(prev, next models.Timestamp) Measure {
	if !prev.Valid || !next.Valid {
		return Unknown
	}
	return Known(next.Time.Sub(prev.Time).Seconds())
}

// AgeDifference returns how much younger next is than prev, as a proportion
// of prev's age at now: ((now-prev) - (now-next)) / (now-prev).
//
// A negative proportion (next older than prev) or an undefined one (prev not
// in the past) is implausible and yields 1. The result is capped at 1 and is
// Unknown when either timestamp is absent.
func AgeDifference(prev, next models.Timestamp, now time.Time) Measure {
	if !prev.Valid || !next.Valid {
		return Unknown
	}
	prevAge := now.Sub(prev.Time).Seconds()
	nextAge := now.Sub(next.Time).Seconds()
	if prevAge <= 0 {
		return Known(1)
	}
	proportion := (prevAge - nextAge) / prevAge
	if proportion < 0 {
		return Known(1)
	}
	return Known(math.Min(1, proportion))
}
