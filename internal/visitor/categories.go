// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package visitor

import (
	"math"
	"time"

	"github.com/tomtom215/visitormatch/internal/compare"
	"github.com/tomtom215/visitormatch/internal/models"
)

// telemetryOutcome is the telemetry comparison of one candidate.
type telemetryOutcome struct {
	result  compare.Result
	redFlag bool
}

// implausibleTravel reports whether the implied speed distanceKm/dt exceeds
// maxSpeed (km/s). dt is signed, so a new observation that predates the
// previous one gives a negative speed and is never flagged. Simultaneous
// observations at different places are always implausible; an unknown dt
// never is.
func implausibleTravel(distanceKm float64, dt compare.Measure, maxSpeed float64) bool {
	switch {
	case !dt.Known || dt.Value < 0:
		return false
	case dt.Value == 0:
		return true
	}
	return distanceKm/dt.Value > maxSpeed
}

// compareTelemetry compares the IP histories and creation times of prev and next.
func (m *Matcher) compareTelemetry(prev, next *models.VisitorProfile, now time.Time) telemetryOutcome {
	var (
		redFlag        bool
		ipMatch        float64
		distanceScores []float64
	)

	for _, p := range prev.IPs {
		for _, n := range next.IPs {
			ipMatch = math.Max(ipMatch, compare.Bool(compare.ExactMatch(p.IP, n.IP)))

			if compare.IsUnknownLocation(p.Props) || compare.IsUnknownLocation(n.Props) {
				continue
			}

			distance := compare.HaversineDistance(*p.Props, *n.Props)
			dt := compare.TimestampDifference(p.UpdatedAt, n.UpdatedAt)

			switch {
			case distance > m.config.ProximityRadiusKm && implausibleTravel(distance, dt, m.config.MaxPlausibleSpeedKmS):
				redFlag = true
			case distance < m.config.ProximityRadiusKm:
				distanceScores = append(distanceScores, 1)
			default:
				distanceScores = append(distanceScores, math.Min(m.config.DistanceCapKm, distance)/m.config.DistanceCapKm)
			}
		}
	}

	var geographic float64
	if len(distanceScores) > 0 {
		var sum float64
		for _, s := range distanceScores {
			sum += s
		}
		geographic = 1 - sum/float64(len(distanceScores))
	}

	prevCreated, nextCreated := prev.CreatedAt(), next.CreatedAt()

	return telemetryOutcome{
		result: compare.Result{
			models.KeyIPMatch:               ipMatch,
			models.KeyGeographicProximity:   geographic,
			models.KeyCreationTimeProximity: compare.TimestampDifference(prevCreated, nextCreated).Proximity(m.config.CreationWindow.Seconds()),
			models.KeyVisitorAgeProximity:   compare.AgeDifference(prevCreated, nextCreated, now).Similarity(),
		},
		redFlag: redFlag,
	}
}

// comparePayment scores the payment methods of one candidate in {0,1}.
//
// When both cards carry a globally unique fingerprint only the fingerprints
// are compared. Otherwise brand, expiry, last4 and country must all be present
// and equal; if both cards also carry a (non-unique) fingerprint it must match
// as well.
func comparePayment(prev, next *models.PaymentMethod) float64 {
	if prev == nil || next == nil {
		return 0
	}
	if prev.HasUniqueFingerprint() && next.HasUniqueFingerprint() {
		return compare.Bool(compare.ExactMatch(prev.Fingerprint, next.Fingerprint))
	}

	fieldsMatch := compare.ExactMatch(prev.Brand, next.Brand) &&
		compare.ExactValue(prev.ExpMonth, next.ExpMonth) &&
		compare.ExactValue(prev.ExpYear, next.ExpYear) &&
		compare.ExactMatch(prev.Last4, next.Last4) &&
		compare.ExactMatch(prev.Country, next.Country)

	if prev.Fingerprint != "" && next.Fingerprint != "" {
		return compare.Bool(fieldsMatch && prev.Fingerprint == next.Fingerprint)
	}
	return compare.Bool(fieldsMatch)
}

// compareAddress compares two postal addresses. Absent addresses compare as empty.
func compareAddress(prev, next *models.Address) compare.Result {
	if prev == nil {
		prev = &models.Address{}
	}
	if next == nil {
		next = &models.Address{}
	}
	return compare.Result{
		models.KeyLine1:      compare.EditSimilarity(prev.Line1, next.Line1),
		models.KeyLine2:      compare.EditSimilarity(prev.Line2, next.Line2),
		models.KeyCity:       compare.Bool(compare.ExactMatch(prev.City, next.City)),
		models.KeyCountry:    compare.Bool(compare.ExactMatch(prev.Country, next.Country)),
		models.KeyPostalCode: compare.Bool(compare.ExactMatch(prev.PostalCode, next.PostalCode)),
		models.KeyState:      compare.Bool(compare.ExactMatch(prev.State, next.State)),
	}
}

// compareIdentity compares two sets of account identifiers.
func compareIdentity(prev, next *models.Identity) compare.Result {
	if prev == nil {
		prev = &models.Identity{}
	}
	if next == nil {
		next = &models.Identity{}
	}
	return compare.Result{
		models.KeyEmail:     compare.Bool(compare.ExactMatch(prev.Email, next.Email)),
		models.KeyPhone:     compare.Bool(compare.ExactMatch(prev.Phone, next.Phone)),
		models.KeyFirstName: compare.Bool(compare.ExactMatch(prev.FirstName, next.FirstName)),
		models.KeyLastName:  compare.Bool(compare.ExactMatch(prev.LastName, next.LastName)),
		models.KeyUsername:  compare.Bool(compare.ExactMatch(prev.Username, next.Username)),
	}
}
