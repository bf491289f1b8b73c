// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package compare

import (
	"math"

	"github.com/tomtom215/visitormatch/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by HaversineDistance.
const EarthRadiusKm = 6371.0

// CoordinateEpsilon is the threshold for treating a coordinate as zero.
// 1e-7 degrees is about 1.1cm at the equator.
const CoordinateEpsilon = 1e-7

// IsUnknownLocation reports whether p is nil or the (0, 0) sentinel that
// geolocation providers return when a lookup fails.
func IsUnknownLocation(p *models.GeoPoint) bool {
	if p == nil {
		return true
	}
	return math.Abs(p.Latitude) < CoordinateEpsilon && math.Abs(p.Longitude) < CoordinateEpsilon
}

// HaversineDistance calculates the great-circle distance between two points
// using the Haversine formula. Returns distance in kilometers.
func HaversineDistance(p, q models.GeoPoint) float64 {
	lat1 := p.Latitude * math.Pi / 180.0
	lon1 := p.Longitude * math.Pi / 180.0
	lat2 := q.Latitude * math.Pi / 180.0
	lon2 := q.Longitude * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}
