// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package models

// Result keys for the telemetry category.
const (
	KeyIPMatch               = "ip_match"
	KeyGeographicProximity   = "geographic_proximity"
	KeyCreationTimeProximity = "creation_time_proximity"
	KeyVisitorAgeProximity   = "visitor_age_proximity"
)

// Result keys for the address category.
const (
	KeyLine1      = "Line1"
	KeyLine2      = "Line2"
	KeyCity       = "City"
	KeyCountry    = "Country"
	KeyPostalCode = "Postal_code"
	KeyState      = "State"
)

// Result keys for the identity category.
const (
	KeyEmail     = "email"
	KeyPhone     = "Phone"
	KeyFirstName = "First_name"
	KeyLastName  = "Last_name"
	KeyUsername  = "username"
)

// VisitorWeights is the closed weight configuration for MatchVisitor.
//
// A nil category means unweighted averaging for that category. Within a
// present category, a key left out of the JSON weighs 0. A nil Payment scales
// the payment score by 1.
type VisitorWeights struct {
	Telemetry *TelemetryWeights `json:"telemetry,omitempty"`
	Payment   *float64          `json:"payment_methods,omitempty" validate:"omitempty,gte=0"`
	Address   *AddressWeights   `json:"visitor_addresses,omitempty"`
	Identity  *IdentityWeights  `json:"visitor_users,omitempty"`
}

// TelemetryWeights weighs the telemetry result keys.
type TelemetryWeights struct {
	IPMatch               float64 `json:"ip_match" validate:"gte=0"`
	GeographicProximity   float64 `json:"geographic_proximity" validate:"gte=0"`
	CreationTimeProximity float64 `json:"creation_time_proximity" validate:"gte=0"`
	VisitorAgeProximity   float64 `json:"visitor_age_proximity" validate:"gte=0"`
}

// Map returns the weights keyed by result key, or nil for a nil receiver.
func (w *TelemetryWeights) Map() map[string]float64 {
	if w == nil {
		return nil
	}
	return map[string]float64{
		KeyIPMatch:               w.IPMatch,
		KeyGeographicProximity:   w.GeographicProximity,
		KeyCreationTimeProximity: w.CreationTimeProximity,
		KeyVisitorAgeProximity:   w.VisitorAgeProximity,
	}
}

// AddressWeights weighs the address result keys.
type AddressWeights struct {
	Line1      float64 `json:"Line1" validate:"gte=0"`
	Line2      float64 `json:"Line2" validate:"gte=0"`
	City       float64 `json:"City" validate:"gte=0"`
	Country    float64 `json:"Country" validate:"gte=0"`
	PostalCode float64 `json:"Postal_code" validate:"gte=0"`
	State      float64 `json:"State" validate:"gte=0"`
}

// Map returns the weights keyed by result key, or nil for a nil receiver.
func (w *AddressWeights) Map() map[string]float64 {
	if w == nil {
		return nil
	}
	return map[string]float64{
		KeyLine1:      w.Line1,
		KeyLine2:      w.Line2,
		KeyCity:       w.City,
		KeyCountry:    w.Country,
		KeyPostalCode: w.PostalCode,
		KeyState:      w.State,
	}
}

// IdentityWeights weighs the identity result keys.
type IdentityWeights struct {
	Email     float64 `json:"email" validate:"gte=0"`
	Phone     float64 `json:"Phone" validate:"gte=0"`
	FirstName float64 `json:"First_name" validate:"gte=0"`
	LastName  float64 `json:"Last_name" validate:"gte=0"`
	Username  float64 `json:"username" validate:"gte=0"`
}

// Map returns the weights keyed by result key, or nil for a nil receiver.
func (w *IdentityWeights) Map() map[string]float64 {
	if w == nil {
		return nil
	}
	return map[string]float64{
		KeyEmail:     w.Email,
		KeyPhone:     w.Phone,
		KeyFirstName: w.FirstName,
		KeyLastName:  w.LastName,
		KeyUsername:  w.Username,
	}
}

// PaymentScale returns the payment-category weight, 1 when unset.
func (w *VisitorWeights) PaymentScale() float64 {
	if w == nil || w.Payment == nil {
		return 1
	}
	return *w.Payment
}

// TelemetryMap returns the telemetry weights, nil when the category is unweighted.
func (w *VisitorWeights) TelemetryMap() map[string]float64 {
	if w == nil {
		return nil
	}
	return w.Telemetry.Map()
}

// AddressMap returns the address weights, nil when the category is unweighted.
func (w *VisitorWeights) AddressMap() map[string]float64 {
	if w == nil {
		return nil
	}
	return w.Address.Map()
}

// IdentityMap returns the identity weights, nil when the category is unweighted.
func (w *VisitorWeights) IdentityMap() map[string]float64 {
	if w == nil {
		return nil
	}
	return w.Identity.Map()
}
