// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package models

// VisitorProfile is one observed visitor with its four independently matched
// sub-records. JSON keys follow the collector payload.
type VisitorProfile struct {
	IPs      []IPObservation `json:"ips" validate:"dive"`
	Visitor  *VisitorInfo    `json:"visitors,omitempty"`
	Payment  *PaymentMethod  `json:"payment_methods,omitempty"`
	Address  *Address        `json:"visitor_addresses,omitempty"`
	Identity *Identity       `json:"visitor_users,omitempty"`
}

// CreatedAt returns the profile creation timestamp, absent when the visitor
// sub-record is missing.
func (p *VisitorProfile) CreatedAt() Timestamp {
	if p == nil || p.Visitor == nil {
		return Timestamp{}
	}
	return p.Visitor.CreatedAt
}

// VisitorInfo carries profile-level telemetry.
type VisitorInfo struct {
	CreatedAt Timestamp `json:"createdAt"`
}

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// IPObservation is one IP address seen for a visitor together with its
// geolocation and the time it was last observed.
type IPObservation struct {
	IP        string    `json:"ip"`
	Props     *GeoPoint `json:"props,omitempty"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// PaymentMethod describes the card attached to a visitor.
type PaymentMethod struct {
	Fingerprint             string `json:"fingerprint,omitempty"`
	GlobalUniqueFingerprint bool   `json:"global_unique_fingerprint,omitempty"`
	Brand                   string `json:"brand,omitempty"`
	ExpMonth                *int   `json:"expMonth,omitempty" validate:"omitempty,min=1,max=12"`
	ExpYear                 *int   `json:"expYear,omitempty" validate:"omitempty,gte=0"`
	Last4                   string `json:"last4,omitempty"`
	Country                 string `json:"country,omitempty"`
}

// HasUniqueFingerprint reports whether the card carries a globally unique fingerprint.
func (p *PaymentMethod) HasUniqueFingerprint() bool {
	return p != nil && p.Fingerprint != "" && p.GlobalUniqueFingerprint
}

// Address is a postal address. Key casing follows the collector payload.
type Address struct {
	Line1      string `json:"Line1,omitempty"`
	Line2      string `json:"Line2,omitempty"`
	City       string `json:"City,omitempty"`
	Country    string `json:"Country,omitempty"`
	PostalCode string `json:"Postal_code,omitempty"`
	State      string `json:"State,omitempty"`
}

// Identity holds the account identifiers a visitor entered.
type Identity struct {
	Email     string `json:"email,omitempty"`
	Phone     string `json:"Phone,omitempty"`
	FirstName string `json:"First_name,omitempty"`
	LastName  string `json:"Last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}
