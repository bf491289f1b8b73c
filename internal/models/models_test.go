// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package models

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Time
		valid   bool
		wantErr bool
	}{
		{"with microseconds", "2026-02-01 09:30:00.250000", time.Date(2026, 2, 1, 9, 30, 0, 250000000, time.UTC), true, false},
		{"without fraction", "2026-02-01 09:30:00", time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC), true, false},
		{"empty is absent", "", time.Time{}, false, false},
		{"rfc3339 rejected", "2026-02-01T09:30:00Z", time.Time{}, false, true},
		{"garbage rejected", "yesterday", time.Time{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Valid != tt.valid || !got.Time.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %+v, want %v valid=%v", tt.input, got, tt.want, tt.valid)
			}
		})
	}
}

func TestTimestampJSON(t *testing.T) {
	t.Parallel()

	var info VisitorInfo
	if err := json.Unmarshal([]byte(`{"createdAt":"2026-02-01 09:30:00.5"}`), &info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.CreatedAt.Valid || info.CreatedAt.Time.Nanosecond() != 500000000 {
		t.Errorf("unexpected timestamp: %+v", info.CreatedAt)
	}

	out, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Contains(out, []byte(`"2026-02-01 09:30:00.5"`)) {
		t.Errorf("unexpected encoding: %s", out)
	}

	var absent VisitorInfo
	if err := json.Unmarshal([]byte(`{"createdAt":null}`), &absent); err != nil {
		t.Fatalf("null: unexpected error: %v", err)
	}
	if absent.CreatedAt.Valid {
		t.Error("null should decode to an absent timestamp")
	}

	var bad VisitorInfo
	if err := json.Unmarshal([]byte(`{"createdAt":"01/02/2026"}`), &bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("malformed timestamp: expected ErrInvalidInput, got %v", err)
	}
}

func TestVersionJSON(t *testing.T) {
	t.Parallel()

	var fp Fingerprint
	body := `{"browserVersion":"120.0.6099.109","browserMajorVersion":120,"osVersion":null,"colorDepth":24}`
	if err := json.Unmarshal([]byte(body), &fp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fp.BrowserVersion != "120.0.6099.109" {
		t.Errorf("BrowserVersion = %q", fp.BrowserVersion)
	}
	if fp.BrowserMajorVersion != "120" {
		t.Errorf("BrowserMajorVersion = %q, want numeric version as text", fp.BrowserMajorVersion)
	}
	if fp.OSVersion != "" {
		t.Errorf("OSVersion = %q, want empty for null", fp.OSVersion)
	}
	if fp.ColorDepth == nil || *fp.ColorDepth != 24 {
		t.Errorf("ColorDepth = %v", fp.ColorDepth)
	}
	if fp.IsChrome != nil {
		t.Error("absent boolean should stay nil")
	}
}

func TestFingerprintRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	dec := json.NewDecoder(bytes.NewReader([]byte(`{"isChrome":true,"favouriteColour":"blue"}`)))
	dec.DisallowUnknownFields()

	var fp Fingerprint
	if err := dec.Decode(&fp); err == nil {
		t.Error("expected unknown key to be rejected")
	}
}

func TestVisitorWeights(t *testing.T) {
	t.Parallel()

	var nilWeights *VisitorWeights
	if nilWeights.PaymentScale() != 1 {
		t.Error("nil weights should scale payment by 1")
	}
	if nilWeights.TelemetryMap() != nil || nilWeights.AddressMap() != nil || nilWeights.IdentityMap() != nil {
		t.Error("nil weights should be unweighted in every category")
	}

	var w VisitorWeights
	body := `{"telemetry":{"ip_match":10},"payment_methods":25,"visitor_users":{"email":5,"Phone":5}}`
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.PaymentScale() != 25 {
		t.Errorf("PaymentScale() = %v, want 25", w.PaymentScale())
	}
	tm := w.TelemetryMap()
	if len(tm) != 4 || tm[KeyIPMatch] != 10 || tm[KeyGeographicProximity] != 0 {
		t.Errorf("TelemetryMap() = %v", tm)
	}
	if w.AddressMap() != nil {
		t.Error("absent address category should be unweighted")
	}
	im := w.IdentityMap()
	if im[KeyEmail] != 5 || im[KeyPhone] != 5 || im[KeyUsername] != 0 {
		t.Errorf("IdentityMap() = %v", im)
	}
}

func TestProfileCreatedAt(t *testing.T) {
	t.Parallel()

	var p *VisitorProfile
	if p.CreatedAt().Valid {
		t.Error("nil profile should have no creation time")
	}
	p = &VisitorProfile{}
	if p.CreatedAt().Valid {
		t.Error("profile without visitor record should have no creation time")
	}
}

func TestPaymentHasUniqueFingerprint(t *testing.T) {
	t.Parallel()

	if (&PaymentMethod{Fingerprint: "fp", GlobalUniqueFingerprint: true}).HasUniqueFingerprint() != true {
		t.Error("expected unique fingerprint")
	}
	if (&PaymentMethod{GlobalUniqueFingerprint: true}).HasUniqueFingerprint() {
		t.Error("empty fingerprint cannot be unique")
	}
	var nilCard *PaymentMethod
	if nilCard.HasUniqueFingerprint() {
		t.Error("nil card cannot be unique")
	}
}
