// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package visitor

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/visitormatch/internal/compare"
	"github.com/tomtom215/visitormatch/internal/models"
)

var (
	london   = &models.GeoPoint{Latitude: 51.5074, Longitude: -0.1278}
	tokyo    = &models.GeoPoint{Latitude: 35.6762, Longitude: 139.6503}
	reading  = &models.GeoPoint{Latitude: 51.4543, Longitude: -0.9781}
	fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func ts(s string) models.Timestamp { return models.MustParseTimestamp(s) }

func testMatcher() *Matcher {
	cfg := DefaultConfig()
	cfg.Now = func() time.Time { return fixedNow }
	return NewMatcher(cfg)
}

// profile returns a fully populated visitor seen in London.
func profile() *models.VisitorProfile {
	return &models.VisitorProfile{
		IPs: []models.IPObservation{
			{IP: "81.2.69.160", Props: &models.GeoPoint{Latitude: london.Latitude, Longitude: london.Longitude}, UpdatedAt: ts("2026-02-20 10:00:00")},
		},
		Visitor: &models.VisitorInfo{CreatedAt: ts("2026-02-01 09:30:00.250000")},
		Payment: &models.PaymentMethod{
			Brand:    "visa",
			ExpMonth: intPtr(4),
			ExpYear:  intPtr(2029),
			Last4:    "4242",
			Country:  "GB",
		},
		Address: &models.Address{
			Line1:      "221B Baker Street",
			Line2:      "Flat 2",
			City:       "London",
			Country:    "GB",
			PostalCode: "NW1 6XE",
			State:      "Greater London",
		},
		Identity: &models.Identity{
			Email:     "s.holmes@example.com",
			Phone:     "+442079460000",
			FirstName: "Sherlock",
			LastName:  "Holmes",
			Username:  "sholmes",
		},
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestMatch_IdenticalProfilesUnweighted(t *testing.T) {
	t.Parallel()

	match, err := testMatcher().Match(context.Background(), profile(), []*models.VisitorProfile{profile()}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ip_match 1, geographic_proximity 0 (every pair within the radius scores 1,
	// and proximity is 1 minus the mean), creation 1, age 1.
	if !approx(match.Categories.Telemetry, 0.75) {
		t.Errorf("telemetry = %v, want 0.75", match.Categories.Telemetry)
	}
	if match.Categories.Payment != 1 {
		t.Errorf("payment = %v, want 1", match.Categories.Payment)
	}
	if !approx(match.Categories.Address, 1) {
		t.Errorf("address = %v, want 1", match.Categories.Address)
	}
	if !approx(match.Categories.Identity, 1) {
		t.Errorf("identity = %v, want 1", match.Categories.Identity)
	}
	if !approx(match.Score, 3.75) {
		t.Errorf("score = %v, want 3.75", match.Score)
	}
	if match.IPTimingRedFlag {
		t.Error("unexpected red flag")
	}
}

func TestMatch_RedFlagForImpossibleTravel(t *testing.T) {
	t.Parallel()

	prev := profile()
	next := profile()
	next.IPs = []models.IPObservation{
		{IP: "203.0.113.9", Props: tokyo, UpdatedAt: ts("2026-02-20 10:01:00")},
	}

	match, err := testMatcher().Match(context.Background(), next, []*models.VisitorProfile{profile(), prev}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !match.IPTimingRedFlag {
		t.Fatal("expected red flag for London to Tokyo in 60 seconds")
	}
	if len(match.RedFlagCandidates) != 2 || match.RedFlagCandidates[0] != 0 || match.RedFlagCandidates[1] != 1 {
		t.Errorf("RedFlagCandidates = %v, want [0 1]", match.RedFlagCandidates)
	}
}

func TestMatch_PlausibleTravelNoRedFlag(t *testing.T) {
	t.Parallel()

	next := profile()
	// About 60 km away, two hours later.
	next.IPs = []models.IPObservation{
		{IP: "81.2.69.161", Props: reading, UpdatedAt: ts("2026-02-20 12:00:00")},
	}

	match, err := testMatcher().Match(context.Background(), next, []*models.VisitorProfile{profile()}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.IPTimingRedFlag {
		t.Error("unexpected red flag for plausible travel")
	}
}

func TestMatch_SimultaneousDistantObservationsFlag(t *testing.T) {
	t.Parallel()

	next := profile()
	next.IPs = []models.IPObservation{
		{IP: "81.2.69.161", Props: reading, UpdatedAt: ts("2026-02-20 10:00:00")},
	}

	match, err := testMatcher().Match(context.Background(), next, []*models.VisitorProfile{profile()}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !match.IPTimingRedFlag {
		t.Error("expected red flag for distinct locations at the same instant")
	}
}

func TestMatch_EarlierNewObservationNeverFlags(t *testing.T) {
	t.Parallel()

	next := profile()
	// Tokyo one minute before the previous London observation: the implied
	// speed is negative.
	next.IPs = []models.IPObservation{
		{IP: "203.0.113.9", Props: tokyo, UpdatedAt: ts("2026-02-20 09:59:00")},
	}

	match, err := testMatcher().Match(context.Background(), next, []*models.VisitorProfile{profile()}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.IPTimingRedFlag {
		t.Error("unexpected red flag when the new observation predates the previous one")
	}
}

func TestImplausibleTravel(t *testing.T) {
	t.Parallel()

	const maxSpeed = 0.35

	tests := []struct {
		name     string
		distance float64
		dt       compare.Measure
		want     bool
	}{
		{"unknown delta", 9000, compare.Unknown, false},
		{"negative delta", 9000, compare.Known(-60), false},
		{"zero delta", 50, compare.Known(0), true},
		{"too fast", 9000, compare.Known(60), true},
		{"exactly max speed", 35, compare.Known(100), false},
		{"plausible", 60, compare.Known(7200), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := implausibleTravel(tt.distance, tt.dt, maxSpeed); got != tt.want {
				t.Errorf("implausibleTravel(%v, %+v) = %v, want %v", tt.distance, tt.dt, got, tt.want)
			}
		})
	}
}

func TestMatch_UnknownTimingNeverFlags(t *testing.T) {
	t.Parallel()

	next := profile()
	next.IPs = []models.IPObservation{{IP: "203.0.113.9", Props: tokyo}}

	m := testMatcher()
	match, err := m.Match(context.Background(), next, []*models.VisitorProfile{profile()}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.IPTimingRedFlag {
		t.Error("unexpected red flag without timestamps")
	}

	outcome := m.compareTelemetry(profile(), next, fixedNow)
	if outcome.result[models.KeyGeographicProximity] != 0 {
		t.Errorf("geographic_proximity = %v, want 0 for a distance beyond the cap", outcome.result[models.KeyGeographicProximity])
	}
	if outcome.result[models.KeyIPMatch] != 0 {
		t.Errorf("ip_match = %v, want 0", outcome.result[models.KeyIPMatch])
	}
}

func TestCompareTelemetry_MissingData(t *testing.T) {
	t.Parallel()

	m := testMatcher()
	prev := &models.VisitorProfile{}
	next := &models.VisitorProfile{IPs: []models.IPObservation{{IP: "81.2.69.160", Props: &models.GeoPoint{}}}}

	outcome := m.compareTelemetry(prev, next, fixedNow)
	for key, v := range outcome.result {
		if v != 0 {
			t.Errorf("%s = %v, want minimal similarity 0", key, v)
		}
	}
	if outcome.redFlag {
		t.Error("unexpected red flag with missing data")
	}
}

func TestCompareTelemetry_CreationTimeProximity(t *testing.T) {
	t.Parallel()

	m := testMatcher()
	prev := profile()
	next := profile()
	next.Visitor = &models.VisitorInfo{CreatedAt: ts("2026-02-01 21:30:00.250000")}

	outcome := m.compareTelemetry(prev, next, fixedNow)
	if got := outcome.result[models.KeyCreationTimeProximity]; !approx(got, 0.5) {
		t.Errorf("creation_time_proximity = %v, want 0.5", got)
	}

	// Reversed order must not exceed 1.
	outcome = m.compareTelemetry(next, prev, fixedNow)
	if got := outcome.result[models.KeyCreationTimeProximity]; !approx(got, 0.5) {
		t.Errorf("reversed creation_time_proximity = %v, want 0.5", got)
	}
	if got := outcome.result[models.KeyVisitorAgeProximity]; got != 0 {
		t.Errorf("visitor_age_proximity = %v, want 0 when the new visitor is older", got)
	}
}

func TestComparePayment(t *testing.T) {
	t.Parallel()

	card := func(mut func(p *models.PaymentMethod)) *models.PaymentMethod {
		p := profile().Payment
		if mut != nil {
			mut(p)
		}
		return p
	}
	unique := func(fp string) func(p *models.PaymentMethod) {
		return func(p *models.PaymentMethod) {
			p.Fingerprint = fp
			p.GlobalUniqueFingerprint = true
		}
	}

	tests := []struct {
		name       string
		prev, next *models.PaymentMethod
		expected   float64
	}{
		{"all fields equal", card(nil), card(nil), 1},
		{"missing field", card(nil), card(func(p *models.PaymentMethod) { p.ExpYear = nil }), 0},
		{"mismatched field", card(nil), card(func(p *models.PaymentMethod) { p.Last4 = "0000" }), 0},
		{
			"unique fingerprints equal despite mismatched fields",
			card(unique("fp_1")),
			card(func(p *models.PaymentMethod) { unique("fp_1")(p); p.Brand = "amex"; p.Last4 = "1111" }),
			1,
		},
		{"unique fingerprints differ", card(unique("fp_1")), card(unique("fp_2")), 0},
		{
			"non-unique fingerprints must also match",
			card(func(p *models.PaymentMethod) { p.Fingerprint = "fp_1" }),
			card(func(p *models.PaymentMethod) { p.Fingerprint = "fp_2" }),
			0,
		},
		{
			"non-unique fingerprints equal",
			card(func(p *models.PaymentMethod) { p.Fingerprint = "fp_1" }),
			card(func(p *models.PaymentMethod) { p.Fingerprint = "fp_1" }),
			1,
		},
		{"one side unique only falls back to fields", card(unique("fp_1")), card(nil), 1},
		{"missing payment", nil, card(nil), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := comparePayment(tt.prev, tt.next); got != tt.expected {
				t.Errorf("comparePayment() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCompareAddress(t *testing.T) {
	t.Parallel()

	prev := profile().Address
	next := profile().Address
	next.Line1 = "221 Baker Street"
	next.Line2 = ""

	result := compareAddress(prev, next)
	if got, want := result[models.KeyLine1], 1-1.0/17.0; !approx(got, want) {
		t.Errorf("Line1 = %v, want %v", got, want)
	}
	if result[models.KeyLine2] != 0 {
		t.Errorf("Line2 = %v, want 0 when missing", result[models.KeyLine2])
	}
	if result[models.KeyCity] != 1 || result[models.KeyPostalCode] != 1 {
		t.Errorf("unexpected exact matches: %v", result)
	}

	empty := compareAddress(nil, next)
	for key, v := range empty {
		if v != 0 {
			t.Errorf("%s = %v, want 0 for a missing address", key, v)
		}
	}
}

func TestMatch_Weighted(t *testing.T) {
	t.Parallel()

	weights := &models.VisitorWeights{
		Telemetry: &models.TelemetryWeights{IPMatch: 10},
		Payment:   floatPtr(30),
		Address:   &models.AddressWeights{City: 5},
		Identity:  &models.IdentityWeights{Email: 20},
	}

	match, err := testMatcher().Match(context.Background(), profile(), []*models.VisitorProfile{profile()}, weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(match.Score, 65) {
		t.Errorf("score = %v, want 65", match.Score)
	}
	if !approx(match.Categories.Payment, 30) || !approx(match.Categories.Identity, 20) {
		t.Errorf("unexpected categories: %+v", match.Categories)
	}
}

func TestMatch_ScoreIsCapped(t *testing.T) {
	t.Parallel()

	weights := &models.VisitorWeights{
		Telemetry: &models.TelemetryWeights{IPMatch: 500, CreationTimeProximity: 500},
		Payment:   floatPtr(1000),
		Identity:  &models.IdentityWeights{Email: 250, Username: 250},
	}

	match, err := testMatcher().Match(context.Background(), profile(), []*models.VisitorProfile{profile()}, weights)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Score != 100 {
		t.Errorf("score = %v, want capped at 100", match.Score)
	}
	if match.Categories.Payment != 1000 {
		t.Errorf("category scores are reported before capping, got payment %v", match.Categories.Payment)
	}
}

func TestMatch_BestCandidatePerCategory(t *testing.T) {
	t.Parallel()

	identityOnly := &models.VisitorProfile{Identity: profile().Identity}
	addressOnly := &models.VisitorProfile{Address: profile().Address}

	match, err := testMatcher().Match(context.Background(), profile(), []*models.VisitorProfile{identityOnly, addressOnly}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(match.Categories.Identity, 1) || !approx(match.Categories.Address, 1) {
		t.Errorf("expected best identity and address across candidates, got %+v", match.Categories)
	}
	if match.Categories.Payment != 0 {
		t.Errorf("payment = %v, want 0", match.Categories.Payment)
	}
}

func TestMatch_Errors(t *testing.T) {
	t.Parallel()

	m := testMatcher()
	ctx := context.Background()

	if _, err := m.Match(ctx, profile(), nil, nil); !errors.Is(err, ErrNoCandidates) || !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("empty candidates: got %v", err)
	}
	if _, err := m.Match(ctx, nil, []*models.VisitorProfile{profile()}, nil); !errors.Is(err, models.ErrMissingField) {
		t.Errorf("nil new visitor: got %v", err)
	}
	if _, err := m.Match(ctx, profile(), []*models.VisitorProfile{nil}, nil); !errors.Is(err, models.ErrMissingField) {
		t.Errorf("nil candidate: got %v", err)
	}

	negative := &models.VisitorWeights{Address: &models.AddressWeights{Line1: -2}}
	if _, err := m.Match(ctx, profile(), []*models.VisitorProfile{profile()}, negative); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("negative weight: got %v", err)
	}
	if _, err := m.Match(ctx, profile(), []*models.VisitorProfile{profile()}, &models.VisitorWeights{Payment: floatPtr(-1)}); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("negative payment weight: got %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := m.Match(canceled, profile(), []*models.VisitorProfile{profile()}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled context: got %v", err)
	}
}

func TestNewMatcher_Defaults(t *testing.T) {
	t.Parallel()

	cfg := NewMatcher(Config{}).Config()
	def := DefaultConfig()
	if cfg.ProximityRadiusKm != def.ProximityRadiusKm || cfg.MaxPlausibleSpeedKmS != def.MaxPlausibleSpeedKmS ||
		cfg.DistanceCapKm != def.DistanceCapKm || cfg.CreationWindow != def.CreationWindow || cfg.ScoreCap != def.ScoreCap {
		t.Errorf("zero config did not take defaults: %+v", cfg)
	}
	if cfg.Now == nil {
		t.Error("expected default clock")
	}
}
