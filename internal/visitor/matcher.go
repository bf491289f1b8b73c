// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

// Package visitor compares a newly observed visitor profile against previously
// seen profiles across four independent categories:
//
//   - Telemetry: IP history, geographic proximity, creation time and account age
//   - Payment: card fingerprint or card details
//   - Address: postal address with fuzzy street lines
//   - Identity: email, phone, names and username
//
// Each category is scored against every candidate and reduced to its best
// score. The overall score is the sum of the four best scores capped at
// Config.ScoreCap. Telemetry additionally raises an IP timing red flag when
// any pair of IP observations implies travel faster than
// Config.MaxPlausibleSpeedKmS.
//
// Weighting: a category with weights is a weighted sum of its fields (so it
// contributes up to the sum of its weights); a category without weights is
// the unweighted average of its fields.
package visitor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/visitormatch/internal/logging"
	"github.com/tomtom215/visitormatch/internal/models"
	"github.com/tomtom215/visitormatch/internal/score"
	"github.com/tomtom215/visitormatch/internal/validation"
)

// ErrNoCandidates is returned when there are no previous visitors.
var ErrNoCandidates = fmt.Errorf("%w: no previous visitors to compare", models.ErrInvalidInput)

// Config configures the visitor matcher.
type Config struct {
	// ProximityRadiusKm is the distance under which two IP locations count as the same place.
	ProximityRadiusKm float64

	// MaxPlausibleSpeedKmS is the fastest plausible travel speed between two
	// IP observations. Default is passenger jet cruising speed plus 20%.
	MaxPlausibleSpeedKmS float64

	// DistanceCapKm caps the distance used for per-pair distance scores.
	DistanceCapKm float64

	// CreationWindow is the creation-time difference at which proximity reaches 0.
	CreationWindow time.Duration

	// ScoreCap is the maximum overall score.
	ScoreCap float64

	// Now returns the reference time for account age. Default: time.Now.
	Now func() time.Time
}

// DefaultConfig returns the default visitor matcher configuration.
func DefaultConfig() Config {
	return Config{
		ProximityRadiusKm:    10,
		MaxPlausibleSpeedKmS: 0.35,
		DistanceCapKm:        1000,
		CreationWindow:       24 * time.Hour,
		ScoreCap:             100,
		Now:                  time.Now,
	}
}

// Matcher scores visitor profiles. It holds no per-call state and is safe
// for concurrent use.
type Matcher struct {
	config Config
}

// NewMatcher creates a visitor matcher. Zero fields take their defaults.
func NewMatcher(cfg Config) *Matcher {
	def := DefaultConfig()
	if cfg.ProximityRadiusKm <= 0 {
		cfg.ProximityRadiusKm = def.ProximityRadiusKm
	}
	if cfg.MaxPlausibleSpeedKmS <= 0 {
		cfg.MaxPlausibleSpeedKmS = def.MaxPlausibleSpeedKmS
	}
	if cfg.DistanceCapKm <= 0 {
		cfg.DistanceCapKm = def.DistanceCapKm
	}
	if cfg.CreationWindow <= 0 {
		cfg.CreationWindow = def.CreationWindow
	}
	if cfg.ScoreCap <= 0 {
		cfg.ScoreCap = def.ScoreCap
	}
	if cfg.Now == nil {
		cfg.Now = def.Now
	}
	return &Matcher{config: cfg}
}

// Config returns the matcher configuration.
func (m *Matcher) Config() Config {
	return m.config
}

// Match is the outcome of a visitor comparison.
type Match struct {
	// Score is the combined score, capped at Config.ScoreCap.
	Score float64

	// IPTimingRedFlag is true when any candidate's IP history is physically
	// implausible for one person. It is independent of Score.
	IPTimingRedFlag bool

	// Categories holds the best score per category before capping.
	Categories models.CategoryScores

	// RedFlagCandidates lists the candidates that raised the red flag.
	RedFlagCandidates []int
}

// ValidateWeights checks that every weight is non-negative.
func ValidateWeights(weights *models.VisitorWeights) error {
	if weights == nil {
		return nil
	}
	if verr := validation.ValidateStruct(weights); verr != nil {
		return fmt.Errorf("%w: weights: %s", models.ErrInvalidInput, verr.Error())
	}
	return nil
}

// Match compares next against every previous visitor. An empty previous list
// returns ErrNoCandidates.
func (m *Matcher) Match(ctx context.Context, next *models.VisitorProfile, previous []*models.VisitorProfile, weights *models.VisitorWeights) (*Match, error) {
	if next == nil {
		return nil, models.MissingFieldError("new_visitor")
	}
	if len(previous) == 0 {
		return nil, ErrNoCandidates
	}
	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}

	var (
		telemetryWeights = score.Weights(weights.TelemetryMap())
		addressWeights   = score.Weights(weights.AddressMap())
		identityWeights  = score.Weights(weights.IdentityMap())
		now              = m.config.Now()
		best             models.CategoryScores
		match            = &Match{}
	)

	for i, prev := range previous {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if prev == nil {
			return nil, models.MissingFieldError(fmt.Sprintf("previous_visitors[%d]", i))
		}

		telemetry := m.compareTelemetry(prev, next, now)
		if telemetry.redFlag {
			match.IPTimingRedFlag = true
			match.RedFlagCandidates = append(match.RedFlagCandidates, i)
		}

		best.Telemetry = math.Max(best.Telemetry, score.Aggregate(telemetry.result, telemetryWeights, telemetryWeights == nil))
		best.Payment = math.Max(best.Payment, comparePayment(prev.Payment, next.Payment))
		best.Address = math.Max(best.Address, score.Aggregate(compareAddress(prev.Address, next.Address), addressWeights, addressWeights == nil))
		best.Identity = math.Max(best.Identity, score.Aggregate(compareIdentity(prev.Identity, next.Identity), identityWeights, identityWeights == nil))
	}
	best.Payment *= weights.PaymentScale()

	match.Categories = best
	match.Score = math.Min(m.config.ScoreCap, best.Telemetry+best.Payment+best.Address+best.Identity)

	log := logging.Ctx(ctx)
	if match.IPTimingRedFlag {
		log.Warn().
			Ints("candidates", match.RedFlagCandidates).
			Float64("max_speed_kms", m.config.MaxPlausibleSpeedKmS).
			Msg("implausible IP travel between visitor observations")
	}
	log.Debug().
		Int("candidates", len(previous)).
		Float64("score", match.Score).
		Float64("telemetry", best.Telemetry).
		Float64("payment", best.Payment).
		Float64("address", best.Address).
		Float64("identity", best.Identity).
		Msg("visitor match scored")

	return match, nil
}
