// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

// Package matching coordinates the fingerprint and visitor matchers behind a
// single request/response API shared by the HTTP and message transports.
package matching

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"

	"github.com/tomtom215/visitormatch/internal/config"
	"github.com/tomtom215/visitormatch/internal/fingerprint"
	"github.com/tomtom215/visitormatch/internal/logging"
	"github.com/tomtom215/visitormatch/internal/metrics"
	"github.com/tomtom215/visitormatch/internal/models"
	"github.com/tomtom215/visitormatch/internal/visitor"
)

// Engine runs match requests and records their outcome. It is safe for
// concurrent use.
type Engine struct {
	fingerprints  *fingerprint.Matcher
	visitors      *visitor.Matcher
	maxCandidates int
	stats         engineCounters
}

type engineCounters struct {
	fingerprintRequests atomic.Int64
	visitorRequests     atomic.Int64
	failures            atomic.Int64
	redFlags            atomic.Int64
}

// EngineStats is a point-in-time copy of the engine counters.
type EngineStats struct {
	FingerprintRequests int64 `json:"fingerprint_requests"`
	VisitorRequests     int64 `json:"visitor_requests"`
	Failures            int64 `json:"failures"`
	RedFlags            int64 `json:"red_flags"`
}

// NewEngine builds both matchers from the matching configuration.
func NewEngine(cfg config.MatchingConfig) *Engine {
	return &Engine{
		fingerprints: fingerprint.NewMatcher(fingerprint.Config{
			SetThreshold: cfg.SetThreshold,
			Workers:      cfg.Workers,
		}),
		visitors: visitor.NewMatcher(visitor.Config{
			ProximityRadiusKm:    cfg.ProximityRadiusKm,
			MaxPlausibleSpeedKmS: cfg.MaxPlausibleSpeedKmS,
			DistanceCapKm:        cfg.DistanceCapKm,
			CreationWindow:       cfg.CreationWindow(),
			ScoreCap:             cfg.ScoreCap,
		}),
		maxCandidates: cfg.MaxCandidates,
	}
}

// NewEngineWithMatchers wires pre-built matchers, mainly for tests that need
// a fixed clock. maxCandidates <= 0 disables the candidate limit.
func NewEngineWithMatchers(fp *fingerprint.Matcher, v *visitor.Matcher, maxCandidates int) *Engine {
	return &Engine{fingerprints: fp, visitors: v, maxCandidates: maxCandidates}
}

// Stats returns a copy of the engine counters.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		FingerprintRequests: e.stats.fingerprintRequests.Load(),
		VisitorRequests:     e.stats.visitorRequests.Load(),
		Failures:            e.stats.failures.Load(),
		RedFlags:            e.stats.redFlags.Load(),
	}
}

// MatchFingerprint selects the closest previous fingerprint. The response
// score is the similarity as a percentage rounded to two decimals.
func (e *Engine) MatchFingerprint(ctx context.Context, req *models.FingerprintMatchRequest) (*models.FingerprintMatchResponse, error) {
	e.stats.fingerprintRequests.Add(1)
	start := time.Now()

	if req == nil {
		return nil, e.fail(ctx, metrics.KindFingerprint, start, models.MissingFieldError("request"))
	}
	if err := e.checkCandidates(len(req.PreviousFingerprints), "previous_fingerprints"); err != nil {
		return nil, e.fail(ctx, metrics.KindFingerprint, start, err)
	}

	match, err := e.fingerprints.Match(ctx, req.NewFingerprint, req.PreviousFingerprints, req.Weights)
	if err != nil {
		return nil, e.fail(ctx, metrics.KindFingerprint, start, err)
	}

	metrics.RecordMatch(metrics.KindFingerprint, metrics.OutcomeMatched, time.Since(start), match.Score, len(req.PreviousFingerprints))
	if match.Perfect {
		metrics.RecordShortCircuit()
	}

	return &models.FingerprintMatchResponse{
		RequestID:      req.RequestID,
		MatchScore:     Percent(match.Score),
		MatchResults:   map[string]float64(match.Results),
		CandidateIndex: match.CandidateIndex,
		Evaluated:      match.Evaluated,
	}, nil
}

// MatchVisitor scores the new visitor against the previous visitors.
func (e *Engine) MatchVisitor(ctx context.Context, req *models.VisitorMatchRequest) (*models.VisitorMatchResponse, error) {
	e.stats.visitorRequests.Add(1)
	start := time.Now()

	if req == nil {
		return nil, e.fail(ctx, metrics.KindVisitor, start, models.MissingFieldError("request"))
	}
	if err := e.checkCandidates(len(req.PreviousVisitors), "previous_visitors"); err != nil {
		return nil, e.fail(ctx, metrics.KindVisitor, start, err)
	}

	match, err := e.visitors.Match(ctx, req.NewVisitor, req.PreviousVisitors, req.Weights)
	if err != nil {
		return nil, e.fail(ctx, metrics.KindVisitor, start, err)
	}

	metrics.RecordMatch(metrics.KindVisitor, metrics.OutcomeMatched, time.Since(start), match.Score, len(req.PreviousVisitors))
	if match.IPTimingRedFlag {
		e.stats.redFlags.Add(1)
		metrics.RecordRedFlag()
	}

	return &models.VisitorMatchResponse{
		RequestID:       req.RequestID,
		MatchScore:      match.Score,
		IPTimingRedFlag: match.IPTimingRedFlag,
		Categories:      match.Categories,
	}, nil
}

func (e *Engine) checkCandidates(n int, field string) error {
	if e.maxCandidates > 0 && n > e.maxCandidates {
		return models.InvalidInputf("%s has %d entries, limit is %d", field, n, e.maxCandidates)
	}
	return nil
}

// fail records a failed request and returns err unchanged.
func (e *Engine) fail(ctx context.Context, kind string, start time.Time, err error) error {
	e.stats.failures.Add(1)
	outcome := Outcome(err)
	metrics.RecordMatch(kind, outcome, time.Since(start), 0, 0)

	event := logging.Ctx(ctx).Debug()
	if outcome == metrics.OutcomeError {
		event = logging.Ctx(ctx).Error()
	}
	event.Err(err).Str("kind", kind).Str("outcome", outcome).Msg("match request failed")
	return err
}

// Outcome classifies an engine error for metrics and transport mapping.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeMatched
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrMissingField):
		return metrics.OutcomeInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}

// Percent converts a unit similarity to a percentage with two decimals,
// i.e. 100 * round(score, 4).
func Percent(score float64) float64 {
	return math.Round(score*10000) / 100
}
