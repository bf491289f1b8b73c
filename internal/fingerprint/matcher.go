// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

// Package fingerprint compares a newly captured browser fingerprint against
// previously seen fingerprints and selects the closest candidate.
//
// Every candidate is compared attribute by attribute using the comparator
// that matches the attribute's semantic type (see rule), and the per-field
// outcomes are averaged into a similarity in [0,1] by score.Aggregate.
//
// Selection:
//   - A candidate scoring exactly 1.0 is returned immediately; later
//     candidates are not evaluated.
//   - Otherwise the running best is replaced whenever a candidate scores >=
//     it, so among equal scores the last candidate in input order wins.
//
// With Config.Workers > 1 candidates are scored concurrently, but selection
// is still an in-order scan over the computed scores, so the returned match
// is identical to a sequential run.
package fingerprint

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/visitormatch/internal/compare"
	"github.com/tomtom215/visitormatch/internal/logging"
	"github.com/tomtom215/visitormatch/internal/models"
	"github.com/tomtom215/visitormatch/internal/score"
)

// ErrNoCandidates is returned when there are no previous fingerprints.
var ErrNoCandidates = fmt.Errorf("%w: no previous fingerprints to compare", models.ErrInvalidInput)

// Config configures the fingerprint matcher.
type Config struct {
	// SetThreshold is the maximum Dice distance at which set attributes match.
	SetThreshold float64

	// Workers bounds concurrent candidate evaluation. 0 or 1 evaluates sequentially.
	Workers int
}

// DefaultConfig returns the default fingerprint matcher configuration.
func DefaultConfig() Config {
	return Config{
		SetThreshold: compare.DefaultSetThreshold,
		Workers:      1,
	}
}

// Matcher selects the closest previous fingerprint. It holds no per-call
// state and is safe for concurrent use.
type Matcher struct {
	config Config
}

// NewMatcher creates a fingerprint matcher.
func NewMatcher(cfg Config) *Matcher {
	if cfg.SetThreshold <= 0 {
		cfg.SetThreshold = compare.DefaultSetThreshold
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Matcher{config: cfg}
}

// Config returns the matcher configuration.
func (m *Matcher) Config() Config {
	return m.config
}

// Match is the outcome of a fingerprint comparison.
type Match struct {
	// Score is the similarity of the selected candidate in [0,1].
	Score float64

	// Results holds the per-attribute outcomes of the selected candidate.
	Results compare.Result

	// CandidateIndex is the position of the selected candidate in the input.
	CandidateIndex int

	// Evaluated is the number of candidates considered before selection ended.
	Evaluated int

	// Perfect is true when selection stopped early on a 1.0 score.
	Perfect bool
}

// candidate is one scored previous fingerprint.
type candidate struct {
	score  float64
	result compare.Result
	err    error
}

// Compare computes the per-attribute result of prev against next.
func (m *Matcher) Compare(prev, next *models.Fingerprint) (compare.Result, error) {
	if prev == nil || next == nil {
		return nil, models.MissingFieldError("fingerprint")
	}
	result := make(compare.Result, len(schema))
	for _, r := range schema {
		v, err := r.eval(prev, next, m.config.SetThreshold)
		if err != nil {
			return nil, fmt.Errorf("compare %s: %w", r.field, err)
		}
		result[r.field] = v
	}
	return result, nil
}

// ValidateWeights checks that weights only name known attributes and are non-negative.
func ValidateWeights(weights models.FingerprintWeights) error {
	return score.Validate(score.Weights(weights), Fields())
}

// Match compares next against every previous fingerprint and returns the
// best candidate. An empty previous list returns ErrNoCandidates.
func (m *Matcher) Match(ctx context.Context, next *models.Fingerprint, previous []*models.Fingerprint, weights models.FingerprintWeights) (*Match, error) {
	if next == nil {
		return nil, models.MissingFieldError("new_fingerprint")
	}
	if len(previous) == 0 {
		return nil, ErrNoCandidates
	}
	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}

	var match *Match
	var err error
	if m.config.Workers > 1 && len(previous) > 1 {
		match, err = m.matchParallel(ctx, next, previous, score.Weights(weights))
	} else {
		match, err = m.matchSequential(ctx, next, previous, score.Weights(weights))
	}
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Int("candidates", len(previous)).
		Int("evaluated", match.Evaluated).
		Int("selected", match.CandidateIndex).
		Float64("score", match.Score).
		Bool("perfect", match.Perfect).
		Msg("fingerprint match selected")

	return match, nil
}

func (m *Matcher) evaluate(prev, next *models.Fingerprint, weights score.Weights, index int) candidate {
	if prev == nil {
		return candidate{err: models.MissingFieldError(fmt.Sprintf("previous_fingerprints[%d]", index))}
	}
	result, err := m.Compare(prev, next)
	if err != nil {
		return candidate{err: fmt.Errorf("candidate %d: %w", index, err)}
	}
	return candidate{score: score.Aggregate(result, weights, true), result: result}
}

func (m *Matcher) matchSequential(ctx context.Context, next *models.Fingerprint, previous []*models.Fingerprint, weights score.Weights) (*Match, error) {
	sel := newSelector()
	for i, prev := range previous {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if done, err := sel.offer(i, m.evaluate(prev, next, weights, i)); err != nil || done {
			return sel.match, err
		}
	}
	return sel.match, nil
}

func (m *Matcher) matchParallel(ctx context.Context, next *models.Fingerprint, previous []*models.Fingerprint, weights score.Weights) (*Match, error) {
	scored := make([]candidate, len(previous))
	indices := make(chan int)

	workers := m.config.Workers
	if workers > len(previous) {
		workers = len(previous)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				scored[i] = m.evaluate(previous[i], next, weights, i)
			}
		}()
	}

feed:
	for i := range previous {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sel := newSelector()
	for i := range scored {
		if done, err := sel.offer(i, scored[i]); err != nil || done {
			return sel.match, err
		}
	}
	return sel.match, nil
}

// selector applies the selection policy to candidates offered in input order.
type selector struct {
	match *Match
}

func newSelector() *selector {
	return &selector{match: &Match{CandidateIndex: -1}}
}

// offer considers the candidate at index i and reports whether selection is
// finished (a perfect score was found).
func (s *selector) offer(i int, c candidate) (bool, error) {
	if c.err != nil {
		s.match = nil
		return true, c.err
	}
	s.match.Evaluated++
	if c.score == 1.0 {
		s.match.Score, s.match.Results, s.match.CandidateIndex = c.score, c.result, i
		s.match.Perfect = true
		return true, nil
	}
	if c.score >= s.match.Score {
		s.match.Score, s.match.Results, s.match.CandidateIndex = c.score, c.result, i
	}
	return false, nil
}
