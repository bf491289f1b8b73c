// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package compare

import (
	"strconv"
	"strings"

	"github.com/tomtom215/visitormatch/internal/models"
)

// ParseVersion splits a numeric or dotted version string ("120", "17.4.1")
// into integer components.
func ParseVersion(s string) ([]int, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return nil, models.InvalidInputf("version %q: component %d is not an integer", s, i)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, models.InvalidInputf("version %q: %v", s, err)
		}
		out[i] = n
	}
	return out, nil
}

// LessThanOrEqual reports whether next is greater than or equal to prev.
//
// Components are compared left to right as integers, so "1.9" <= "1.10". When
// all shared components are equal and prev has more components than next, the
// result is false. A missing side yields false; a malformed version yields
// models.ErrInvalidInput.
func LessThanOrEqual(prev, next string) (bool, error) {
	if strings.TrimSpace(prev) == "" || strings.TrimSpace(next) == "" {
		return false, nil
	}
	p, err := ParseVersion(prev)
	if err != nil {
		return false, err
	}
	n, err := ParseVersion(next)
	if err != nil {
		return false, err
	}
	for i := range p {
		if i >= len(n) {
			return false, nil
		}
		switch {
		case p[i] > n[i]:
			return false, nil
		case n[i] > p[i]:
			return true, nil
		}
	}
	return true, nil
}

// LessThanOrEqualValue is LessThanOrEqual for optional integers.
func LessThanOrEqualValue(prev, next *int) bool {
	if prev == nil || next == nil {
		return false
	}
	return *prev <= *next
}
