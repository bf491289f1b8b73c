// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

/*
Package compare provides the field-level similarity primitives used by the
fingerprint and visitor matchers.

Every comparator is a pure function of two values. Missing data never causes
an error: it yields the least-matching well-defined result (false, 0, a
distance of 1, or an unknown Measure). Only structurally invalid input, such
as a version component that is not an integer, is reported as
models.ErrInvalidInput.

Comparators:

  - ExactMatch / ExactValue: both present and equal
  - AsymmetricMatch: revocable capabilities (true may become false, never the reverse)
  - MatchSet: Dice distance between comma-delimited sets within a threshold
  - LessThanOrEqual: numeric or dotted-version ordering (new >= previous)
  - EditDistance: Levenshtein distance normalized by the previous value
  - HaversineDistance: great-circle distance in kilometers
  - TimestampDifference / AgeDifference: temporal measures

Outcomes are collected per field in a Result, which stores every outcome as a
real number in [0,1] (booleans become 0 or 1) so the aggregator never has to
branch on type.
*/
package compare
