// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package models

import (
	"bytes"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// TimestampLayout is the wire format of every visitor timestamp
// (YYYY-MM-DD HH:MM:SS with an optional fractional part of up to six digits).
const TimestampLayout = "2006-01-02 15:04:05.999999"

// Timestamp is an optional point in time. The zero value is absent.
//
// JSON null and "" decode to an absent timestamp; any other string must match
// TimestampLayout or decoding fails with ErrInvalidInput.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// NewTimestamp returns a present Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC(), Valid: true}
}

// ParseTimestamp parses s using TimestampLayout. An empty string yields an
// absent timestamp and no error.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return Timestamp{}, InvalidInputf("timestamp %q does not match %s", s, TimestampLayout)
	}
	return Timestamp{Time: t, Valid: true}, nil
}

// MustParseTimestamp is ParseTimestamp for constants; it panics on error.
func MustParseTimestamp(s string) Timestamp {
	ts, err := ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// String formats the timestamp in TimestampLayout, or "" when absent.
func (t Timestamp) String() string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(TimestampLayout)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return InvalidInputf("timestamp must be a string: %v", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}
