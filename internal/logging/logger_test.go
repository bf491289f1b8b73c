// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// captureGlobal swaps the global logger for one writing to a buffer and
// restores logger and level when the test ends.
func captureGlobal(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prevLogger := Logger()
	prevLevel := GetLevel()

	SetLogger(zerolog.New(&buf))
	SetLevel(level)

	t.Cleanup(func() {
		SetLogger(prevLogger)
		SetLevel(prevLevel)
	})
	return &buf
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit(t *testing.T) {
	prevLogger := Logger()
	prevLevel := GetLevel()
	t.Cleanup(func() {
		SetLogger(prevLogger)
		SetLevel(prevLevel)
	})

	var buf bytes.Buffer
	Init(Config{
		Level:     "warn",
		Format:    "json",
		Timestamp: true,
		Output:    &buf,
	})

	Info().Msg("suppressed")
	Warn().Str("kind", "visitor").Msg("red flag")

	output := buf.String()
	if strings.Contains(output, "suppressed") {
		t.Errorf("info should be below the configured level: %s", output)
	}
	if !strings.Contains(output, `"level":"warn"`) || !strings.Contains(output, `"kind":"visitor"`) {
		t.Errorf("unexpected output: %s", output)
	}
	if !strings.Contains(output, `"time":`) {
		t.Errorf("expected timestamp field: %s", output)
	}
}

func TestInit_ConsoleFormat(t *testing.T) {
	prevLogger := Logger()
	prevLevel := GetLevel()
	t.Cleanup(func() {
		SetLogger(prevLogger)
		SetLevel(prevLevel)
	})

	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "console", Output: &buf})

	Info().Msg("console output")

	output := buf.String()
	if !strings.Contains(output, "console output") {
		t.Errorf("expected message in console output: %s", output)
	}
	if strings.Contains(output, `"message"`) {
		t.Errorf("console output should not be JSON: %s", output)
	}
}

func TestInit_ServiceField(t *testing.T) {
	prevLogger := Logger()
	prevLevel := GetLevel()
	t.Cleanup(func() {
		SetLogger(prevLogger)
		SetLevel(prevLevel)
	})

	var buf bytes.Buffer
	Init(Config{Level: "info", Service: "visitormatch", Output: &buf})

	Info().Msg("tagged")

	if !strings.Contains(buf.String(), `"service":"visitormatch"`) {
		t.Errorf("expected service field: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"debug", "INFO", "warning", "disabled"} {
		if !ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = false", level)
		}
	}
	for _, level := range []string{"", "verbose", "notice"} {
		if ValidLevel(level) {
			t.Errorf("ValidLevel(%q) = true", level)
		}
	}
}

func TestLogLevels(t *testing.T) {
	buf := captureGlobal(t, zerolog.DebugLevel)

	Debug().Msg("debug msg")
	Info().Msg("info msg")
	Warn().Msg("warn msg")
	Error().Msg("error msg")
	Err(errors.New("boom")).Msg("err msg")

	output := buf.String()
	for _, want := range []string{"debug msg", "info msg", "warn msg", "error msg", `"error":"boom"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output: %s", want, output)
		}
	}
}

func TestWith(t *testing.T) {
	buf := captureGlobal(t, zerolog.InfoLevel)

	logger := With().Str("component", "fingerprint").Logger()
	logger.Info().Msg("with test")

	if !strings.Contains(buf.String(), `"component":"fingerprint"`) {
		t.Errorf("expected component field: %s", buf.String())
	}
}

func TestNewTestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewTestLogger(&buf)
	logger.Error().Msg("captured")

	if !strings.Contains(buf.String(), "captured") {
		t.Errorf("expected captured output: %s", buf.String())
	}
}
