// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	handler := NewSlogHandlerWithLogger(zerolog.New(nil).Level(zerolog.WarnLevel))

	tests := []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelDebug, false},
		{slog.LevelInfo, false},
		{slog.LevelWarn, true},
		{slog.LevelError, true},
	}

	for _, tt := range tests {
		if got := handler.Enabled(context.Background(), tt.level); got != tt.want {
			t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     slog.Level
		wantLevel string
	}{
		{"info level", slog.LevelInfo, `"level":"info"`},
		{"warn level", slog.LevelWarn, `"level":"warn"`},
		{"error level", slog.LevelError, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			handler := NewSlogHandlerWithLogger(zerolog.New(&buf))

			record := slog.NewRecord(time.Now(), tt.level, "service restarted", 0)
			record.AddAttrs(slog.String("service", "http"), slog.Int("attempt", 2))
			if err := handler.Handle(context.Background(), record); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			output := buf.String()
			for _, want := range []string{tt.wantLevel, "service restarted", `"service":"http"`, `"attempt":2`} {
				if !strings.Contains(output, want) {
					t.Errorf("Handle() output missing %q: %s", want, output)
				}
			}
		})
	}
}

func TestSlogHandler_WithAttrsAndGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := NewSlogHandlerWithLogger(zerolog.New(&buf))

	handler := base.WithAttrs([]slog.Attr{slog.String("layer", "api")}).WithGroup("supervisor")
	if base.WithGroup("") != base {
		t.Error("empty group should return the same handler")
	}

	record := slog.NewRecord(time.Now(), slog.LevelWarn, "backoff", 0)
	record.AddAttrs(
		slog.Duration("delay", time.Second),
		slog.Group("event", slog.Bool("restarting", true)),
	)
	if err := handler.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{`"supervisor.layer":"api"`, `"supervisor.delay":`, `"supervisor.event.restarting":true`} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q: %s", want, output)
		}
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level slog.Level
		want  zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		if got := slogToZerologLevel(tt.level); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNewSlogLogger(t *testing.T) {
	buf := captureGlobal(t, zerolog.InfoLevel)

	NewSlogLogger().Info("via slog", "key", "value")

	if !strings.Contains(buf.String(), `"key":"value"`) {
		t.Errorf("expected slog output routed to zerolog: %s", buf.String())
	}
}
