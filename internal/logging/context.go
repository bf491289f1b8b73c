// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type (
	correlationIDKey struct{}
	requestIDKey     struct{}
	loggerKey        struct{}
)

// contextFields lists the IDs copied from a context onto log entries, in
// output order.
var contextFields = []struct {
	name string
	get  func(context.Context) string
}{
	{"correlation_id", CorrelationIDFromContext},
	{"request_id", RequestIDFromContext},
}

// GenerateCorrelationID returns a short 8 character ID. Correlation IDs
// only need to be unique within one request's fan-out.
func GenerateCorrelationID() string {
	return uuid.NewString()[:8]
}

// GenerateRequestID returns a full UUID.
func GenerateRequestID() string {
	return uuid.NewString()
}

func stringValue(ctx context.Context, key interface{}) string {
	s, _ := ctx.Value(key).(string)
	return s
}

// ContextWithCorrelationID returns ctx carrying correlation ID id.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// ContextWithNewCorrelationID returns ctx carrying a fresh correlation ID.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationIDKey{})
}

// ContextWithRequestID returns ctx carrying request ID id. Match requests
// carry their caller-supplied request_id through this key.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey{})
}

// ContextWithLogger stores logger in ctx.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns the logger stored in ctx, or the global logger.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return logger
	}
	return Logger()
}

// Ctx returns a logger with the IDs found in ctx attached.
//
//	logging.Ctx(ctx).Info().Float64("score", s).Msg("Visitor matched")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := CtxWith(ctx).Logger()
	return &logger
}

// CtxWith is Ctx for callers that add more fields. Absent IDs are omitted.
//
//	logger := logging.CtxWith(ctx).Str("kind", "visitor").Logger()
func CtxWith(ctx context.Context) zerolog.Context {
	logger := LoggerFromContext(ctx)
	logCtx := logger.With()
	for _, f := range contextFields {
		if v := f.get(ctx); v != "" {
			logCtx = logCtx.Str(f.name, v)
		}
	}
	return logCtx
}

// WithComponent creates a child of the global logger tagged with component.
//
//	eventLogger := logging.WithComponent("eventprocessor")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
