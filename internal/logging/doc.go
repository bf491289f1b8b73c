// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

// Package logging provides centralized zerolog-based logging for visitormatch.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//	logging.Ctx(ctx).Debug().Float64("score", score).Msg("Fingerprint matched")
//
// # Context
//
// Ctx attaches correlation_id and request_id from the context. The API layer
// sets request_id from the chi request ID or the caller-supplied request_id
// of a match request; the event processor sets it from the message UUID.
//
// # Adapters
//
//   - SlogHandler: slog.Handler for sutureslog supervisor events
//   - WatermillAdapter: watermill.LoggerAdapter for the event router
//
// # Personal Data
//
// Visitor records carry emails, phone numbers, addresses and card data. Log
// scores, counts and candidate indexes, never record contents. Where an
// identifier must appear, pass it through the Sanitize helpers first.
package logging
