// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package eventprocessor

import "errors"

var (
	// ErrPublisherClosed is returned when publishing after Close.
	ErrPublisherClosed = errors.New("publisher is closed")

	// ErrProcessorClosed is returned when running a processor after Close.
	ErrProcessorClosed = errors.New("processor is closed")

	// ErrUnknownTransport is returned for an unsupported events transport.
	ErrUnknownTransport = errors.New("unknown events transport")

	// ErrNotRunning is reported by readiness checks before the router starts.
	ErrNotRunning = errors.New("event router is not running")

	// ErrBreakerOpen is reported by readiness checks while result
	// publishing is short-circuited.
	ErrBreakerOpen = errors.New("result publisher circuit breaker is open")

	// ErrNATSDisconnected is reported while the NATS connection is down.
	ErrNATSDisconnected = errors.New("NATS connection is not established")
)
