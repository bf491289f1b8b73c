// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

// Package eventprocessor runs the asynchronous match pipeline on Watermill.
//
// Upstream services publish match requests to the request topics; the
// processor scores them with the shared matching engine and publishes one
// MatchResult per request to the matching result topic:
//
//	fingerprint.match.requested ──► fingerprint-match ──► fingerprint.match.completed
//	visitor.match.requested     ──► visitor-match     ──► visitor.match.completed
//	                                      │
//	                                      └─ retries exhausted ──► match.poison
//
// # Transports
//
//   - gochannel: in-process pub/sub for single-binary deployments and tests
//   - nats: NATS JetStream, optionally served by an embedded nats-server
//
// With NATS every topic is a subject of one stream (VISITORMATCH) created by
// StreamInitializer. Each handler consumes through its own durable queue
// consumer so multiple replicas share the load.
//
// # Delivery Semantics
//
// Requests are processed at least once. Input errors are answered with an
// error result and acknowledged. Internal errors are retried with
// exponential backoff and then moved to the poison topic. Results are cached
// by request ID and published with a message ID derived from it, so a
// redelivered request yields one result per deduplication window.
//
// # Resilience
//
// Result publishing runs behind a sony/gobreaker circuit breaker. While the
// breaker is open the processor reports not ready.
package eventprocessor
