// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

// Package testinfra provides shared test fixtures and, behind the
// integration build tag, container-backed infrastructure.
//
// # Fixtures
//
// Fingerprint, FirefoxOnWindows, Visitor and VisitorInTokyo return fresh,
// fully populated records so that tests in the matching, api and
// eventprocessor packages exercise every comparator:
//
//	resp, err := engine.MatchVisitor(ctx, &models.VisitorMatchRequest{
//	    NewVisitor:       testinfra.VisitorInTokyo(),
//	    PreviousVisitors: []*models.VisitorProfile{testinfra.Visitor()},
//	})
//
// # NATS Container
//
// NewNATSContainer starts a JetStream-enabled NATS server with
// testcontainers-go for end-to-end tests of the NATS transport:
//
//	//go:build integration
//
//	func TestNATSRoundTrip(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    nats, err := testinfra.NewNATSContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, nats)
//	    // connect to nats.URL
//	}
//
// Run with:
//
//	go test -tags integration ./internal/eventprocessor/...
package testinfra
