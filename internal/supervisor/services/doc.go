// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

// Package services adapts Visitormatch components to suture.Service.
//
// Each wrapper turns a component's own lifecycle (ListenAndServe/Shutdown,
// Start/Shutdown, a periodic sweep) into a blocking Serve that returns when
// its context is canceled, and returns an error when the component stops
// on its own so the supervisor restarts it.
package services
