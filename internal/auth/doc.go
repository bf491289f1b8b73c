// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

/*
Package auth provides bearer token authentication for the matching API.

Matching requests carry personal data, so deployments that expose the API
beyond a trusted network enable JWT mode (AUTH_MODE=jwt). Tokens are HS256
signed with JWT_SECRET and must carry sub and exp claims. When JWT_ISSUER
is set the iss claim must match it.

Key Components:

  - JWTManager: Token generation and validation using HMAC-SHA256
  - Middleware: HTTP middleware that rejects unauthenticated requests with 401
  - AuthSubject: The authenticated caller, stored in the request context
  - FailureLimiter: Per-IP token bucket (golang.org/x/time/rate) drained by
    failed attempts; exhausted clients get 429 before their token is parsed

Usage Example:

	manager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(auth.AuthModeJWT, manager)
	r.Post("/api/v1/match/visitor", mw.Authenticate(handler.MatchVisitor))

	// inside the handler
	subject := auth.SubjectFromContext(r.Context())

Health, readiness and metrics endpoints are never authenticated.

Security:

  - Only HS256 is accepted; "none" and asymmetric algorithms are rejected
  - Tokens without exp are rejected
  - Tokens are masked before logging (see logging.SanitizeToken)
*/
package auth
