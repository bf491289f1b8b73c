// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

/*
Package config loads visitormatch configuration with Koanf v2.

# Configuration Sources

Sources are layered, later ones winning:

  - Built-in defaults (defaultConfig)
  - Optional YAML file: $CONFIG_PATH, ./config.yaml, /etc/visitormatch/config.yaml
  - Mapped environment variables (HTTP_PORT, MATCH_WORKERS, NATS_URL, ...)

Unmapped environment variables are ignored.

# Sections

  - server: HTTP listener, timeouts and request body limit
  - security: auth mode (none or jwt), rate limiting, CORS
  - logging: zerolog level, format and caller info
  - matching: comparator and aggregator tunables
  - events: Watermill transport, topics, retry and circuit breaker

# Example

	server:
	  port: 8080
	security:
	  auth_mode: jwt
	  jwt_secret: "0123456789abcdef0123456789abcdef"
	matching:
	  workers: 8
	events:
	  enabled: true
	  transport: nats
	  nats_url: nats://nats:4222

Load validates the result and returns an error naming the offending
environment variable.
*/
package config
