// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

/*
Package main is the entry point for the Visitormatch server.

Visitormatch scores how likely a new browser fingerprint or visitor profile
belongs to someone seen before. Fraud prevention services call it
synchronously over HTTP or asynchronously through a message bus.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("visitormatch")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── Result cache janitor (when EVENTS_ENABLED=true)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Event processor (Watermill router over GoChannel or NATS JetStream)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, optional config file and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Matching engine: fingerprint and visitor matchers
 4. Authentication: JWT bearer tokens or no-auth mode
 5. Event pipeline: optional, with optional embedded NATS server
 6. Supervisor Tree: Suture v4 process supervision
 7. HTTP Server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=8080               # HTTP server port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Authentication
	AUTH_MODE=jwt                # jwt or none
	JWT_SECRET=<32+ chars>       # Required for JWT mode

	# Matching
	MATCH_MAX_CANDIDATES=10000
	MATCH_WORKERS=4

	# Event pipeline
	EVENTS_ENABLED=true
	EVENTS_TRANSPORT=nats        # gochannel or nats
	NATS_URL=nats://nats:4222
	NATS_EMBEDDED=false

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Waits for in-flight requests (10s timeout)
 3. Stops the event router and waits for in-flight messages
 4. Closes subscribers, the result publisher and the embedded server
 5. Reports any services that failed to stop

# Usage Examples

Development (no auth, in-process bus):

	export AUTH_MODE=none EVENTS_ENABLED=true
	go run ./cmd/server

Production (JWT + NATS JetStream):

	export AUTH_MODE=jwt
	export JWT_SECRET=$(openssl rand -base64 32)
	export EVENTS_ENABLED=true EVENTS_TRANSPORT=nats NATS_URL=nats://nats:4222
	./visitormatch

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
  - internal/eventprocessor: Message bus pipeline
  - internal/matching: Matching engine
*/
package main
