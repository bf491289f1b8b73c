// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Matching MatchingConfig `koanf:"matching"`
	Events   EventsConfig   `koanf:"events"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST: bind address (default: 0.0.0.0)
//   - HTTP_PORT: listen port (default: 8080)
//   - HTTP_TIMEOUT: read/write timeout (default: 30s)
//   - MAX_BODY_BYTES: maximum request body size (default: 16MB)
//   - ENVIRONMENT: development or production (default: development)
type ServerConfig struct {
	Port         int           `koanf:"port"`
	Host         string        `koanf:"host"`
	Timeout      time.Duration `koanf:"timeout"`
	MaxBodyBytes int64         `koanf:"max_body_bytes"`
	Environment  string        `koanf:"environment"`
}

// SecurityConfig holds authentication and HTTP protection settings.
//
// Environment Variables:
//   - AUTH_MODE: none or jwt (default: none)
//   - JWT_SECRET: HMAC secret for bearer tokens, at least 32 characters
//   - JWT_ISSUER: expected iss claim (optional)
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW / DISABLE_RATE_LIMIT
//   - CORS_ORIGINS: comma-separated allowed origins (default: *)
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	JWTIssuer         string        `koanf:"jwt_issuer"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// MatchingConfig holds the matching engine tunables.
//
// Environment Variables:
//   - MATCH_SET_THRESHOLD: Dice distance below which sets match (default: 0.5)
//   - MATCH_PROXIMITY_RADIUS_KM: same-place radius (default: 10)
//   - MATCH_MAX_SPEED_KMS: fastest plausible travel in km/s (default: 0.35)
//   - MATCH_DISTANCE_CAP_KM: cap for per-pair distance scores (default: 1000)
//   - MATCH_CREATION_WINDOW_SECONDS: creation time proximity window (default: 86400)
//   - MATCH_SCORE_CAP: maximum visitor score (default: 100)
//   - MATCH_WORKERS: fingerprint candidates scored concurrently (default: 1)
//   - MATCH_MAX_CANDIDATES: largest candidate list accepted (default: 10000)
type MatchingConfig struct {
	SetThreshold          float64 `koanf:"set_threshold"`
	ProximityRadiusKm     float64 `koanf:"proximity_radius_km"`
	MaxPlausibleSpeedKmS  float64 `koanf:"max_plausible_speed_kms"`
	DistanceCapKm         float64 `koanf:"distance_cap_km"`
	CreationWindowSeconds float64 `koanf:"creation_window_seconds"`
	ScoreCap              float64 `koanf:"score_cap"`
	Workers               int     `koanf:"workers"`
	MaxCandidates         int     `koanf:"max_candidates"`
}

// CreationWindow returns the creation time proximity window as a duration.
func (m MatchingConfig) CreationWindow() time.Duration {
	return time.Duration(m.CreationWindowSeconds * float64(time.Second))
}

// EventsConfig holds the match event pipeline settings.
//
// Environment Variables:
//   - EVENTS_ENABLED: consume match requests from the message bus (default: false)
//   - EVENTS_TRANSPORT: gochannel or nats (default: gochannel)
//   - NATS_URL: NATS server URL (default: nats://127.0.0.1:4222)
//   - NATS_QUEUE_GROUP: queue group shared by replicas (default: visitormatch)
//   - EVENTS_RETRY_COUNT / EVENTS_RETRY_INTERVAL: router retry middleware
//   - EVENTS_BREAKER_MAX_FAILURES / EVENTS_BREAKER_TIMEOUT: result publisher breaker
//   - NATS_EMBEDDED: run an in-process JetStream server (default: false)
//   - NATS_EMBEDDED_PORT / NATS_STORE_DIR: embedded server listener and storage
//   - EVENTS_RESULT_CACHE_SIZE / EVENTS_RESULT_CACHE_TTL: redelivery result cache
type EventsConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Transport  string `koanf:"transport"`
	NATSURL    string `koanf:"nats_url"`
	QueueGroup string `koanf:"queue_group"`

	FingerprintRequestTopic string `koanf:"fingerprint_request_topic"`
	FingerprintResultTopic  string `koanf:"fingerprint_result_topic"`
	VisitorRequestTopic     string `koanf:"visitor_request_topic"`
	VisitorResultTopic      string `koanf:"visitor_result_topic"`
	PoisonTopic             string `koanf:"poison_topic"`

	RetryCount           int           `koanf:"retry_count"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	CloseTimeout         time.Duration `koanf:"close_timeout"`

	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerInterval    time.Duration `koanf:"breaker_interval"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`

	Embedded     bool   `koanf:"embedded"`
	EmbeddedPort int    `koanf:"embedded_port"`
	StoreDir     string `koanf:"store_dir"`

	ResultCacheSize int           `koanf:"result_cache_size"`
	ResultCacheTTL  time.Duration `koanf:"result_cache_ttl"`
}

// Load loads configuration from defaults, the optional config file and
// environment variables, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
