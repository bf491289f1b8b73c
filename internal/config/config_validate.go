// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/visitormatch/internal/logging"
)

// Validate checks that the configuration is complete and within bounds.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	return c.validateEvents()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	return nil
}

// Rate limit bounds.
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour

	// minJWTSecretLength is 256 bits for HS256.
	minJWTSecretLength = 32
)

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "none":
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=none is not allowed when ENVIRONMENT=production")
		}
	case "jwt":
		if len(c.Security.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", minJWTSecretLength)
		}
		if c.hasWildcardCORS() && c.IsProduction() {
			return fmt.Errorf("CORS_ORIGINS=* is not allowed in production with authentication enabled")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be one of: none, jwt")
	}

	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports whether wildcard CORS is combined with
// authentication, which is logged at startup outside production.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AuthMode != "none" && c.hasWildcardCORS()
}

// IsProduction reports whether ENVIRONMENT is production.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic, disabled")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if !finite(m.SetThreshold) || m.SetThreshold < 0 || m.SetThreshold > 1 {
		return fmt.Errorf("MATCH_SET_THRESHOLD must be between 0 and 1")
	}

	positive := []struct {
		name  string
		value float64
	}{
		{"MATCH_PROXIMITY_RADIUS_KM", m.ProximityRadiusKm},
		{"MATCH_MAX_SPEED_KMS", m.MaxPlausibleSpeedKmS},
		{"MATCH_DISTANCE_CAP_KM", m.DistanceCapKm},
		{"MATCH_CREATION_WINDOW_SECONDS", m.CreationWindowSeconds},
		{"MATCH_SCORE_CAP", m.ScoreCap},
	}
	for _, p := range positive {
		if !finite(p.value) || p.value <= 0 {
			return fmt.Errorf("%s must be a positive number", p.name)
		}
	}

	if m.Workers < 1 || m.Workers > 256 {
		return fmt.Errorf("MATCH_WORKERS must be between 1 and 256")
	}
	if m.MaxCandidates < 1 {
		return fmt.Errorf("MATCH_MAX_CANDIDATES must be at least 1")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (c *Config) validateEvents() error {
	e := c.Events
	if !e.Enabled {
		return nil
	}

	switch e.Transport {
	case "gochannel":
	case "nats":
		if e.Embedded {
			if e.EmbeddedPort < -1 || e.EmbeddedPort > 65535 {
				return fmt.Errorf("NATS_EMBEDDED_PORT must be between -1 and 65535")
			}
			if e.StoreDir == "" {
				return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED is set")
			}
			break
		}
		if err := validateNATSURL(e.NATSURL); err != nil {
			return fmt.Errorf("NATS_URL: %w", err)
		}
	default:
		return fmt.Errorf("EVENTS_TRANSPORT must be gochannel or nats")
	}

	topics := map[string]string{
		"fingerprint request": e.FingerprintRequestTopic,
		"fingerprint result":  e.FingerprintResultTopic,
		"visitor request":     e.VisitorRequestTopic,
		"visitor result":      e.VisitorResultTopic,
		"poison":              e.PoisonTopic,
	}
	seen := make(map[string]string, len(topics))
	for name, topic := range topics {
		if topic == "" {
			return fmt.Errorf("events %s topic is required", name)
		}
		if other, dup := seen[topic]; dup {
			return fmt.Errorf("events %s and %s topics must differ (both %q)", name, other, topic)
		}
		seen[topic] = name
	}

	if e.RetryCount < 0 {
		return fmt.Errorf("EVENTS_RETRY_COUNT must not be negative")
	}
	if e.BreakerMaxFailures == 0 {
		return fmt.Errorf("EVENTS_BREAKER_MAX_FAILURES must be at least 1")
	}
	if e.BreakerTimeout <= 0 {
		return fmt.Errorf("EVENTS_BREAKER_TIMEOUT must be positive")
	}
	if e.ResultCacheSize < 0 {
		return fmt.Errorf("EVENTS_RESULT_CACHE_SIZE must not be negative")
	}
	return nil
}

// validateNATSURL accepts nats://, tls://, ws:// and wss:// URLs with a host.
func validateNATSURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	switch parsed.Scheme {
	case "nats", "tls", "ws", "wss":
	default:
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222)")
	}
	return nil
}
