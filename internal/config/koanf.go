// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations in order of priority.
// The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/visitormatch/config.yaml",
	"/etc/visitormatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied. Defaults are
// loaded first, then overridden by the config file and environment.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			Timeout:      30 * time.Second,
			MaxBodyBytes: 16 << 20,
			Environment:  "development",
		},
		Security: SecurityConfig{
			AuthMode:          "none",
			JWTSecret:         "",
			RateLimitReqs:     600,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Matching: MatchingConfig{
			SetThreshold:          0.5,
			ProximityRadiusKm:     10,
			MaxPlausibleSpeedKmS:  0.35,
			DistanceCapKm:         1000,
			CreationWindowSeconds: 86400,
			ScoreCap:              100,
			Workers:               1,
			MaxCandidates:         10000,
		},
		Events: EventsConfig{
			Enabled:                 false,
			Transport:               "gochannel",
			NATSURL:                 "nats://127.0.0.1:4222",
			QueueGroup:              "visitormatch",
			FingerprintRequestTopic: "fingerprint.match.requested",
			FingerprintResultTopic:  "fingerprint.match.completed",
			VisitorRequestTopic:     "visitor.match.requested",
			VisitorResultTopic:      "visitor.match.completed",
			PoisonTopic:             "match.poison",
			RetryCount:              3,
			RetryInitialInterval:    100 * time.Millisecond,
			CloseTimeout:            30 * time.Second,
			BreakerMaxFailures:      5,
			BreakerInterval:         time.Minute,
			BreakerTimeout:          30 * time.Second,
			Embedded:                false,
			EmbeddedPort:            4222,
			StoreDir:                "/data/nats",
			ResultCacheSize:         10000,
			ResultCacheTTL:          5 * time.Minute,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Optional YAML config file
//  3. Mapped environment variables
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set from env.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":      "server.port",
	"http_host":      "server.host",
	"http_timeout":   "server.timeout",
	"max_body_bytes": "server.max_body_bytes",
	"environment":    "server.environment",

	// Security
	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Matching
	"match_set_threshold":           "matching.set_threshold",
	"match_proximity_radius_km":     "matching.proximity_radius_km",
	"match_max_speed_kms":           "matching.max_plausible_speed_kms",
	"match_distance_cap_km":         "matching.distance_cap_km",
	"match_creation_window_seconds": "matching.creation_window_seconds",
	"match_score_cap":               "matching.score_cap",
	"match_workers":                 "matching.workers",
	"match_max_candidates":          "matching.max_candidates",

	// Events
	"events_enabled":               "events.enabled",
	"events_transport":             "events.transport",
	"nats_url":                     "events.nats_url",
	"nats_queue_group":             "events.queue_group",
	"events_fingerprint_topic":     "events.fingerprint_request_topic",
	"events_fingerprint_out_topic": "events.fingerprint_result_topic",
	"events_visitor_topic":         "events.visitor_request_topic",
	"events_visitor_out_topic":     "events.visitor_result_topic",
	"events_poison_topic":          "events.poison_topic",
	"events_retry_count":           "events.retry_count",
	"events_retry_interval":        "events.retry_initial_interval",
	"events_close_timeout":         "events.close_timeout",
	"events_breaker_max_failures":  "events.breaker_max_failures",
	"events_breaker_interval":      "events.breaker_interval",
	"events_breaker_timeout":       "events.breaker_timeout",
	"nats_embedded":                "events.embedded",
	"nats_embedded_port":           "events.embedded_port",
	"nats_store_dir":               "events.store_dir",
	"events_result_cache_size":     "events.result_cache_size",
	"events_result_cache_ttl":      "events.result_cache_ttl",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped so that unrelated
// environment does not pollute the config.
//
//   - HTTP_PORT -> server.port
//   - MATCH_WORKERS -> matching.workers
//   - NATS_URL -> events.nats_url
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
