// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/visitormatch/internal/api"
	"github.com/tomtom215/visitormatch/internal/auth"
	"github.com/tomtom215/visitormatch/internal/config"
	"github.com/tomtom215/visitormatch/internal/logging"
	"github.com/tomtom215/visitormatch/internal/matching"
	"github.com/tomtom215/visitormatch/internal/metrics"
	"github.com/tomtom215/visitormatch/internal/supervisor"
	"github.com/tomtom215/visitormatch/internal/supervisor/services"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	httpShutdownTimeout = 10 * time.Second
	authMaxFailures     = 10
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "visitormatch",
	})

	logging.Info().
		Str("version", version).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting Visitormatch with supervisor tree")

	metrics.SetAppInfo(version)

	engine := matching.NewEngine(cfg.Matching)

	authMiddleware, authLimiter, err := initAuth(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}
	logSecurityWarnings(cfg)

	handler := api.NewHandler(engine, &cfg.Server, version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if authLimiter != nil {
		tree.AddMaintenanceService(services.NewCacheJanitorService("auth-failures", authLimiter, cacheJanitorInterval))
	}

	processor, err := initEventPipeline(ctx, &cfg.Events, engine, handler, tree)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event pipeline")
	}
	if processor != nil {
		defer func() {
			if err := processor.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event pipeline")
			}
		}()
	}

	server := newHTTPServer(cfg, handler, authMiddleware)
	tree.AddAPIService(services.NewHTTPServerService(server, httpShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server added to supervisor tree")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)
	logging.Info().Msg("Supervisor tree started")

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor tree to stop...")
		serveErr = <-errCh
	case serveErr = <-errCh:
		cancel()
	}
	if serveErr != nil && serveErr != context.Canceled {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Some services failed to stop")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("  Unstopped service")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// initAuth builds the bearer token middleware. In JWT mode it also returns
// the failed attempt limiter, whose buckets need periodic cleanup.
func initAuth(sec *config.SecurityConfig) (*auth.Middleware, *auth.FailureLimiter, error) {
	mode, err := auth.ParseAuthMode(sec.AuthMode)
	if err != nil {
		return nil, nil, err
	}
	if mode == auth.AuthModeNone {
		return auth.NewMiddleware(mode, nil), nil, nil
	}

	manager, err := auth.NewJWTManager(sec)
	if err != nil {
		return nil, nil, fmt.Errorf("jwt manager: %w", err)
	}
	limiter := auth.NewFailureLimiter(authMaxFailures, time.Minute)
	return auth.NewMiddleware(mode, manager).WithFailureLimiter(limiter), limiter, nil
}

func logSecurityWarnings(cfg *config.Config) {
	if cfg.Security.AuthMode == "" || cfg.Security.AuthMode == string(auth.AuthModeNone) {
		logging.Warn().Msg("AUTH_MODE=none: match endpoints accept unauthenticated requests")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS_ORIGINS=* allows any origin; restrict it in production")
	}
}

func newHTTPServer(cfg *config.Config, handler *api.Handler, authMiddleware *auth.Middleware) *http.Server {
	router := api.NewRouter(handler, authMiddleware, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
}
