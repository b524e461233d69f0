// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

// Package main is the entry point for the Fleetwatch server.
//
// Fleetwatch is a real-time device-monitoring dashboard backend. It
// tracks a fleet of devices, their GPS position reports, and alerts in
// an in-memory store, pushes change events to connected viewers over a
// websocket channel, and optionally mirrors the host machine as a
// synthetic device via gopsutil probes.
//
// # Startup order
//
//  1. Configuration: Koanf v2 layered sources (env > config file >
//     built-in defaults)
//  2. Logging: zerolog, level and format from config
//  3. Entity store, optionally seeded with sample data
//  4. Host telemetry probe (circuit-breaker protected, optional)
//  5. Websocket hub and HTTP router
//  6. Supervisor tree: messaging layer (hub) and API layer (server)
//
// # Configuration
//
// Common environment variables:
//
//	HTTP_HOST, HTTP_PORT   listen address (default 0.0.0.0:5000)
//	CORS_ORIGINS           comma-separated allowed origins
//	SEED_SAMPLE_DATA       seed demo devices on startup
//	TELEMETRY_ENABLED      expose the local-system device
//	LOG_LEVEL, LOG_FORMAT  zerolog level and json/console output
//	CONFIG_PATH            explicit config file location
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the hub closes every
// viewer connection and the HTTP server drains in-flight requests
// within the configured timeout.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fleetwatch/fleetwatch/internal/api"
	"github.com/fleetwatch/fleetwatch/internal/config"
	"github.com/fleetwatch/fleetwatch/internal/logging"
	"github.com/fleetwatch/fleetwatch/internal/store"
	"github.com/fleetwatch/fleetwatch/internal/supervisor"
	"github.com/fleetwatch/fleetwatch/internal/supervisor/services"
	"github.com/fleetwatch/fleetwatch/internal/telemetry"
	ws "github.com/fleetwatch/fleetwatch/internal/websocket"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Bool("telemetry", cfg.Telemetry.Enabled).
		Msg("starting fleetwatch")

	entityStore := store.NewMemoryStore()
	if cfg.Store.SeedSampleData {
		entityStore.SeedSampleData()
	}

	var provider telemetry.Provider
	if cfg.Telemetry.Enabled {
		provider = telemetry.NewProbe(telemetry.Config{
			ProbeTimeout:    cfg.Telemetry.ProbeTimeout,
			BreakerTimeout:  cfg.Telemetry.BreakerTimeout,
			BreakerInterval: cfg.Telemetry.BreakerInterval,
		})
	}

	hub := ws.NewHub()
	handler := api.NewHandler(entityStore, hub, provider, cfg.Security.CORSOrigins)
	router := api.NewRouter(cfg, handler)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.Timeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeConfig)
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor tree exited")
		os.Exit(1)
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("service missed shutdown timeout")
		}
	}

	logging.Info().Msg("fleetwatch stopped")
}
