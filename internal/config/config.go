// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

// Package config holds the application configuration and its layered
// loader (defaults, then an optional YAML file, then environment
// variables).
//
// Config is immutable after load and safe for concurrent reads.
package config

import (
	"fmt"
	"time"
)

// Config holds all server configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Store     StoreConfig     `koanf:"store"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment variables: HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds CORS and rate-limiting settings.
//
// Environment variables: CORS_ORIGINS (comma-separated),
// RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// StoreConfig holds entity-store settings.
//
// Environment variable: SEED_SAMPLE_DATA.
type StoreConfig struct {
	SeedSampleData bool `koanf:"seed_sample_data"`
}

// TelemetryConfig holds host-probe settings for the synthetic
// local-system device.
//
// Environment variables: TELEMETRY_ENABLED, TELEMETRY_PROBE_TIMEOUT,
// TELEMETRY_BREAKER_TIMEOUT.
type TelemetryConfig struct {
	Enabled         bool          `koanf:"enabled"`
	ProbeTimeout    time.Duration `koanf:"probe_timeout"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
	BreakerInterval time.Duration `koanf:"breaker_interval"`
}

// LoggingConfig holds log output settings.
//
// Environment variables: LOG_LEVEL, LOG_FORMAT, LOG_CALLER.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
