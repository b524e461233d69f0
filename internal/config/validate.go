// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package config

import "fmt"

// Validate checks the loaded configuration for values the server cannot
// run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("security.cors_origins must not be empty; use [\"*\"] to allow all")
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.ProbeTimeout <= 0 {
			return fmt.Errorf("telemetry.probe_timeout must be positive, got %s", c.Telemetry.ProbeTimeout)
		}
		if c.Telemetry.BreakerTimeout <= 0 {
			return fmt.Errorf("telemetry.breaker_timeout must be positive, got %s", c.Telemetry.BreakerTimeout)
		}
	}

	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}
