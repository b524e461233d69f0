// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

// Package telemetry builds the synthetic "local-system" device from host
// probes. The device is merged into device listings at read time and
// never enters the store; a dashboard therefore always shows the machine
// it runs on alongside the registered fleet.
package telemetry

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/fleetwatch/fleetwatch/internal/logging"
	"github.com/fleetwatch/fleetwatch/internal/metrics"
	"github.com/fleetwatch/fleetwatch/internal/models"
)

// Provider yields the synthetic host device. Implementations must not
// fail: when the underlying probe breaks they return the null-valued
// placeholder instead.
type Provider interface {
	SystemDevice(ctx context.Context) models.Device
}

// Config tunes the host probe and its circuit breaker.
type Config struct {
	ProbeTimeout    time.Duration
	BreakerTimeout  time.Duration
	BreakerInterval time.Duration
}

// DefaultConfig returns probe settings suitable for a local host.
func DefaultConfig() Config {
	return Config{
		ProbeTimeout:    5 * time.Second,
		BreakerTimeout:  30 * time.Second,
		BreakerInterval: time.Minute,
	}
}

// Probe is the production Provider: a gopsutil-backed host reader behind
// a circuit breaker so a wedged probe cannot stall device listings.
type Probe struct {
	cfg     Config
	breaker *gobreaker.CircuitBreaker[models.Device]
	reader  hostReader
}

// hostReader is swappable for tests.
type hostReader interface {
	read(ctx context.Context) (models.Device, error)
}

// NewProbe creates a Probe using the real host reader.
func NewProbe(cfg Config) *Probe {
	return newProbeWithReader(cfg, systemReader{})
}

func newProbeWithReader(cfg Config, reader hostReader) *Probe {
	metrics.TelemetryBreakerState.Set(0)

	breaker := gobreaker.NewCircuitBreaker[models.Device](gobreaker.Settings{
		Name:     "host-telemetry",
		Interval: cfg.BreakerInterval,
		Timeout:  cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("telemetry breaker state change")
			metrics.TelemetryBreakerState.Set(breakerStateValue(to))
		},
	})

	return &Probe{cfg: cfg, breaker: breaker, reader: reader}
}

// SystemDevice probes the host. Any failure, including an open breaker,
// degrades to the placeholder device so callers never see an error.
func (p *Probe) SystemDevice(ctx context.Context) models.Device {
	device, err := p.breaker.Execute(func() (models.Device, error) {
		probeCtx, cancel := context.WithTimeout(ctx, p.cfg.ProbeTimeout)
		defer cancel()
		return p.reader.read(probeCtx)
	})
	if err != nil {
		metrics.TelemetryProbeFailures.Inc()
		logging.Warn().Err(err).Msg("host telemetry probe failed, serving placeholder")
		return PlaceholderDevice()
	}
	return device
}

// PlaceholderDevice is the degraded local-system device: identity fields
// set, every telemetry reading nil. Status stays online because the
// server answering the request is itself the host.
func PlaceholderDevice() models.Device {
	now := time.Now()
	return models.Device{
		ID:        models.LocalSystemDeviceID,
		Name:      "Local System",
		Type:      "sensor",
		Status:    models.StatusOnline,
		LastSeen:  now,
		CreatedAt: now,
	}
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
