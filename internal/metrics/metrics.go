// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

// Package metrics defines the Prometheus instrumentation exported at
// /metrics: HTTP endpoint latency and throughput, websocket fan-out,
// store population, and host telemetry probe health.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// WebSocket Metrics
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_clients",
			Help: "Current number of connected websocket viewers",
		},
	)

	WebSocketBroadcasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_broadcasts_total",
			Help: "Total number of events broadcast to viewers",
		},
		[]string{"event_type"},
	)

	WebSocketDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_dropped_clients_total",
			Help: "Total number of clients dropped for not keeping up",
		},
	)

	// Store Metrics
	StoreEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_entities",
			Help: "Current number of entities held in the in-memory store",
		},
		[]string{"collection"},
	)

	// Telemetry Probe Metrics
	TelemetryProbeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telemetry_probe_failures_total",
			Help: "Total number of failed host telemetry probes",
		},
	)

	TelemetryBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "telemetry_breaker_state",
			Help: "Telemetry circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}
