// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fleetwatch/fleetwatch/internal/config"
	"github.com/fleetwatch/fleetwatch/internal/middleware"
)

// Router assembles the handler and middleware into the served mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	cfg           *config.Config
}

// NewRouter builds the router for the given config and handler.
func NewRouter(cfg *config.Config, handler *Handler) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(cfg.Security),
		cfg:           cfg,
	}
}

// Setup wires all routes. The websocket endpoint sits outside the
// Prometheus middleware group: the status-capturing writer there does
// not implement http.Hijacker, which the upgrade needs.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global stack, applied to every route. CORS must be global so
	// OPTIONS preflight works.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.Route("/api", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(RequestTimeout(router.cfg.Server.Timeout))

		r.Get("/health", router.handler.Health)
		r.Get("/stats", router.handler.Stats)
		r.Get("/system-device", router.handler.SystemDevice)

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", router.handler.ListDevices)
			r.Post("/", router.handler.CreateDevice)
			r.Get("/{id}", router.handler.GetDevice)
			r.Patch("/{id}", router.handler.UpdateDevice)
			r.Delete("/{id}", router.handler.DeleteDevice)
			r.Get("/{id}/location", router.handler.DeviceLocation)
		})

		r.Route("/gps-locations", func(r chi.Router) {
			r.Get("/", router.handler.ListLocations)
			r.Post("/", router.handler.CreateLocation)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", router.handler.ListAlerts)
			r.Get("/unresolved", router.handler.UnresolvedAlerts)
			r.Post("/", router.handler.CreateAlert)
			r.Patch("/{id}/resolve", router.handler.ResolveAlert)
		})
	})

	// Websocket upgrade. No Prometheus wrapper, no request timeout.
	r.Get("/ws", router.handler.WebSocket)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
