// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fleetwatch/fleetwatch/internal/logging"
	"github.com/fleetwatch/fleetwatch/internal/models"
	"github.com/fleetwatch/fleetwatch/internal/store"
	"github.com/fleetwatch/fleetwatch/internal/telemetry"
	ws "github.com/fleetwatch/fleetwatch/internal/websocket"
)

// Handler owns the REST endpoints. Every successful mutation broadcasts
// exactly one event after the store write returns; reads never
// broadcast.
type Handler struct {
	store          *store.MemoryStore
	hub            *ws.Hub
	telemetry      telemetry.Provider // nil when disabled
	allowedOrigins []string
}

// NewHandler wires the handler to its collaborators. Pass a nil
// provider to disable the synthetic local-system device.
func NewHandler(st *store.MemoryStore, hub *ws.Hub, provider telemetry.Provider, allowedOrigins []string) *Handler {
	return &Handler{store: st, hub: hub, telemetry: provider, allowedOrigins: allowedOrigins}
}

// mergedDevices returns the stored fleet with the synthetic host device
// prepended. The host device is computed per request and never stored.
func (h *Handler) mergedDevices(r *http.Request) []models.Device {
	devices := h.store.ListDevices()
	if h.telemetry == nil {
		return devices
	}
	merged := make([]models.Device, 0, len(devices)+1)
	merged = append(merged, h.telemetry.SystemDevice(r.Context()))
	return append(merged, devices...)
}

// ListDevices handles GET /api/devices.
func (h *Handler) ListDevices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.mergedDevices(r))
}

// CreateDevice handles POST /api/devices.
func (h *Handler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var payload models.DeviceCreate
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	device := h.store.CreateDevice(payload)
	h.hub.BroadcastDeviceCreated(device)

	logging.Ctx(r.Context()).Info().
		Str("device_id", device.ID).
		Str("type", device.Type).
		Msg("device created")
	respondJSON(w, http.StatusCreated, device)
}

// GetDevice handles GET /api/devices/{id}.
func (h *Handler) GetDevice(w http.ResponseWriter, r *http.Request) {
	device := h.store.GetDevice(chi.URLParam(r, "id"))
	if device == nil {
		respondError(w, http.StatusNotFound, "device not found")
		return
	}
	respondJSON(w, http.StatusOK, device)
}

// UpdateDevice handles PATCH /api/devices/{id}.
func (h *Handler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	var payload models.DeviceUpdate
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	device := h.store.UpdateDevice(chi.URLParam(r, "id"), payload)
	if device == nil {
		respondError(w, http.StatusNotFound, "device not found")
		return
	}
	h.hub.BroadcastDeviceUpdated(*device)

	respondJSON(w, http.StatusOK, device)
}

// DeleteDevice handles DELETE /api/devices/{id}.
func (h *Handler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.store.DeleteDevice(id) {
		respondError(w, http.StatusNotFound, "device not found")
		return
	}
	h.hub.BroadcastDeviceDeleted(id)

	logging.Ctx(r.Context()).Info().Str("device_id", id).Msg("device deleted")
	respondNoContent(w)
}

// DeviceLocation handles GET /api/devices/{id}/location, returning the
// device's newest position report.
func (h *Handler) DeviceLocation(w http.ResponseWriter, r *http.Request) {
	location := h.store.LatestLocation(chi.URLParam(r, "id"))
	if location == nil {
		respondError(w, http.StatusNotFound, "no location for device")
		return
	}
	respondJSON(w, http.StatusOK, location)
}

// ListLocations handles GET /api/gps-locations with an optional
// ?deviceId= filter.
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.ListLocations(r.URL.Query().Get("deviceId")))
}

// CreateLocation handles POST /api/gps-locations.
func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var payload models.LocationCreate
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	location := h.store.CreateLocation(payload)
	h.hub.BroadcastLocationUpdated(location)

	respondJSON(w, http.StatusCreated, location)
}

// ListAlerts handles GET /api/alerts with an optional ?deviceId=
// filter.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.ListAlerts(r.URL.Query().Get("deviceId")))
}

// UnresolvedAlerts handles GET /api/alerts/unresolved.
func (h *Handler) UnresolvedAlerts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.UnresolvedAlerts())
}

// CreateAlert handles POST /api/alerts.
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var payload models.AlertCreate
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	alert := h.store.CreateAlert(payload)
	h.hub.BroadcastAlertCreated(alert)

	logging.Ctx(r.Context()).Info().
		Str("alert_id", alert.ID).
		Str("severity", alert.Severity).
		Msg("alert created")
	respondJSON(w, http.StatusCreated, alert)
}

// ResolveAlert handles PATCH /api/alerts/{id}/resolve. Resolving twice
// succeeds; only an unknown id is a 404.
func (h *Handler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.store.ResolveAlert(id) {
		respondError(w, http.StatusNotFound, "alert not found")
		return
	}
	h.hub.BroadcastAlertResolved(id)

	respondNoContent(w)
}

// Stats handles GET /api/stats. The projection is recomputed per
// request over the merged device list, so the synthetic host device
// counts toward the totals a viewer sees.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	devices := h.mergedDevices(r)

	stats := models.Stats{TotalDevices: len(devices)}
	for _, d := range devices {
		if d.Status == models.StatusOnline {
			stats.OnlineDevices++
		}
		if d.DataUsage != nil {
			stats.DataUsage += *d.DataUsage
		}
	}
	stats.AlertsToday = len(h.store.UnresolvedAlerts())

	respondJSON(w, http.StatusOK, stats)
}

// SystemDevice handles GET /api/system-device, exposing the raw host
// probe output.
func (h *Handler) SystemDevice(w http.ResponseWriter, r *http.Request) {
	if h.telemetry == nil {
		respondError(w, http.StatusNotFound, "host telemetry is disabled")
		return
	}
	respondJSON(w, http.StatusOK, h.telemetry.SystemDevice(r.Context()))
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
