// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package models

// Websocket event types pushed to connected viewers. Events are
// advisory: the payload carries the full entity for creates and updates,
// and only the id for deletions and resolutions. Viewers re-fetch
// collections rather than patching local state from payloads.
const (
	EventDeviceCreated   = "device_created"
	EventDeviceUpdated   = "device_updated"
	EventDeviceDeleted   = "device_deleted"
	EventLocationUpdated = "location_updated"
	EventAlertCreated    = "alert_created"
	EventAlertResolved   = "alert_resolved"
)

// Event is the envelope every websocket push uses.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// IDPayload is the event payload for deletions and resolutions, where
// only the entity id is meaningful.
type IDPayload struct {
	ID string `json:"id"`
}
