// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

// Package websocket implements the event broadcaster: a hub that fans
// entity-change events out to every connected viewer. Delivery is
// at-most-once; viewers that cannot keep up are dropped and expected to
// reconnect and re-fetch.
package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/fleetwatch/fleetwatch/internal/logging"
	"github.com/fleetwatch/fleetwatch/internal/metrics"
	"github.com/fleetwatch/fleetwatch/internal/models"
)

// Control message types exchanged with viewers. Entity events use the
// types defined in models (device_created, alert_created, ...).
const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// broadcastBuffer bounds how many pending events the hub holds before
// new broadcasts are dropped.
const broadcastBuffer = 256

// Hub maintains the set of connected viewers and fans events out to
// them. Membership changes flow through the Register and Unregister
// channels so the run loop owns the client set.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan models.Event
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a hub. Call RunWithContext (usually under supervision)
// before registering clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.Event, broadcastBuffer),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// RunWithContext runs the hub loop until ctx is canceled, then closes
// every connected client and returns ctx.Err(). Designed for suture
// supervision: a restart never leaves orphaned connections.
//
// Channel readiness is checked in priority order (shutdown, lifecycle,
// broadcast) so client state is settled before events are delivered.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Priority 1: shutdown.
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: lifecycle events.
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		// Priority 3: block until anything happens.
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.fanOut(event)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketClients.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.closeSend()
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketClients.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// fanOut delivers the event to every client in id order. Clients whose
// send buffer is full are dropped; they reconnect and resynchronize via
// snapshot fetch, so skipping them is safe.
func (h *Hub) fanOut(event models.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	// Sort by id so delivery order is reproducible.
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		if !client.trySend(event) {
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		client.closeSend()
		delete(h.clients, client)
		metrics.WebSocketDropped.Inc()
		logging.Warn().Uint64("client_id", client.id).Msg("dropped slow websocket client")
	}
	if len(toRemove) > 0 {
		metrics.WebSocketClients.Set(float64(len(h.clients)))
	}
}

// shutdown closes all clients in id order and logs the reason.
func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		client.closeSend()
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WebSocketClients.Set(0)

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", len(clients)).
		Msg("websocket hub stopped")
}

// Broadcast queues an event for delivery to all viewers. Non-blocking:
// if the hub's buffer is full the event is dropped, matching the
// at-most-once delivery contract.
func (h *Hub) Broadcast(eventType string, data interface{}) {
	event := models.Event{Type: eventType, Data: data}

	select {
	case h.broadcast <- event:
		metrics.WebSocketBroadcasts.WithLabelValues(eventType).Inc()
	default:
		logging.Warn().Str("event_type", eventType).Msg("broadcast channel full, dropping event")
	}
}

// BroadcastDeviceCreated pushes the full new device to viewers.
func (h *Hub) BroadcastDeviceCreated(device models.Device) {
	h.Broadcast(models.EventDeviceCreated, device)
}

// BroadcastDeviceUpdated pushes the device's post-update state.
func (h *Hub) BroadcastDeviceUpdated(device models.Device) {
	h.Broadcast(models.EventDeviceUpdated, device)
}

// BroadcastDeviceDeleted pushes only the deleted device's id.
func (h *Hub) BroadcastDeviceDeleted(id string) {
	h.Broadcast(models.EventDeviceDeleted, models.IDPayload{ID: id})
}

// BroadcastLocationUpdated pushes a new position report.
func (h *Hub) BroadcastLocationUpdated(location models.GpsLocation) {
	h.Broadcast(models.EventLocationUpdated, location)
}

// BroadcastAlertCreated pushes the full new alert.
func (h *Hub) BroadcastAlertCreated(alert models.Alert) {
	h.Broadcast(models.EventAlertCreated, alert)
}

// BroadcastAlertResolved pushes only the resolved alert's id.
func (h *Hub) BroadcastAlertResolved(id string) {
	h.Broadcast(models.EventAlertResolved, models.IDPayload{ID: id})
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
