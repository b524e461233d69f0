// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fleetwatch/fleetwatch/internal/logging"
	ws "github.com/fleetwatch/fleetwatch/internal/websocket"
)

// getUpgrader builds the websocket upgrader. HandshakeTimeout bounds
// slow-client handshakes.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates browser-originated connections against
// the configured CORS origins. Requests without an Origin header come
// from non-browser clients and are allowed through.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", origin).Msg("websocket connection rejected from unauthorized origin")
	return false
}

// WebSocket handles GET /ws, upgrading the connection and attaching it
// to the hub. The connection then receives every broadcast event until
// it closes or falls behind.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "websocket service unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("websocket upgrade error")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client
	client.Start()
}
