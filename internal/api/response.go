// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

// Package api implements the REST surface and the websocket upgrade
// endpoint. Responses are plain entity JSON; errors carry a single
// {"message": "..."} body with no internal detail.
package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/fleetwatch/fleetwatch/internal/logging"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Message string `json:"message"`
}

// respondJSON writes data as JSON with the given status.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// respondError writes the {"message": ...} error body. Internal detail
// never reaches the client; callers log it before coming here.
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, errorBody{Message: message})
}

// respondNoContent writes a bare 204.
func respondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
