// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/fleetwatch/fleetwatch/internal/logging"
	"github.com/fleetwatch/fleetwatch/internal/validation"
)

// maxBodyBytes caps request bodies; entity payloads are tiny.
const maxBodyBytes = 1 << 20 // 1 MB

// decodeAndValidate reads the JSON body into dst and runs struct
// validation. On failure it writes the 400 response and returns false;
// handlers just return.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("malformed request body")
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}

	if err := validation.ValidateStruct(dst); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
