// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package services

import (
	"context"
)

// ContextHub matches *websocket.Hub's RunWithContext without importing
// the websocket package.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// HubService supervises the websocket hub. The hub's RunWithContext
// already follows the suture.Service pattern; this adds the name.
type HubService struct {
	hub  ContextHub
	name string
}

// NewHubService wraps hub as a supervised service.
func NewHubService(hub ContextHub) *HubService {
	return &HubService{hub: hub, name: "websocket-hub"}
}

// Serve implements suture.Service.
func (s *HubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String names the service in suture logs.
func (s *HubService) String() string {
	return s.name
}
