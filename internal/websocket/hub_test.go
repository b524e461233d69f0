// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/fleetwatch/fleetwatch/internal/logging"
	"github.com/fleetwatch/fleetwatch/internal/models"
)

//nolint:gochecknoinits // silence logs during tests
func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

// setupHub starts a supervised hub loop and returns it with its cancel.
func setupHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.RunWithContext(ctx) }()
	time.Sleep(10 * time.Millisecond)
	return hub, cancel
}

// createTestClient builds a client without a real connection; only the
// send channel matters for hub tests.
func createTestClient(hub *Hub) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		send: make(chan models.Event, broadcastBuffer),
	}
}

func registerClient(hub *Hub, client *Client) {
	hub.Register <- client
	time.Sleep(20 * time.Millisecond)
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	checks := []struct {
		name   string
		check  bool
		errMsg string
	}{
		{"clients map", hub.clients != nil, "clients map not initialized"},
		{"broadcast channel", hub.broadcast != nil, "broadcast channel not initialized"},
		{"Register channel", hub.Register != nil, "Register channel not initialized"},
		{"Unregister channel", hub.Unregister != nil, "Unregister channel not initialized"},
		{"empty clients", len(hub.clients) == 0, "clients map should start empty"},
	}
	for _, c := range checks {
		if !c.check {
			t.Error(c.errMsg)
		}
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	client := createTestClient(hub)
	registerClient(hub, client)

	if hub.ClientCount() != 1 {
		t.Errorf("clients after register = %d, want 1", hub.ClientCount())
	}

	hub.Unregister <- client
	time.Sleep(20 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("clients after unregister = %d, want 0", hub.ClientCount())
	}
}

func TestHubUnregisterUnknownClient(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	hub.Unregister <- createTestClient(hub)
	time.Sleep(20 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("clients = %d, want 0", hub.ClientCount())
	}
}

func TestHubFanOut(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	a := createTestClient(hub)
	b := createTestClient(hub)
	registerClient(hub, a)
	registerClient(hub, b)

	device := models.Device{ID: "dev-1", Name: "Sensor", Type: "sensor", Status: models.StatusOnline}
	hub.BroadcastDeviceCreated(device)

	for _, client := range []*Client{a, b} {
		select {
		case event := <-client.send:
			if event.Type != models.EventDeviceCreated {
				t.Errorf("event type = %q, want %q", event.Type, models.EventDeviceCreated)
			}
			got, ok := event.Data.(models.Device)
			if !ok {
				t.Fatalf("event data type %T, want models.Device", event.Data)
			}
			if got.ID != "dev-1" {
				t.Errorf("device id = %q, want dev-1", got.ID)
			}
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestHubIDOnlyPayloads(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	client := createTestClient(hub)
	registerClient(hub, client)

	hub.BroadcastDeviceDeleted("dev-9")
	hub.BroadcastAlertResolved("alert-3")

	wants := []struct {
		eventType string
		id        string
	}{
		{models.EventDeviceDeleted, "dev-9"},
		{models.EventAlertResolved, "alert-3"},
	}
	for _, want := range wants {
		select {
		case event := <-client.send:
			if event.Type != want.eventType {
				t.Errorf("event type = %q, want %q", event.Type, want.eventType)
			}
			payload, ok := event.Data.(models.IDPayload)
			if !ok {
				t.Fatalf("event data type %T, want models.IDPayload", event.Data)
			}
			if payload.ID != want.id {
				t.Errorf("payload id = %q, want %q", payload.ID, want.id)
			}
		case <-time.After(time.Second):
			t.Fatalf("no %s event received", want.eventType)
		}
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	slow := createTestClient(hub)
	slow.send = make(chan models.Event) // unbuffered and never read
	healthy := createTestClient(hub)
	registerClient(hub, slow)
	registerClient(hub, healthy)

	hub.BroadcastDeviceDeleted("dev-1")
	time.Sleep(50 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("clients after drop = %d, want 1", hub.ClientCount())
	}
	select {
	case event := <-healthy.send:
		if event.Type != models.EventDeviceDeleted {
			t.Errorf("healthy client got %q", event.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("healthy client did not receive broadcast")
	}
}

func TestHubBroadcastWithoutClients(t *testing.T) {
	hub, cancel := setupHub(t)
	defer cancel()

	// Must not block or panic with nobody listening.
	hub.BroadcastDeviceUpdated(models.Device{ID: "d"})
	hub.BroadcastLocationUpdated(models.GpsLocation{ID: "l"})
	hub.BroadcastAlertCreated(models.Alert{ID: "a"})
	time.Sleep(10 * time.Millisecond)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	time.Sleep(10 * time.Millisecond)

	client := createTestClient(hub)
	registerClient(hub, client)

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hub did not stop after cancel")
	}

	if hub.ClientCount() != 0 {
		t.Errorf("clients after shutdown = %d, want 0", hub.ClientCount())
	}
	// Send channel must be closed so the write pump exits.
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected closed send channel")
		}
	default:
		t.Error("send channel still open after shutdown")
	}
}
