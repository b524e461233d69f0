// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeHub struct {
	err error
}

func (h *fakeHub) RunWithContext(ctx context.Context) error {
	<-ctx.Done()
	if h.err != nil {
		return h.err
	}
	return ctx.Err()
}

func TestHubServiceDelegates(t *testing.T) {
	svc := NewHubService(&fakeHub{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestHubServiceName(t *testing.T) {
	if got := NewHubService(&fakeHub{}).String(); got != "websocket-hub" {
		t.Errorf("String() = %q", got)
	}
}
