// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package supervisor

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fleetwatch/fleetwatch/internal/logging"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

// countingService records how often it is started.
type countingService struct {
	starts atomic.Int32
}

func (s *countingService) Serve(ctx context.Context) error {
	s.starts.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return "counting-service" }

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()

	checks := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"FailureThreshold", cfg.FailureThreshold, 5.0},
		{"FailureDecay", cfg.FailureDecay, 30.0},
		{"FailureBackoff", cfg.FailureBackoff, 15 * time.Second},
		{"ShutdownTimeout", cfg.ShutdownTimeout, 10 * time.Second},
	}
	for _, check := range checks {
		if check.got != check.want {
			t.Errorf("%s = %v, want %v", check.name, check.got, check.want)
		}
	}
}

func TestNewTreeAppliesDefaults(t *testing.T) {
	tree := NewTree(logging.NewSlogLogger(), TreeConfig{})

	if tree.config.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %v, want default 5.0", tree.config.FailureThreshold)
	}
	if tree.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want default 10s", tree.config.ShutdownTimeout)
	}
}

func TestTreeRunsServices(t *testing.T) {
	tree := NewTree(logging.NewSlogLogger(), DefaultTreeConfig())

	messaging := &countingService{}
	api := &countingService{}
	tree.AddMessagingService(messaging)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for messaging.starts.Load() == 0 || api.starts.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("services never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("tree returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}
}
