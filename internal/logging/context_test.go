// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("empty context returned request ID %q", got)
	}

	id := GenerateRequestID()
	if id == "" {
		t.Fatal("GenerateRequestID returned empty string")
	}
	if other := GenerateRequestID(); other == id {
		t.Error("consecutive request IDs collided")
	}

	ctx = ContextWithRequestID(ctx, id)
	if got := RequestIDFromContext(ctx); got != id {
		t.Errorf("RequestIDFromContext = %q, want %q", got, id)
	}
}

func TestCtxAttachesRequestID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer Init(Config{Level: "disabled"})

	ctx := ContextWithRequestID(context.Background(), "req-123")
	Ctx(ctx).Info().Msg("handled")

	if !strings.Contains(buf.String(), `"request_id":"req-123"`) {
		t.Errorf("request ID missing from log output: %q", buf.String())
	}
}

func TestCtxWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer Init(Config{Level: "disabled"})

	Ctx(context.Background()).Info().Msg("handled")

	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("unexpected request_id field: %q", buf.String())
	}
}
