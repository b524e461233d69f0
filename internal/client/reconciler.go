// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

// Package client implements the viewer-side reconciler. Each viewer
// session runs one Reconciler: it holds the push channel, re-fetches
// collections when events arrive, and polls locations on its own
// interval. Events trigger re-fetches rather than in-place patches, so
// a viewer that missed events converges on the next fetch.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/fleetwatch/fleetwatch/internal/logging"
	"github.com/fleetwatch/fleetwatch/internal/models"
)

// State is the reconciler connection state.
type State string

const (
	StateConnecting    State = "connecting"
	StateOpen          State = "open"
	StateClosed        State = "closed"
	StateReconnectWait State = "reconnect_wait"
)

// Urgency levels surfaced with alert notifications.
const (
	UrgencyNormal   = "normal"
	UrgencyElevated = "elevated"
	UrgencyUrgent   = "urgent"
)

const (
	defaultReconnectBackoff     = 3 * time.Second
	defaultLocationPollInterval = 10 * time.Second
	defaultRequestTimeout       = 10 * time.Second
)

// Options configures a Reconciler. BaseURL is required; everything
// else has a working default.
type Options struct {
	BaseURL string

	// ReconnectBackoff is the fixed wait between reconnect attempts.
	// Retries continue indefinitely.
	ReconnectBackoff time.Duration

	// LocationPollInterval drives the independent location refresh.
	LocationPollInterval time.Duration

	// OnNotification fires once per alert_created event.
	OnNotification func(alert models.Alert, urgency string)

	// OnStateChange observes connection state transitions.
	OnStateChange func(state State)

	// HTTPClient overrides the default resty client, mainly for tests.
	HTTPClient *resty.Client
}

// Reconciler maintains a viewer's local copy of the dashboard state.
type Reconciler struct {
	opts  Options
	http  *resty.Client
	wsURL string

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.RWMutex
	state     State
	conn      *websocket.Conn
	devices   []models.Device
	alerts    []models.Alert
	locations []models.GpsLocation
	stats     models.Stats
}

// New creates a Reconciler for the server at opts.BaseURL. Call Start
// to begin the connect loop.
func New(opts Options) (*Reconciler, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("client: BaseURL is required")
	}
	wsURL, err := websocketURL(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL: %w", err)
	}

	if opts.ReconnectBackoff <= 0 {
		opts.ReconnectBackoff = defaultReconnectBackoff
	}
	if opts.LocationPollInterval <= 0 {
		opts.LocationPollInterval = defaultLocationPollInterval
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = resty.New().
			SetBaseURL(opts.BaseURL).
			SetTimeout(defaultRequestTimeout)
	}

	return &Reconciler{
		opts:  opts,
		http:  httpClient,
		wsURL: wsURL,
		state: StateClosed,
	}, nil
}

// websocketURL derives the push endpoint from the REST base URL.
func websocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

// Start launches the connect loop and the location poller. It returns
// immediately; Close tears everything down.
func (r *Reconciler) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(2)
	go func() {
		defer r.wg.Done()
		r.run(ctx)
	}()
	go func() {
		defer r.wg.Done()
		r.pollLocations(ctx)
	}()
}

// Close cancels the session, closes the push channel, and waits for
// both loops to exit. No timers or sockets survive it.
func (r *Reconciler) Close() {
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Lock()
	if r.conn != nil {
		r.conn.Close()
	}
	r.mu.Unlock()
	r.wg.Wait()
}

// State returns the current connection state.
func (r *Reconciler) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Devices returns the last fetched device list.
func (r *Reconciler) Devices() []models.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// Alerts returns the last fetched unresolved alerts.
func (r *Reconciler) Alerts() []models.Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Alert, len(r.alerts))
	copy(out, r.alerts)
	return out
}

// Locations returns the last polled location list.
func (r *Reconciler) Locations() []models.GpsLocation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.GpsLocation, len(r.locations))
	copy(out, r.locations)
	return out
}

// Stats returns the last fetched stats projection.
func (r *Reconciler) Stats() models.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// run cycles connecting → open → closed → reconnect-wait forever.
func (r *Reconciler) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		r.setState(StateConnecting)

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.wsURL, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			rlog := logging.WithComponent("reconciler")
			rlog.Debug().Err(err).Msg("connect failed")
			r.setState(StateClosed)
			r.setState(StateReconnectWait)
			if !r.waitBackoff(ctx) {
				return
			}
			continue
		}

		r.mu.Lock()
		r.conn = conn
		r.mu.Unlock()
		r.setState(StateOpen)

		// Snapshot on open. Three independent fetches; a viewer that
		// reconnects resynchronizes here, never via event replay.
		r.fetchDevices(ctx)
		r.fetchAlerts(ctx)
		r.fetchStats(ctx)

		r.readEvents(ctx, conn)

		r.mu.Lock()
		r.conn = nil
		r.mu.Unlock()
		conn.Close()
		r.setState(StateClosed)

		if ctx.Err() != nil {
			return
		}
		r.setState(StateReconnectWait)
		if !r.waitBackoff(ctx) {
			return
		}
	}
}

// waitBackoff sleeps the fixed backoff, returning false on cancel.
func (r *Reconciler) waitBackoff(ctx context.Context) bool {
	timer := time.NewTimer(r.opts.ReconnectBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// readEvents consumes envelopes until the connection fails.
func (r *Reconciler) readEvents(ctx context.Context, conn *websocket.Conn) {
	for {
		var event struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() == nil {
				rlog := logging.WithComponent("reconciler")
				rlog.Debug().Err(err).Msg("push channel closed")
			}
			return
		}
		r.handleEvent(ctx, event.Type, event.Data)
	}
}

// handleEvent classifies an envelope and issues the targeted
// re-fetches. location_updated is a no-op here; the location poller
// owns that refresh path.
func (r *Reconciler) handleEvent(ctx context.Context, eventType string, data json.RawMessage) {
	switch eventType {
	case models.EventDeviceCreated, models.EventDeviceUpdated, models.EventDeviceDeleted:
		r.fetchDevices(ctx)
		r.fetchStats(ctx)
	case models.EventAlertCreated:
		r.fetchAlerts(ctx)
		r.notifyAlert(data)
	case models.EventAlertResolved:
		r.fetchAlerts(ctx)
	case models.EventLocationUpdated:
	default:
		rlog := logging.WithComponent("reconciler")
		rlog.Debug().Str("event_type", eventType).Msg("ignoring unknown event")
	}
}

// notifyAlert surfaces the transient notification for a new alert.
func (r *Reconciler) notifyAlert(data json.RawMessage) {
	if r.opts.OnNotification == nil {
		return
	}
	var alert models.Alert
	if err := json.Unmarshal(data, &alert); err != nil {
		rlog := logging.WithComponent("reconciler")
		rlog.Warn().Err(err).Msg("malformed alert payload")
		return
	}
	r.opts.OnNotification(alert, urgencyFor(alert.Severity))
}

// urgencyFor maps alert severity to notification urgency.
func urgencyFor(severity string) string {
	switch severity {
	case models.SeverityCritical:
		return UrgencyUrgent
	case models.SeverityWarning:
		return UrgencyElevated
	default:
		return UrgencyNormal
	}
}

// pollLocations refreshes the location list on a fixed interval,
// independent of connection state.
func (r *Reconciler) pollLocations(ctx context.Context) {
	r.fetchLocations(ctx)

	ticker := time.NewTicker(r.opts.LocationPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchLocations(ctx)
		}
	}
}

func (r *Reconciler) fetchDevices(ctx context.Context) {
	var devices []models.Device
	if !r.get(ctx, "/api/devices", &devices) {
		return
	}
	r.mu.Lock()
	r.devices = devices
	r.mu.Unlock()
}

func (r *Reconciler) fetchAlerts(ctx context.Context) {
	var alerts []models.Alert
	if !r.get(ctx, "/api/alerts/unresolved", &alerts) {
		return
	}
	r.mu.Lock()
	r.alerts = alerts
	r.mu.Unlock()
}

func (r *Reconciler) fetchStats(ctx context.Context) {
	var stats models.Stats
	if !r.get(ctx, "/api/stats", &stats) {
		return
	}
	r.mu.Lock()
	r.stats = stats
	r.mu.Unlock()
}

func (r *Reconciler) fetchLocations(ctx context.Context) {
	var locations []models.GpsLocation
	if !r.get(ctx, "/api/gps-locations", &locations) {
		return
	}
	r.mu.Lock()
	r.locations = locations
	r.mu.Unlock()
}

// get fetches path into dst, logging and dropping failures. A failed
// fetch leaves the previous snapshot in place.
func (r *Reconciler) get(ctx context.Context, path string, dst interface{}) bool {
	resp, err := r.http.R().
		SetContext(ctx).
		SetResult(dst).
		Get(path)
	if err != nil {
		if ctx.Err() == nil {
			rlog := logging.WithComponent("reconciler")
			rlog.Warn().Err(err).Str("path", path).Msg("fetch failed")
		}
		return false
	}
	if resp.IsError() {
		rlog := logging.WithComponent("reconciler")
		rlog.Warn().
			Int("status", resp.StatusCode()).
			Str("path", path).
			Msg("fetch returned error status")
		return false
	}
	return true
}

// setState records the transition and fires the observer.
func (r *Reconciler) setState(state State) {
	r.mu.Lock()
	changed := r.state != state
	r.state = state
	r.mu.Unlock()

	if changed && r.opts.OnStateChange != nil {
		r.opts.OnStateChange(state)
	}
}
