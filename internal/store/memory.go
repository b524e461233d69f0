// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

// Package store implements the in-memory entity store behind the REST
// API. All state is volatile; a restart starts empty (or re-seeded).
//
// The store does not enforce referential integrity: locations and alerts
// may reference device ids that no longer exist, and deleting a device
// does not cascade. Callers treat deviceId as an opaque correlation key.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fleetwatch/fleetwatch/internal/metrics"
	"github.com/fleetwatch/fleetwatch/internal/models"
)

// Defaults applied when a device is created without explicit telemetry.
const (
	defaultBatteryLevel = 100
	defaultNetworkType  = "4G LTE"
)

// MemoryStore holds devices, GPS locations, and alerts in process memory.
// All methods are safe for concurrent use. Returned entities are deep
// copies; writing through their pointer fields never touches store
// state.
type MemoryStore struct {
	mu sync.RWMutex

	devices     map[string]*models.Device
	deviceOrder []string

	locations     map[string]*models.GpsLocation
	locationOrder []string

	alerts     map[string]*models.Alert
	alertOrder []string

	// now is replaceable for deterministic tests.
	now func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		devices:   make(map[string]*models.Device),
		locations: make(map[string]*models.GpsLocation),
		alerts:    make(map[string]*models.Alert),
		now:       time.Now,
	}
}

// ListDevices returns all devices in insertion order.
func (s *MemoryStore) ListDevices() []models.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Device, 0, len(s.deviceOrder))
	for _, id := range s.deviceOrder {
		out = append(out, cloneDevice(*s.devices[id]))
	}
	return out
}

// GetDevice returns the device with the given id, or nil if unknown.
func (s *MemoryStore) GetDevice(id string) *models.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.devices[id]
	if !ok {
		return nil
	}
	dup := cloneDevice(*d)
	return &dup
}

// CreateDevice registers a new device, filling unset fields with
// defaults (status offline, battery 100, network "4G LTE", numeric
// telemetry zeroed) and stamping lastSeen and createdAt.
func (s *MemoryStore) CreateDevice(in models.DeviceCreate) models.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	d := &models.Device{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Type:           in.Type,
		Status:         in.Status,
		BatteryLevel:   in.BatteryLevel,
		Temperature:    in.Temperature,
		SignalStrength: in.SignalStrength,
		NetworkType:    in.NetworkType,
		DataUsage:      in.DataUsage,
		Uptime:         in.Uptime,
		CPUTemp:        in.CPUTemp,
		GPUTemp:        in.GPUTemp,
		CPUUsage:       in.CPUUsage,
		MemoryUsage:    in.MemoryUsage,
		StorageUsage:   in.StorageUsage,
		LastSeen:       now,
		CreatedAt:      now,
	}
	applyDeviceDefaults(d)
	// Detach from the payload's pointers before storing.
	*d = cloneDevice(*d)

	s.devices[d.ID] = d
	s.deviceOrder = append(s.deviceOrder, d.ID)
	metrics.StoreEntities.WithLabelValues("devices").Set(float64(len(s.devices)))

	return cloneDevice(*d)
}

// UpdateDevice overlays non-nil fields of the payload onto the stored
// device and refreshes lastSeen. Returns nil if the id is unknown.
func (s *MemoryStore) UpdateDevice(id string, in models.DeviceUpdate) *models.Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.devices[id]
	if !ok {
		return nil
	}

	if in.Name != nil {
		d.Name = *in.Name
	}
	if in.Type != nil {
		d.Type = *in.Type
	}
	if in.Status != nil {
		d.Status = *in.Status
	}
	if in.BatteryLevel != nil {
		d.BatteryLevel = in.BatteryLevel
	}
	if in.Temperature != nil {
		d.Temperature = in.Temperature
	}
	if in.SignalStrength != nil {
		d.SignalStrength = in.SignalStrength
	}
	if in.NetworkType != nil {
		d.NetworkType = in.NetworkType
	}
	if in.DataUsage != nil {
		d.DataUsage = in.DataUsage
	}
	if in.Uptime != nil {
		d.Uptime = in.Uptime
	}
	if in.CPUTemp != nil {
		d.CPUTemp = in.CPUTemp
	}
	if in.GPUTemp != nil {
		d.GPUTemp = in.GPUTemp
	}
	if in.CPUUsage != nil {
		d.CPUUsage = in.CPUUsage
	}
	if in.MemoryUsage != nil {
		d.MemoryUsage = in.MemoryUsage
	}
	if in.StorageUsage != nil {
		d.StorageUsage = in.StorageUsage
	}

	// Detach the overlaid fields from the payload's pointers.
	*d = cloneDevice(*d)

	// lastSeen must strictly advance even when the clock has not ticked
	// between two updates.
	ls := s.now()
	if !ls.After(d.LastSeen) {
		ls = d.LastSeen.Add(time.Nanosecond)
	}
	d.LastSeen = ls

	dup := cloneDevice(*d)
	return &dup
}

// DeleteDevice removes the device. Returns false if the id is unknown.
func (s *MemoryStore) DeleteDevice(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.devices[id]; !ok {
		return false
	}
	delete(s.devices, id)
	for i, did := range s.deviceOrder {
		if did == id {
			s.deviceOrder = append(s.deviceOrder[:i], s.deviceOrder[i+1:]...)
			break
		}
	}
	metrics.StoreEntities.WithLabelValues("devices").Set(float64(len(s.devices)))
	return true
}

// ListLocations returns position reports in insertion order. When
// deviceID is non-empty only that device's reports are returned.
func (s *MemoryStore) ListLocations(deviceID string) []models.GpsLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.GpsLocation, 0, len(s.locationOrder))
	for _, id := range s.locationOrder {
		loc := s.locations[id]
		if deviceID != "" && loc.DeviceID != deviceID {
			continue
		}
		out = append(out, *loc)
	}
	return out
}

// LatestLocation returns the device's newest position report by
// timestamp, or nil if the device has none.
func (s *MemoryStore) LatestLocation(deviceID string) *models.GpsLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.GpsLocation
	for _, id := range s.locationOrder {
		loc := s.locations[id]
		if loc.DeviceID != deviceID {
			continue
		}
		if latest == nil || loc.Timestamp.After(latest.Timestamp) {
			latest = loc
		}
	}
	if latest == nil {
		return nil
	}
	dup := *latest
	return &dup
}

// CreateLocation appends a position report, defaulting accuracy to 0 and
// stamping the timestamp.
func (s *MemoryStore) CreateLocation(in models.LocationCreate) models.GpsLocation {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc := &models.GpsLocation{
		ID:        uuid.New().String(),
		DeviceID:  in.DeviceID,
		Latitude:  *in.Latitude,
		Longitude: *in.Longitude,
		Timestamp: s.now(),
	}
	if in.Accuracy != nil {
		loc.Accuracy = *in.Accuracy
	}

	s.locations[loc.ID] = loc
	s.locationOrder = append(s.locationOrder, loc.ID)
	metrics.StoreEntities.WithLabelValues("locations").Set(float64(len(s.locations)))

	return *loc
}

// ListAlerts returns alerts in insertion order, optionally filtered by
// device id.
func (s *MemoryStore) ListAlerts(deviceID string) []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Alert, 0, len(s.alertOrder))
	for _, id := range s.alertOrder {
		a := s.alerts[id]
		if deviceID != "" && a.DeviceID != deviceID {
			continue
		}
		out = append(out, *a)
	}
	return out
}

// UnresolvedAlerts returns all alerts whose resolved flag is false, in
// insertion order.
func (s *MemoryStore) UnresolvedAlerts() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Alert
	for _, id := range s.alertOrder {
		if a := s.alerts[id]; !a.Resolved {
			out = append(out, *a)
		}
	}
	return out
}

// CreateAlert raises an alert, defaulting severity to "warning".
func (s *MemoryStore) CreateAlert(in models.AlertCreate) models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := &models.Alert{
		ID:        uuid.New().String(),
		DeviceID:  in.DeviceID,
		Type:      in.Type,
		Message:   in.Message,
		Severity:  in.Severity,
		CreatedAt: s.now(),
	}
	if a.Severity == "" {
		a.Severity = models.SeverityWarning
	}

	s.alerts[a.ID] = a
	s.alertOrder = append(s.alertOrder, a.ID)
	metrics.StoreEntities.WithLabelValues("alerts").Set(float64(len(s.alerts)))

	return *a
}

// ResolveAlert marks the alert resolved. Resolving an already-resolved
// alert is a no-op that still reports success; only an unknown id
// returns false.
func (s *MemoryStore) ResolveAlert(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return false
	}
	a.Resolved = true
	return true
}

// cloneDevice returns a copy whose pointer fields and slices are
// detached from the original.
func cloneDevice(d models.Device) models.Device {
	if d.BatteryLevel != nil {
		d.BatteryLevel = models.Int(*d.BatteryLevel)
	}
	if d.Temperature != nil {
		d.Temperature = models.Float(*d.Temperature)
	}
	if d.SignalStrength != nil {
		d.SignalStrength = models.Int(*d.SignalStrength)
	}
	if d.NetworkType != nil {
		d.NetworkType = models.String(*d.NetworkType)
	}
	if d.DataUsage != nil {
		d.DataUsage = models.Float(*d.DataUsage)
	}
	if d.Uptime != nil {
		d.Uptime = models.Int(*d.Uptime)
	}
	if d.CPUTemp != nil {
		d.CPUTemp = models.Float(*d.CPUTemp)
	}
	if d.GPUTemp != nil {
		d.GPUTemp = models.Float(*d.GPUTemp)
	}
	if d.CPUUsage != nil {
		d.CPUUsage = models.Float(*d.CPUUsage)
	}
	if d.MemoryUsage != nil {
		d.MemoryUsage = models.Float(*d.MemoryUsage)
	}
	if d.StorageUsage != nil {
		d.StorageUsage = models.Float(*d.StorageUsage)
	}
	if d.BluetoothDevices != nil {
		d.BluetoothDevices = append([]string(nil), d.BluetoothDevices...)
	}
	return d
}

// applyDeviceDefaults fills the telemetry fields the creator omitted.
func applyDeviceDefaults(d *models.Device) {
	if d.Status == "" {
		d.Status = models.StatusOffline
	}
	if d.BatteryLevel == nil {
		d.BatteryLevel = models.Int(defaultBatteryLevel)
	}
	if d.Temperature == nil {
		d.Temperature = models.Float(0)
	}
	if d.SignalStrength == nil {
		d.SignalStrength = models.Int(0)
	}
	if d.NetworkType == nil {
		d.NetworkType = models.String(defaultNetworkType)
	}
	if d.DataUsage == nil {
		d.DataUsage = models.Float(0)
	}
	if d.Uptime == nil {
		d.Uptime = models.Int(0)
	}
	if d.CPUTemp == nil {
		d.CPUTemp = models.Float(0)
	}
	if d.GPUTemp == nil {
		d.GPUTemp = models.Float(0)
	}
	if d.CPUUsage == nil {
		d.CPUUsage = models.Float(0)
	}
	if d.MemoryUsage == nil {
		d.MemoryUsage = models.Float(0)
	}
	if d.StorageUsage == nil {
		d.StorageUsage = models.Float(0)
	}
}
