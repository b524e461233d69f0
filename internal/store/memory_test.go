// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package store

import (
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

func TestCreateDeviceDefaults(t *testing.T) {
	s := NewMemoryStore()

	d := s.CreateDevice(models.DeviceCreate{Name: "Sensor A", Type: "sensor"})

	if d.ID == "" {
		t.Fatal("expected generated id")
	}
	if d.Status != models.StatusOffline {
		t.Errorf("status = %q, want offline", d.Status)
	}
	checks := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"batteryLevel", *d.BatteryLevel, 100},
		{"temperature", *d.Temperature, 0.0},
		{"signalStrength", *d.SignalStrength, 0},
		{"networkType", *d.NetworkType, "4G LTE"},
		{"dataUsage", *d.DataUsage, 0.0},
		{"uptime", *d.Uptime, 0},
		{"cpuTemp", *d.CPUTemp, 0.0},
		{"gpuTemp", *d.GPUTemp, 0.0},
		{"cpuUsage", *d.CPUUsage, 0.0},
		{"memoryUsage", *d.MemoryUsage, 0.0},
		{"storageUsage", *d.StorageUsage, 0.0},
	}
	for _, check := range checks {
		if check.got != check.want {
			t.Errorf("%s = %v, want %v", check.name, check.got, check.want)
		}
	}
	if d.LastSeen.IsZero() || d.CreatedAt.IsZero() {
		t.Error("expected lastSeen and createdAt to be stamped")
	}
}

func TestCreateDeviceUniqueIDs(t *testing.T) {
	s := NewMemoryStore()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		d := s.CreateDevice(models.DeviceCreate{Name: "d", Type: "sensor"})
		if seen[d.ID] {
			t.Fatalf("duplicate id %q", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestListDevicesInsertionOrder(t *testing.T) {
	s := NewMemoryStore()

	first := s.CreateDevice(models.DeviceCreate{Name: "first", Type: "sensor"})
	second := s.CreateDevice(models.DeviceCreate{Name: "second", Type: "gps"})
	third := s.CreateDevice(models.DeviceCreate{Name: "third", Type: "camera"})

	list := s.ListDevices()
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i, want := range []string{first.ID, second.ID, third.ID} {
		if list[i].ID != want {
			t.Errorf("list[%d].ID = %q, want %q", i, list[i].ID, want)
		}
	}

	s.DeleteDevice(second.ID)
	list = s.ListDevices()
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != third.ID {
		t.Errorf("order after delete wrong: %+v", list)
	}
}

func TestUpdateDevicePartialOverlay(t *testing.T) {
	s := NewMemoryStore()
	d := s.CreateDevice(models.DeviceCreate{Name: "Cam", Type: "camera"})

	got := s.UpdateDevice(d.ID, models.DeviceUpdate{
		Status:       models.String(models.StatusOnline),
		BatteryLevel: models.Int(55),
	})
	if got == nil {
		t.Fatal("update returned nil for existing device")
	}
	if got.Name != "Cam" {
		t.Errorf("name changed by partial update: %q", got.Name)
	}
	if got.Status != models.StatusOnline {
		t.Errorf("status = %q, want online", got.Status)
	}
	if *got.BatteryLevel != 55 {
		t.Errorf("batteryLevel = %d, want 55", *got.BatteryLevel)
	}
	if *got.NetworkType != "4G LTE" {
		t.Errorf("untouched field changed: %q", *got.NetworkType)
	}
}

func TestUpdateDeviceLastSeenAdvances(t *testing.T) {
	s := NewMemoryStore()
	// Frozen clock: lastSeen must still strictly advance.
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	d := s.CreateDevice(models.DeviceCreate{Name: "d", Type: "sensor"})
	u1 := s.UpdateDevice(d.ID, models.DeviceUpdate{Status: models.String(models.StatusOnline)})
	u2 := s.UpdateDevice(d.ID, models.DeviceUpdate{Status: models.String(models.StatusWarning)})

	if !u1.LastSeen.After(d.LastSeen) {
		t.Errorf("first update did not advance lastSeen: %v vs %v", u1.LastSeen, d.LastSeen)
	}
	if !u2.LastSeen.After(u1.LastSeen) {
		t.Errorf("second update did not advance lastSeen: %v vs %v", u2.LastSeen, u1.LastSeen)
	}
}

func TestUpdateDeviceUnknown(t *testing.T) {
	s := NewMemoryStore()
	if got := s.UpdateDevice("nope", models.DeviceUpdate{}); got != nil {
		t.Errorf("expected nil for unknown device, got %+v", got)
	}
}

func TestDeleteDeviceTwice(t *testing.T) {
	s := NewMemoryStore()
	d := s.CreateDevice(models.DeviceCreate{Name: "d", Type: "sensor"})

	if !s.DeleteDevice(d.ID) {
		t.Error("first delete returned false")
	}
	if s.DeleteDevice(d.ID) {
		t.Error("second delete returned true")
	}
	if s.GetDevice(d.ID) != nil {
		t.Error("deleted device still retrievable")
	}
}

func TestGetDeviceReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	d := s.CreateDevice(models.DeviceCreate{Name: "d", Type: "sensor"})

	got := s.GetDevice(d.ID)
	got.Name = "mutated"

	if fresh := s.GetDevice(d.ID); fresh.Name != "d" {
		t.Errorf("store state mutated through returned pointer: %q", fresh.Name)
	}
}

func TestDeviceCopiesDoNotAliasStore(t *testing.T) {
	s := NewMemoryStore()
	created := s.CreateDevice(models.DeviceCreate{Name: "d", Type: "sensor"})

	// Writing through a pointer field of any returned copy must not
	// reach the stored entity.
	*created.BatteryLevel = 1
	if fresh := s.GetDevice(created.ID); *fresh.BatteryLevel != 100 {
		t.Errorf("create return aliases store: battery = %d", *fresh.BatteryLevel)
	}

	got := s.GetDevice(created.ID)
	*got.BatteryLevel = 2
	*got.NetworkType = "mutated"
	if fresh := s.GetDevice(created.ID); *fresh.BatteryLevel != 100 || *fresh.NetworkType != "4G LTE" {
		t.Errorf("get return aliases store: battery = %d, network = %q", *fresh.BatteryLevel, *fresh.NetworkType)
	}

	listed := s.ListDevices()
	*listed[0].DataUsage = 99
	if fresh := s.GetDevice(created.ID); *fresh.DataUsage != 0 {
		t.Errorf("list return aliases store: dataUsage = %v", *fresh.DataUsage)
	}

	payload := models.DeviceUpdate{BatteryLevel: models.Int(50)}
	updated := s.UpdateDevice(created.ID, payload)
	*updated.BatteryLevel = 3
	*payload.BatteryLevel = 4
	if fresh := s.GetDevice(created.ID); *fresh.BatteryLevel != 50 {
		t.Errorf("update return or payload aliases store: battery = %d", *fresh.BatteryLevel)
	}
}

func TestLocationsFilterAndLatest(t *testing.T) {
	s := NewMemoryStore()
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}

	s.CreateLocation(models.LocationCreate{DeviceID: "dev-a", Latitude: models.Float(1), Longitude: models.Float(1)})
	s.CreateLocation(models.LocationCreate{DeviceID: "dev-b", Latitude: models.Float(2), Longitude: models.Float(2)})
	newest := s.CreateLocation(models.LocationCreate{DeviceID: "dev-a", Latitude: models.Float(3), Longitude: models.Float(3)})

	all := s.ListLocations("")
	if len(all) != 3 {
		t.Fatalf("unfiltered len = %d, want 3", len(all))
	}
	filtered := s.ListLocations("dev-a")
	if len(filtered) != 2 {
		t.Fatalf("filtered len = %d, want 2", len(filtered))
	}

	latest := s.LatestLocation("dev-a")
	if latest == nil || latest.ID != newest.ID {
		t.Errorf("latest = %+v, want id %q", latest, newest.ID)
	}
	if s.LatestLocation("dev-none") != nil {
		t.Error("expected nil latest for unknown device")
	}
}

func TestCreateLocationDefaults(t *testing.T) {
	s := NewMemoryStore()

	loc := s.CreateLocation(models.LocationCreate{
		DeviceID:  "dev-a",
		Latitude:  models.Float(0),
		Longitude: models.Float(0),
	})

	if loc.Accuracy != 0 {
		t.Errorf("accuracy = %v, want 0", loc.Accuracy)
	}
	if loc.Timestamp.IsZero() {
		t.Error("timestamp not stamped")
	}
	// 0,0 is a legal coordinate, not an absence marker.
	if loc.Latitude != 0 || loc.Longitude != 0 {
		t.Errorf("zero coordinates mangled: %v, %v", loc.Latitude, loc.Longitude)
	}
}

func TestAlertDefaultsAndFilters(t *testing.T) {
	s := NewMemoryStore()

	a := s.CreateAlert(models.AlertCreate{DeviceID: "dev-a", Type: "offline", Message: "gone"})
	if a.Severity != models.SeverityWarning {
		t.Errorf("severity = %q, want warning", a.Severity)
	}
	if a.Resolved {
		t.Error("new alert created resolved")
	}

	s.CreateAlert(models.AlertCreate{DeviceID: "dev-b", Type: "temp", Message: "hot", Severity: models.SeverityCritical})

	if got := len(s.ListAlerts("")); got != 2 {
		t.Errorf("unfiltered alerts = %d, want 2", got)
	}
	if got := len(s.ListAlerts("dev-b")); got != 1 {
		t.Errorf("filtered alerts = %d, want 1", got)
	}
}

func TestResolveAlertIdempotent(t *testing.T) {
	s := NewMemoryStore()
	a := s.CreateAlert(models.AlertCreate{DeviceID: "d", Type: "t", Message: "m"})

	if !s.ResolveAlert(a.ID) {
		t.Error("first resolve returned false")
	}
	if !s.ResolveAlert(a.ID) {
		t.Error("second resolve returned false, want idempotent true")
	}
	if s.ResolveAlert("unknown") {
		t.Error("resolve of unknown id returned true")
	}

	if got := len(s.UnresolvedAlerts()); got != 0 {
		t.Errorf("unresolved after resolve = %d, want 0", got)
	}
}

func TestSeedSampleData(t *testing.T) {
	s := NewMemoryStore()
	s.SeedSampleData()

	if got := len(s.ListDevices()); got != 3 {
		t.Errorf("seeded devices = %d, want 3", got)
	}
	if got := len(s.ListLocations("")); got != 3 {
		t.Errorf("seeded locations = %d, want 3", got)
	}
	if got := len(s.UnresolvedAlerts()); got != 1 {
		t.Errorf("seeded unresolved alerts = %d, want 1", got)
	}
}
