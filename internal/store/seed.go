// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package store

import (
	"github.com/fleetwatch/fleetwatch/internal/logging"
	"github.com/fleetwatch/fleetwatch/internal/models"
)

// SeedSampleData populates the store with a small demo fleet so a fresh
// install shows something on the dashboard. Gated by config; intended
// for development and demos, not production.
func (s *MemoryStore) SeedSampleData() {
	devices := []models.DeviceCreate{
		{
			Name:           "Field Sensor Alpha",
			Type:           "sensor",
			Status:         models.StatusOnline,
			BatteryLevel:   models.Int(87),
			Temperature:    models.Float(23.5),
			SignalStrength: models.Int(92),
			DataUsage:      models.Float(1.2),
			Uptime:         models.Int(4320),
		},
		{
			Name:           "Fleet Tracker 7",
			Type:           "gps",
			Status:         models.StatusOnline,
			BatteryLevel:   models.Int(64),
			Temperature:    models.Float(31.0),
			SignalStrength: models.Int(78),
			NetworkType:    models.String("5G"),
			DataUsage:      models.Float(3.8),
			Uptime:         models.Int(1440),
		},
		{
			Name:         "Gate Camera North",
			Type:         "camera",
			Status:       models.StatusWarning,
			BatteryLevel: models.Int(12),
			Temperature:  models.Float(41.2),
		},
	}

	created := make([]models.Device, 0, len(devices))
	for _, in := range devices {
		created = append(created, s.CreateDevice(in))
	}

	// One position fix per device, roughly around Rotterdam harbor.
	coords := [][2]float64{
		{51.9496, 4.1453},
		{51.9570, 4.0921},
		{51.9402, 4.1688},
	}
	for i, d := range created {
		s.CreateLocation(models.LocationCreate{
			DeviceID:  d.ID,
			Latitude:  models.Float(coords[i][0]),
			Longitude: models.Float(coords[i][1]),
			Accuracy:  models.Float(5),
		})
	}

	s.CreateAlert(models.AlertCreate{
		DeviceID: created[2].ID,
		Type:     "battery_low",
		Message:  "Battery level below 15%",
		Severity: models.SeverityCritical,
	})

	logging.Info().
		Int("devices", len(created)).
		Msg("seeded sample data")
}
