// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package telemetry

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/sensors"

	"github.com/fleetwatch/fleetwatch/internal/logging"
	"github.com/fleetwatch/fleetwatch/internal/models"
)

// systemReader reads real host telemetry via gopsutil. Host identity and
// uptime are required; every other reading is best-effort and stays nil
// when its probe fails.
type systemReader struct{}

func (systemReader) read(ctx context.Context) (models.Device, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return models.Device{}, err
	}

	now := time.Now()
	device := models.Device{
		ID:        models.LocalSystemDeviceID,
		Name:      info.Hostname,
		Type:      "sensor",
		Status:    models.StatusOnline,
		Uptime:    models.Int(int(info.Uptime / 60)),
		LastSeen:  now,
		CreatedAt: now,
	}

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		device.CPUUsage = models.Float(round1(percents[0]))
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		device.MemoryUsage = models.Float(round1(vm.UsedPercent))
	}
	if usage, err := disk.UsageWithContext(ctx, "/"); err == nil {
		device.StorageUsage = models.Float(round1(usage.UsedPercent))
	}
	device.CPUTemp, device.GPUTemp = readTemperatures(ctx)
	device.BluetoothDevices = connectedBluetoothNames(ctx)

	return device, nil
}

// readTemperatures scans sensor readings for CPU and GPU packages.
// Sensor naming is wildly platform-specific; unknown keys yield nil.
func readTemperatures(ctx context.Context) (cpuTemp, gpuTemp *float64) {
	stats, err := sensors.TemperaturesWithContext(ctx)
	if err != nil {
		logging.Debug().Err(err).Msg("temperature sensors unavailable")
		return nil, nil
	}

	for _, stat := range stats {
		key := strings.ToLower(stat.SensorKey)
		switch {
		case cpuTemp == nil && (strings.Contains(key, "coretemp") ||
			strings.Contains(key, "k10temp") ||
			strings.Contains(key, "cpu")):
			cpuTemp = models.Float(round1(stat.Temperature))
		case gpuTemp == nil && (strings.Contains(key, "amdgpu") ||
			strings.Contains(key, "nouveau") ||
			strings.Contains(key, "gpu")):
			gpuTemp = models.Float(round1(stat.Temperature))
		}
	}
	return cpuTemp, gpuTemp
}

// round1 rounds to one decimal, away from zero on halves, so negative
// sensor readings round correctly.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
