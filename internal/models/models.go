// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

// Package models defines the entities tracked by the dashboard (devices,
// GPS locations, alerts), the partial-update payloads used by the REST
// API, and the statistics projection.
//
// Telemetry fields on Device are pointers: nil means the reading is
// unknown (the synthetic host device reports nil for every probe that
// failed), while a zero value is a real measurement.
package models

import "time"

// Device statuses.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusWarning = "warning"
)

// Alert severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// LocalSystemDeviceID identifies the synthetic device that mirrors the
// host the server runs on. It is produced by the telemetry probe at read
// time and never enters the store.
const LocalSystemDeviceID = "local-system"

// Device is a monitored device and its latest telemetry readings.
type Device struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Status           string    `json:"status"`
	BatteryLevel     *int      `json:"batteryLevel"`
	Temperature      *float64  `json:"temperature"`
	SignalStrength   *int      `json:"signalStrength"`
	NetworkType      *string   `json:"networkType"`
	DataUsage        *float64  `json:"dataUsage"`
	Uptime           *int      `json:"uptime"`
	CPUTemp          *float64  `json:"cpuTemp"`
	GPUTemp          *float64  `json:"gpuTemp"`
	CPUUsage         *float64  `json:"cpuUsage"`
	MemoryUsage      *float64  `json:"memoryUsage"`
	StorageUsage     *float64  `json:"storageUsage"`
	BluetoothDevices []string  `json:"bluetoothDevices,omitempty"`
	LastSeen         time.Time `json:"lastSeen"`
	CreatedAt        time.Time `json:"createdAt"`
}

// GpsLocation is a single position report for a device. Location history
// is append-only; the newest report (by timestamp) is the device's
// current position.
type GpsLocation struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"deviceId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// Alert is a notable condition raised against a device. Alerts are never
// deleted; resolution is a one-way flag.
type Alert struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"deviceId"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Resolved  bool      `json:"resolved"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats is the dashboard summary projection, recomputed on demand.
type Stats struct {
	TotalDevices  int     `json:"totalDevices"`
	OnlineDevices int     `json:"onlineDevices"`
	AlertsToday   int     `json:"alertsToday"`
	DataUsage     float64 `json:"dataUsage"`
}

// DeviceCreate is the payload for registering a device. Omitted telemetry
// fields receive store defaults.
type DeviceCreate struct {
	Name           string   `json:"name" validate:"required"`
	Type           string   `json:"type" validate:"required,oneof=sensor gps camera"`
	Status         string   `json:"status" validate:"omitempty,oneof=online offline warning"`
	BatteryLevel   *int     `json:"batteryLevel" validate:"omitempty,min=0,max=100"`
	Temperature    *float64 `json:"temperature"`
	SignalStrength *int     `json:"signalStrength" validate:"omitempty,min=0,max=100"`
	NetworkType    *string  `json:"networkType"`
	DataUsage      *float64 `json:"dataUsage" validate:"omitempty,min=0"`
	Uptime         *int     `json:"uptime" validate:"omitempty,min=0"`
	CPUTemp        *float64 `json:"cpuTemp"`
	GPUTemp        *float64 `json:"gpuTemp"`
	CPUUsage       *float64 `json:"cpuUsage" validate:"omitempty,min=0,max=100"`
	MemoryUsage    *float64 `json:"memoryUsage" validate:"omitempty,min=0,max=100"`
	StorageUsage   *float64 `json:"storageUsage" validate:"omitempty,min=0,max=100"`
}

// DeviceUpdate is the partial-update payload. Only non-nil fields are
// applied; lastSeen is refreshed on every successful update.
type DeviceUpdate struct {
	Name           *string  `json:"name" validate:"omitempty,min=1"`
	Type           *string  `json:"type" validate:"omitempty,oneof=sensor gps camera"`
	Status         *string  `json:"status" validate:"omitempty,oneof=online offline warning"`
	BatteryLevel   *int     `json:"batteryLevel" validate:"omitempty,min=0,max=100"`
	Temperature    *float64 `json:"temperature"`
	SignalStrength *int     `json:"signalStrength" validate:"omitempty,min=0,max=100"`
	NetworkType    *string  `json:"networkType"`
	DataUsage      *float64 `json:"dataUsage" validate:"omitempty,min=0"`
	Uptime         *int     `json:"uptime" validate:"omitempty,min=0"`
	CPUTemp        *float64 `json:"cpuTemp"`
	GPUTemp        *float64 `json:"gpuTemp"`
	CPUUsage       *float64 `json:"cpuUsage" validate:"omitempty,min=0,max=100"`
	MemoryUsage    *float64 `json:"memoryUsage" validate:"omitempty,min=0,max=100"`
	StorageUsage   *float64 `json:"storageUsage" validate:"omitempty,min=0,max=100"`
}

// LocationCreate is the payload for recording a position report.
// Coordinates are pointers so that 0 survives required-field validation.
type LocationCreate struct {
	DeviceID  string   `json:"deviceId" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Accuracy  *float64 `json:"accuracy" validate:"omitempty,min=0"`
}

// AlertCreate is the payload for raising an alert.
type AlertCreate struct {
	DeviceID string `json:"deviceId" validate:"required"`
	Type     string `json:"type" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Severity string `json:"severity" validate:"omitempty,oneof=info warning critical"`
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
