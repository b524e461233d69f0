// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package validation

import (
	"strings"
	"testing"

	"github.com/fleetwatch/fleetwatch/internal/models"
)

func TestValidateDeviceCreate(t *testing.T) {
	checks := []struct {
		name    string
		payload models.DeviceCreate
		wantErr bool
		errPart string
	}{
		{
			"valid minimal",
			models.DeviceCreate{Name: "Sensor", Type: "sensor"},
			false, "",
		},
		{
			"valid full",
			models.DeviceCreate{Name: "Cam", Type: "camera", Status: "online", BatteryLevel: models.Int(50)},
			false, "",
		},
		{
			"missing name",
			models.DeviceCreate{Type: "sensor"},
			true, "Name is required",
		},
		{
			"bad type",
			models.DeviceCreate{Name: "x", Type: "drone"},
			true, "Type must be one of",
		},
		{
			"bad status",
			models.DeviceCreate{Name: "x", Type: "sensor", Status: "sleeping"},
			true, "Status must be one of",
		},
		{
			"battery out of range",
			models.DeviceCreate{Name: "x", Type: "sensor", BatteryLevel: models.Int(150)},
			true, "BatteryLevel",
		},
	}

	for _, check := range checks {
		err := ValidateStruct(&check.payload)
		if check.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", check.name)
				continue
			}
			if !strings.Contains(err.Error(), check.errPart) {
				t.Errorf("%s: error %q does not contain %q", check.name, err.Error(), check.errPart)
			}
		} else if err != nil {
			t.Errorf("%s: unexpected error %v", check.name, err)
		}
	}
}

func TestValidateLocationCreate(t *testing.T) {
	// Zero coordinates are valid; required works through pointers.
	valid := models.LocationCreate{
		DeviceID:  "dev-1",
		Latitude:  models.Float(0),
		Longitude: models.Float(0),
	}
	if err := ValidateStruct(&valid); err != nil {
		t.Errorf("zero coordinates rejected: %v", err)
	}

	missing := models.LocationCreate{DeviceID: "dev-1"}
	if err := ValidateStruct(&missing); err == nil {
		t.Error("missing coordinates accepted")
	}

	outOfRange := models.LocationCreate{
		DeviceID:  "dev-1",
		Latitude:  models.Float(91),
		Longitude: models.Float(0),
	}
	err := ValidateStruct(&outOfRange)
	if err == nil {
		t.Fatal("latitude 91 accepted")
	}
	if !strings.Contains(err.Error(), "valid latitude") {
		t.Errorf("error %q missing latitude message", err.Error())
	}
}

func TestValidateAlertCreate(t *testing.T) {
	valid := models.AlertCreate{DeviceID: "d", Type: "offline", Message: "gone"}
	if err := ValidateStruct(&valid); err != nil {
		t.Errorf("valid alert rejected: %v", err)
	}

	multi := models.AlertCreate{Severity: "catastrophic"}
	err := ValidateStruct(&multi)
	if err == nil {
		t.Fatal("invalid alert accepted")
	}
	// All failed fields are reported, joined into one message.
	if got := len(err.Errors()); got != 4 {
		t.Errorf("field errors = %d, want 4", got)
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("multiple errors not joined: %q", err.Error())
	}
}
