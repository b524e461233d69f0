// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package telemetry

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/fleetwatch/fleetwatch/internal/logging"
)

// connectedBluetoothNames shells out to bluetoothctl for the names of
// currently connected peripherals. Best-effort: a missing binary or a
// host without bluez yields an empty list, never an error.
func connectedBluetoothNames(ctx context.Context) []string {
	out, err := exec.CommandContext(ctx, "bluetoothctl", "devices", "Connected").Output()
	if err != nil {
		logging.Debug().Err(err).Msg("bluetoothctl unavailable")
		return nil
	}
	return parseBluetoothDevices(out)
}

// parseBluetoothDevices extracts names from bluetoothctl output lines of
// the form "Device AA:BB:CC:DD:EE:FF Some Name".
func parseBluetoothDevices(out []byte) []string {
	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.SplitN(scanner.Text(), " ", 3)
		if len(fields) == 3 && fields[0] == "Device" {
			if name := strings.TrimSpace(fields[2]); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
