// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package printer

import (
	"context"
	"errors"

	"github.com/bureau-foundation/parkir/lib/output"
)

// Device is a discovered Bluetooth printer.
type Device struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Paired  bool   `json:"paired"`
}

// Scanner discovers nearby printers.
type Scanner interface {
	Scan(ctx context.Context) ([]Device, error)
}

// Connector opens a print session with a discovered device.
type Connector interface {
	Connect(ctx context.Context, device Device) (output.NativePrinter, error)
}

// ErrNoBluetooth is returned by NoopScanner.Connect.
var ErrNoBluetooth = errors.New("bluetooth printing is not available on this device")

// NoopScanner is the scanner for builds without a Bluetooth stack.
type NoopScanner struct{}

// Scan returns no devices.
func (NoopScanner) Scan(context.Context) ([]Device, error) { return nil, nil }

// Connect always fails.
func (NoopScanner) Connect(context.Context, Device) (output.NativePrinter, error) {
	return nil, ErrNoBluetooth
}
