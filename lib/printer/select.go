// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package printer

import (
	"fmt"
	"time"

	"github.com/bureau-foundation/parkir/lib/output"
)

// Kind names a native-print backend in configuration.
type Kind string

const (
	KindNone    Kind = "none"
	KindNetwork Kind = "network"
	KindSpool   Kind = "spool"
)

// Options selects and configures a backend.
type Options struct {
	Kind        Kind
	Address     string
	Columns     int
	Timeout     time.Duration
	Command     string
	Destination string
}

// New builds the configured printer. KindNone (or empty) returns nil,
// meaning native print is absent.
func New(options Options) (output.NativePrinter, error) {
	switch options.Kind {
	case "", KindNone:
		return nil, nil
	case KindNetwork:
		if options.Address == "" {
			return nil, fmt.Errorf("network printer requires an address")
		}
		return &NetworkPrinter{Address: options.Address, Columns: options.Columns, Timeout: options.Timeout}, nil
	case KindSpool:
		return &SpoolPrinter{Command: options.Command, Destination: options.Destination}, nil
	default:
		return nil, fmt.Errorf("unknown printer kind %q (want none, network, or spool)", options.Kind)
	}
}
