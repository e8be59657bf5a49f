// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the parkir command tree. Each command opens
// the kiosk's components from configuration (see openApp), does one
// thing, and closes them again; the kiosk command keeps them open for
// the lifetime of the screen.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/parkir/cmd/parkir/cli"
	"github.com/bureau-foundation/parkir/lib/version"
)

// Root builds and returns the complete parkir command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "parkir",
		Description: `parkir: parking-ticket kiosk.

Log in as an operator, record vehicle entries with the transaction
server, and deliver each ticket to a thermal printer, a PDF file, or
the screen.

Configuration is read from the file named by --config or $PARKIR_CONFIG;
without either, built-in development defaults apply.`,
		Subcommands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			vehiclesCommand(),
			parkCommand(),
			reprintCommand(),
			journalCommand(),
			settingsCommand(),
			printerCommand(),
			kioskCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Fprintf(cli.Stdout, "parkir %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Log in and open the kiosk screen",
				Command:     "parkir login --email petugas@parkir.local && parkir kiosk",
			},
			{
				Description: "Issue a ticket from a script",
				Command:     "parkir park motor --plate \"B 1234 XYZ\" --json",
			},
		},
	}
}
