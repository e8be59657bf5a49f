// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/parkir/cmd/parkir/cli"
	"github.com/bureau-foundation/parkir/lib/failure"
	"github.com/bureau-foundation/parkir/lib/printer"
)

// newScanner returns the Bluetooth scanner. Replaced in tests.
var newScanner = func() printer.Scanner { return printer.NoopScanner{} }

func printerCommand() *cli.Command {
	return &cli.Command{
		Name:    "printer",
		Summary: "Find and test ticket printers",
		Description: `The native printer is chosen in the configuration file (printer.kind:
none, network, or spool). These commands look for nearby Bluetooth
printers and send a test ticket to the configured one.`,
		Subcommands: []*cli.Command{
			printerScanCommand(),
			printerTestCommand(),
		},
	}
}

type printerScanParams struct {
	GlobalFlags
	cli.JSONOutput
}

func printerScanCommand() *cli.Command {
	var params printerScanParams

	return &cli.Command{
		Name:    "scan",
		Summary: "List nearby Bluetooth printers",
		Usage:   "parkir printer scan [--json]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("scan", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			devices, err := newScanner().Scan(ctx)
			if err != nil {
				logger.Warn("printer scan failed", "error", err)
				return cli.Transient("Gagal mencari printer.").
					WithHint("Pastikan Bluetooth aktif lalu coba lagi.")
			}
			if done, err := params.EmitJSON(devices); done {
				return err
			}
			if len(devices) == 0 {
				fmt.Fprintln(cli.Stdout, "Tidak ada printer ditemukan.")
				return nil
			}
			for _, device := range devices {
				paired := ""
				if device.Paired {
					paired = " (terpasang)"
				}
				fmt.Fprintf(cli.Stdout, "%s  %s%s\n", device.Address, device.Name, paired)
			}
			return nil
		},
	}
}

type printerTestParams struct {
	GlobalFlags
}

func printerTestCommand() *cli.Command {
	var params printerTestParams

	return &cli.Command{
		Name:    "test",
		Summary: "Print a sample ticket on the configured printer",
		Description: `Render a sample ticket with the stored settings and send it to the
configured native printer only. The export and text fallbacks are not
used, so a failure here means the printer itself is unreachable.`,
		Usage: "parkir printer test",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("test", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.GlobalFlags, logger, func(a *app) error {
				native := a.gate.Capabilities().NativePrint
				if native == nil {
					return cli.Validation("no printer is configured").
						WithHint("Set printer.kind to network or spool in the configuration file.")
				}

				doc, err := a.sampleTicket(ctx, "B 1234 XYZ")
				if err != nil {
					return cli.FromFailure(err)
				}
				artifact, err := a.pipeline.Materialize(doc)
				if err != nil {
					return cli.FromFailure(err)
				}
				if err := native.Print(ctx, artifact); err != nil {
					logger.Warn("test print failed", "printer", native.Name(), "error", err)
					return cli.FromFailure(failure.New(failure.PrintFailure, "test print", err))
				}
				fmt.Fprintf(cli.Stdout, "✅ Test print berhasil! (%s)\n", native.Name())
				return nil
			})
		},
	}
}
