// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/parkir/cmd/parkir/cli"
	"github.com/bureau-foundation/parkir/lib/failure"
	"github.com/bureau-foundation/parkir/lib/gate"
	"github.com/bureau-foundation/parkir/lib/kioskui"
	"github.com/bureau-foundation/parkir/lib/output"
	"github.com/bureau-foundation/parkir/lib/schema/parking"
	"github.com/bureau-foundation/parkir/lib/ticket"
)

// ExitTextFallback is the exit status of park and reprint when the
// ticket could only be shown as text for manual recording.
const ExitTextFallback = 5

type vehiclesParams struct {
	GlobalFlags
	cli.JSONOutput
}

func vehiclesCommand() *cli.Command {
	var params vehiclesParams

	return &cli.Command{
		Name:    "vehicles",
		Summary: "List the vehicle types tickets can be issued for",
		Description: `Fetch the vehicle-type catalog from the server, in the order set by
ticket.vehicle_order.`,
		Usage: "parkir vehicles [--json]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("vehicles", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.GlobalFlags, logger, func(a *app) error {
				if err := a.requireSession(ctx); err != nil {
					return err
				}
				types, err := a.client.VehicleTypes(ctx)
				if err != nil {
					return cli.FromFailure(err)
				}
				if done, err := params.EmitJSON(types); done {
					return err
				}

				locale := ticket.LocaleFor(a.config.Ticket.Locale)
				writer := tabwriter.NewWriter(cli.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(writer, "ID\tJENIS\tTARIF\tPER JAM")
				for _, vehicleType := range types {
					perHour := "-"
					if vehicleType.PricePerHour.Valid {
						perHour = locale.Currency(vehicleType.PricePerHour.Int64)
					}
					fmt.Fprintf(writer, "%d\t%s\t%s\t%s\n",
						vehicleType.ID, vehicleType.Name, locale.Currency(vehicleType.FlatRate), perHour)
				}
				return writer.Flush()
			})
		},
	}
}

type parkParams struct {
	GlobalFlags
	cli.JSONOutput
	Plate string `json:"license_plate" flag:"plate,p" desc:"license plate (optional, at most 20 characters)"`
}

// receiptJSON is the machine-readable form of an issued or reprinted
// ticket.
type receiptJSON struct {
	TicketNumber  string   `json:"ticket_number"`
	TransactionID *int64   `json:"transaction_id,omitempty"`
	VehicleType   string   `json:"vehicle_type"`
	LicensePlate  string   `json:"license_plate,omitempty"`
	Outcome       string   `json:"outcome"`
	Detail        string   `json:"detail"`
	ArtifactID    string   `json:"artifact_id,omitempty"`
	Attempts      []string `json:"failed_attempts,omitempty"`
	JournalID     int64    `json:"journal_id,omitempty"`
}

func parkCommand() *cli.Command {
	var params parkParams

	return &cli.Command{
		Name:    "park",
		Summary: "Record a vehicle entry and issue its ticket",
		Description: `Create a parking transaction for one vehicle and deliver the ticket.

The vehicle type is given as its identifier or its name; a name may be
abbreviated as long as exactly one type matches it best. The ticket is
printed on the configured printer, else exported as a PDF, else shown
as text to be written down by hand. In the last case park exits with
status 5 so scripts can tell the ticket was not produced.

A transaction is never created twice. Every delivered ticket is kept in
the journal and can be printed again with "parkir reprint"; if the
ticket cannot be rendered after the server recorded the transaction,
the error names the ticket number to record by hand.`,
		Usage: "parkir park <vehicle type> [--plate <plate>]",
		Examples: []cli.Example{
			{
				Description: "Issue a motorcycle ticket",
				Command:     "parkir park motor --plate \"B 1234 XYZ\"",
			},
			{
				Description: "Issue by vehicle type identifier",
				Command:     "parkir park 2",
			},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("park", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return cli.Validation("vehicle type is required").
					WithHint("Run 'parkir vehicles' to list the available types.")
			}
			query := strings.Join(args, " ")

			return withApp(params.GlobalFlags, logger, func(a *app) error {
				if err := a.requireSession(ctx); err != nil {
					return err
				}
				types, err := a.client.VehicleTypes(ctx)
				if err != nil {
					return cli.FromFailure(err)
				}
				vehicleType, err := resolveVehicleType(types, query)
				if err != nil {
					return err
				}

				receipt, err := a.gate.Issue(ctx, &vehicleType, params.Plate)
				if err != nil {
					toolErr := cli.FromFailure(err)
					if receipt != nil && receipt.Record != nil {
						// The server has the transaction; say which one so it
						// is not entered again.
						number := receipt.TicketNumber
						if categorized, ok := toolErr.(*cli.ToolError); ok {
							return categorized.WithHint(fmt.Sprintf(
								"Transaksi sudah tercatat dengan nomor tiket %s. Catat tiket secara manual, jangan buat transaksi baru.", number))
						}
					}
					return toolErr
				}
				return reportReceipt(receipt, &params.JSONOutput)
			})
		},
	}
}

// resolveVehicleType accepts a numeric identifier or a (fuzzy) name.
func resolveVehicleType(types []parking.VehicleType, query string) (parking.VehicleType, error) {
	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		for _, vehicleType := range types {
			if vehicleType.ID == id {
				return vehicleType, nil
			}
		}
		return parking.VehicleType{}, cli.NotFound("no vehicle type with id %d", id).
			WithHint("Run 'parkir vehicles' to list the available types.")
	}

	matcher := kioskui.NewMatcher()
	if vehicleType, ok := matcher.Resolve(types, query); ok {
		return vehicleType, nil
	}

	candidates := matcher.Filter(types, query)
	if len(candidates) == 0 {
		return parking.VehicleType{}, cli.NotFound("no vehicle type matches %q", query).
			WithHint("Run 'parkir vehicles' to list the available types.")
	}
	names := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		names = append(names, candidate.VehicleType.Name)
	}
	return parking.VehicleType{}, cli.Validation("%q is ambiguous: %s", query, strings.Join(names, ", ")).
		WithHint("Use the full name or the identifier.")
}

// reportReceipt prints the operator announcement, or the receipt as
// JSON, and turns a text fallback into ExitTextFallback.
func reportReceipt(receipt *gate.Receipt, jsonOutput *cli.JSONOutput) error {
	result := toReceiptJSON(receipt)
	if done, err := jsonOutput.EmitJSON(result); done {
		if err != nil {
			return err
		}
		if receipt.Result.Outcome == output.TextFallback {
			return &cli.ExitError{Code: ExitTextFallback}
		}
		return nil
	}

	notice := gate.Announcement(receipt)
	fmt.Fprintln(cli.Stdout, notice.Title)
	fmt.Fprintln(cli.Stdout, notice.Message)
	if receipt.Result.Outcome != output.TextFallback {
		return nil
	}
	for _, attempt := range receipt.Result.Attempts {
		fmt.Fprintf(cli.Stderr, "  %s gagal: %s\n", attempt.Stage, failure.Notice(attempt.Err).Message)
	}
	fmt.Fprintf(cli.Stderr, "Langkah berikutnya: %s\n", notice.ActionLabel())
	return &cli.ExitError{Code: ExitTextFallback}
}

func toReceiptJSON(receipt *gate.Receipt) receiptJSON {
	result := receiptJSON{
		TicketNumber: receipt.Document.TicketNumber,
		VehicleType:  receipt.Document.VehicleType,
		LicensePlate: receipt.Document.LicensePlate,
		Outcome:      receipt.Result.Outcome.String(),
		Detail:       receipt.Result.Detail,
		ArtifactID:   receipt.Result.ArtifactID,
		JournalID:    receipt.JournalID,
	}
	if receipt.Document.TransactionID.Valid {
		id := receipt.Document.TransactionID.Int64
		result.TransactionID = &id
	}
	for _, attempt := range receipt.Result.Attempts {
		result.Attempts = append(result.Attempts, attempt.Stage+": "+attempt.Err.Error())
	}
	return result
}

type reprintParams struct {
	GlobalFlags
	cli.JSONOutput
}

func reprintCommand() *cli.Command {
	var params reprintParams

	return &cli.Command{
		Name:    "reprint",
		Summary: "Deliver a journaled ticket again",
		Description: `Send a previously issued ticket through the output chain again, using
the document stored in the print journal. No transaction is created and
the server is not contacted.`,
		Usage: "parkir reprint <ticket number>",
		Examples: []cli.Example{
			{
				Description: "Reprint after the printer ran out of paper",
				Command:     "parkir reprint PKR000042",
			},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("reprint", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one ticket number is required")
			}
			return withApp(params.GlobalFlags, logger, func(a *app) error {
				receipt, err := a.gate.Reprint(ctx, args[0])
				if err != nil {
					if failure.KindOf(err) == failure.NotFound {
						return cli.NotFound("ticket %s is not in the journal", args[0]).
							WithHint("Run 'parkir journal' to list recent tickets.")
					}
					return cli.FromFailure(err)
				}
				return reportReceipt(receipt, &params.JSONOutput)
			})
		},
	}
}
