// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v4"

	"github.com/bureau-foundation/parkir/cmd/parkir/cli"
	"github.com/bureau-foundation/parkir/lib/schema/parking"
	"github.com/bureau-foundation/parkir/lib/settings"
	"github.com/bureau-foundation/parkir/lib/ticket"
)

func settingsCommand() *cli.Command {
	return &cli.Command{
		Name:    "settings",
		Summary: "View and change ticket and connectivity settings",
		Description: `Ticket settings control the copy and the optional sections printed on
every ticket. They are stored in the kiosk database and apply to the
next ticket issued. The API URL override points the kiosk at a
different transaction server when connectivity.allow_url_override is
enabled.`,
		Subcommands: []*cli.Command{
			settingsShowCommand(),
			settingsSetCommand(),
			settingsImportCommand(),
			settingsResetCommand(),
			settingsPreviewCommand(),
			settingsAPIURLCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Change the company name",
				Command:     "parkir settings set companyName \"MD MALL BLORA\"",
			},
			{
				Description: "Hide the tariff and preview the result",
				Command:     "parkir settings set showTariff tidak && parkir settings preview",
			},
		},
	}
}

type settingsShowParams struct {
	GlobalFlags
	cli.JSONOutput
}

type settingsView struct {
	Ticket      settings.TicketSettings `json:"ticket"`
	APIURL      string                  `json:"api_url"`
	APIOverride string                  `json:"api_url_override,omitempty"`
}

func settingsShowCommand() *cli.Command {
	var params settingsShowParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show the current settings",
		Usage:   "parkir settings show [--json]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("show", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.GlobalFlags, logger, func(a *app) error {
				view := settingsView{
					Ticket: a.settings.Ticket(ctx),
					APIURL: a.endpoint(ctx),
				}
				if a.config.Connectivity.AllowURLOverride {
					view.APIOverride = a.settings.Connectivity(ctx).APIBaseURL
				}
				if done, err := params.EmitJSON(view); done {
					return err
				}

				t := view.Ticket
				fmt.Fprintf(cli.Stdout, "companyName       %s\n", t.CompanyName)
				fmt.Fprintf(cli.Stdout, "address           %s\n", t.Address)
				fmt.Fprintf(cli.Stdout, "phone             %s\n", t.Phone)
				fmt.Fprintf(cli.Stdout, "footerMessage1    %s\n", t.FooterMessage1)
				fmt.Fprintf(cli.Stdout, "footerMessage2    %s\n", t.FooterMessage2)
				fmt.Fprintf(cli.Stdout, "footerMessage3    %s\n", t.FooterMessage3)
				fmt.Fprintf(cli.Stdout, "showDateTime      %s\n", shown(t.ShowDateTime))
				fmt.Fprintf(cli.Stdout, "showLicensePlate  %s\n", shown(t.ShowLicensePlate))
				fmt.Fprintf(cli.Stdout, "showTariff        %s\n", shown(t.ShowTariff))
				fmt.Fprintf(cli.Stdout, "showTicketNumber  %s\n", shown(t.ShowTicketNumber))
				fmt.Fprintln(cli.Stdout)
				fmt.Fprintf(cli.Stdout, "API URL           %s", view.APIURL)
				if view.APIOverride != "" {
					fmt.Fprint(cli.Stdout, " (override)")
				}
				fmt.Fprintln(cli.Stdout)
				return nil
			})
		},
	}
}

func shown(value bool) string {
	if value {
		return "tampil"
	}
	return "sembunyi"
}

type settingsSetParams struct {
	GlobalFlags
}

func settingsSetCommand() *cli.Command {
	var params settingsSetParams

	return &cli.Command{
		Name:    "set",
		Summary: "Change one or more ticket settings",
		Description: `Assign ticket settings by name. Several name/value pairs may be given
at once; they are validated together and saved in one write.

Names: ` + strings.Join(settings.TicketFieldNames(), ", ") + `

Toggles accept true/false, ya/tidak, on/off, or tampil/sembunyi.`,
		Usage: "parkir settings set <name> <value> [<name> <value>...]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("set", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return cli.Validation("expected name/value pairs, got %d arguments", len(args))
			}
			return withApp(params.GlobalFlags, logger, func(a *app) error {
				current := a.settings.Ticket(ctx)
				for i := 0; i < len(args); i += 2 {
					if err := current.SetField(args[i], args[i+1]); err != nil {
						return cli.Validation("%w", err)
					}
				}
				if err := a.settings.SaveTicket(ctx, current); err != nil {
					return cli.Validation("%w", err)
				}
				fmt.Fprintln(cli.Stdout, "✅ Pengaturan tiket disimpan.")
				return nil
			})
		},
	}
}

type settingsImportParams struct {
	GlobalFlags
}

func settingsImportCommand() *cli.Command {
	var params settingsImportParams

	return &cli.Command{
		Name:    "import",
		Summary: "Replace ticket settings from a JSON file",
		Description: `Read ticket settings from a JSON document and save them. Comments and
trailing commas are allowed. Fields the document leaves out take their
default values. Use "-" to read from standard input.`,
		Usage: "parkir settings import <file|->",
		Examples: []cli.Example{
			{
				Description: "Apply a site's ticket copy",
				Command:     "parkir settings import site/tiket.jsonc",
			},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("import", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one file is required")
			}
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			parsed, err := settings.ParseTicketSettings(data)
			if err != nil {
				return cli.Validation("%s: %w", args[0], err)
			}
			return withApp(params.GlobalFlags, logger, func(a *app) error {
				if err := a.settings.SaveTicket(ctx, parsed); err != nil {
					return cli.Validation("%w", err)
				}
				fmt.Fprintln(cli.Stdout, "✅ Pengaturan tiket diimpor.")
				return nil
			})
		},
	}
}

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, cli.Internal("reading standard input: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cli.Validation("reading %s: %w", path, err)
	}
	return data, nil
}

type settingsResetParams struct {
	GlobalFlags
}

func settingsResetCommand() *cli.Command {
	var params settingsResetParams

	return &cli.Command{
		Name:    "reset",
		Summary: "Restore the default ticket settings",
		Usage:   "parkir settings reset",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("reset", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.GlobalFlags, logger, func(a *app) error {
				if err := a.settings.ResetTicket(ctx); err != nil {
					return cli.Internal("%w", err)
				}
				fmt.Fprintln(cli.Stdout, "Pengaturan tiket dikembalikan ke bawaan.")
				return nil
			})
		},
	}
}

type settingsPreviewParams struct {
	GlobalFlags
	Plate string `json:"license_plate" flag:"plate" desc:"sample license plate" default:"B 1234 XYZ"`
}

func settingsPreviewCommand() *cli.Command {
	var params settingsPreviewParams

	return &cli.Command{
		Name:    "preview",
		Summary: "Show a sample ticket with the current settings",
		Description: `Render a sample ticket for a motorcycle at the current time using the
stored ticket settings, laid out at the printer's column width. Nothing
is sent to the server or the printer.`,
		Usage: "parkir settings preview [--plate <plate>]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("preview", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return withApp(params.GlobalFlags, logger, func(a *app) error {
				doc, err := a.sampleTicket(ctx, params.Plate)
				if err != nil {
					return cli.FromFailure(err)
				}
				fmt.Fprint(cli.Stdout, doc.PlainText(a.config.Printer.Columns))
				return nil
			})
		},
	}
}

// sampleTicket renders a ticket for a made-up transaction with the
// stored settings.
func (a *app) sampleTicket(ctx context.Context, plate string) (*ticket.Document, error) {
	return ticket.Render(ticket.Input{
		Transaction:  &parking.TransactionRecord{ID: null.IntFrom(0)},
		VehicleType:  &parking.VehicleType{ID: 1, Name: "Motor", FlatRate: 2000},
		LicensePlate: plate,
		Settings:     a.settings.Ticket(ctx),
		Now:          a.clock.Now().In(a.config.Location()),
		Locale:       ticket.LocaleFor(a.config.Ticket.Locale),
		Geometry:     ticket.Thermal58,
	})
}

type settingsAPIURLParams struct {
	GlobalFlags
	Clear bool `json:"clear" flag:"clear" desc:"remove the override and use connectivity.api_url"`
}

func settingsAPIURLCommand() *cli.Command {
	var params settingsAPIURLParams

	return &cli.Command{
		Name:    "api-url",
		Summary: "Show or override the transaction server URL",
		Description: `Without arguments, print the URL requests are sent to. With a URL,
store it as an override; it applies to the next request. The override
is only honoured when connectivity.allow_url_override is enabled.`,
		Usage: "parkir settings api-url [<url> | --clear]",
		Examples: []cli.Example{
			{
				Description: "Point the kiosk at a local mock server",
				Command:     "parkir settings api-url http://127.0.0.1:8080/api/v1",
			},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("api-url", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 1 {
				return cli.Validation("at most one URL is accepted")
			}
			if params.Clear && len(args) > 0 {
				return cli.Validation("--clear takes no URL")
			}
			return withApp(params.GlobalFlags, logger, func(a *app) error {
				if len(args) == 0 && !params.Clear {
					fmt.Fprintln(cli.Stdout, a.endpoint(ctx))
					return nil
				}
				if !a.config.Connectivity.AllowURLOverride {
					return &cli.ToolError{
						Category: cli.CategoryForbidden,
						Err:      fmt.Errorf("changing the API URL is disabled on this kiosk"),
						Hint:     "Set connectivity.api_url in the configuration file instead.",
					}
				}

				value := settings.ConnectivitySettings{}
				if len(args) == 1 {
					value.APIBaseURL = args[0]
				}
				if err := a.settings.SaveConnectivity(ctx, value); err != nil {
					return cli.Validation("%w", err)
				}
				fmt.Fprintf(cli.Stdout, "✅ API URL: %s\n", a.endpoint(ctx))
				return nil
			})
		},
	}
}
