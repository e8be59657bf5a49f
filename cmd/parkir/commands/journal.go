// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/parkir/cmd/parkir/cli"
	"github.com/bureau-foundation/parkir/lib/output"
)

// detailWidth bounds the DETAIL column of the journal listing.
const detailWidth = 48

type journalParams struct {
	GlobalFlags
	cli.JSONOutput
	Limit int `json:"limit" flag:"limit,n" desc:"entries to show (default: journal.list_limit)"`
}

func journalCommand() *cli.Command {
	var params journalParams

	return &cli.Command{
		Name:    "journal",
		Summary: "List recently issued tickets",
		Description: `List the tickets this kiosk delivered, newest first, with the stage
that delivered each one. Any listed ticket can be delivered again with
"parkir reprint".`,
		Usage: "parkir journal [--limit N] [--json]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("journal", &params) },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.Limit < 0 {
				return cli.Validation("--limit must not be negative")
			}
			return withApp(params.GlobalFlags, logger, func(a *app) error {
				limit := params.Limit
				if limit == 0 {
					limit = a.config.Journal.ListLimit
				}
				entries, err := a.journal.List(ctx, limit)
				if err != nil {
					return cli.Internal("reading journal: %w", err)
				}
				if done, err := params.EmitJSON(entries); done {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cli.Stdout, "Belum ada tiket.")
					return nil
				}

				location := a.config.Location()
				writer := tabwriter.NewWriter(cli.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(writer, "WAKTU\tTIKET\tHASIL\tDETAIL")
				for _, entry := range entries {
					detail := entry.Detail
					if entry.Outcome == output.TextFallback {
						detail = "(dicatat manual)"
					}
					detail, _, _ = strings.Cut(detail, "\n")
					fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
						entry.CreatedAt.In(location).Format("02/01/2006 15.04"),
						entry.TicketNumber,
						entry.OutcomeName,
						ansi.Truncate(detail, detailWidth, "…"))
				}
				return writer.Flush()
			})
		},
	}
}
