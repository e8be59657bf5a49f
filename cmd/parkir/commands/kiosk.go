// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/parkir/cmd/parkir/cli"
	"github.com/bureau-foundation/parkir/lib/kioskui"
)

type kioskParams struct {
	GlobalFlags
	LogFile string `json:"-" flag:"log-file" desc:"write logs here while the screen is active (default: <paths.root>/kiosk.log)"`
}

func kioskCommand() *cli.Command {
	var params kioskParams

	return &cli.Command{
		Name:    "kiosk",
		Summary: "Run the interactive ticket screen",
		Description: `Open the full-screen kiosk: pick a vehicle type, optionally type the
plate, and press Enter to issue the ticket. The vehicle-type list is
loaded on start and refreshed with Ctrl+R. A second Enter while a
ticket is being issued is ignored.

The screen owns the terminal, so logs go to a file instead.`,
		Usage: "parkir kiosk [--log-file <path>]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("kiosk", &params) },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return cli.Validation("the kiosk screen needs a terminal").
					WithHint("Use 'parkir park' for scripted ticket issue.")
			}

			cfg, err := loadConfig(params.GlobalFlags)
			if err != nil {
				return err
			}
			logPath := params.LogFile
			if logPath == "" {
				logPath = filepath.Join(cfg.Paths.Root, "kiosk.log")
			}
			if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
				return cli.Internal("creating log directory: %w", err)
			}
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				return cli.Internal("opening kiosk log: %w", err)
			}
			defer logFile.Close()
			logger := slog.New(slog.NewJSONHandler(logFile, nil)).With("command", "kiosk")

			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.requireSession(ctx); err != nil {
				return err
			}
			operator := ""
			if profile, ok := a.sessions.Profile(ctx); ok {
				operator = displayName(profile)
			}

			model := kioskui.NewModel(kioskui.Options{
				Catalog:        a.client,
				Issuer:         a.gate,
				Operator:       operator,
				RequestTimeout: cfg.RequestTimeout(),
				Renderer:       kioskui.NewRenderer(os.Stdout, termenv.EnvColorProfile()),
				Logger:         logger,
			})
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			logger.Info("kiosk started", "operator", operator)
			if _, err := program.Run(); err != nil && ctx.Err() == nil {
				return cli.Internal("kiosk screen: %w", err)
			}
			logger.Info("kiosk stopped")
			return nil
		},
	}
}
