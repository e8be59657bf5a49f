// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/parkir/cmd/parkir/cli"
	"github.com/bureau-foundation/parkir/lib/clock"
	"github.com/bureau-foundation/parkir/lib/config"
	"github.com/bureau-foundation/parkir/lib/export"
	"github.com/bureau-foundation/parkir/lib/gate"
	"github.com/bureau-foundation/parkir/lib/journal"
	"github.com/bureau-foundation/parkir/lib/kvstore"
	"github.com/bureau-foundation/parkir/lib/output"
	"github.com/bureau-foundation/parkir/lib/parkingapi"
	"github.com/bureau-foundation/parkir/lib/printer"
	"github.com/bureau-foundation/parkir/lib/schema/parking"
	"github.com/bureau-foundation/parkir/lib/sealed"
	"github.com/bureau-foundation/parkir/lib/session"
	"github.com/bureau-foundation/parkir/lib/settings"
	"github.com/bureau-foundation/parkir/lib/sqlitepool"
	"github.com/bureau-foundation/parkir/lib/ticket"
	"github.com/bureau-foundation/parkir/lib/version"
)

// GlobalFlags is embedded in every command's params so --config and
// --timeout are accepted everywhere.
type GlobalFlags struct {
	ConfigPath string        `json:"-" flag:"config" desc:"configuration file (default: $PARKIR_CONFIG, else built-in defaults)"`
	Timeout    time.Duration `json:"-" flag:"timeout" desc:"bound each server request (default: connectivity.request_timeout)"`
}

// newClock is replaced in tests.
var newClock = clock.Real

// app holds the kiosk's wired components for one command invocation.
type app struct {
	config   *config.Config
	clock    clock.Clock
	pool     *sqlitepool.Pool
	settings *settings.Store
	sessions *session.Store
	client   *parkingapi.Client
	pipeline *output.Pipeline
	journal  *journal.Journal
	gate     *gate.Service
	logger   *slog.Logger
}

// openApp loads configuration and opens storage. The caller must Close
// the result.
func openApp(flags GlobalFlags, logger *slog.Logger) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, logger)
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	if err := cfg.EnsurePaths(); err != nil {
		return nil, cli.Internal("preparing data directories: %w", err)
	}

	ordering, err := parking.ParseOrdering(cfg.Ticket.VehicleOrder)
	if err != nil {
		return nil, cli.Validation("ticket.vehicle_order: %w", err)
	}
	compression, err := journal.ParseCompression(cfg.Journal.Compression)
	if err != nil {
		return nil, cli.Validation("journal.compression: %w", err)
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   cfg.Paths.Database,
		Schema: kvstore.Schema + journal.Schema,
		Logger: logger,
	})
	if err != nil {
		return nil, cli.Internal("opening database: %w", err)
	}

	clk := newClock()
	a := &app{config: cfg, clock: clk, pool: pool, logger: logger}
	backend := kvstore.New(pool, clk, logger)
	a.settings = settings.NewStore(backend, logger)

	var identity *sealed.Identity
	if cfg.Session.SealToken {
		identity, err = sealed.LoadOrCreateIdentity(cfg.Paths.Identity)
		if err != nil {
			pool.Close()
			return nil, cli.Internal("loading token identity: %w", err)
		}
	}
	a.sessions = session.NewStore(session.Config{Backend: backend, Identity: identity, Logger: logger})

	a.client, err = parkingapi.NewClient(parkingapi.ClientConfig{
		Endpoint:  a.endpoint,
		Sessions:  a.sessions,
		Timeout:   cfg.RequestTimeout(),
		Ordering:  ordering,
		UserAgent: version.UserAgent("parkir"),
		Logger:    logger,
	})
	if err != nil {
		pool.Close()
		return nil, cli.Internal("creating api client: %w", err)
	}

	capabilities, err := a.capabilities()
	if err != nil {
		pool.Close()
		return nil, err
	}

	a.pipeline = output.NewPipeline(output.Config{Logger: logger})
	a.journal = journal.New(journal.Config{
		Pool:        pool,
		Compression: compression,
		Clock:       clk,
		Logger:      logger,
	})
	a.gate = gate.New(gate.Config{
		Transactions: a.client,
		Settings:     a.settings,
		Emitter:      a.pipeline,
		Capabilities: capabilities,
		Journal:      a.journal,
		Clock:        clk,
		Locale:       ticket.LocaleFor(cfg.Ticket.Locale),
		Location:     cfg.Location(),
		Geometry:     ticket.Thermal58,
		Logger:       logger,
	})
	return a, nil
}

func loadConfig(flags GlobalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.ConfigPath != "" {
		cfg, err = config.LoadFile(flags.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("loading configuration: %w", err)
	}
	switch {
	case flags.Timeout < 0:
		return nil, cli.Validation("--timeout must be positive, got %s", flags.Timeout)
	case flags.Timeout > 0:
		cfg.Connectivity.RequestTimeout = flags.Timeout.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	return cfg, nil
}

// endpoint resolves the server URL per request, so an override saved
// by "settings api-url" applies to the very next request.
func (a *app) endpoint(ctx context.Context) string {
	if !a.config.Connectivity.AllowURLOverride {
		return settings.NormalizeBaseURL(a.config.Connectivity.APIURL)
	}
	return a.settings.Connectivity(ctx).Resolve(a.config.Connectivity.APIURL)
}

func (a *app) capabilities() (output.Capabilities, error) {
	var capabilities output.Capabilities
	native, err := a.printer()
	if err != nil {
		return capabilities, err
	}
	if native != nil {
		capabilities.NativePrint = native
	}
	if a.config.Export.Enabled {
		capabilities.FileExport = &export.DirectoryExporter{
			Directory:    a.config.Paths.Exports,
			ShareCommand: a.config.Export.ShareCommand,
			Logger:       a.logger,
		}
	}
	return capabilities, nil
}

// printer returns the configured native printer, or nil for kind
// "none".
func (a *app) printer() (output.NativePrinter, error) {
	native, err := printer.New(printer.Options{
		Kind:        printer.Kind(a.config.Printer.Kind),
		Address:     a.config.Printer.Address,
		Columns:     a.config.Printer.Columns,
		Timeout:     a.config.PrintTimeout(),
		Command:     a.config.Printer.Command,
		Destination: a.config.Printer.Destination,
	})
	if err != nil {
		return nil, cli.Validation("printer: %w", err)
	}
	return native, nil
}

// requireSession fails with an auth error before any request is made
// when nobody is logged in.
func (a *app) requireSession(ctx context.Context) error {
	if a.client.IsAuthenticated(ctx) {
		return nil
	}
	return &cli.ToolError{
		Category: cli.CategoryAuth,
		Err:      errors.New("tidak ada sesi aktif"),
		Hint:     "Jalankan 'parkir login' terlebih dahulu.",
	}
}

func (a *app) Close() error {
	if err := a.pool.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// withApp opens the app, runs fn and closes it, keeping the first
// error.
func withApp(flags GlobalFlags, logger *slog.Logger, fn func(*app) error) (err error) {
	a, err := openApp(flags, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(a)
}
