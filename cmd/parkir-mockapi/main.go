// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Parkir-mockapi serves the parking transaction API from memory for
// local kiosk development. It starts with the default vehicle catalog
// and the operators given by --operator (email:password[:name[:role]]),
// or a single petugas@parkir.local / parkir123 operator when none are
// given.
//
//	parkir-mockapi --listen 127.0.0.1:8080
//	PARKIR_CONFIG=dev.yaml parkir settings api-url http://127.0.0.1:8080/api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/parkir/internal/mockapi"
	"github.com/bureau-foundation/parkir/lib/process"
	"github.com/bureau-foundation/parkir/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		listen      string
		operators   []string
		secret      string
		tokenTTL    time.Duration
		showVersion bool
	)
	flagSet := pflag.NewFlagSet("parkir-mockapi", pflag.ContinueOnError)
	flagSet.StringVar(&listen, "listen", "127.0.0.1:8080", "address to serve on")
	flagSet.StringArrayVar(&operators, "operator", nil, "operator as email:password[:name[:role]] (repeatable)")
	flagSet.StringVar(&secret, "secret", os.Getenv("PARKIR_MOCKAPI_SECRET"), "token signing secret (default: random per start)")
	flagSet.DurationVar(&tokenTTL, "token-ttl", 12*time.Hour, "token lifetime")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return err
	}
	if showVersion {
		fmt.Printf("parkir-mockapi %s\n", version.Full())
		return nil
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	server, err := mockapi.New(mockapi.Config{
		Secret:   []byte(secret),
		TokenTTL: tokenTTL,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	if len(operators) == 0 {
		operators = []string{"petugas@parkir.local:parkir123:Petugas Parkir"}
	}
	for _, entry := range operators {
		parts := strings.SplitN(entry, ":", 4)
		if len(parts) < 2 {
			return fmt.Errorf("--operator %q: want email:password[:name[:role]]", entry)
		}
		parts = append(parts, "", "")
		profile, err := server.AddOperator(parts[0], parts[1], parts[2], parts[3])
		if err != nil {
			return err
		}
		logger.Info("operator added", "id", profile.ID, "email", profile.Email, "role", profile.Role)
	}
	server.SetVehicleTypes(mockapi.DefaultVehicleTypes())

	gin.SetMode(gin.ReleaseMode)
	httpServer := &http.Server{
		Addr:              listen,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := process.SignalContext()
	defer stop()

	errs := make(chan error, 1)
	go func() {
		logger.Info("serving", "address", listen, "prefix", mockapi.Prefix, "version", version.Short())
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("stopped")
	return nil
}
