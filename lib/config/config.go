// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for a workstation talking to a test server.
	Development Environment = "development"
	// Production is for a kiosk at a gate.
	Production Environment = "production"
)

// DefaultAPIURL is the transaction server used when nothing else is
// configured.
const DefaultAPIURL = "http://testapi.mdgroup.id/api/v1"

// Config is the kiosk configuration.
type Config struct {
	Environment Environment `yaml:"environment"`

	Paths        PathsConfig        `yaml:"paths"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
	Printer      PrinterConfig      `yaml:"printer"`
	Export       ExportConfig       `yaml:"export"`
	Ticket       TicketConfig       `yaml:"ticket"`
	Journal      JournalConfig      `yaml:"journal"`
	Session      SessionConfig      `yaml:"session"`

	// Per-environment overrides, applied after the base values.
	Development *Overrides `yaml:"development,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// Overrides holds the fields an environment section may change. Nil
// pointers leave the base value alone.
type Overrides struct {
	Paths        *PathsConfig `yaml:"paths,omitempty"`
	Connectivity *struct {
		APIURL           string `yaml:"api_url"`
		RequestTimeout   string `yaml:"request_timeout"`
		AllowURLOverride *bool  `yaml:"allow_url_override"`
	} `yaml:"connectivity,omitempty"`
	Printer *PrinterConfig `yaml:"printer,omitempty"`
	Session *struct {
		SealToken *bool `yaml:"seal_token"`
	} `yaml:"session,omitempty"`
}

// PathsConfig configures on-disk locations.
type PathsConfig struct {
	// Root is the base directory for kiosk data.
	Root string `yaml:"root"`

	// Database is the SQLite file holding settings, the session, and
	// the print journal.
	Database string `yaml:"database"`

	// Exports is where ticket PDFs are written when printing fails.
	Exports string `yaml:"exports"`

	// Identity is the age key used to seal the bearer token.
	Identity string `yaml:"identity"`
}

// ConnectivityConfig configures the transaction server connection.
type ConnectivityConfig struct {
	// APIURL is the default server base URL. A URL saved through
	// "settings api-url" takes precedence when overrides are allowed.
	APIURL string `yaml:"api_url"`

	// RequestTimeout bounds every HTTP request. Default: 15s.
	RequestTimeout string `yaml:"request_timeout"`

	// AllowURLOverride lets the operator store a different server
	// URL. Default: true (development), false (production).
	AllowURLOverride bool `yaml:"allow_url_override"`
}

// PrinterConfig selects the native-print backend.
type PrinterConfig struct {
	// Kind is none, network, or spool.
	Kind string `yaml:"kind"`

	// Address is host[:port] for network printers.
	Address string `yaml:"address"`

	// Columns is the printer line width. Default: 32.
	Columns int `yaml:"columns"`

	// Timeout bounds one print job. Default: 10s.
	Timeout string `yaml:"timeout"`

	// Command and Destination configure spool printing.
	Command     string `yaml:"command"`
	Destination string `yaml:"destination"`
}

// ExportConfig configures the file-export stage.
type ExportConfig struct {
	// Enabled turns the export stage on. Default: true.
	Enabled bool `yaml:"enabled"`

	// ShareCommand runs after each export with the share title and
	// the file path appended.
	ShareCommand []string `yaml:"share_command"`
}

// TicketConfig configures rendering.
type TicketConfig struct {
	// Locale is a BCP 47 tag for number and date formats. Default: id-ID.
	Locale string `yaml:"locale"`

	// TimeZone is the IANA zone printed times use. Default: Asia/Jakarta.
	TimeZone string `yaml:"time_zone"`

	// VehicleOrder is "id" (server order) or "motor-first".
	VehicleOrder string `yaml:"vehicle_order"`
}

// JournalConfig configures the print journal.
type JournalConfig struct {
	// Compression is zstd, lz4, or none. Default: zstd.
	Compression string `yaml:"compression"`

	// ListLimit is the default number of entries "journal" shows.
	ListLimit int `yaml:"list_limit"`
}

// SessionConfig configures credential storage.
type SessionConfig struct {
	// SealToken encrypts the bearer token at rest with the age
	// identity. Default: false (development), true (production).
	SealToken bool `yaml:"seal_token"`
}

// Default returns the configuration a kiosk runs with when no file is
// given.
func Default() *Config {
	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			Root:     "${XDG_DATA_HOME:-${HOME}/.local/share}/parkir",
			Database: "${PARKIR_ROOT}/parkir.db",
			Exports:  "${PARKIR_ROOT}/exports",
			Identity: "${PARKIR_ROOT}/identity.age",
		},
		Connectivity: ConnectivityConfig{
			APIURL:           DefaultAPIURL,
			RequestTimeout:   "15s",
			AllowURLOverride: true,
		},
		Printer: PrinterConfig{
			Kind:    "none",
			Columns: 32,
			Timeout: "10s",
		},
		Export: ExportConfig{
			Enabled: true,
		},
		Ticket: TicketConfig{
			Locale:       "id-ID",
			TimeZone:     "Asia/Jakarta",
			VehicleOrder: "id",
		},
		Journal: JournalConfig{
			Compression: "zstd",
			ListLimit:   20,
		},
	}
}

// Load loads configuration from the file named by PARKIR_CONFIG, or
// returns the expanded defaults when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv("PARKIR_CONFIG")
	if configPath == "" {
		cfg := Default()
		cfg.applyEnvironmentOverrides()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		// Production defaults: pinned server, sealed token. An explicit
		// production section can still relax them.
		c.Connectivity.AllowURLOverride = false
		c.Session.SealToken = true
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		if overrides.Paths.Root != "" {
			c.Paths.Root = overrides.Paths.Root
		}
		if overrides.Paths.Database != "" {
			c.Paths.Database = overrides.Paths.Database
		}
		if overrides.Paths.Exports != "" {
			c.Paths.Exports = overrides.Paths.Exports
		}
		if overrides.Paths.Identity != "" {
			c.Paths.Identity = overrides.Paths.Identity
		}
	}

	if overrides.Connectivity != nil {
		if overrides.Connectivity.APIURL != "" {
			c.Connectivity.APIURL = overrides.Connectivity.APIURL
		}
		if overrides.Connectivity.RequestTimeout != "" {
			c.Connectivity.RequestTimeout = overrides.Connectivity.RequestTimeout
		}
		if overrides.Connectivity.AllowURLOverride != nil {
			c.Connectivity.AllowURLOverride = *overrides.Connectivity.AllowURLOverride
		}
	}

	if overrides.Printer != nil {
		if overrides.Printer.Kind != "" {
			c.Printer.Kind = overrides.Printer.Kind
		}
		if overrides.Printer.Address != "" {
			c.Printer.Address = overrides.Printer.Address
		}
		if overrides.Printer.Columns != 0 {
			c.Printer.Columns = overrides.Printer.Columns
		}
		if overrides.Printer.Timeout != "" {
			c.Printer.Timeout = overrides.Printer.Timeout
		}
		if overrides.Printer.Command != "" {
			c.Printer.Command = overrides.Printer.Command
		}
		if overrides.Printer.Destination != "" {
			c.Printer.Destination = overrides.Printer.Destination
		}
	}

	if overrides.Session != nil && overrides.Session.SealToken != nil {
		c.Session.SealToken = *overrides.Session.SealToken
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["PARKIR_ROOT"] = c.Paths.Root

	c.Paths.Database = expandVars(c.Paths.Database, vars)
	c.Paths.Exports = expandVars(c.Paths.Exports, vars)
	c.Paths.Identity = expandVars(c.Paths.Identity, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}. A default may itself
// contain one nested ${VAR}.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^{}]|\$\{[^{}]*\})*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Provided vars first, then the process environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return expandVars(defaultValue, vars)
	})
}

// RequestTimeout returns the parsed per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	timeout, err := time.ParseDuration(c.Connectivity.RequestTimeout)
	if err != nil || timeout <= 0 {
		return 15 * time.Second
	}
	return timeout
}

// PrintTimeout returns the parsed print-job timeout.
func (c *Config) PrintTimeout() time.Duration {
	timeout, err := time.ParseDuration(c.Printer.Timeout)
	if err != nil || timeout <= 0 {
		return 10 * time.Second
	}
	return timeout
}

// Location returns the configured time zone, falling back to UTC+7
// when the zone database lacks it.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Ticket.TimeZone)
	if err != nil {
		return time.FixedZone("WIB", 7*60*60)
	}
	return location
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Paths.Root == "" {
		errs = append(errs, fmt.Errorf("paths.root is required"))
	}
	if c.Paths.Database == "" {
		errs = append(errs, fmt.Errorf("paths.database is required"))
	}

	if parsed, err := url.Parse(c.Connectivity.APIURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("connectivity.api_url must be an http or https URL, got %q", c.Connectivity.APIURL))
	}
	if timeout, err := time.ParseDuration(c.Connectivity.RequestTimeout); err != nil || timeout <= 0 {
		errs = append(errs, fmt.Errorf("connectivity.request_timeout must be a positive duration, got %q", c.Connectivity.RequestTimeout))
	}

	printerKinds := []string{"none", "network", "spool"}
	if !slices.Contains(printerKinds, c.Printer.Kind) {
		errs = append(errs, fmt.Errorf("printer.kind must be one of: %v", printerKinds))
	}
	if c.Printer.Kind == "network" && c.Printer.Address == "" {
		errs = append(errs, fmt.Errorf("printer.address is required for network printers"))
	}
	if c.Printer.Columns < 0 {
		errs = append(errs, fmt.Errorf("printer.columns must not be negative"))
	}
	if c.Printer.Timeout != "" {
		if timeout, err := time.ParseDuration(c.Printer.Timeout); err != nil || timeout <= 0 {
			errs = append(errs, fmt.Errorf("printer.timeout must be a positive duration, got %q", c.Printer.Timeout))
		}
	}

	if c.Export.Enabled && c.Paths.Exports == "" {
		errs = append(errs, fmt.Errorf("paths.exports is required when export is enabled"))
	}

	orders := []string{"id", "motor-first"}
	if !slices.Contains(orders, c.Ticket.VehicleOrder) {
		errs = append(errs, fmt.Errorf("ticket.vehicle_order must be one of: %v", orders))
	}
	if _, err := time.LoadLocation(c.Ticket.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("ticket.time_zone: %w", err))
	}

	compressions := []string{"zstd", "lz4", "none"}
	if !slices.Contains(compressions, c.Journal.Compression) {
		errs = append(errs, fmt.Errorf("journal.compression must be one of: %v", compressions))
	}

	if c.Session.SealToken && c.Paths.Identity == "" {
		errs = append(errs, fmt.Errorf("paths.identity is required when session.seal_token is set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the data and export directories.
func (c *Config) EnsurePaths() error {
	paths := []string{
		c.Paths.Root,
		filepath.Dir(c.Paths.Database),
	}
	if c.Export.Enabled {
		paths = append(paths, c.Paths.Exports)
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o700); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
