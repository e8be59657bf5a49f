// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"fmt"
	"net/url"
	"strings"
)

// ConnectivitySettingsVersion is the current schema version of
// ConnectivitySettings.
const ConnectivitySettingsVersion = 1

// ConnectivityKey is the storage key of the connectivity aggregate.
const ConnectivityKey = "api_url"

// ConnectivitySettings holds the operator's API endpoint override.
type ConnectivitySettings struct {
	Version int `json:"version"`

	// APIBaseURL overrides the configured default when non-empty. It
	// never carries a trailing slash.
	APIBaseURL string `json:"apiBaseUrl,omitempty"`
}

// NormalizeBaseURL trims whitespace and trailing slashes. The empty
// string stays empty and means "use the default".
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// Validate accepts an empty override or an absolute http(s) URL.
func (c ConnectivitySettings) Validate() error {
	if c.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", c.Version)
	}
	if c.APIBaseURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("apiBaseUrl: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("apiBaseUrl must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("apiBaseUrl %q has no host", c.APIBaseURL)
	}
	return nil
}

// CanModify reports whether this build may overwrite the record.
func (c ConnectivitySettings) CanModify() error {
	if c.Version > ConnectivitySettingsVersion {
		return fmt.Errorf(
			"connectivity settings version %d exceeds supported version %d: "+
				"upgrade before modifying the API URL",
			c.Version, ConnectivitySettingsVersion,
		)
	}
	return nil
}

// Resolve returns the override when set, otherwise fallback, without a
// trailing slash in either case.
func (c ConnectivitySettings) Resolve(fallback string) string {
	if override := NormalizeBaseURL(c.APIBaseURL); override != "" {
		return override
	}
	return NormalizeBaseURL(fallback)
}
