// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the parkir
// kiosk.
//
// Configuration comes from a single file named by either the
// PARKIR_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). A kiosk with no file at all runs on [Default]:
// the built-in API endpoint, a local data directory, and no native
// printer. There is no automatic file search.
//
// The file may contain environment-specific sections (development,
// production) that override base values when [Config].Environment
// matches. Production is stricter by default: the operator may not
// override the API server address and bearer tokens are sealed at
// rest.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${PARKIR_ROOT}, and ${VAR:-default} patterns are expanded.
// No other environment variables override config values.
//
// This package depends on no other parkir packages.
package config
