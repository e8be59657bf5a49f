// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers for parkir
// binaries: fatal error reporting before the structured logger exists,
// and a root context cancelled by SIGINT or SIGTERM so in-flight
// requests and print jobs stop when the kiosk is shut down.
package process
