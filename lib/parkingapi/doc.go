// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package parkingapi is the client for the parking REST API.
//
// The client is stateless apart from its configuration. Every call
// reads the base URL and the stored credential fresh, so a settings
// save or a logout in another part of the program takes effect on the
// next request without coordination.
//
// All failures are *failure.Error values. A 401 on an authenticated
// call clears the stored credential exactly once and returns
// SessionExpired; a 401 on login returns Auth and stores nothing.
//
//	client, err := parkingapi.NewClient(parkingapi.ClientConfig{
//	    Endpoint: parkingapi.StaticEndpoint("http://localhost:8080/api/v1"),
//	    Sessions: sessionStore,
//	})
//	profile, err := client.Login(ctx, "petugas@mall.id", password)
//	types, err := client.VehicleTypes(ctx)
package parkingapi
