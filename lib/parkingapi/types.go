// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package parkingapi

import (
	"encoding/json"

	"github.com/bureau-foundation/parkir/lib/schema/parking"
)

// envelope is the response shape shared by every endpoint.
type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// loginData is the data member of a successful login response.
type loginData struct {
	Token string          `json:"token"`
	User  parking.Profile `json:"user"`
}
