// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mockapi is an in-memory parking transaction server speaking
// the same REST dialect as production: POST /login, POST /logout,
// GET /vehicle-types and POST /parking under a common prefix, every
// body wrapped in {success, data, message, errors}.
//
// Operators are stored with bcrypt password hashes and authenticate
// with HS256 JWT bearer tokens. A logout revokes the token's ID.
// Repeated failed logins for one email are answered with 429 until the
// window passes. It backs cmd/parkir-mockapi for local kiosk
// development and the end-to-end tests of the parkir commands.
package mockapi
