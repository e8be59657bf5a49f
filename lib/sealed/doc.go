// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts the stored bearer token with age so a copy of
// the kiosk database alone does not grant API access.
//
// The kiosk keeps one x25519 identity in a key file (mode 0600) next to
// its database. [LoadOrCreateIdentity] reads it, generating it on first
// use. [Seal] encrypts to the identity's recipient and [Open] decrypts
// into a [secret.Buffer].
package sealed
