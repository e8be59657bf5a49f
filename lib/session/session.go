// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session persists the operator's bearer token and cached
// profile.
//
// The presence of a stored token is the only signal of being logged in
// at startup; the profile is best-effort and may be missing while a
// token exists. When an age identity is configured the token is sealed
// at rest and only ever decrypted into a secret.Buffer.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/parkir/lib/kvstore"
	"github.com/bureau-foundation/parkir/lib/schema/parking"
	"github.com/bureau-foundation/parkir/lib/sealed"
	"github.com/bureau-foundation/parkir/lib/secret"
)

// Storage keys.
const (
	TokenKey   = "auth_token"
	ProfileKey = "user_data"
)

// RecordVersion is the schema version of both stored records.
const RecordVersion = 1

// ErrNoSession is returned by Token when no credential is stored.
var ErrNoSession = errors.New("session: no stored credential")

// Backend is the key/value persistence the store writes through.
type Backend interface {
	Get(ctx context.Context, key string, value any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

type tokenRecord struct {
	Version int    `cbor:"version"`
	Sealed  bool   `cbor:"sealed"`
	Token   []byte `cbor:"token"`
}

type profileRecord struct {
	Version int             `cbor:"version"`
	Profile parking.Profile `cbor:"profile"`
}

// Store reads and writes the session records.
type Store struct {
	backend  Backend
	identity *sealed.Identity
	logger   *slog.Logger
}

// Config configures a Store.
type Config struct {
	Backend Backend

	// Identity seals the token at rest. Nil stores it in the clear.
	Identity *sealed.Identity

	Logger *slog.Logger
}

// NewStore creates a Store.
func NewStore(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{backend: cfg.Backend, identity: cfg.Identity, logger: logger}
}

// Save stores a fresh credential and, when non-nil, the profile. The
// token buffer is borrowed, not closed.
func (s *Store) Save(ctx context.Context, token *secret.Buffer, profile *parking.Profile) error {
	record := tokenRecord{Version: RecordVersion}
	if s.identity != nil {
		ciphertext, err := sealed.Seal(token.Bytes(), s.identity.Recipient)
		if err != nil {
			return fmt.Errorf("sealing token: %w", err)
		}
		record.Sealed = true
		record.Token = ciphertext
	} else {
		record.Token = append([]byte(nil), token.Bytes()...)
		defer secret.Zero(record.Token)
	}

	if err := s.backend.Set(ctx, TokenKey, record); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	if profile == nil {
		return nil
	}
	if err := s.backend.Set(ctx, ProfileKey, profileRecord{Version: RecordVersion, Profile: *profile}); err != nil {
		// The token alone is a valid session.
		s.logger.Warn("caching operator profile failed", "error", err)
	}
	return nil
}

// Token returns the stored credential in a buffer the caller must
// close. Returns ErrNoSession when nothing is stored.
func (s *Store) Token(ctx context.Context) (*secret.Buffer, error) {
	var record tokenRecord
	if err := s.backend.Get(ctx, TokenKey, &record); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("loading token: %w", err)
	}
	if len(record.Token) == 0 {
		return nil, ErrNoSession
	}
	if !record.Sealed {
		return secret.NewFromBytes(record.Token)
	}
	if s.identity == nil {
		return nil, errors.New("stored token is sealed but no session key is configured")
	}
	return sealed.Open(record.Token, s.identity)
}

// HasToken reports whether a credential is stored. Storage errors count
// as "no".
func (s *Store) HasToken(ctx context.Context) bool {
	var record tokenRecord
	if err := s.backend.Get(ctx, TokenKey, &record); err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logger.Warn("checking stored token failed", "error", err)
		}
		return false
	}
	return len(record.Token) > 0
}

// Profile returns the cached operator profile, if any.
func (s *Store) Profile(ctx context.Context) (parking.Profile, bool) {
	var record profileRecord
	if err := s.backend.Get(ctx, ProfileKey, &record); err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logger.Warn("loading cached profile failed", "error", err)
		}
		return parking.Profile{}, false
	}
	return record.Profile, true
}

// Clear removes the token and profile. Both deletions are attempted
// even if the first fails.
func (s *Store) Clear(ctx context.Context) error {
	return errors.Join(
		s.backend.Delete(ctx, TokenKey),
		s.backend.Delete(ctx, ProfileKey),
	)
}
