// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/parkir/lib/kvstore"
	"github.com/bureau-foundation/parkir/lib/schema/parking"
	"github.com/bureau-foundation/parkir/lib/sealed"
	"github.com/bureau-foundation/parkir/lib/secret"
	"github.com/bureau-foundation/parkir/lib/testutil"
)

func newBackend(t *testing.T) *kvstore.Store {
	t.Helper()
	return kvstore.New(testutil.Database(t, kvstore.Schema), nil, nil)
}

func mustBuffer(t *testing.T, s string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromString(s)
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

func TestNoSessionByDefault(t *testing.T) {
	store := NewStore(Config{Backend: newBackend(t)})
	ctx := context.Background()

	if store.HasToken(ctx) {
		t.Error("expected no token")
	}
	if _, err := store.Token(ctx); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
	if _, ok := store.Profile(ctx); ok {
		t.Error("expected no profile")
	}
}

func TestSaveAndClear(t *testing.T) {
	store := NewStore(Config{Backend: newBackend(t)})
	ctx := context.Background()

	profile := &parking.Profile{ID: 7, Name: "Petugas", Email: "a@b.com"}
	if err := store.Save(ctx, mustBuffer(t, "tok-1"), profile); err != nil {
		t.Fatalf("Save: %v", err)
	}
	token, err := store.Token(ctx)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got := token.String(); got != "tok-1" {
		t.Errorf("token = %q, want %q", got, "tok-1")
	}
	token.Close()

	gotProfile, ok := store.Profile(ctx)
	if !ok || gotProfile != *profile {
		t.Errorf("profile = %+v (ok=%v), want %+v", gotProfile, ok, *profile)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.HasToken(ctx) {
		t.Error("expected token cleared")
	}
	if _, ok := store.Profile(ctx); ok {
		t.Error("expected profile cleared")
	}
}

func TestTokenWithoutProfileIsAuthenticated(t *testing.T) {
	store := NewStore(Config{Backend: newBackend(t)})
	ctx := context.Background()

	if err := store.Save(ctx, mustBuffer(t, "tok-2"), nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !store.HasToken(ctx) {
		t.Error("expected token present")
	}
	if _, ok := store.Profile(ctx); ok {
		t.Error("expected profile absent")
	}
}

func TestSealedTokenAtRest(t *testing.T) {
	backend := newBackend(t)
	identity, err := sealed.LoadOrCreateIdentity(filepath.Join(t.TempDir(), "session.key"))
	if err != nil {
		t.Fatalf("LoadOrCreateIdentity: %v", err)
	}
	defer identity.Close()

	store := NewStore(Config{Backend: backend, Identity: identity})
	ctx := context.Background()
	if err := store.Save(ctx, mustBuffer(t, "very-secret-token"), nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := backend.GetRaw(ctx, TokenKey)
	if err != nil {
		t.Fatalf("GetRaw: %v", err)
	}
	if bytes.Contains(raw, []byte("very-secret-token")) {
		t.Fatal("stored record contains the plaintext token")
	}

	token, err := store.Token(ctx)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	defer token.Close()
	if got := token.String(); got != "very-secret-token" {
		t.Errorf("got %q", got)
	}

	unsealedReader := NewStore(Config{Backend: backend})
	if _, err := unsealedReader.Token(ctx); err == nil {
		t.Error("expected error reading a sealed token without a key")
	}
}
