// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bureau-foundation/parkir/lib/kvstore"
	"github.com/bureau-foundation/parkir/lib/testutil"
)

func newTestStore(t *testing.T) (*Store, *kvstore.Store) {
	t.Helper()
	kv := kvstore.New(testutil.Database(t, kvstore.Schema), nil, nil)
	return NewStore(kv, nil), kv
}

func TestTicketDefaultsWhenNothingStored(t *testing.T) {
	store, _ := newTestStore(t)
	got := store.Ticket(context.Background())
	if got != DefaultTicketSettings() {
		t.Errorf("got %+v, want defaults", got)
	}
}

func TestSaveTicketRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	value := DefaultTicketSettings()
	value.CompanyName = "PARKIR PASAR"
	value.ShowTariff = false
	if err := store.SaveTicket(ctx, value); err != nil {
		t.Fatalf("SaveTicket: %v", err)
	}
	got := store.Ticket(ctx)
	if got.CompanyName != "PARKIR PASAR" || got.ShowTariff {
		t.Errorf("got %+v", got)
	}
	if !got.ShowDateTime {
		t.Error("expected untouched toggle to stay true")
	}
}

func TestTicketShallowMergeOverDefaults(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	// A record from a build that only knew about the company name.
	if err := kv.Set(ctx, TicketKey, map[string]any{"version": 1, "companyName": "LAMA"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got := store.Ticket(ctx)
	if got.CompanyName != "LAMA" {
		t.Errorf("companyName: got %q, want %q", got.CompanyName, "LAMA")
	}
	if got.Address != DefaultTicketSettings().Address {
		t.Errorf("address: got %q, want default", got.Address)
	}
	if !got.ShowTicketNumber {
		t.Error("expected missing toggle to take its default")
	}
}

func TestSaveTicketRejectsNewerRecord(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	if err := kv.Set(ctx, TicketKey, map[string]any{"version": TicketSettingsVersion + 1, "companyName": "BARU"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	err := store.SaveTicket(ctx, DefaultTicketSettings())
	if err == nil || !strings.Contains(err.Error(), "exceeds supported version") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestSaveTicketValidates(t *testing.T) {
	store, _ := newTestStore(t)
	value := DefaultTicketSettings()
	value.CompanyName = strings.Repeat("X", 51)
	value.FooterMessage2 = strings.Repeat("y", 51)
	err := store.SaveTicket(context.Background(), value)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{"companyName", "footerMessage2"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected %s in error %q", field, err)
		}
	}
}

func TestResetTicketRestoresDefaults(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	value := DefaultTicketSettings()
	value.Phone = "Telp: 1"
	if err := store.SaveTicket(ctx, value); err != nil {
		t.Fatalf("SaveTicket: %v", err)
	}
	if err := store.ResetTicket(ctx); err != nil {
		t.Fatalf("ResetTicket: %v", err)
	}
	if got := store.Ticket(ctx); got.Phone != DefaultTicketSettings().Phone {
		t.Errorf("got phone %q after reset", got.Phone)
	}
}

func TestConnectivityIndependentOfTicket(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveConnectivity(ctx, ConnectivitySettings{APIBaseURL: " https://api.example.id/v1/ "}); err != nil {
		t.Fatalf("SaveConnectivity: %v", err)
	}
	if err := store.ResetTicket(ctx); err != nil {
		t.Fatalf("ResetTicket: %v", err)
	}
	got := store.Connectivity(ctx)
	if got.APIBaseURL != "https://api.example.id/v1" {
		t.Errorf("got %q, want trailing slash removed", got.APIBaseURL)
	}

	if err := store.SaveConnectivity(ctx, ConnectivitySettings{}); err != nil {
		t.Fatalf("clearing override: %v", err)
	}
	if got := store.Connectivity(ctx).Resolve("http://default/api/"); got != "http://default/api" {
		t.Errorf("Resolve = %q", got)
	}
}

func TestSaveConnectivityRejectsBadURL(t *testing.T) {
	store, _ := newTestStore(t)
	for _, raw := range []string{"ftp://x", "not a url", "http://"} {
		if err := store.SaveConnectivity(context.Background(), ConnectivitySettings{APIBaseURL: raw}); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string, any) error { return errors.New("disk gone") }
func (failingBackend) Set(context.Context, string, any) error { return errors.New("disk gone") }
func (failingBackend) Delete(context.Context, string) error   { return errors.New("disk gone") }

func TestStorageFailureYieldsDefaults(t *testing.T) {
	store := NewStore(failingBackend{}, nil)
	if got := store.Ticket(context.Background()); got != DefaultTicketSettings() {
		t.Errorf("got %+v, want defaults", got)
	}
	if got := store.Connectivity(context.Background()); got.APIBaseURL != "" {
		t.Errorf("got override %q, want none", got.APIBaseURL)
	}
}

func TestSetField(t *testing.T) {
	value := DefaultTicketSettings()
	if err := value.SetField("showTariff", "tidak"); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if value.ShowTariff {
		t.Error("expected showTariff false")
	}
	if err := value.SetField("footerMessage3", ""); err != nil {
		t.Fatalf("SetField: %v", err)
	}
	if len(value.Footers()) != 2 {
		t.Errorf("expected 2 footers, got %v", value.Footers())
	}
	if err := value.SetField("colour", "red"); err == nil {
		t.Error("expected error for unknown field")
	}
	if err := value.SetField("showDateTime", "maybe"); err == nil {
		t.Error("expected error for non-boolean")
	}
}

func TestParseTicketSettingsJSONC(t *testing.T) {
	data := []byte(`{
		// exported from the old kiosk
		"companyName": "MALL BARU",
		"showTariff": false,
	}`)
	got, err := ParseTicketSettings(data)
	if err != nil {
		t.Fatalf("ParseTicketSettings: %v", err)
	}
	if got.CompanyName != "MALL BARU" || got.ShowTariff {
		t.Errorf("got %+v", got)
	}
	if got.FooterMessage1 != "Terima kasih" {
		t.Errorf("expected default footer, got %q", got.FooterMessage1)
	}
	if got.Version != TicketSettingsVersion {
		t.Errorf("version = %d, want %d", got.Version, TicketSettingsVersion)
	}
}
