// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/parkir/lib/settings"
)

func renderDefault(t *testing.T, mutate func(*settings.TicketSettings)) *Document {
	t.Helper()
	s := settings.DefaultTicketSettings()
	if mutate != nil {
		mutate(&s)
	}
	doc, err := Render(Input{
		Transaction:  record(77),
		VehicleType:  motor(),
		LicensePlate: "B 1234 ABC",
		Settings:     s,
		Now:          issuedAt,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return doc
}

func TestPlainTextContainsEnabledSections(t *testing.T) {
	text := renderDefault(t, nil).PlainText(0)
	for _, want := range []string{
		"MD MALL BLORA",
		"TIKET PARKIR",
		"Jl. Raya Blora No. 123",
		"Telp: (0296) 123456",
		"No. Tiket: PKR000077",
		"Tanggal: 23/07/2025",
		"Waktu: 14.30",
		"Kendaraan: Motor",
		"Plat: B 1234 ABC",
		"Tarif: Rp 2.000",
		"Terima kasih",
		"23/07/2025, 14.30",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("plain text missing %q:\n%s", want, text)
		}
	}
}

func TestPlainTextUnwrappedKeepsLongValuesWhole(t *testing.T) {
	longAddress := "Jl. Raya Blora Kilometer Tujuh Nomor Seratus Dua Puluh Tiga, Kabupaten Blora"
	text := renderDefault(t, func(s *settings.TicketSettings) { s.Address = longAddress }).PlainText(0)
	if !strings.Contains(text, longAddress) {
		t.Errorf("unwrapped text split the address:\n%s", text)
	}
}

func TestPlainTextWidth(t *testing.T) {
	doc := renderDefault(t, func(s *settings.TicketSettings) {
		s.Address = "Jl. Raya Blora Kilometer Tujuh Nomor Seratus Dua Puluh Tiga"
	})
	text := doc.PlainText(32)
	for _, row := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if width := ansi.StringWidth(row); width > 32 {
			t.Errorf("row %q is %d columns wide", row, width)
		}
	}
	if !strings.Contains(text, "    MD MALL BLORA") {
		t.Errorf("expected centered company name:\n%s", text)
	}
	if !strings.Contains(text, strings.Repeat("-", 32)) {
		t.Errorf("expected a full-width separator:\n%s", text)
	}
}

func TestPlainTextOmitsDisabledSections(t *testing.T) {
	text := renderDefault(t, func(s *settings.TicketSettings) {
		s.ShowTariff = false
		s.ShowLicensePlate = false
	}).PlainText(0)
	for _, unwanted := range []string{"Tarif", "Plat"} {
		if strings.Contains(text, unwanted) {
			t.Errorf("plain text contains disabled section %q:\n%s", unwanted, text)
		}
	}
}
