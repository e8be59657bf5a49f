// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/guregu/null.v4"
)

type storedRecord struct {
	Version int    `cbor:"version"`
	Company string `cbor:"company_name"`
	Footer  string `cbor:"footer,omitempty"`
	Toggle  bool   `cbor:"toggle"`
}

type dualRecord struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Price null.Int    `json:"price_per_hour"`
	Note  null.String `json:"description"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := storedRecord{Version: 1, Company: "MD MALL BLORA", Footer: "Terima kasih", Toggle: true}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded storedRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := Marshal(map[string]any{"b": 2, "a": 1, "c": "x"})
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(map[string]any{"c": "x", "a": 1, "b": 2})
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestJSONTagFallback(t *testing.T) {
	data, err := Marshal(dualRecord{ID: 2, Name: "Mobil"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diagnostic, `"name"`) {
		t.Errorf("expected json tag name in %s", diagnostic)
	}
}

func TestNullFieldsRoundtrip(t *testing.T) {
	original := dualRecord{ID: 1, Name: "Motor", Price: null.IntFrom(1000), Note: null.StringFrom("roda dua")}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded dualRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.Price.Valid || decoded.Price.Int64 != 1000 {
		t.Errorf("price: got %+v, want 1000", decoded.Price)
	}
	if decoded.Note.String != "roda dua" {
		t.Errorf("note: got %q, want %q", decoded.Note.String, "roda dua")
	}

	empty := dualRecord{ID: 3}
	data, err = Marshal(empty)
	if err != nil {
		t.Fatalf("Marshal empty: %v", err)
	}
	decoded = dualRecord{}
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal empty: %v", err)
	}
	if decoded.Price.Valid || decoded.Note.Valid {
		t.Errorf("expected null fields to stay null, got %+v", decoded)
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	data, err := Marshal(map[string]any{"version": 3, "company_name": "X", "added_later": true})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded storedRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Version != 3 || decoded.Company != "X" {
		t.Errorf("got %+v", decoded)
	}
}

func TestDecodeIntoAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"nested": map[string]any{"k": "v"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", decoded)
	}
	if _, ok := outer["nested"].(map[string]any); !ok {
		t.Errorf("expected nested map[string]any, got %T", outer["nested"])
	}
}
