// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kioskui

import (
	"testing"

	"github.com/bureau-foundation/parkir/lib/schema/parking"
)

func catalog() []parking.VehicleType {
	return []parking.VehicleType{
		{ID: 1, Name: "Motor", FlatRate: 2000},
		{ID: 2, Name: "Mobil", FlatRate: 5000},
		{ID: 3, Name: "Truk", FlatRate: 10000},
		{ID: 4, Name: "Sepeda Motor Listrik", FlatRate: 1000},
	}
}

func names(matches []Match) map[string]bool {
	set := map[string]bool{}
	for _, match := range matches {
		set[match.VehicleType.Name] = true
	}
	return set
}

func TestFilter(t *testing.T) {
	matcher := NewMatcher()

	all := matcher.Filter(catalog(), "  ")
	if len(all) != 4 || all[0].VehicleType.ID != 1 || all[3].VehicleType.ID != 4 {
		t.Errorf("empty query should keep catalog order, got %+v", all)
	}

	got := names(matcher.Filter(catalog(), "mtr"))
	if len(got) != 2 || !got["Motor"] || !got["Sepeda Motor Listrik"] {
		t.Errorf("mtr matched %v", got)
	}

	if got := matcher.Filter(catalog(), "BIL"); len(got) != 1 || got[0].VehicleType.Name != "Mobil" {
		t.Errorf("case-insensitive match failed: %+v", got)
	}

	if got := matcher.Filter(catalog(), "xyz"); len(got) != 0 {
		t.Errorf("xyz matched %+v", got)
	}
}

func TestResolve(t *testing.T) {
	matcher := NewMatcher()
	tests := []struct {
		query string
		id    int64
		ok    bool
	}{
		{"motor", 1, true},
		{" TRUK ", 3, true},
		{"trk", 3, true},
		{"listrik", 4, true},
		{"", 0, false},
		{"pesawat", 0, false},
	}
	for _, test := range tests {
		t.Run(test.query, func(t *testing.T) {
			vehicleType, ok := matcher.Resolve(catalog(), test.query)
			if ok != test.ok || vehicleType.ID != test.id {
				t.Errorf("Resolve(%q) = %d, %v; want %d, %v", test.query, vehicleType.ID, ok, test.id, test.ok)
			}
		})
	}
}
