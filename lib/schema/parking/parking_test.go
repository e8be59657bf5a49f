// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package parking

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewParkingTransactionTrimsPlate(t *testing.T) {
	tests := []struct {
		name  string
		plate string
		want  string
	}{
		{"plain", "B 1234 ABC", "B 1234 ABC"},
		{"padded", "  B 1234 ABC \t", "B 1234 ABC"},
		{"blank", "   ", ""},
		{"empty", "", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := NewParkingTransaction(2, test.plate)
			if got.LicensePlate != test.want {
				t.Errorf("got %q, want %q", got.LicensePlate, test.want)
			}
		})
	}
}

func TestParkingTransactionOmitsEmptyPlate(t *testing.T) {
	data, err := json.Marshal(NewParkingTransaction(2, "  "))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "license_plate") {
		t.Errorf("expected license_plate to be omitted, got %s", data)
	}

	data, err = json.Marshal(NewParkingTransaction(2, "B 1234 ABC"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"vehicle_type_id":2,"license_plate":"B 1234 ABC"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestParkingTransactionValidate(t *testing.T) {
	if problems := NewParkingTransaction(0, "").Validate(); problems["vehicle_type_id"] == "" {
		t.Errorf("expected vehicle_type_id problem, got %v", problems)
	}
	if problems := NewParkingTransaction(1, "B 1 A").Validate(); problems != nil {
		t.Errorf("expected no problems, got %v", problems)
	}
}

func TestExplicitTicketNumberPrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"ticket_number wins", `{"id":1,"ticket_number":"T-1","no_tiket":"N-1","transaction_number":"X-1"}`, "T-1"},
		{"no_tiket second", `{"id":1,"no_tiket":"N-1","transaction_number":"X-1"}`, "N-1"},
		{"transaction_number last", `{"id":1,"transaction_number":"X-1"}`, "X-1"},
		{"empty string skipped", `{"id":1,"ticket_number":"","no_tiket":"N-1"}`, "N-1"},
		{"numeric value", `{"id":1,"no_tiket":123456}`, "123456"},
		{"null skipped", `{"id":1,"ticket_number":null,"transaction_number":"X-9"}`, "X-9"},
		{"none", `{"id":77}`, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var record TransactionRecord
			if err := json.Unmarshal([]byte(test.body), &record); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got := record.ExplicitTicketNumber(); got != test.want {
				t.Errorf("got %q, want %q", got, test.want)
			}
		})
	}
}

func TestTransactionRecordMissingID(t *testing.T) {
	var record TransactionRecord
	if err := json.Unmarshal([]byte(`{"created_at":"2025-07-23T14:30:00Z"}`), &record); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if record.ID.Valid {
		t.Errorf("expected ID to be null, got %d", record.ID.Int64)
	}
}

func TestTextOrNumberRejectsObjects(t *testing.T) {
	var value TextOrNumber
	if err := json.Unmarshal([]byte(`{"a":1}`), &value); err == nil {
		t.Fatal("expected error for object input")
	}
}

func TestOrderingSort(t *testing.T) {
	catalog := func() []VehicleType {
		return []VehicleType{
			{ID: 3, Name: "Truk"},
			{ID: 1, Name: "Mobil"},
			{ID: 4, Name: "motor listrik"},
			{ID: 2, Name: "Motor"},
		}
	}

	byID := catalog()
	OrderByID.Sort(byID)
	for i, want := range []int64{1, 2, 3, 4} {
		if byID[i].ID != want {
			t.Errorf("OrderByID[%d] = %d, want %d", i, byID[i].ID, want)
		}
	}

	motorFirst := catalog()
	OrderMotorFirst.Sort(motorFirst)
	for i, want := range []string{"Motor", "motor listrik", "Mobil", "Truk"} {
		if motorFirst[i].Name != want {
			t.Errorf("OrderMotorFirst[%d] = %q, want %q", i, motorFirst[i].Name, want)
		}
	}
}

func TestParseOrdering(t *testing.T) {
	for input, want := range map[string]Ordering{"": OrderByID, "id": OrderByID, "motor-first": OrderMotorFirst} {
		got, err := ParseOrdering(input)
		if err != nil {
			t.Fatalf("ParseOrdering(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("ParseOrdering(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := ParseOrdering("price"); err == nil {
		t.Error("expected error for unknown ordering")
	}
}

func TestVehicleTypeValidate(t *testing.T) {
	if err := (VehicleType{ID: 1, Name: "Motor", FlatRate: 2000}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (VehicleType{ID: 1, Name: "Motor", FlatRate: -1}).Validate(); err == nil {
		t.Error("expected error for negative flat rate")
	}
	if err := (VehicleType{ID: 0, Name: "Motor"}).Validate(); err == nil {
		t.Error("expected error for zero id")
	}
}

func TestVehicleTypeOptionalFields(t *testing.T) {
	var vehicleType VehicleType
	if err := json.Unmarshal([]byte(`{"id":2,"name":"Mobil","flat_rate":5000}`), &vehicleType); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if vehicleType.PricePerHour.Valid || vehicleType.Description.Valid {
		t.Errorf("expected optional fields to be null, got %+v", vehicleType)
	}
}

func TestCredentialsValidate(t *testing.T) {
	tests := []struct {
		name        string
		credentials Credentials
		fields      []string
	}{
		{"valid", Credentials{Email: "a@b.com", Password: "x"}, nil},
		{"missing both", Credentials{}, []string{"email", "password"}},
		{"bad email", Credentials{Email: "not-an-email", Password: "x"}, []string{"email"}},
		{"blank password", Credentials{Email: "a@b.com", Password: "   "}, []string{"password"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			problems := test.credentials.Validate()
			if len(problems) != len(test.fields) {
				t.Fatalf("got problems %v, want fields %v", problems, test.fields)
			}
			for _, field := range test.fields {
				if problems[field] == "" {
					t.Errorf("expected problem for %q", field)
				}
			}
		})
	}
}
