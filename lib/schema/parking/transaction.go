// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package parking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/guregu/null.v4"
)

// ParkingTransaction is the one-shot request body for POST /parking.
// Construct it with NewParkingTransaction so the plate is normalized.
type ParkingTransaction struct {
	VehicleTypeID int64  `json:"vehicle_type_id"`
	LicensePlate  string `json:"license_plate,omitempty"`
}

// NewParkingTransaction trims the plate. A plate that is empty after
// trimming is left out of the request body entirely.
func NewParkingTransaction(vehicleTypeID int64, licensePlate string) ParkingTransaction {
	return ParkingTransaction{
		VehicleTypeID: vehicleTypeID,
		LicensePlate:  strings.TrimSpace(licensePlate),
	}
}

// Validate checks the request before it is sent. Returns a map of
// field name to message so callers can report every problem at once.
func (p ParkingTransaction) Validate() map[string]string {
	problems := map[string]string{}
	if p.VehicleTypeID <= 0 {
		problems["vehicle_type_id"] = "Pilih jenis kendaraan terlebih dahulu."
	}
	if len([]rune(p.LicensePlate)) > 20 {
		problems["license_plate"] = "Nomor plat maksimal 20 karakter."
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// TransactionRecord is the server's response to a created transaction.
// Deployments disagree on which field carries the ticket number, so
// all three known spellings are accepted.
type TransactionRecord struct {
	ID                null.Int     `json:"id"`
	TicketNumber      TextOrNumber `json:"ticket_number,omitempty"`
	NoTiket           TextOrNumber `json:"no_tiket,omitempty"`
	TransactionNumber TextOrNumber `json:"transaction_number,omitempty"`
	VehicleTypeID     null.Int     `json:"vehicle_type_id"`
	LicensePlate      null.String  `json:"license_plate"`
	CreatedAt         null.String  `json:"created_at"`
}

// ExplicitTicketNumber returns the first non-empty server-provided
// number in the order ticket_number, no_tiket, transaction_number.
// Returns "" when none is set; the renderer then derives one.
func (r *TransactionRecord) ExplicitTicketNumber() string {
	for _, candidate := range []TextOrNumber{r.TicketNumber, r.NoTiket, r.TransactionNumber} {
		if value := strings.TrimSpace(string(candidate)); value != "" {
			return value
		}
	}
	return ""
}

// TextOrNumber decodes a JSON string, number or null into its textual
// form. Numbers keep their literal spelling (no float rounding).
type TextOrNumber string

// UnmarshalJSON implements json.Unmarshaler.
func (t *TextOrNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TextOrNumber(s)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*t = TextOrNumber(number.String())
	return nil
}
