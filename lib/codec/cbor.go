// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode encodes with Core Deterministic Encoding (RFC 8949 §4.2).
// Identical records produce identical bytes, which keeps journal
// documents comparable and artifact IDs stable across reprints.
var encMode cbor.EncMode

// decMode ignores unknown fields so a record written by a newer build
// still decodes; the record's version field decides whether it may be
// overwritten.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// null.String, null.Int and friends carry their value behind
	// MarshalText. Encoding them as text keeps optional fields readable
	// in diagnostic dumps instead of collapsing to empty maps.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	// Ticket issue times keep their zone offset so a reprint shows the
	// same wall-clock time.
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Stored records never use non-string map keys, and callers that
		// decode into any expect map[string]any like encoding/json gives.
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// RawMessage is a raw encoded CBOR value, used to defer decoding of a
// stored record until its version has been checked.
type RawMessage = cbor.RawMessage

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for data.
// The settings show command uses it with --raw to display exactly what
// is on disk.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
