// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gate

import (
	"fmt"

	"github.com/bureau-foundation/parkir/lib/failure"
	"github.com/bureau-foundation/parkir/lib/output"
)

// Announcement is the success notice for a receipt. For a text
// fallback the ticket text is included and the next action is to
// record it by hand.
func Announcement(receipt *Receipt) failure.OperatorNotice {
	number := receipt.Document.TicketNumber
	switch receipt.Result.Outcome {
	case output.Printed:
		return failure.OperatorNotice{
			Title: "✅ Transaksi & Tiket Berhasil",
			Message: fmt.Sprintf("Transaksi parkir berhasil dibuat!\n\nTiket dengan nomor %s telah berhasil dicetak dengan format optimal untuk thermal printer 58mm.",
				number),
		}
	case output.Exported:
		return failure.OperatorNotice{
			Title: "✅ Transaksi Berhasil & PDF Dibuat",
			Message: fmt.Sprintf("Transaksi parkir berhasil dibuat!\n\nTiket dengan nomor %s telah dibuat sebagai PDF di %s. Anda dapat mencetak atau menyimpannya.",
				number, receipt.Result.Detail),
		}
	default:
		return failure.OperatorNotice{
			Title:   "✅ Transaksi Berhasil",
			Message: "Berikut data tiket untuk dicatat:\n\n" + receipt.Result.Detail,
			Action:  failure.ActionRecordManually,
		}
	}
}
