// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package failure

import (
	"errors"
	"strings"
)

// Action is the next step offered to the operator.
type Action string

const (
	ActionRetry          Action = "retry"
	ActionLogin          Action = "login"
	ActionFixInput       Action = "fix_input"
	ActionWaitRetry      Action = "wait_retry"
	ActionRecordManually Action = "record_manually"
	ActionContactSupport Action = "contact_support"
)

// OperatorNotice is what the kiosk shows for a failure: a title, a
// sentence in Indonesian, and the next action. It never contains status
// codes or raw error text.
type OperatorNotice struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  Action `json:"action"`
}

// ActionLabel returns the button or hint text for the action.
func (n OperatorNotice) ActionLabel() string {
	switch n.Action {
	case ActionRetry:
		return "Coba Lagi"
	case ActionLogin:
		return "Login Ulang"
	case ActionFixInput:
		return "Perbaiki Data"
	case ActionWaitRetry:
		return "Tunggu lalu Coba Lagi"
	case ActionRecordManually:
		return "Catat Manual"
	}
	return "Hubungi Admin"
}

// Notice maps err to operator copy. The mapping depends only on the
// Kind and the Op; message text is never inspected.
func Notice(err error) OperatorNotice {
	var classified *Error
	if !errors.As(err, &classified) {
		return OperatorNotice{
			Title:   "Terjadi Kesalahan",
			Message: "Terjadi kesalahan yang tidak terduga. Silakan coba lagi atau hubungi admin.",
			Action:  ActionContactSupport,
		}
	}

	op := classified.Op
	switch classified.Kind {
	case Validation:
		return OperatorNotice{Title: "Data Tidak Valid", Message: validationMessage(classified), Action: ActionFixInput}
	case Auth:
		return OperatorNotice{
			Title:   "Login Gagal",
			Message: "Email atau password salah. Silakan periksa kembali kredensial Anda.",
			Action:  ActionFixInput,
		}
	case SessionExpired:
		return OperatorNotice{
			Title:   "Sesi Berakhir",
			Message: "Sesi Anda telah berakhir. Silakan login kembali untuk melanjutkan.",
			Action:  ActionLogin,
		}
	case Network:
		return OperatorNotice{
			Title:   "Tidak Ada Koneksi",
			Message: "Tidak dapat terhubung ke server. Periksa koneksi internet Anda dan coba lagi.",
			Action:  ActionRetry,
		}
	case Timeout:
		return OperatorNotice{
			Title:   "Koneksi Terputus",
			Message: "Server tidak merespons tepat waktu. Periksa jaringan internet Anda dan coba lagi.",
			Action:  ActionRetry,
		}
	case Server:
		message := "Server sedang bermasalah. Silakan coba lagi nanti."
		switch op {
		case OpVehicleTypes:
			message = "Server sedang bermasalah. Jenis kendaraan tidak dapat dimuat saat ini."
		case OpCreateTransaction:
			message = "Server sedang bermasalah. Transaksi tidak dapat diproses saat ini."
		}
		return OperatorNotice{Title: "Gangguan Server", Message: message, Action: ActionRetry}
	case RateLimited:
		message := "Terlalu banyak permintaan. Harap tunggu sebentar sebelum mencoba lagi."
		if op == OpLogin {
			message = "Terlalu banyak percobaan login. Silakan coba lagi dalam beberapa menit."
		}
		return OperatorNotice{Title: "Terlalu Banyak Permintaan", Message: message, Action: ActionWaitRetry}
	case Forbidden:
		return OperatorNotice{
			Title:   "Akses Ditolak",
			Message: "Anda tidak memiliki akses untuk melakukan tindakan ini.",
			Action:  ActionContactSupport,
		}
	case NotFound:
		return OperatorNotice{
			Title:   "Data Tidak Ditemukan",
			Message: "Data yang diminta tidak ditemukan.",
			Action:  ActionFixInput,
		}
	case PrintFailure:
		return OperatorNotice{
			Title:   "Gagal Mencetak",
			Message: "Tiket tidak dapat dicetak atau disimpan. Catat data tiket secara manual.",
			Action:  ActionRecordManually,
		}
	case RenderPrecondition:
		return OperatorNotice{
			Title:   "Tiket Tidak Dapat Dibuat",
			Message: "Data transaksi atau jenis kendaraan tidak lengkap. Silakan coba lagi.",
			Action:  ActionRetry,
		}
	}
	return OperatorNotice{
		Title:   "Terjadi Kesalahan",
		Message: "Terjadi kesalahan yang tidak terduga. Silakan coba lagi atau hubungi admin.",
		Action:  ActionContactSupport,
	}
}

// Operation names used for notice selection.
const (
	OpLogin             = "login"
	OpLogout            = "logout"
	OpVehicleTypes      = "vehicle types"
	OpCreateTransaction = "create transaction"
)

func validationMessage(e *Error) string {
	if len(e.Fields) > 0 {
		var messages []string
		for _, name := range FieldNames(e.Fields) {
			messages = append(messages, e.Fields[name]...)
		}
		return "Data tidak valid: " + strings.Join(messages, ", ")
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Op == OpCreateTransaction {
		return "Data transaksi tidak valid. Periksa kembali jenis kendaraan dan plat nomor."
	}
	return "Data yang dikirim tidak valid. Periksa kembali form Anda."
}
