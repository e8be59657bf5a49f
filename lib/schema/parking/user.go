// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package parking

import (
	"regexp"
	"strings"
)

// Profile is the operator record returned at login.
type Profile struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Credentials is the POST /login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the credentials before any request is made. Messages
// are operator-facing.
func (c Credentials) Validate() map[string]string {
	problems := map[string]string{}
	email := strings.TrimSpace(c.Email)
	switch {
	case email == "":
		problems["email"] = "Email wajib diisi."
	case !emailPattern.MatchString(email):
		problems["email"] = "Format email tidak valid."
	}
	if strings.TrimSpace(c.Password) == "" {
		problems["password"] = "Password wajib diisi."
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}
