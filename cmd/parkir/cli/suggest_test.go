// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"park", "park", 0},
		{"park", "pakr", 2},
		{"kitten", "sitting", 3},
		{"printer", "pirnter", 2},
		{"journal", "jurnal", 1},
	}
	for _, test := range tests {
		t.Run(test.a+"/"+test.b, func(t *testing.T) {
			if got := levenshtein(test.a, test.b); got != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
			}
			if got := levenshtein(test.b, test.a); got != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.b, test.a, got, test.want)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "login"}, {Name: "logout"}, {Name: "settings"}}
	tests := []struct {
		input, want string
	}{
		{"setings", "settings"},
		{"logot", "logout"},
		{"zzz", ""},
	}
	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("park", pflag.ContinueOnError)
	flagSet.StringP("plate", "p", "", "")
	flagSet.Bool("json", false, "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--palte=B1"}, "--plate"},
		{[]string{"motor", "--jsn"}, "--json"},
		{[]string{"-p", "B1", "--zzzzzzzz"}, ""},
		{[]string{"--", "--palte"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
