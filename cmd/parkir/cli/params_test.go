// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlagsTypesAndDefaults(t *testing.T) {
	type params struct {
		Plate    string        `flag:"plate,p" desc:"license plate"`
		Clear    bool          `flag:"clear" default:"true"`
		Limit    int           `flag:"limit,n" default:"20"`
		Timeout  time.Duration `flag:"timeout" default:"15s"`
		Untagged string
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if !p.Clear || p.Limit != 20 || p.Timeout != 15*time.Second {
		t.Errorf("defaults not applied: %+v", p)
	}
	if flagSet.Lookup("untagged") != nil || flagSet.Lookup("Untagged") != nil {
		t.Error("untagged field was bound")
	}
	if usage := flagSet.Lookup("plate").Usage; usage != "license plate" {
		t.Errorf("plate usage = %q", usage)
	}

	err := flagSet.Parse([]string{"-p", "B 1", "--clear=false", "-n", "5", "--timeout", "2s"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Plate != "B 1" || p.Clear || p.Limit != 5 || p.Timeout != 2*time.Second {
		t.Errorf("parsed = %+v", p)
	}
}

type Connection struct {
	Config  string        `flag:"config"`
	Timeout time.Duration `flag:"timeout"`
}

func TestBindFlagsEmbedding(t *testing.T) {
	var p struct {
		Connection
		JSONOutput
		Limit int `flag:"limit"`
	}
	flagSet := FlagsFromParams("journal", &p)
	err := flagSet.Parse([]string{"--config", "/etc/parkir.yaml", "--timeout", "3s", "--json", "--limit", "5", "rest"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Config != "/etc/parkir.yaml" || p.Timeout != 3*time.Second || !p.OutputJSON || p.Limit != 5 {
		t.Errorf("params = %+v", p)
	}
	if args := flagSet.Args(); len(args) != 1 || args[0] != "rest" {
		t.Errorf("Args = %v", args)
	}
}

type hidden struct {
	Value string `flag:"value"`
}

func TestBindFlagsErrors(t *testing.T) {
	tests := []struct {
		name   string
		params any
	}{
		{"not a pointer", struct{}{}},
		{"not a struct", new(int)},
		{"bad int default", &struct {
			Count int `flag:"count" default:"many"`
		}{}},
		{"bad duration default", &struct {
			Timeout time.Duration `flag:"timeout" default:"soon"`
		}{}},
		{"unexported embedded struct", &struct {
			hidden
		}{}},
		{"unsupported type", &struct {
			Share []string `flag:"share"`
		}{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := BindFlags(test.params, pflag.NewFlagSet("x", pflag.ContinueOnError)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestFlagsFromParamsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	FlagsFromParams("bad", 42)
}
