// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagsFromParams returns a flag set bound to the tagged fields of
// params, which must point to a struct. A params struct that cannot be
// bound is a bug in the command, so this panics instead of returning an
// error.
//
// Commands keep their params in a closure variable and read them in Run:
//
//	var params parkParams
//	return &cli.Command{
//	    Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("park", &params) },
//	    Run:   func(ctx context.Context, args []string, logger *slog.Logger) error { ... },
//	}
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags adds a flag to flagSet for every field of *params carrying
// a flag tag:
//
//	Plate   string        `flag:"plate,p" desc:"license plate"`
//	Limit   int           `flag:"limit" default:"20"`
//	Timeout time.Duration `flag:"timeout"`
//
// The tag value is the long name, optionally followed by a comma and a
// one-letter shorthand. Field types are string, bool, int and
// time.Duration. Embedded structs (GlobalFlags, JSONOutput) contribute
// their own tagged fields.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	pointer := reflect.ValueOf(params)
	if pointer.Kind() != reflect.Pointer || pointer.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStruct(pointer.Elem(), flagSet)
}

func bindStruct(value reflect.Value, flagSet *pflag.FlagSet) error {
	for i := range value.NumField() {
		field := value.Type().Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			// reflect refuses Interface() on anything reached through
			// an unexported field.
			if !field.IsExported() {
				return fmt.Errorf("embedded %s must be exported", field.Name)
			}
			if err := bindStruct(value.Field(i), flagSet); err != nil {
				return fmt.Errorf("%s: %w", field.Name, err)
			}
			continue
		}
		tag, ok := field.Tag.Lookup("flag")
		if !ok {
			continue
		}
		if !field.IsExported() {
			return fmt.Errorf("field %s: flag fields must be exported", field.Name)
		}
		name, shorthand, _ := strings.Cut(tag, ",")
		parsed := flagTag{
			name:         name,
			shorthand:    shorthand,
			usage:        field.Tag.Get("desc"),
			defaultValue: field.Tag.Get("default"),
		}
		if err := parsed.bind(value.Field(i).Addr().Interface(), flagSet); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

// flagTag is one parsed struct tag set.
type flagTag struct {
	name         string
	shorthand    string
	usage        string
	defaultValue string
}

func (s flagTag) bind(target any, flagSet *pflag.FlagSet) error {
	switch target := target.(type) {
	case *string:
		flagSet.StringVarP(target, s.name, s.shorthand, s.defaultValue, s.usage)
	case *bool:
		value, err := parseDefault(s, strconv.ParseBool)
		if err != nil {
			return err
		}
		flagSet.BoolVarP(target, s.name, s.shorthand, value, s.usage)
	case *int:
		value, err := parseDefault(s, strconv.Atoi)
		if err != nil {
			return err
		}
		flagSet.IntVarP(target, s.name, s.shorthand, value, s.usage)
	case *time.Duration:
		value, err := parseDefault(s, time.ParseDuration)
		if err != nil {
			return err
		}
		flagSet.DurationVarP(target, s.name, s.shorthand, value, s.usage)
	default:
		return fmt.Errorf("--%s: unsupported type %T", s.name, target)
	}
	return nil
}

// parseDefault parses the default tag, or returns the zero value when
// there is none.
func parseDefault[T any](s flagTag, parse func(string) (T, error)) (T, error) {
	var zero T
	if s.defaultValue == "" {
		return zero, nil
	}
	value, err := parse(s.defaultValue)
	if err != nil {
		return zero, fmt.Errorf("default for --%s: %w", s.name, err)
	}
	return value, nil
}
