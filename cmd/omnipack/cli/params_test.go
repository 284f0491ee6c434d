// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestBindFlags_BasicTypes(t *testing.T) {
	type params struct {
		Name     string   `flag:"name" desc:"the name"`
		Verbose  bool     `flag:"verbose,v" desc:"enable verbose output"`
		Count    int      `flag:"count" desc:"number of items"`
		Paths    []string `flag:"path" desc:"path list"`
		Untagged string
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	err := flagSet.Parse([]string{"--name", "alice", "-v", "--count", "42", "--path", "a", "--path", "b"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Name != "alice" {
		t.Errorf("Name = %q, want %q", p.Name, "alice")
	}
	if !p.Verbose {
		t.Error("Verbose = false, want true")
	}
	if p.Count != 42 {
		t.Errorf("Count = %d, want 42", p.Count)
	}
	if len(p.Paths) != 2 || p.Paths[0] != "a" || p.Paths[1] != "b" {
		t.Errorf("Paths = %v, want [a b]", p.Paths)
	}
	if flagSet.Lookup("untagged") != nil {
		t.Error("untagged field was bound")
	}
}

func TestBindFlags_Defaults(t *testing.T) {
	type params struct {
		Loader  string   `flag:"loader" default:"fabric"`
		Enabled bool     `flag:"enabled" default:"true"`
		Workers int      `flag:"workers" default:"4"`
		Tags    []string `flag:"tag" default:"a,b"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Loader != "fabric" || !p.Enabled || p.Workers != 4 {
		t.Errorf("defaults = %+v", p)
	}
	if len(p.Tags) != 2 {
		t.Errorf("Tags = %v, want [a b]", p.Tags)
	}
}

func TestBindFlags_EmbeddedStructRecursion(t *testing.T) {
	type params struct {
		JSONOutput
		Target string `flag:"target"`
	}

	var p params
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(&p, flagSet); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flagSet.Parse([]string{"--json", "--target", "x"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !p.OutputJSON {
		t.Error("OutputJSON = false, want true")
	}
	if p.Target != "x" {
		t.Errorf("Target = %q, want x", p.Target)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params any
		want   string
	}{
		{name: "not pointer", params: struct{}{}, want: "pointer to a struct"},
		{name: "not struct", params: new(int), want: "pointer to a struct"},
		{name: "bad default", params: &struct {
			Count int `flag:"count" default:"many"`
		}{}, want: "default for --count"},
		{name: "unsupported type", params: &struct {
			Rate float32 `flag:"rate"`
		}{}, want: "unsupported type"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := BindFlags(test.params, pflag.NewFlagSet("test", pflag.ContinueOnError))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error = %q, want it to contain %q", err, test.want)
			}
		})
	}
}

func TestFlagsFromParams_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid params")
		}
	}()
	FlagsFromParams("test", 42)
}
