// Copyright 2026 The Omnipack Authors
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
		{"build", "build", 0},
		{"biuld", "build", 2},
		{"inspct", "inspect", 1},
		{"kitten", "sitting", 3},
	}

	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "build"}, {Name: "inspect"}, {Name: "select"}, {Name: "load"}}

	tests := []struct {
		input string
		want  string
	}{
		{"biuld", "build"},
		{"selcet", "select"},
		{"lod", "load"},
		{"reconstitute", ""},
	}
	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.String("game-version", "", "")
	flagSet.String("work-dir", "", "")

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--game-verison", "1.20"}, "--game-version"},
		{[]string{"--work-dir", "x", "--wrok-dir=y"}, "--work-dir"},
		{[]string{"--something-else"}, ""},
		{[]string{"--", "--game-verison"}, ""},
	}
	for _, test := range tests {
		if got := suggestFlag(test.args, flagSet); got != test.want {
			t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
		}
	}
}
