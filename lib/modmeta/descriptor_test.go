// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package modmeta

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

const sampleDescriptor = `{
  // comments are allowed
  "schemaVersion": 1,
  "id": "example",
  "version": "2.1.0",
  "name": "Example Mod",
  "icon": "assets/example/icon.png",
  "depends": {
    "minecraft": "~1.20.1",
    "fabricloader": [">=0.14", "<1.0"],
  },
  "jars": [{"file": "META-INF/jars/lib.jar"}],
}`

func TestParseDescriptor(t *testing.T) {
	descriptor, err := Parse(strings.NewReader(sampleDescriptor))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if descriptor.ID != "example" || descriptor.Version != "2.1.0" {
		t.Errorf("id/version = %q/%q", descriptor.ID, descriptor.Version)
	}
	if got := descriptor.Depends["minecraft"]; !slices.Equal(got, Predicates{"~1.20.1"}) {
		t.Errorf("depends.minecraft = %v", got)
	}
	if got := descriptor.Depends["fabricloader"]; !slices.Equal(got, Predicates{">=0.14", "<1.0"}) {
		t.Errorf("depends.fabricloader = %v", got)
	}
	if got := descriptor.NestedPaths(); !slices.Equal(got, []string{"META-INF/jars/lib.jar"}) {
		t.Errorf("NestedPaths() = %v", got)
	}
	if got := descriptor.IconPath(); got != "assets/example/icon.png" {
		t.Errorf("IconPath() = %q", got)
	}
	raw, ok := descriptor.Field("name")
	if !ok || string(raw) != `"Example Mod"` {
		t.Errorf("Field(name) = %s, %v", raw, ok)
	}
	if _, ok := descriptor.Field("contact"); ok {
		t.Error("Field(contact) should be absent")
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "this is not json"},
		{"bad predicate type", `{"id": "x", "depends": {"minecraft": 12}}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseBytes([]byte(test.input)); err == nil {
				t.Error("ParseBytes should fail")
			}
		})
	}
}

func TestGameVersionJoinsAlternatives(t *testing.T) {
	descriptor, err := ParseBytes([]byte(`{"id": "x", "depends": {"minecraft": ["1.20", "1.20.1"]}}`))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	got, err := descriptor.GameVersion("minecraft")
	if err != nil {
		t.Fatalf("GameVersion: %v", err)
	}
	if got != "1.20 || 1.20.1" {
		t.Errorf("GameVersion = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"complete", `{"id": "x", "depends": {"minecraft": "1.20"}}`, false},
		{"missing id", `{"depends": {"minecraft": "1.20"}}`, true},
		{"missing game dependency", `{"id": "x", "depends": {"fabricloader": "*"}}`, true},
		{"no depends at all", `{"id": "x"}`, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			descriptor, err := ParseBytes([]byte(test.input))
			if err != nil {
				t.Fatalf("ParseBytes: %v", err)
			}
			err = descriptor.Validate("minecraft")
			if test.wantErr {
				if !errors.Is(err, ErrMissingField) {
					t.Errorf("Validate error = %v, want ErrMissingField", err)
				}
			} else if err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestIconMapIsNotCarried(t *testing.T) {
	descriptor, err := ParseBytes([]byte(`{"id": "x", "icon": {"16": "a.png"}}`))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	if got := descriptor.IconPath(); got != "" {
		t.Errorf("IconPath() = %q, want empty", got)
	}
}
