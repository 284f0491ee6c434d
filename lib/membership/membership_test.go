// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package membership

import (
	"slices"
	"strings"
	"testing"
)

func TestOfAndString(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		members []int
		want    string
	}{
		{"single first", 3, []int{0}, "100"},
		{"non-adjacent", 3, []int{0, 2}, "101"},
		{"full", 2, []int{0, 1}, "11"},
		{"empty", 4, nil, "0000"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			set := Of(test.size, test.members...)
			if got := set.String(); got != test.want {
				t.Errorf("String() = %q, want %q", got, test.want)
			}
			if got := set.Members(); !slices.Equal(got, test.members) {
				t.Errorf("Members() = %v, want %v", got, test.members)
			}
		})
	}
}

func TestFull(t *testing.T) {
	if !Of(3, 0, 1, 2).Full() {
		t.Error("set with every member should be full")
	}
	if Of(3, 0, 2).Full() {
		t.Error("set missing a member should not be full")
	}
	if New(0).Full() {
		t.Error("zero-length set should not be full")
	}
}

func TestWideSets(t *testing.T) {
	// Crosses the word boundary.
	set := Of(130, 0, 64, 129)
	if set.Count() != 3 {
		t.Errorf("Count() = %d, want 3", set.Count())
	}
	for _, index := range []int{0, 64, 129} {
		if !set.Has(index) {
			t.Errorf("Has(%d) = false", index)
		}
	}
	if set.Has(63) || set.Has(130) || set.Has(-1) {
		t.Error("Has reported a bit that was never set")
	}
	if got := set.String(); len(got) != 130 || strings.Count(got, "1") != 3 {
		t.Errorf("String() = %q", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	original := Of(5, 1, 3, 4)
	parsed, err := Parse(original.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !parsed.Equal(original) {
		t.Errorf("round trip = %s, want %s", parsed, original)
	}
	if _, err := Parse("10x"); err == nil {
		t.Error("Parse should reject characters other than 0 and 1")
	}
}

func TestEqualAndClone(t *testing.T) {
	set := Of(3, 1)
	clone := set.Clone()
	if !set.Equal(clone) {
		t.Fatal("clone differs from original")
	}
	clone.Add(2)
	if set.Has(2) {
		t.Error("mutating the clone changed the original")
	}
	if Of(3, 1).Equal(Of(4, 1)) {
		t.Error("sets of different length compared equal")
	}
}

func TestAddOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Add out of range should panic")
		}
	}()
	New(2).Add(2)
}
