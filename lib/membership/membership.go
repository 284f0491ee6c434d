// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package membership implements the bit vector recording which input
// variants share one piece of content.
//
// A [Set] has a fixed length N (the number of input variants) and one
// bit per variant, indexed by input position. Its string form is one
// '0' or '1' per variant in input order; fragment archive names embed
// that string, so it must stay stable across releases.
package membership

import (
	"fmt"
	"math/bits"
	"strings"
)

const wordBits = 64

// Set is a fixed-length membership bit vector. The zero value is an
// empty set of length zero; use [New] or [Of].
type Set struct {
	size  int
	words []uint64
}

// New returns an empty set over size variants.
func New(size int) *Set {
	if size < 0 {
		panic(fmt.Sprintf("membership.New: negative size %d", size))
	}
	return &Set{
		size:  size,
		words: make([]uint64, (size+wordBits-1)/wordBits),
	}
}

// Of returns a set over size variants with the given members set.
func Of(size int, members ...int) *Set {
	set := New(size)
	for _, member := range members {
		set.Add(member)
	}
	return set
}

// Parse parses the '0'/'1' string form produced by [Set.String].
func Parse(bitString string) (*Set, error) {
	set := New(len(bitString))
	for index, character := range bitString {
		switch character {
		case '0':
		case '1':
			set.Add(index)
		default:
			return nil, fmt.Errorf("membership %q: invalid character %q at position %d", bitString, character, index)
		}
	}
	return set, nil
}

// Len returns the number of variants the set ranges over.
func (s *Set) Len() int {
	return s.size
}

// Add sets the bit for variant index. Panics if index is out of range.
func (s *Set) Add(index int) {
	s.checkIndex(index)
	s.words[index/wordBits] |= 1 << (uint(index) % wordBits)
}

// Has reports whether the bit for variant index is set.
func (s *Set) Has(index int) bool {
	if index < 0 || index >= s.size {
		return false
	}
	return s.words[index/wordBits]&(1<<(uint(index)%wordBits)) != 0
}

// Count returns the number of set bits.
func (s *Set) Count() int {
	count := 0
	for _, word := range s.words {
		count += bits.OnesCount64(word)
	}
	return count
}

// Empty reports whether no bit is set.
func (s *Set) Empty() bool {
	return s.Count() == 0
}

// Full reports whether every variant is a member. Content with a full
// membership applies to every version.
func (s *Set) Full() bool {
	return s.size > 0 && s.Count() == s.size
}

// Members returns the indices of the set bits in ascending order.
func (s *Set) Members() []int {
	members := make([]int, 0, s.Count())
	for index := range s.size {
		if s.Has(index) {
			members = append(members, index)
		}
	}
	return members
}

// Equal reports whether both sets have the same length and bits.
func (s *Set) Equal(other *Set) bool {
	if s.size != other.size {
		return false
	}
	for i := range s.words {
		if s.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	clone := &Set{size: s.size, words: make([]uint64, len(s.words))}
	copy(clone.words, s.words)
	return clone
}

// String returns one '0' or '1' per variant in input order, e.g.
// "101" for a set over three variants containing 0 and 2.
func (s *Set) String() string {
	var builder strings.Builder
	builder.Grow(s.size)
	for index := range s.size {
		if s.Has(index) {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}
	return builder.String()
}

func (s *Set) checkIndex(index int) {
	if index < 0 || index >= s.size {
		panic(fmt.Sprintf("membership: index %d out of range [0,%d)", index, s.size))
	}
}
