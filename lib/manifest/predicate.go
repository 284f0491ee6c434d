// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// predicate is a parsed version predicate: a disjunction of
// conjunctions. "||" separates alternatives and whitespace separates
// the terms of one alternative.
type predicate [][]term

type operator int

const (
	opEqual operator = iota
	opGreaterEqual
	opLessEqual
	opGreater
	opLess
	opTilde
	opCaret
	opAny
	opWildcard
)

// term is one comparison against a reference version. For opWildcard
// only the leading fixed components are compared.
type term struct {
	op      operator
	version *semver.Version
	parts   int
	fixed   []uint64
}

var operators = []struct {
	prefix string
	op     operator
}{
	// Two-character prefixes first.
	{">=", opGreaterEqual},
	{"<=", opLessEqual},
	{">", opGreater},
	{"<", opLess},
	{"=", opEqual},
	{"~", opTilde},
	{"^", opCaret},
}

func parsePredicate(text string) (predicate, error) {
	var parsed predicate
	for alternative := range strings.SplitSeq(text, "||") {
		fields := strings.Fields(alternative)
		if len(fields) == 0 {
			return nil, fmt.Errorf("empty alternative")
		}
		terms := make([]term, 0, len(fields))
		for _, field := range fields {
			parsedTerm, err := parseTerm(field)
			if err != nil {
				return nil, err
			}
			terms = append(terms, parsedTerm)
		}
		parsed = append(parsed, terms)
	}
	return parsed, nil
}

func parseTerm(text string) (term, error) {
	op := opEqual
	hasOperator := false
	for _, candidate := range operators {
		if rest, ok := strings.CutPrefix(text, candidate.prefix); ok {
			op, text, hasOperator = candidate.op, rest, true
			break
		}
	}
	if text == "" {
		return term{}, fmt.Errorf("operator without version")
	}

	core, _, _ := strings.Cut(text, "+")
	core, _, _ = strings.Cut(core, "-")
	components := strings.Split(core, ".")

	wildcardAt := -1
	for i, component := range components {
		if isWildcard(component) {
			wildcardAt = i
			break
		}
	}
	if wildcardAt < 0 {
		version, err := semver.NewVersion(text)
		if err != nil {
			return term{}, fmt.Errorf("parsing %q: %v", text, err)
		}
		return term{op: op, version: version, parts: len(components)}, nil
	}

	if hasOperator && op != opEqual {
		return term{}, fmt.Errorf("wildcard %q combined with an operator", text)
	}
	if core != text {
		return term{}, fmt.Errorf("wildcard %q carries a prerelease or build suffix", text)
	}
	for _, component := range components[wildcardAt:] {
		if !isWildcard(component) {
			return term{}, fmt.Errorf("wildcard %q followed by a fixed component", text)
		}
	}
	if wildcardAt == 0 {
		return term{op: opAny}, nil
	}
	if wildcardAt > 3 {
		return term{}, fmt.Errorf("too many components in %q", text)
	}
	fixed := make([]uint64, wildcardAt)
	for i, component := range components[:wildcardAt] {
		value, err := strconv.ParseUint(component, 10, 64)
		if err != nil {
			return term{}, fmt.Errorf("component %q of %q is not a number", component, text)
		}
		fixed[i] = value
	}
	return term{op: opWildcard, fixed: fixed}, nil
}

func isWildcard(component string) bool {
	return component == "x" || component == "X" || component == "*"
}

// matchesAnything reports whether some alternative consists only of
// "*" terms, which hold without consulting the target.
func (p predicate) matchesAnything() bool {
	for _, terms := range p {
		all := true
		for _, t := range terms {
			if t.op != opAny {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func (p predicate) test(version *semver.Version) bool {
	for _, terms := range p {
		matched := true
		for _, t := range terms {
			if !t.test(version) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func (t term) test(version *semver.Version) bool {
	switch t.op {
	case opAny:
		return true
	case opWildcard:
		actual := []uint64{version.Major(), version.Minor(), version.Patch()}
		for i, value := range t.fixed {
			if actual[i] != value {
				return false
			}
		}
		return true
	case opEqual:
		return version.Compare(t.version) == 0
	case opGreaterEqual:
		return version.Compare(t.version) >= 0
	case opLessEqual:
		return version.Compare(t.version) <= 0
	case opGreater:
		return version.Compare(t.version) > 0
	case opLess:
		return version.Compare(t.version) < 0
	case opTilde:
		// ~1.20.1 stays within 1.20; ~1 stays within major 1.
		if version.Compare(t.version) < 0 || version.Major() != t.version.Major() {
			return false
		}
		return t.parts < 2 || version.Minor() == t.version.Minor()
	case opCaret:
		return version.Compare(t.version) >= 0 && version.Major() == t.version.Major()
	}
	return false
}
