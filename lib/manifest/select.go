// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrMalformedPredicate is returned by [Matcher.Match] for a version
	// predicate that is neither the target version nor a valid
	// predicate expression.
	ErrMalformedPredicate = errors.New("malformed version predicate")

	// ErrInvalidTarget is returned when a predicate needs a semantic
	// comparison but the target version does not parse as a version.
	ErrInvalidTarget = errors.New("invalid target version")
)

// Target identifies the running environment fragments are selected
// for.
type Target struct {
	Version string
	Loader  string
}

// Matcher tests version predicates against one target version. Parsed
// predicates are cached, so a Matcher should be reused across a
// manifest. It is not safe for concurrent use.
type Matcher struct {
	target     string
	version    *semver.Version
	versionErr error
	predicates map[string]predicate
}

// NewMatcher returns a Matcher for target. An unparseable target is
// reported only when a predicate needs it.
func NewMatcher(target string) *Matcher {
	version, err := semver.NewVersion(target)
	return &Matcher{
		target:     target,
		version:    version,
		versionErr: err,
		predicates: make(map[string]predicate),
	}
}

// Match reports whether the predicate text admits the target. Exact
// string equality always matches. A bare version is an equality test
// with missing components read as zero, so "1.20" admits 1.20.0 but
// not 1.20.1. The error wraps [ErrMalformedPredicate] or
// [ErrInvalidTarget].
func (m *Matcher) Match(text string) (bool, error) {
	if text == m.target {
		return true, nil
	}
	parsed, err := m.parse(text)
	if err != nil {
		return false, err
	}
	if parsed.matchesAnything() {
		return true, nil
	}
	if m.versionErr != nil {
		return false, fmt.Errorf("%w %q: %v", ErrInvalidTarget, m.target, m.versionErr)
	}
	return parsed.test(m.version), nil
}

func (m *Matcher) parse(text string) (predicate, error) {
	if parsed, ok := m.predicates[text]; ok {
		return parsed, nil
	}
	parsed, err := parsePredicate(text)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrMalformedPredicate, text, err)
	}
	m.predicates[text] = parsed
	return parsed, nil
}

// Select returns the fragments of m that apply to target, in manifest
// order. A fragment applies when its loaders include target.Loader and
// at least one of its version predicates matches target.Version.
//
// A malformed predicate is logged and treated as non-matching; the
// fragment's other predicates are still tried. An unparseable target
// version is an error once a predicate other than "*" has to be
// checked against it.
func Select(m *Manifest, target Target, logger *slog.Logger) ([]Fragment, error) {
	if target.Version == "" {
		return nil, fmt.Errorf("%w: version is empty", ErrInvalidTarget)
	}
	if target.Loader == "" {
		return nil, fmt.Errorf("selecting fragments: loader is empty")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	matcher := NewMatcher(target.Version)
	var selected []Fragment
	for _, fragment := range m.Fragments {
		if !slices.Contains(fragment.Loaders, target.Loader) {
			continue
		}
		matched, err := matchAny(matcher, fragment, logger)
		if err != nil {
			return nil, fmt.Errorf("selecting %s: %w", fragment.Path, err)
		}
		if matched {
			selected = append(selected, fragment)
		}
	}
	return selected, nil
}

func matchAny(matcher *Matcher, fragment Fragment, logger *slog.Logger) (bool, error) {
	for _, predicate := range fragment.Versions {
		ok, err := matcher.Match(predicate)
		if errors.Is(err, ErrMalformedPredicate) {
			logger.Warn("ignoring malformed version predicate",
				"fragment", fragment.Path,
				"predicate", predicate,
				"error", err,
			)
			continue
		}
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
