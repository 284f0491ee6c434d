// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// SupportedSchemaVersion is the highest manifest schema this build
// reads and the one it writes.
const SupportedSchemaVersion = 0

// ErrUnsupportedSchema is returned by [Decode] for a manifest whose
// schema version is newer than [SupportedSchemaVersion].
var ErrUnsupportedSchema = errors.New("unsupported manifest schema version")

// Fragment describes one archive stored inside a composite.
type Fragment struct {
	// Path is the fragment's entry name inside the composite.
	Path string `json:"path"`

	// Versions lists the game-version predicates of the variants that
	// contributed to this fragment, in input order.
	Versions []string `json:"versions"`

	// Loaders lists the loader identifiers the fragment applies to.
	Loaders []string `json:"loaders"`

	// IsPrimary marks fragments split from the variants themselves, as
	// opposed to nested payloads carried through from them.
	IsPrimary bool `json:"isPrimary"`
}

// Manifest is the ordered list of fragments in a composite.
type Manifest struct {
	SchemaVersion int        `json:"schemaVersion"`
	Fragments     []Fragment `json:"jars"`
}

// New returns an empty manifest at [SupportedSchemaVersion].
func New() *Manifest {
	return &Manifest{SchemaVersion: SupportedSchemaVersion, Fragments: []Fragment{}}
}

// Add appends fragment.
func (m *Manifest) Add(fragment Fragment) {
	m.Fragments = append(m.Fragments, fragment)
}

// Lookup returns the fragment stored at path.
func (m *Manifest) Lookup(path string) (Fragment, bool) {
	for _, fragment := range m.Fragments {
		if fragment.Path == path {
			return fragment, true
		}
	}
	return Fragment{}, false
}

// Primary returns the primary fragments in manifest order.
func (m *Manifest) Primary() []Fragment {
	var primary []Fragment
	for _, fragment := range m.Fragments {
		if fragment.IsPrimary {
			primary = append(primary, fragment)
		}
	}
	return primary
}

// Validate checks structural invariants: every fragment has a path,
// paths are unique, and every fragment names at least one version and
// one loader.
func (m *Manifest) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(m.Fragments))
	for index, fragment := range m.Fragments {
		if fragment.Path == "" {
			errs = append(errs, fmt.Errorf("jars[%d]: path is required", index))
			continue
		}
		if _, duplicate := seen[fragment.Path]; duplicate {
			errs = append(errs, fmt.Errorf("jars[%d]: duplicate path %q", index, fragment.Path))
		}
		seen[fragment.Path] = struct{}{}
		if len(fragment.Versions) == 0 {
			errs = append(errs, fmt.Errorf("jars[%d] (%s): at least one version is required", index, fragment.Path))
		}
		if len(fragment.Loaders) == 0 {
			errs = append(errs, fmt.Errorf("jars[%d] (%s): at least one loader is required", index, fragment.Path))
		}
	}
	return errors.Join(errs...)
}

// Marshal returns the indented JSON form of m, newline-terminated.
// Nil slices are written as empty arrays.
func Marshal(m *Manifest) ([]byte, error) {
	normalized := Manifest{
		SchemaVersion: m.SchemaVersion,
		Fragments:     make([]Fragment, len(m.Fragments)),
	}
	for index, fragment := range m.Fragments {
		if fragment.Versions == nil {
			fragment.Versions = []string{}
		}
		if fragment.Loaders == nil {
			fragment.Loaders = []string{}
		}
		normalized.Fragments[index] = fragment
	}
	data, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Encode writes the JSON form of m to w.
func Encode(w io.Writer, m *Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Decode reads a manifest from r. The schema version is checked before
// the fragment list is parsed.
func Decode(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal parses a manifest from data. See [Decode].
func Unmarshal(data []byte) (*Manifest, error) {
	var header struct {
		SchemaVersion *int            `json:"schemaVersion"`
		Fragments     json.RawMessage `json:"jars"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if header.SchemaVersion == nil {
		return nil, fmt.Errorf("parsing manifest: schemaVersion is required")
	}
	if *header.SchemaVersion > SupportedSchemaVersion {
		return nil, fmt.Errorf("%w: %d (this build reads up to %d)",
			ErrUnsupportedSchema, *header.SchemaVersion, SupportedSchemaVersion)
	}
	if *header.SchemaVersion < 0 {
		return nil, fmt.Errorf("parsing manifest: negative schemaVersion %d", *header.SchemaVersion)
	}

	m := &Manifest{SchemaVersion: *header.SchemaVersion, Fragments: []Fragment{}}
	if len(header.Fragments) > 0 && !bytes.Equal(bytes.TrimSpace(header.Fragments), []byte("null")) {
		if err := json.Unmarshal(header.Fragments, &m.Fragments); err != nil {
			return nil, fmt.Errorf("parsing manifest jars: %w", err)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return m, nil
}
