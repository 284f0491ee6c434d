// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package composite

import (
	"errors"
	"fmt"

	"github.com/omnipack/omnipack/lib/archive"
	"github.com/omnipack/omnipack/lib/manifest"
)

// Package is an opened composite archive.
type Package struct {
	archive  *archive.Archive
	manifest *manifest.Manifest
}

// Open opens the composite at path and decodes its manifest. The
// returned error wraps [ErrNotComposite] when the archive carries no
// manifest, and [manifest.ErrUnsupportedSchema] when the manifest is
// too new.
func Open(path string) (*Package, error) {
	opened, err := archive.Open(path)
	if err != nil {
		return nil, err
	}

	data, err := opened.ReadEntry(ManifestPath)
	if err != nil {
		opened.Close()
		if errors.Is(err, archive.ErrEntryNotFound) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotComposite)
		}
		return nil, fmt.Errorf("reading manifest of %s: %w", path, err)
	}
	decoded, err := manifest.Unmarshal(data)
	if err != nil {
		opened.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Package{archive: opened, manifest: decoded}, nil
}

// IsComposite reports whether the opened archive carries a fragment
// manifest.
func IsComposite(opened *archive.Archive) bool {
	_, ok := opened.Lookup(ManifestPath)
	return ok
}

// Path returns the filesystem path of the composite.
func (p *Package) Path() string {
	return p.archive.Path()
}

// Manifest returns the decoded manifest.
func (p *Package) Manifest() *manifest.Manifest {
	return p.manifest
}

// Has reports whether the composite has an entry named name.
func (p *Package) Has(name string) bool {
	_, ok := p.archive.Lookup(name)
	return ok
}

// Entry returns the entry named name, or an error wrapping
// [ErrEntryNotFound].
func (p *Package) Entry(name string) (*archive.Entry, error) {
	entry, ok := p.archive.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", name, p.archive.Name(), ErrEntryNotFound)
	}
	return entry, nil
}

// ReadEntry returns the decompressed content of the entry named name.
func (p *Package) ReadEntry(name string) ([]byte, error) {
	entry, err := p.Entry(name)
	if err != nil {
		return nil, err
	}
	return entry.ReadAll()
}

// Entries returns every entry of the composite in archive order.
func (p *Package) Entries() []*archive.Entry {
	return p.archive.Entries()
}

// Close closes the underlying archive.
func (p *Package) Close() error {
	return p.archive.Close()
}
