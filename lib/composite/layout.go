// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package composite

import (
	"errors"
	"path"
	"strings"
)

// Fixed entry names inside a composite.
const (
	BootstrapManifestPath = "META-INF/MANIFEST.MF"
	InfoPath              = "OMNIPACK-INFO.txt"
	ManifestPath          = "omnipack.json"
	LoaderPayloadPath     = "META-INF/jars/omnipack-loader.jar"

	// FragmentPrefix holds every manifest fragment.
	FragmentPrefix = "omnipack/"

	// NestedPrefix holds nested archives the host loads on its own.
	NestedPrefix = "META-INF/jars/"
)

var (
	// ErrEntryNotFound is returned when a composite lacks an entry the
	// caller asked for, typically a fragment named by the manifest.
	ErrEntryNotFound = errors.New("composite entry not found")

	// ErrNotComposite is returned by [Open] for an archive without a
	// fragment manifest.
	ErrNotComposite = errors.New("archive is not a composite")
)

// FragmentPath returns the composite entry name for a fragment file
// name.
func FragmentPath(name string) string {
	return FragmentPrefix + name
}

// NestedPath returns the composite entry name for an unconditionally
// loaded nested archive.
func NestedPath(name string) string {
	return NestedPrefix + name
}

// FragmentName returns the fragment archive name for a mod and a
// membership bit string: "<modID>-<bits>.jar".
func FragmentName(modID, bits string) string {
	return modID + "-" + bits + ".jar"
}

// NestedFragmentName returns the file name for a nested archive at
// nestedPath: its base name, or "<stem>-<suffix>.jar" when suffix is
// not empty. The build passes membership bits as the suffix when one
// path carries several contents, and a digest prefix when the base
// name is already taken.
func NestedFragmentName(nestedPath, suffix string) string {
	base := path.Base(nestedPath)
	if suffix == "" {
		return base
	}
	extension := path.Ext(base)
	return strings.TrimSuffix(base, extension) + "-" + suffix + ".jar"
}
