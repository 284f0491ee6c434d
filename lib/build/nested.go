// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/omnipack/omnipack/lib/archive"
	"github.com/omnipack/omnipack/lib/fingerprint"
	"github.com/omnipack/omnipack/lib/membership"
)

// nestedGroup is one distinct nested archive: a declared path and the
// content some set of variants embeds there.
type nestedGroup struct {
	path    string
	digest  fingerprint.Digest
	members *membership.Set

	// entry is the copy from the lowest-index embedding variant.
	entry *archive.Entry
}

// nestedPaths returns every nested archive path any variant declares,
// in first-declaration order, minus excluded paths.
func nestedPaths(variants []*Variant, exclude []string) []string {
	var paths []string
	for _, variant := range variants {
		for _, path := range variant.Descriptor.NestedPaths() {
			if !slices.Contains(paths, path) && !slices.Contains(exclude, path) {
				paths = append(paths, path)
			}
		}
	}
	return paths
}

// declaredNested returns, per variant, the paths among nested that the
// variant itself declares. Only those are kept out of its split; an
// undeclared entry at a nested path is ordinary content.
func declaredNested(variants []*Variant, nested []string) [][]string {
	declared := make([][]string, len(variants))
	for _, variant := range variants {
		for _, path := range variant.Descriptor.NestedPaths() {
			if slices.Contains(nested, path) {
				declared[variant.Index] = append(declared[variant.Index], path)
			}
		}
	}
	return declared
}

// groupNested groups the nested archives of variants by (path,
// content). Groups are ordered by first discovery. A declared archive
// missing from its variant is logged and ignored.
func groupNested(variants []*Variant, paths []string, logger *slog.Logger) ([]*nestedGroup, error) {
	var groups []*nestedGroup
	for _, variant := range variants {
		declared := variant.Descriptor.NestedPaths()
		for _, path := range paths {
			if !slices.Contains(declared, path) {
				continue
			}
			entry, ok := variant.Archive.Lookup(path)
			if !ok {
				logger.Warn("declared nested archive is missing",
					"variant", variant.Name(),
					"path", path,
				)
				continue
			}
			digest, err := digestEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("fingerprinting nested archive %s in %s: %w", path, variant.Name(), err)
			}

			index := slices.IndexFunc(groups, func(group *nestedGroup) bool {
				return group.path == path && group.digest == digest
			})
			if index >= 0 {
				groups[index].members.Add(variant.Index)
				continue
			}
			groups = append(groups, &nestedGroup{
				path:    path,
				digest:  digest,
				members: membership.Of(len(variants), variant.Index),
				entry:   entry,
			})
		}
	}
	return groups, nil
}

// contentsPerPath counts the distinct contents found at each nested
// path.
func contentsPerPath(groups []*nestedGroup) map[string]int {
	counts := make(map[string]int)
	for _, group := range groups {
		counts[group.path]++
	}
	return counts
}

func digestEntry(entry *archive.Entry) (fingerprint.Digest, error) {
	reader, err := entry.Open()
	if err != nil {
		return fingerprint.Digest{}, err
	}
	defer reader.Close()
	return fingerprint.Sum(reader)
}
