// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package modmeta

import "slices"

// IntersectDependencies aggregates dependency declarations across
// descriptors. For each category, a dependency is kept only when every
// descriptor declares it in that category; its requirement becomes the
// distinct predicates of all declarations in first-seen order. A
// dependency that some variant omits cannot be guaranteed for the
// combined mod and is dropped.
//
// Every category in [DependencyCategories] appears in the result, empty
// when nothing survives.
func IntersectDependencies(descriptors []*Descriptor) map[string]map[string]Predicates {
	result := make(map[string]map[string]Predicates, len(DependencyCategories))
	for _, category := range DependencyCategories {
		result[category] = intersectCategory(descriptors, category)
	}
	return result
}

func intersectCategory(descriptors []*Descriptor, category string) map[string]Predicates {
	kept := make(map[string]Predicates)
	if len(descriptors) == 0 {
		return kept
	}

	counts := make(map[string]int)
	merged := make(map[string]Predicates)
	for _, descriptor := range descriptors {
		for name, predicates := range descriptor.Dependencies(category) {
			counts[name]++
			for _, predicate := range predicates {
				if !slices.Contains(merged[name], predicate) {
					merged[name] = append(merged[name], predicate)
				}
			}
		}
	}

	for name, count := range counts {
		if count == len(descriptors) {
			kept[name] = merged[name]
		}
	}
	return kept
}
