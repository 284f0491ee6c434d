// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package classpath orders extracted fragments into the units a host
// registers.
//
// All primary fragments of a mod together form one logical unit: they
// are pieces of one original archive, so the host must see them as a
// single mod whose content spans several files, in manifest order.
// Every non-primary fragment (a nested library carried through from
// the inputs) is a unit of its own.
package classpath

import "github.com/omnipack/omnipack/lib/extract"

// Unit is one logical archive for the host: a list of files loaded as
// one.
type Unit struct {
	// Primary is true for the unit assembled from primary fragments.
	Primary bool `json:"primary"`

	// Paths lists the unit's files in load order.
	Paths []string `json:"paths"`
}

// Plan is the ordered list of units for one mod.
type Plan struct {
	Units []Unit `json:"units"`
}

// Compose builds the plan for an extracted set: the primary unit (when
// any primary fragment was extracted) followed by one unit per
// non-primary fragment, each in extraction order.
func Compose(set *extract.Set) Plan {
	var plan Plan
	var primary Unit
	primary.Primary = true
	for _, extracted := range set.Fragments {
		if extracted.Fragment.IsPrimary {
			primary.Paths = append(primary.Paths, extracted.Path)
		}
	}
	if len(primary.Paths) > 0 {
		plan.Units = append(plan.Units, primary)
	}
	for _, extracted := range set.Fragments {
		if !extracted.Fragment.IsPrimary {
			plan.Units = append(plan.Units, Unit{Paths: []string{extracted.Path}})
		}
	}
	return plan
}

// Classpath returns every file of every unit in plan order. Each file
// appears once.
func (p Plan) Classpath() []string {
	var paths []string
	for _, unit := range p.Units {
		paths = append(paths, unit.Paths...)
	}
	return paths
}
