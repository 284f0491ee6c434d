// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package modmeta reads and writes the host's mod metadata descriptor
// (fabric.mod.json and compatible formats).
//
// Only the fields the build consumes are modelled: identification, the
// dependency categories, nested-archive declarations and the icon. The
// full document is kept as raw JSON so descriptive fields (name,
// contact, authors, license, ...) can be carried into the generated
// container metadata without being reinterpreted.
//
// Descriptors are parsed leniently: comments and trailing commas are
// stripped with tidwall/jsonc before decoding, matching what the host
// loader accepts.
//
// [IntersectDependencies] implements the aggregation policy for the
// container descriptor: a dependency survives only if every variant
// declares it under the same category. [Container] assembles the
// generated descriptor from a template.
package modmeta
