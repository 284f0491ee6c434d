// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package build turns a directory of per-version mod archives into one
// composite archive.
//
// [Run] drives the whole pipeline:
//
//  1. Load: every *.jar and *.zip in the inputs directory is opened in
//     sorted file-name order and its metadata descriptor parsed. A
//     variant without a descriptor, with an unparseable one, or
//     missing its id or game-version requirement is skipped with a
//     warning; the remaining variants are indexed 0..N-1 in that
//     order. An unreadable archive is skipped the same way. Any other
//     I/O failure aborts the build.
//  2. Split: entries are grouped by the exact set of variants sharing
//     their content ([splitter.Splitter]). A nested archive is held out
//     of the split only in the variants whose descriptor declares it;
//     another variant's plain entry at that path is split as usual.
//  3. Plan: each group becomes a primary fragment named
//     "<modid>-<bits>.jar". Each distinct nested archive becomes either
//     an unconditional nested archive (every variant embeds it
//     identically) or a non-primary fragment. Both are named after the
//     archive's base name. A name already taken, by another nested
//     path with the same base name or by a fixed entry such as the
//     loader payload, gets the membership bits and then a digest
//     prefix appended.
//  4. Describe: a container descriptor is generated from a template and
//     the variants' descriptors (see [GenerateMetadata]).
//  5. Write: the composite is packaged ([composite.Packager]) into a
//     temporary file in the output directory and renamed to
//     "<modid>.jar".
//
// The output is a pure function of the input bytes and options:
// fragment names, manifest, descriptor and archive bytes are identical
// across rebuilds of the same inputs.
package build
