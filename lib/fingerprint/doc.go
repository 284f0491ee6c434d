// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package fingerprint computes content digests for archive entries.
//
// Two entries with the same path and the same [Digest] are treated as
// the same content by the splitter. Digests are BLAKE3 in keyed mode
// with a fixed domain key, so an entry digest can never collide with a
// hash computed for another purpose over the same bytes.
//
// The API surface:
//
//   - [Sum] -- streams a reader through the hash with constant memory
//   - [SumBytes] and [SumFile] -- convenience wrappers
//   - [Format] and [Parse] -- canonical hex encoding used in logs and
//     the extraction state file
//
// A read failure is returned as an error. No digest is ever produced
// for a partially read stream.
//
// This package has no dependencies on other omnipack packages.
package fingerprint
