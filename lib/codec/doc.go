// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides omnipack's standard CBOR encoding
// configuration.
//
// omnipack uses two serialization formats with a clear boundary:
//
//   - JSON for anything another program reads: the composite manifest,
//     the generated host metadata descriptor, and CLI --json output.
//   - CBOR for private on-disk state, such as the record the fragment
//     extractor keeps in each per-mod working directory.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. Same
// logical data always produces identical bytes.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// [WriteFile] and [ReadFile] wrap the same modes for state files.
// WriteFile replaces the target atomically, so a crash mid-write
// leaves either the previous state or the new one, never a torn file.
//
// # Struct Tag Rules
//
// Types that are only ever CBOR use `cbor` tags. Types that are also
// printed as JSON use `json` tags only; fxamacker/cbor v2 falls back to
// them when `cbor` tags are absent. Never put both on one field.
package codec
