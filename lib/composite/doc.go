// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package composite reads and writes the single archive omnipack
// distributes in place of many per-version archives.
//
// A composite has a fixed layout, written in this order:
//
//	META-INF/MANIFEST.MF               bootstrap archive metadata
//	OMNIPACK-INFO.txt                  optional human-readable notice
//	fabric.mod.json                    generated host metadata (name configurable)
//	omnipack.json                      fragment manifest
//	META-INF/jars/omnipack-loader.jar  always-loaded runtime payload, when supplied
//	<icon path>                        icon copied from the inputs, when declared
//	META-INF/jars/<name>.jar           nested archives every input embedded identically
//	omnipack/<name>.jar                fragments, in manifest order
//
// Fragments are complete zip archives stored (not recompressed) inside
// the composite. Their entries are copied from the input archives raw,
// so every input entry's bytes, compression and checksum survive
// untouched. Generated entries carry [archive.FixedTime] and the
// fixed order above, which makes a composite a pure function of its
// inputs.
//
// [Open] is the read side used at runtime. It decodes the manifest
// through [manifest.Unmarshal], so a composite written by a newer build
// fails with [manifest.ErrUnsupportedSchema].
package composite
