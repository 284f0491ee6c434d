// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package extract writes selected fragments out of a composite into a
// per-mod working directory.
//
// Each mod owns <root>/<mod id>. A fragment stored at
// "omnipack/example-110.jar" lands at <root>/<mod id>/omnipack/example-110.jar.
// Files are written through a temporary file and renamed into place,
// so an interrupted launch never leaves a truncated fragment behind.
//
// The directory also holds a small CBOR state file recording, for
// every fragment it extracted, the entry size and CRC-32 in the
// composite and the digest of the bytes written. On the next launch a
// fragment whose composite entry and on-disk file both still match is
// reused without being rewritten. Fragments extracted previously but no
// longer selected are removed. Files the state does not record are
// never touched.
//
// A fragment missing from the composite, or with a path that would
// escape the working directory, is logged and skipped. Filesystem
// failures are returned.
package extract
