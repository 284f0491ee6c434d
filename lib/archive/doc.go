// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive reads input archives and writes fragment and
// composite archives.
//
// Inputs are zip files (jars). An [Archive] indexes its entries by path
// in central-directory order and rejects archives that name the same
// path twice, since the splitter identifies content by (path, digest).
//
// The [Writer] has two properties the rest of omnipack depends on:
//
//   - [Writer.Copy] and [Writer.CopyAs] move an entry's compressed
//     bytes and header unchanged. Nothing is decompressed or
//     re-encoded, so a fragment holds exactly the bytes of its source.
//   - Generated entries ([Writer.AddBytes]) carry [FixedTime] as their
//     modification time, so the same inputs produce byte-identical
//     output across runs.
//
// Deflate for generated entries uses klauspost/compress, registered on
// every writer.
package archive
