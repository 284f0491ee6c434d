// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for omnipack packages.
//
// [WriteArchive] and [ArchiveBytes] build zip fixtures from ordered
// name/content pairs. Fixtures are deterministic: every entry is
// deflated with the same timestamp, so two fixtures with the same
// entries are byte-identical. [ReadArchive] reads an archive back into
// a name→content map for assertions.
//
// [CaptureLogger] returns a logger whose JSON output is kept in memory,
// so tests can assert that a diagnostic was emitted.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no omnipack-internal dependencies.
package testutil
