// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package splitter partitions the entries of N input archives into
// groups keyed by the exact subset of inputs that hold identical bytes
// at the same path.
//
// The algorithm walks variants in caller order. For variant i, every
// entry whose (path, digest) has not been claimed starts a membership
// with bit i set; later variants j > i holding the same path with the
// same digest get bit j set, and the (path, digest) pair is recorded in
// the [ClaimState] so variant j's copy is skipped when its turn comes.
// Sharing does not depend on adjacency: variants 0 and 2 can share an
// entry that variant 1 holds with different bytes.
//
// Two path sets adjust the walk:
//
//   - NoSplit paths are never probed and never claimed. Each variant's
//     copy lands in its own single-member group even when the bytes
//     match another variant's copy.
//   - Exclude paths are skipped entirely. ExcludeIn skips a path in
//     one variant only; the build uses it for the nested archives a
//     variant declares, which are packaged separately. Another
//     variant's plain entry at the same path is still split.
//
// Fingerprinting runs in parallel ahead of the walk. The walk itself,
// and with it every read and write of the claim state, runs on the
// calling goroutine in strict variant order.
package splitter
