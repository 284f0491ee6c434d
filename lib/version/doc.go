// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package version identifies the omnipack build that produced a
// composite or is answering --version.
//
// Release builds set [Version], [GitCommit], [GitDirty] and [BuildTime]
// with the linker:
//
//	go build -ldflags "\
//	  -X github.com/omnipack/omnipack/lib/version.Version=1.2.0 \
//	  -X github.com/omnipack/omnipack/lib/version.GitCommit=$(git rev-parse --short HEAD) \
//	  -X github.com/omnipack/omnipack/lib/version.GitDirty=$(test -z "$(git status --porcelain)" && echo false || echo true) \
//	  -X github.com/omnipack/omnipack/lib/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	  ./cmd/omnipack
//
// Without them a build reports "0.1.0-dev" with an unknown commit and
// time. [Version] is written as the Created-By line of every
// composite's bootstrap manifest, so a composite names the omnipack
// release that packed it. GitDirty is compared against the literal
// "true".
//
// [Info] is the one-line form printed by "omnipack --version". [Full]
// adds the Go toolchain, the platform, and the highest fragment
// manifest schema this build can read, which is what decides whether
// an older omnipack can load a newer composite. [Short] and [Commit]
// return single fields for scripts.
package version
