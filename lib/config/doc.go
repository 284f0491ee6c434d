// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for omnipack.
//
// Configuration comes from a single file named by either the
// OMNIPACK_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). Without either, [Default] applies. There is no
// automatic file search. Command-line flags override individual
// values after loading.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${OMNIPACK_ROOT}, and ${VAR:-default} patterns are expanded.
// No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Paths, Build and Runtime sections
//   - [Default] -- returns a Config with default values
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other omnipack packages.
package config
