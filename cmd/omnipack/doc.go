// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Omnipack packages one mod built for several game versions into a
// single composite archive and previews how that composite loads.
//
// Usage:
//
//	omnipack build [--inputs DIR] [--output DIR] [--bootstrap JAR] [flags]
//	omnipack inspect <composite> [--entries] [--json]
//	omnipack select <composite> --game-version V [--loader L] [--json]
//	omnipack load --game-version V [--mods DIR] [--work-dir DIR] [--json]
//	omnipack version
//
// Configuration is read from --config or $OMNIPACK_CONFIG; flags
// override individual values. Exit codes: 1 for failures (including
// mods that failed to load), 2 for invalid input, 3 for missing files.
package main
