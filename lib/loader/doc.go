// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package loader is the runtime side of omnipack: it turns installed
// composites into loaded mods for one launch of the host.
//
// For each [Mod], [Loader.Load] opens the composite, selects the
// fragments matching the running game version and loader, extracts
// them, composes the units ([classpath.Compose]), appends every
// extracted archive to the host classpath and registers each unit that
// carries a metadata descriptor. Units without one stay classpath-only.
//
// Mods are independent. A failure in one mod (an unreadable composite,
// a manifest schema newer than this build understands, a disk error)
// is recorded in the [Report] and logged, and loading continues with
// the next mod.
//
// The host is reached through three small interfaces, [MetadataParser],
// [Registrar] and [ClasspathAppender]. [Recorder] implements the last
// two in memory for dry runs and tests.
package loader
