// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the omnipack
// binary.
//
// A [Command] tree dispatches on the first positional argument,
// suggests the closest subcommand or flag on typos, and renders help
// from each command's description, flags and examples. Flags are
// declared as tagged struct fields and bound with [FlagsFromParams];
// embedding [JSONOutput] adds a --json flag.
//
// Errors carry a category ([ToolError]) that main maps to an exit
// code. [ExitError] signals a non-zero exit for commands that already
// printed their own report.
//
// [NewCommandLogger] picks a text or JSON slog handler depending on
// whether stderr is a terminal.
package cli
