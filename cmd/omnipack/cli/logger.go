// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// LogLevelEnvVar overrides the level of [NewCommandLogger] when set to
// a level name ("debug", "info", "warn", "error").
const LogLevelEnvVar = "OMNIPACK_LOG_LEVEL"

// NewCommandLogger creates a structured logger for CLI command
// operations. When stderr is a terminal it uses slog.TextHandler for
// human-readable output; when piped or redirected it uses
// slog.JSONHandler so scripts and CI can parse warnings.
//
// verbose lowers the level to Debug. OMNIPACK_LOG_LEVEL, when valid,
// takes precedence over both.
func NewCommandLogger(verbose bool) *slog.Logger {
	return newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), verbose)
}

func newLogger(w io.Writer, terminal, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if name := os.Getenv(LogLevelEnvVar); name != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(name)); err == nil {
			level = parsed
		}
	}

	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if terminal {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
