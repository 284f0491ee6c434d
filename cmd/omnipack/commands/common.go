// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/omnipack/omnipack/cmd/omnipack/cli"
	"github.com/omnipack/omnipack/lib/config"
)

// commonParams are accepted by every command that reads configuration.
type commonParams struct {
	Config  string `flag:"config" desc:"configuration file (default: $OMNIPACK_CONFIG, else built-in defaults)"`
	Verbose bool   `flag:"verbose,v" desc:"log debug records"`
}

func (p *commonParams) logger(command string) *slog.Logger {
	return cli.NewCommandLogger(p.Verbose).With("command", command)
}

// loadConfig loads the --config file, falling back to [config.Load].
// Flag overrides are applied by the caller before validation.
func (p *commonParams) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if p.Config != "" {
		cfg, err = config.LoadFile(p.Config)
	} else {
		cfg, err = config.Load()
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cli.NotFound("loading configuration: %w", err)
	}
	if err != nil {
		return nil, cli.Validation("loading configuration: %w", err)
	}
	return cfg, nil
}

func validateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return cli.Validation("invalid configuration:\n%w", err)
	}
	return nil
}

// override replaces *target with value when the flag was given.
func override(target *string, value string) {
	if value != "" {
		*target = value
	}
}

// classify wraps err in the [cli.ToolError] category matching its
// cause.
func classify(err error, format string, args ...any) error {
	args = append(args, err)
	if errors.Is(err, fs.ErrNotExist) {
		return cli.NotFound(format+": %w", args...)
	}
	return cli.Internal(format+": %w", args...)
}

func requireArgs(args []string, count int, usage string) error {
	if len(args) != count {
		return cli.Validation("expected %d argument(s), got %d\n\nUsage:\n  %s", count, len(args), usage)
	}
	return nil
}
