// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"

	"github.com/spf13/pflag"

	"github.com/omnipack/omnipack/cmd/omnipack/cli"
	"github.com/omnipack/omnipack/lib/manifest"
)

type selectParams struct {
	commonParams
	cli.JSONOutput
	GameVersion string `flag:"game-version" desc:"running game version (required)"`
	Loader      string `flag:"loader" desc:"running loader identifier (default from configuration)"`
}

func selectCommand() *cli.Command {
	var params selectParams

	return &cli.Command{
		Name:    "select",
		Summary: "List the fragments a target would load",
		Description: `Evaluate a composite's manifest for a game version and loader, and
list the selected fragments in load order. Nothing is extracted.

Fragment predicates that cannot be parsed are logged and treated as
not matching.`,
		Usage: "omnipack select <composite> --game-version V [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("select", &params)
		},
		Run: func(_ context.Context, args []string) error {
			if err := requireArgs(args, 1, "omnipack select <composite> --game-version V [flags]"); err != nil {
				return err
			}
			if params.GameVersion == "" {
				return cli.Validation("--game-version is required")
			}
			cfg, err := params.loadConfig()
			if err != nil {
				return err
			}
			override(&cfg.Runtime.Loader, params.Loader)
			if err := validateConfig(cfg); err != nil {
				return err
			}

			pkg, err := openComposite(args[0])
			if err != nil {
				return err
			}
			defer pkg.Close()

			target := manifest.Target{Version: params.GameVersion, Loader: cfg.Runtime.Loader}
			selected, err := manifest.Select(pkg.Manifest(), target, params.logger("select"))
			if errors.Is(err, manifest.ErrInvalidTarget) {
				return cli.Validation("%w", err)
			}
			if err != nil {
				return cli.Internal("%w", err)
			}

			if done, err := params.EmitJSON(stdout, selected); done {
				return err
			}
			printFragments(selected)
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Fragments loaded on 1.20.1",
				Command:     "omnipack select out/example.jar --game-version 1.20.1",
			},
		},
	}
}
