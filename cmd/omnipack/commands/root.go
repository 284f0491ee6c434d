// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the omnipack command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/omnipack/omnipack/cmd/omnipack/cli"
	"github.com/omnipack/omnipack/lib/version"
)

// stdout receives command results. Tests replace it.
var stdout io.Writer = os.Stdout

// Root builds and returns the complete omnipack command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "omnipack",
		Description: `omnipack: package one mod for many game versions.

"build" merges one archive per supported game version into a single
composite that stores shared content once. Installed composites pick
the parts for the running game version at load time; "select" and
"load" run that selection outside the game.`,
		Subcommands: []*cli.Command{
			buildCommand(),
			inspectCommand(),
			selectCommand(),
			loadCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string) error {
					fmt.Fprintf(stdout, "omnipack %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Build a composite from jars/ into out/",
				Command:     "omnipack build --inputs jars --output out --bootstrap omnipack-loader.jar",
			},
			{
				Description: "Show what a composite contains",
				Command:     "omnipack inspect out/example.jar",
			},
			{
				Description: "Preview the fragments a game version would load",
				Command:     "omnipack select out/example.jar --game-version 1.20.1",
			},
		},
	}
}
