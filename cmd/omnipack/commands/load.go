// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/omnipack/omnipack/cmd/omnipack/cli"
	"github.com/omnipack/omnipack/lib/extract"
	"github.com/omnipack/omnipack/lib/loader"
	"github.com/omnipack/omnipack/lib/manifest"
)

type loadParams struct {
	commonParams
	cli.JSONOutput
	Mods        string `flag:"mods" desc:"directory holding installed composites (default from configuration)"`
	GameVersion string `flag:"game-version" desc:"running game version (required)"`
	WorkDir     string `flag:"work-dir" desc:"directory receiving one extraction directory per mod"`
	Loader      string `flag:"loader" desc:"running loader identifier (default from configuration)"`
}

// loadResult is what a host would have seen: the classpath additions
// and registered units, next to the per-mod report.
type loadResult struct {
	Report        *loader.Report        `json:"report"`
	Classpath     []string              `json:"classpath"`
	Registrations []loader.Registration `json:"registrations"`
}

func loadCommand() *cli.Command {
	var params loadParams

	return &cli.Command{
		Name:    "load",
		Summary: "Run the load-time hook against a mods directory",
		Description: `Discover the composites in a mods directory and load each one for the
given game version: select fragments, extract them to the working
directory and register them with an in-memory host.

Extraction is incremental: fragments whose content already sits in the
working directory are reused. A failing mod does not stop the others;
the command exits 1 when any mod failed.`,
		Usage: "omnipack load --game-version V [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("load", &params)
		},
		Run: func(_ context.Context, args []string) error {
			if err := requireArgs(args, 0, "omnipack load --game-version V [flags]"); err != nil {
				return err
			}
			if params.GameVersion == "" {
				return cli.Validation("--game-version is required")
			}
			cfg, err := params.loadConfig()
			if err != nil {
				return err
			}
			override(&cfg.Runtime.ModsDir, params.Mods)
			override(&cfg.Runtime.WorkDir, params.WorkDir)
			override(&cfg.Runtime.Loader, params.Loader)
			if err := validateConfig(cfg); err != nil {
				return err
			}

			logger := params.logger("load")
			mods, err := loader.Discover(cfg.Runtime.ModsDir, cfg.Build.MetadataFile, logger)
			if err != nil {
				return classify(err, "discovering composites")
			}

			host := &loader.Recorder{}
			hook := &loader.Loader{
				Target:       manifest.Target{Version: params.GameVersion, Loader: cfg.Runtime.Loader},
				Extractor:    &extract.Extractor{Root: cfg.Runtime.WorkDir, Logger: logger},
				Host:         host,
				MetadataFile: cfg.Build.MetadataFile,
				Logger:       logger,
			}
			report := hook.Load(mods)

			result := loadResult{
				Report:        report,
				Classpath:     host.Classpath(),
				Registrations: host.Registrations(),
			}
			if done, err := params.EmitJSON(stdout, result); done {
				if err != nil {
					return err
				}
				return exitIfFailed(report)
			}

			printLoadResult(result)
			return exitIfFailed(report)
		},
		Examples: []cli.Example{
			{
				Description: "Load everything in mods/ as a 1.20.1 game would",
				Command:     "omnipack load --mods mods --game-version 1.20.1 --work-dir config/omnipack",
			},
		},
	}
}

func exitIfFailed(report *loader.Report) error {
	if len(report.Failed()) > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

func printLoadResult(result loadResult) {
	if len(result.Report.Outcomes) == 0 {
		fmt.Fprintf(stdout, "No composites found.\n")
		return
	}
	for _, outcome := range result.Report.Outcomes {
		if outcome.Error != "" {
			fmt.Fprintf(stdout, "FAILED %s (%s): %s\n", outcome.Mod.ID, outcome.Mod.Path, outcome.Error)
			continue
		}
		fmt.Fprintf(stdout, "loaded %s: %s\n", outcome.Mod.ID, strings.Join(outcome.Selected, ", "))
		for _, handle := range outcome.Registered {
			fmt.Fprintf(stdout, "  registered %s\n", handle)
		}
	}
	if len(result.Classpath) > 0 {
		fmt.Fprintf(stdout, "\nClasspath:\n")
		for _, path := range result.Classpath {
			fmt.Fprintf(stdout, "  %s\n", path)
		}
	}
}
