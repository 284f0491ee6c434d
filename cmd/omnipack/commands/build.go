// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/omnipack/omnipack/cmd/omnipack/cli"
	"github.com/omnipack/omnipack/lib/build"
	"github.com/omnipack/omnipack/lib/config"
)

type buildParams struct {
	commonParams
	cli.JSONOutput
	Inputs         string   `flag:"inputs,i" desc:"directory holding one archive per game version"`
	Output         string   `flag:"output,o" desc:"directory the composite is written to"`
	Loader         string   `flag:"loader" desc:"loader identifier recorded on every fragment"`
	GameDependency string   `flag:"game-dependency" desc:"dependency carrying each input's game version"`
	MetadataFile   string   `flag:"metadata-file" desc:"metadata descriptor path inside archives"`
	Bootstrap      string   `flag:"bootstrap" desc:"loader payload archive stored in the composite"`
	Template       string   `flag:"template" desc:"descriptor template file (JSON with comments)"`
	InfoFile       string   `flag:"info-file" desc:"text file replacing the built-in notice"`
	NoSplit        []string `flag:"no-split" desc:"entry path never shared between inputs (repeatable)"`
	Exclude        []string `flag:"exclude" desc:"entry path dropped from the output (repeatable)"`
	Concurrency    int      `flag:"concurrency" desc:"parallel fingerprinting workers (0: one per CPU)"`
}

func buildCommand() *cli.Command {
	var params buildParams

	return &cli.Command{
		Name:    "build",
		Summary: "Build a composite from per-version archives",
		Description: `Merge one archive per supported game version into a composite.

Every entry of every input is fingerprinted. Entries shared by the same
set of inputs are stored once, in a fragment tagged with the game
versions of those inputs. The composite carries the fragments, a
manifest describing them, generated metadata for the host and the
loader payload that reconstitutes the right build at launch.

Inputs without a usable metadata descriptor are skipped with a warning.
Flags override the configuration file.`,
		Usage: "omnipack build [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("build", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "omnipack build [flags]"); err != nil {
				return err
			}
			cfg, err := params.loadConfig()
			if err != nil {
				return err
			}
			params.apply(cfg)
			if err := validateConfig(cfg); err != nil {
				return err
			}

			options, err := buildOptions(cfg)
			if err != nil {
				return err
			}
			options.Logger = params.logger("build")

			result, err := build.Run(ctx, options)
			if errors.Is(err, build.ErrNoVariants) {
				return cli.NotFound("building composite: %w", err)
			}
			if err != nil {
				return classify(err, "building composite")
			}

			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}
			printBuildResult(result)
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Build with the default directories (jars/ into out/)",
				Command:     "omnipack build --bootstrap omnipack-loader.jar",
			},
			{
				Description: "Keep a language file per version and drop signatures",
				Command:     "omnipack build --no-split assets/example/lang/en_us.json --exclude META-INF/SIGNATURE.SF",
			},
		},
	}
}

// apply overlays the flags that were given onto cfg.
func (p *buildParams) apply(cfg *config.Config) {
	override(&cfg.Build.Inputs, p.Inputs)
	override(&cfg.Build.Output, p.Output)
	override(&cfg.Build.Loader, p.Loader)
	override(&cfg.Build.GameDependency, p.GameDependency)
	override(&cfg.Build.MetadataFile, p.MetadataFile)
	override(&cfg.Build.LoaderPayload, p.Bootstrap)
	override(&cfg.Build.Template, p.Template)
	override(&cfg.Build.InfoFile, p.InfoFile)
	cfg.Build.NoSplit = append(cfg.Build.NoSplit, p.NoSplit...)
	cfg.Build.Exclude = append(cfg.Build.Exclude, p.Exclude...)
	if p.Concurrency != 0 {
		cfg.Build.Concurrency = p.Concurrency
	}
}

// buildOptions translates the build section into [build.Options],
// reading the template and info files it names.
func buildOptions(cfg *config.Config) (build.Options, error) {
	options := build.Options{
		InputsDir:      cfg.Build.Inputs,
		OutputDir:      cfg.Build.Output,
		Loader:         cfg.Build.Loader,
		GameDependency: cfg.Build.GameDependency,
		MetadataFile:   cfg.Build.MetadataFile,
		LoaderPayload:  cfg.Build.LoaderPayload,
		NoSplit:        cfg.Build.NoSplit,
		Exclude:        cfg.Build.Exclude,
		Concurrency:    cfg.Build.Concurrency,
	}
	if cfg.Build.Template != "" {
		template, err := os.ReadFile(cfg.Build.Template)
		if err != nil {
			return options, classify(err, "reading template")
		}
		options.Template = template
	}
	if cfg.Build.InfoFile != "" {
		info, err := os.ReadFile(cfg.Build.InfoFile)
		if err != nil {
			return options, classify(err, "reading info file")
		}
		options.Info = string(info)
	}
	return options, nil
}

func printBuildResult(result *build.Result) {
	fmt.Fprintf(stdout, "Built %s (%d bytes) from %d variants\n", result.Output, result.Size, len(result.Variants))
	fmt.Fprintf(stdout, "  entries: %d, stored: %d, deduplicated: %d, excluded: %d\n",
		result.Stats.Entries, result.Stats.Stored, result.Stats.Deduplicated, result.Stats.Excluded)

	fmt.Fprintf(stdout, "\nFragments:\n")
	tw := tabwriter.NewWriter(stdout, 2, 0, 3, ' ', 0)
	for _, fragment := range result.Manifest.Fragments {
		primary := ""
		if fragment.IsPrimary {
			primary = "primary"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
			fragment.Path, strings.Join(fragment.Versions, " "), strings.Join(fragment.Loaders, ","), primary)
	}
	tw.Flush()

	if len(result.Nested) > 0 {
		fmt.Fprintf(stdout, "\nLoaded unconditionally:\n")
		for _, name := range result.Nested {
			fmt.Fprintf(stdout, "  %s\n", name)
		}
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(stdout, "\nSkipped inputs:\n")
		for _, skipped := range result.Skipped {
			fmt.Fprintf(stdout, "  %s: %s\n", skipped.File, skipped.Reason)
		}
	}
}
