// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/omnipack/omnipack/cmd/omnipack/cli"
	"github.com/omnipack/omnipack/lib/composite"
	"github.com/omnipack/omnipack/lib/manifest"
)

type inspectParams struct {
	cli.JSONOutput
	Entries bool `flag:"entries" desc:"also list every entry of the composite"`
}

// inspectEntry is one composite entry in --entries output.
type inspectEntry struct {
	Name  string `json:"name"`
	Size  uint64 `json:"size"`
	CRC32 uint32 `json:"crc32"`
}

type inspectResult struct {
	Path     string             `json:"path"`
	Manifest *manifest.Manifest `json:"manifest"`
	Entries  []inspectEntry     `json:"entries,omitempty"`
}

func inspectCommand() *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Show the manifest of a composite",
		Description: `Print the fragment manifest of a composite: every fragment with the
game versions and loaders it applies to.

Fails if the archive is not a composite or its manifest uses a schema
version this build does not understand.`,
		Usage: "omnipack inspect <composite> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("inspect", &params)
		},
		Run: func(_ context.Context, args []string) error {
			if err := requireArgs(args, 1, "omnipack inspect <composite> [flags]"); err != nil {
				return err
			}
			pkg, err := openComposite(args[0])
			if err != nil {
				return err
			}
			defer pkg.Close()

			result := inspectResult{Path: pkg.Path(), Manifest: pkg.Manifest()}
			if params.Entries {
				for _, entry := range pkg.Entries() {
					result.Entries = append(result.Entries, inspectEntry{
						Name:  entry.Name(),
						Size:  entry.Size(),
						CRC32: entry.CRC32(),
					})
				}
			}

			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}

			fmt.Fprintf(stdout, "%s (manifest schema %d)\n\n", result.Path, result.Manifest.SchemaVersion)
			printFragments(result.Manifest.Fragments)
			if len(result.Entries) > 0 {
				fmt.Fprintf(stdout, "\nEntries:\n")
				tw := tabwriter.NewWriter(stdout, 2, 0, 3, ' ', tabwriter.AlignRight)
				for _, entry := range result.Entries {
					fmt.Fprintf(tw, "%d\t  %08x\t  %s\t\n", entry.Size, entry.CRC32, entry.Name)
				}
				tw.Flush()
			}
			return nil
		},
	}
}

// openComposite opens path as a composite, classifying failures.
func openComposite(path string) (*composite.Package, error) {
	pkg, err := composite.Open(path)
	switch {
	case err == nil:
		return pkg, nil
	case errors.Is(err, composite.ErrNotComposite), errors.Is(err, manifest.ErrUnsupportedSchema):
		return nil, cli.Validation("%w", err)
	default:
		return nil, classify(err, "opening composite")
	}
}

func printFragments(fragments []manifest.Fragment) {
	if len(fragments) == 0 {
		fmt.Fprintf(stdout, "No fragments.\n")
		return
	}
	tw := tabwriter.NewWriter(stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "FRAGMENT\tVERSIONS\tLOADERS\tPRIMARY\n")
	for _, fragment := range fragments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n",
			fragment.Path,
			strings.Join(fragment.Versions, " "),
			strings.Join(fragment.Loaders, ","),
			fragment.IsPrimary)
	}
	tw.Flush()
}
