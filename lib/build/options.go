// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"errors"
	"log/slog"

	"github.com/omnipack/omnipack/lib/modmeta"
)

// Defaults applied by [Options.withDefaults].
const (
	DefaultLoader         = "fabric"
	DefaultGameDependency = "minecraft"
)

// DefaultInfo is written to the composite's informational entry when
// no other text is configured.
const DefaultInfo = `This archive was packaged by omnipack.

It combines builds of one mod for several game versions. Content shared
between versions is stored once; at launch the bundled loader selects
the parts matching the running game version, extracts them to the
config directory and loads them in place of this archive.
`

// Options configures a build.
type Options struct {
	// InputsDir holds one archive per supported game version.
	InputsDir string

	// OutputDir receives "<modid>.jar". It is created if needed.
	OutputDir string

	// Loader is the loader identifier recorded on every fragment.
	Loader string

	// GameDependency names the "depends" entry that carries each
	// variant's game-version requirement.
	GameDependency string

	// MetadataFile is the descriptor path inside each archive.
	MetadataFile string

	// Template is the container descriptor template. Nil selects
	// [modmeta.DefaultTemplate].
	Template []byte

	// LoaderPayload is the path of the runtime payload archive stored
	// in every composite. Empty builds a composite without one, which
	// the host cannot self-load; a warning is logged.
	LoaderPayload string

	// Info is the informational notice. Empty selects [DefaultInfo].
	Info string

	// NoSplit lists entry paths whose copies are never shared.
	NoSplit []string

	// Exclude lists entry paths dropped from the output entirely.
	Exclude []string

	// Concurrency bounds parallel fingerprinting. Zero means
	// GOMAXPROCS.
	Concurrency int

	// Logger receives progress and warnings. Nil discards them.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Loader == "" {
		o.Loader = DefaultLoader
	}
	if o.GameDependency == "" {
		o.GameDependency = DefaultGameDependency
	}
	if o.MetadataFile == "" {
		o.MetadataFile = modmeta.DefaultFile
	}
	if o.Template == nil {
		o.Template = []byte(modmeta.DefaultTemplate)
	}
	if o.Info == "" {
		o.Info = DefaultInfo
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

func (o Options) validate() error {
	var errs []error
	if o.InputsDir == "" {
		errs = append(errs, errors.New("inputs directory is required"))
	}
	if o.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	return errors.Join(errs...)
}
