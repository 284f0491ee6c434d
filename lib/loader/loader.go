// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/omnipack/omnipack/lib/archive"
	"github.com/omnipack/omnipack/lib/classpath"
	"github.com/omnipack/omnipack/lib/composite"
	"github.com/omnipack/omnipack/lib/extract"
	"github.com/omnipack/omnipack/lib/manifest"
	"github.com/omnipack/omnipack/lib/modmeta"
)

// Mod is an installed composite.
type Mod struct {
	// ID is the host mod identifier of the composite. It names the
	// mod's working directory.
	ID   string `json:"id"`
	Path string `json:"path"`
}

// Outcome is the result of loading one mod.
type Outcome struct {
	Mod Mod `json:"mod"`

	// Error is empty when the mod loaded.
	Error string `json:"error,omitempty"`

	// Selected lists the manifest paths of the selected fragments.
	Selected   []string       `json:"selected,omitempty"`
	Plan       classpath.Plan `json:"plan"`
	Registered []Handle       `json:"registered,omitempty"`
	Extraction *extract.Set   `json:"extraction,omitempty"`

	err error
}

// Err returns the failure, or nil.
func (o *Outcome) Err() error {
	return o.err
}

// Report collects the outcomes of one [Loader.Load] call in mod order.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Failed returns the outcomes that carry an error.
func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, outcome := range r.Outcomes {
		if outcome.err != nil {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// Loader loads composites into a host.
type Loader struct {
	// Target is the running game version and loader.
	Target manifest.Target

	Extractor *extract.Extractor
	Host      Host

	// Parser reads unit metadata. Nil selects [modmeta.Parser].
	Parser MetadataParser

	// MetadataFile is the descriptor path inside a unit's archives.
	// Empty selects [modmeta.DefaultFile].
	MetadataFile string

	Logger *slog.Logger
}

// Load loads every mod in order. It never stops early: each mod's
// failure is recorded in its [Outcome].
func (l *Loader) Load(mods []Mod) *Report {
	logger := l.logger()
	start := time.Now()

	report := &Report{}
	for _, mod := range mods {
		outcome := l.loadIsolated(mod)
		if outcome.err != nil {
			logger.Error("loading mod failed", "mod", mod.ID, "path", mod.Path, "error", outcome.err)
		} else {
			logger.Info("loaded mod",
				"mod", mod.ID,
				"fragments", outcome.Selected,
				"units", len(outcome.Plan.Units),
			)
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	logger.Info("finished loading composites",
		"mods", len(mods),
		"failed", len(report.Failed()),
		"elapsed", time.Since(start),
	)
	return report
}

// loadIsolated runs loadMod, turning a host panic into an error for
// this mod alone.
func (l *Loader) loadIsolated(mod Mod) (outcome Outcome) {
	outcome.Mod = mod
	defer func() {
		if recovered := recover(); recovered != nil {
			outcome.err = fmt.Errorf("panic while loading: %v", recovered)
			outcome.Error = outcome.err.Error()
		}
	}()
	if err := l.loadMod(mod, &outcome); err != nil {
		outcome.err = err
		outcome.Error = err.Error()
	}
	return outcome
}

func (l *Loader) loadMod(mod Mod, outcome *Outcome) error {
	if l.Extractor == nil || l.Host == nil {
		return errors.New("loader is missing an extractor or host")
	}

	pkg, err := composite.Open(mod.Path)
	if err != nil {
		return err
	}
	defer pkg.Close()

	selected, err := manifest.Select(pkg.Manifest(), l.Target, l.logger().With("mod", mod.ID))
	if err != nil {
		return err
	}
	for _, fragment := range selected {
		outcome.Selected = append(outcome.Selected, fragment.Path)
	}

	set, err := l.Extractor.Extract(pkg, mod.ID, selected)
	if err != nil {
		return err
	}
	outcome.Extraction = set
	outcome.Plan = classpath.Compose(set)

	for _, path := range outcome.Plan.Classpath() {
		if err := l.Host.AppendToClasspath(path); err != nil {
			return fmt.Errorf("adding %s to the classpath: %w", path, err)
		}
	}

	for _, unit := range outcome.Plan.Units {
		metadata, err := l.unitMetadata(unit)
		if err != nil {
			return err
		}
		if metadata == nil {
			continue
		}
		handle, err := l.Host.Register(unit.Paths, metadata)
		if err != nil {
			return fmt.Errorf("registering %s: %w", metadata.ID, err)
		}
		outcome.Registered = append(outcome.Registered, handle)
	}
	return nil
}

// unitMetadata returns the descriptor of the first archive in unit
// that carries one, or nil when none does.
func (l *Loader) unitMetadata(unit classpath.Unit) (*modmeta.Descriptor, error) {
	for _, path := range unit.Paths {
		metadata, err := l.readMetadata(path)
		if err != nil {
			return nil, err
		}
		if metadata != nil {
			return metadata, nil
		}
	}
	return nil, nil
}

func (l *Loader) readMetadata(path string) (*modmeta.Descriptor, error) {
	opened, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer opened.Close()

	entry, ok := opened.Lookup(l.metadataFile())
	if !ok {
		return nil, nil
	}
	reader, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	metadata, err := l.parser().Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("metadata of %s: %w", path, err)
	}
	return metadata, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}

func (l *Loader) parser() MetadataParser {
	if l.Parser == nil {
		return modmeta.Parser{}
	}
	return l.Parser
}

func (l *Loader) metadataFile() string {
	if l.MetadataFile == "" {
		return modmeta.DefaultFile
	}
	return l.MetadataFile
}
