// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/omnipack/omnipack/lib/archive"
	"github.com/omnipack/omnipack/lib/composite"
	"github.com/omnipack/omnipack/lib/manifest"
	"github.com/omnipack/omnipack/lib/membership"
	"github.com/omnipack/omnipack/lib/splitter"
)

// Result summarizes a completed build.
type Result struct {
	ModID  string `json:"mod_id"`
	Output string `json:"output"`
	Size   int64  `json:"size"`

	// Variants lists the input file names in membership bit order.
	Variants []string         `json:"variants"`
	Skipped  []SkippedVariant `json:"skipped,omitempty"`

	// Nested lists the composite entries of nested archives every
	// variant embedded identically.
	Nested []string `json:"nested,omitempty"`

	Manifest *manifest.Manifest `json:"manifest"`
	Stats    splitter.Stats     `json:"stats"`
}

// fragmentSource is what one manifest fragment is written from: either
// split entries assembled into a new archive, or a nested archive
// copied as-is.
type fragmentSource struct {
	path    string
	entries []*archive.Entry
	nested  *archive.Entry
}

// nestedPlacement is a nested archive loaded unconditionally.
type nestedPlacement struct {
	name  string
	entry *archive.Entry
}

// plan is the complete content of a composite before any byte is
// written.
type plan struct {
	manifest      *manifest.Manifest
	fragments     []fragmentSource
	unconditional []nestedPlacement
}

// Run builds the composite described by options. See the package
// documentation for the pipeline.
func Run(ctx context.Context, options Options) (*Result, error) {
	if err := options.validate(); err != nil {
		return nil, fmt.Errorf("invalid build options: %w", err)
	}
	options = options.withDefaults()
	logger := options.Logger

	variants, skipped, err := LoadVariants(options.InputsDir, options.MetadataFile, options.GameDependency, logger)
	if err != nil {
		return nil, err
	}
	defer closeVariants(variants)
	if len(variants) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoVariants, options.InputsDir)
	}

	modID, err := resolveModID(variants, logger)
	if err != nil {
		return nil, err
	}

	nested := nestedPaths(variants, options.Exclude)
	split, err := splitter.New(splitter.Options{
		NoSplit:     options.NoSplit,
		Exclude:     options.Exclude,
		ExcludeIn:   declaredNested(variants, nested),
		Concurrency: options.Concurrency,
		Logger:      logger,
	}).Split(ctx, archivesOf(variants))
	if err != nil {
		return nil, fmt.Errorf("splitting %s: %w", modID, err)
	}

	nestedGroups, err := groupNested(variants, nested, logger)
	if err != nil {
		return nil, err
	}
	layout := newPlan(modID, options.Loader, variants, split.Groups, nestedGroups)

	var jarsInJar []string
	if options.LoaderPayload != "" {
		jarsInJar = append(jarsInJar, composite.LoaderPayloadPath)
	} else {
		logger.Warn("no loader payload configured; the composite will not load on its own", "mod", modID)
	}
	for _, placement := range layout.unconditional {
		jarsInJar = append(jarsInJar, placement.name)
	}

	metadata, err := GenerateMetadata(options.Template, modID, variants, jarsInJar, logger)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(options.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	output := filepath.Join(options.OutputDir, modID+".jar")
	size, err := writeAtomic(output, func(w io.Writer) error {
		return writeComposite(w, options, layout, metadata)
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		ModID:    modID,
		Output:   output,
		Size:     size,
		Skipped:  skipped,
		Manifest: layout.manifest,
		Stats:    split.Stats,
	}
	for _, variant := range variants {
		result.Variants = append(result.Variants, variant.Name())
	}
	for _, placement := range layout.unconditional {
		result.Nested = append(result.Nested, placement.name)
	}

	logger.Info("composite written",
		"mod", modID,
		"output", output,
		"size", size,
		"variants", len(variants),
		"skipped", len(skipped),
		"fragments", len(layout.manifest.Fragments),
		"deduplicated", split.Stats.Deduplicated,
	)
	return result, nil
}

// resolveModID returns the first variant's id. Variants declaring a
// different id are kept and logged.
func resolveModID(variants []*Variant, logger *slog.Logger) (string, error) {
	modID := variants[0].Descriptor.ID
	if strings.ContainsAny(modID, `/\`) || modID == "." || modID == ".." {
		return "", fmt.Errorf("mod id %q cannot name an output file", modID)
	}
	for _, variant := range variants[1:] {
		if variant.Descriptor.ID != modID {
			logger.Warn("input variants declare different mod ids; using the first",
				"mod", modID,
				"variant", variant.Name(),
				"variant_mod", variant.Descriptor.ID,
			)
		}
	}
	return modID, nil
}

// newPlan lays out fragments and nested archives. Primary fragments
// come first in group creation order, followed by nested fragments in
// discovery order. Nested archive names are unique within the
// composite; see [entryNames.claim].
func newPlan(modID, loader string, variants []*Variant, groups []*splitter.Group, nested []*nestedGroup) *plan {
	layout := &plan{manifest: manifest.New()}
	names := newEntryNames(composite.BootstrapManifestPath, composite.InfoPath, composite.ManifestPath, composite.LoaderPayloadPath)

	for _, group := range groups {
		path := composite.FragmentPath(composite.FragmentName(modID, group.Membership.String()))
		names.reserve(path)
		entries := make([]*archive.Entry, len(group.Entries))
		for i, ref := range group.Entries {
			entries[i] = ref.Entry
		}
		layout.manifest.Add(manifest.Fragment{
			Path:      path,
			Versions:  versionsOf(variants, group.Membership),
			Loaders:   []string{loader},
			IsPrimary: true,
		})
		layout.fragments = append(layout.fragments, fragmentSource{path: path, entries: entries})
	}

	contents := contentsPerPath(nested)
	for _, group := range nested {
		bits := group.members.String()
		short := group.digest.Short()
		if group.members.Full() {
			layout.unconditional = append(layout.unconditional, nestedPlacement{
				name: names.claim(
					composite.NestedPath(composite.NestedFragmentName(group.path, "")),
					composite.NestedPath(composite.NestedFragmentName(group.path, short)),
				),
				entry: group.entry,
			})
			continue
		}
		preferred := ""
		if contents[group.path] > 1 {
			preferred = bits
		}
		path := names.claim(
			composite.FragmentPath(composite.NestedFragmentName(group.path, preferred)),
			composite.FragmentPath(composite.NestedFragmentName(group.path, bits)),
			composite.FragmentPath(composite.NestedFragmentName(group.path, bits+"-"+short)),
		)
		layout.manifest.Add(manifest.Fragment{
			Path:     path,
			Versions: versionsOf(variants, group.members),
			Loaders:  []string{loader},
		})
		layout.fragments = append(layout.fragments, fragmentSource{path: path, nested: group.entry})
	}
	return layout
}

// entryNames tracks the composite entry names already in use.
type entryNames struct {
	taken map[string]struct{}
}

func newEntryNames(reserved ...string) *entryNames {
	names := &entryNames{taken: make(map[string]struct{})}
	for _, name := range reserved {
		names.reserve(name)
	}
	return names
}

func (n *entryNames) reserve(name string) {
	n.taken[name] = struct{}{}
}

// claim takes the first free name among candidates. When all are in
// use, the last candidate gets a numeric suffix before its extension.
func (n *entryNames) claim(candidates ...string) string {
	for _, candidate := range candidates {
		if _, ok := n.taken[candidate]; !ok {
			n.reserve(candidate)
			return candidate
		}
	}
	last := candidates[len(candidates)-1]
	extension := path.Ext(last)
	stem := strings.TrimSuffix(last, extension)
	for counter := 2; ; counter++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, counter, extension)
		if _, ok := n.taken[candidate]; !ok {
			n.reserve(candidate)
			return candidate
		}
	}
}

func versionsOf(variants []*Variant, members *membership.Set) []string {
	var versions []string
	for _, index := range members.Members() {
		versions = append(versions, variants[index].Version)
	}
	return versions
}

func writeComposite(w io.Writer, options Options, layout *plan, metadata *Metadata) error {
	packager := composite.NewPackager(w)
	if err := packager.WriteBootstrap(); err != nil {
		return err
	}
	if err := packager.WriteInfo(options.Info); err != nil {
		return err
	}
	if err := packager.WriteMetadata(options.MetadataFile, metadata.Descriptor); err != nil {
		return err
	}
	if err := packager.WriteManifest(layout.manifest); err != nil {
		return err
	}
	if options.LoaderPayload != "" {
		if err := writeLoaderPayload(packager, options.LoaderPayload); err != nil {
			return err
		}
	}
	if metadata.Icon != nil {
		if err := packager.CopyEntry(metadata.Icon, metadata.IconPath); err != nil {
			return err
		}
	}
	for _, placement := range layout.unconditional {
		if err := packager.CopyEntry(placement.entry, placement.name); err != nil {
			return err
		}
	}
	for _, fragment := range layout.fragments {
		var err error
		if fragment.nested != nil {
			err = packager.CopyEntry(fragment.nested, fragment.path)
		} else {
			err = packager.WriteFragment(fragment.path, fragment.entries)
		}
		if err != nil {
			return err
		}
	}
	return packager.Close()
}

func writeLoaderPayload(packager *composite.Packager, path string) error {
	payload, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening loader payload: %w", err)
	}
	defer payload.Close()
	return packager.WriteLoaderPayload(payload)
}

// writeAtomic writes path through a temporary file in the same
// directory and renames it into place. It returns the written size.
func writeAtomic(path string, write func(io.Writer) error) (int64, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := write(tmpFile); err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	info, err := tmpFile.Stat()
	if err != nil {
		tmpFile.Close()
		return 0, fmt.Errorf("stating %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}

	success = true
	return info.Size(), nil
}
