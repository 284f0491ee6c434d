// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"archive/zip"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/omnipack/omnipack/lib/archive"
	"github.com/omnipack/omnipack/lib/modmeta"
)

// ErrNoVariants is returned when no input survives loading.
var ErrNoVariants = errors.New("no usable input variants")

// Variant is one input archive taking part in a build.
type Variant struct {
	// Index is the variant's position among the surviving inputs and
	// its bit in every membership.
	Index int

	Archive    *archive.Archive
	Descriptor *modmeta.Descriptor

	// Version is the game-version requirement the variant declares.
	Version string
}

// Name returns the variant's file name.
func (v *Variant) Name() string {
	return v.Archive.Name()
}

// SkippedVariant records an input left out of a build.
type SkippedVariant struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// LoadVariants opens the archives in directory in sorted name order.
// Malformed inputs are skipped and reported; the caller must close the
// returned variants' archives.
func LoadVariants(directory, metadataFile, gameDependency string, logger *slog.Logger) ([]*Variant, []SkippedVariant, error) {
	files, err := os.ReadDir(directory)
	if err != nil {
		return nil, nil, fmt.Errorf("listing inputs: %w", err)
	}

	var names []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		extension := strings.ToLower(filepath.Ext(file.Name()))
		if extension == ".jar" || extension == ".zip" {
			names = append(names, file.Name())
		}
	}
	slices.Sort(names)

	var variants []*Variant
	var skipped []SkippedVariant
	skip := func(name string, reason error) {
		logger.Warn("skipping input variant", "variant", name, "error", reason)
		skipped = append(skipped, SkippedVariant{File: name, Reason: reason.Error()})
	}

	for _, name := range names {
		opened, err := archive.Open(filepath.Join(directory, name))
		if err != nil {
			if malformedArchive(err) {
				skip(name, err)
				continue
			}
			closeVariants(variants)
			return nil, nil, err
		}

		descriptor, err := readDescriptor(opened, metadataFile, gameDependency)
		if err != nil {
			opened.Close()
			skip(name, err)
			continue
		}
		gameVersion, _ := descriptor.GameVersion(gameDependency)

		variants = append(variants, &Variant{
			Index:      len(variants),
			Archive:    opened,
			Descriptor: descriptor,
			Version:    gameVersion,
		})
		logger.Debug("loaded input variant",
			"variant", name,
			"index", len(variants)-1,
			"mod", descriptor.ID,
			"version", gameVersion,
			"entries", len(opened.Entries()),
		)
	}
	return variants, skipped, nil
}

func readDescriptor(opened *archive.Archive, metadataFile, gameDependency string) (*modmeta.Descriptor, error) {
	data, err := opened.ReadEntry(metadataFile)
	if err != nil {
		if errors.Is(err, archive.ErrEntryNotFound) {
			return nil, fmt.Errorf("no %s", metadataFile)
		}
		return nil, err
	}
	descriptor, err := modmeta.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	if err := descriptor.Validate(gameDependency); err != nil {
		return nil, err
	}
	return descriptor, nil
}

// malformedArchive reports whether err describes a bad input archive
// rather than a failure to read the filesystem.
func malformedArchive(err error) bool {
	return errors.Is(err, zip.ErrFormat) ||
		errors.Is(err, zip.ErrAlgorithm) ||
		errors.Is(err, zip.ErrChecksum) ||
		errors.Is(err, archive.ErrDuplicateEntry)
}

func closeVariants(variants []*Variant) {
	for _, variant := range variants {
		variant.Archive.Close()
	}
}

func archivesOf(variants []*Variant) []*archive.Archive {
	archives := make([]*archive.Archive, len(variants))
	for i, variant := range variants {
		archives[i] = variant.Archive
	}
	return archives
}
