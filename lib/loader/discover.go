// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/omnipack/omnipack/lib/archive"
	"github.com/omnipack/omnipack/lib/composite"
	"github.com/omnipack/omnipack/lib/modmeta"
)

// Discover returns the composites installed in directory, in file
// name order. An archive counts as a composite when it carries a
// fragment manifest; its mod id comes from its metadata descriptor, or
// from the file name when the descriptor is unusable. Unreadable
// archives are logged and skipped.
func Discover(directory, metadataFile string, logger *slog.Logger) ([]Mod, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if metadataFile == "" {
		metadataFile = modmeta.DefaultFile
	}

	files, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("listing mods: %w", err)
	}
	var names []string
	for _, file := range files {
		if !file.IsDir() && strings.EqualFold(filepath.Ext(file.Name()), ".jar") {
			names = append(names, file.Name())
		}
	}
	slices.Sort(names)

	var mods []Mod
	for _, name := range names {
		path := filepath.Join(directory, name)
		opened, err := archive.Open(path)
		if err != nil {
			logger.Warn("skipping unreadable archive", "path", path, "error", err)
			continue
		}
		if composite.IsComposite(opened) {
			mods = append(mods, Mod{ID: modID(opened, metadataFile, logger), Path: path})
		}
		opened.Close()
	}
	return mods, nil
}

func modID(opened *archive.Archive, metadataFile string, logger *slog.Logger) string {
	fallback := strings.TrimSuffix(opened.Name(), filepath.Ext(opened.Name()))
	data, err := opened.ReadEntry(metadataFile)
	if err != nil {
		logger.Warn("composite has no metadata; using its file name as mod id", "path", opened.Path(), "mod", fallback)
		return fallback
	}
	descriptor, err := modmeta.ParseBytes(data)
	if err != nil || descriptor.ID == "" {
		logger.Warn("composite metadata is unusable; using its file name as mod id", "path", opened.Path(), "mod", fallback, "error", err)
		return fallback
	}
	return descriptor.ID
}
