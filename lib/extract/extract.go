// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/omnipack/omnipack/lib/archive"
	"github.com/omnipack/omnipack/lib/codec"
	"github.com/omnipack/omnipack/lib/composite"
	"github.com/omnipack/omnipack/lib/fingerprint"
	"github.com/omnipack/omnipack/lib/manifest"
)

// StateFile is the name of the state file inside a mod's working
// directory.
const StateFile = ".omnipack-state.cbor"

// stateVersion is bumped when the state layout changes incompatibly.
// A state file with another version is discarded.
const stateVersion = 1

// Extractor extracts fragments below Root.
type Extractor struct {
	Root   string
	Logger *slog.Logger
}

// Extracted is one fragment written (or reused) on disk.
type Extracted struct {
	Fragment manifest.Fragment `json:"fragment"`
	Path     string            `json:"path"`
	Reused   bool              `json:"reused"`
}

// Set is the extraction result for one mod, in selection order.
type Set struct {
	ModID     string      `json:"mod_id"`
	Dir       string      `json:"dir"`
	Fragments []Extracted `json:"fragments"`
}

// Paths returns the on-disk paths in selection order.
func (s *Set) Paths() []string {
	paths := make([]string, len(s.Fragments))
	for i, extracted := range s.Fragments {
		paths[i] = extracted.Path
	}
	return paths
}

type state struct {
	Version   int                    `cbor:"version"`
	Fragments map[string]stateRecord `cbor:"fragments"`
}

type stateRecord struct {
	Size   uint64             `cbor:"size"`
	CRC32  uint32             `cbor:"crc32"`
	Digest fingerprint.Digest `cbor:"digest"`
}

// Dir returns the working directory of modID.
func (e *Extractor) Dir(modID string) string {
	return filepath.Join(e.Root, modID)
}

// Extract writes fragments from pkg into the working directory of
// modID and returns them in the given order.
func (e *Extractor) Extract(pkg *composite.Package, modID string, fragments []manifest.Fragment) (*Set, error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if e.Root == "" {
		return nil, errors.New("extraction root is not set")
	}
	if modID == "" || !filepath.IsLocal(modID) || filepath.Base(modID) != modID {
		return nil, fmt.Errorf("mod id %q cannot name a working directory", modID)
	}

	dir := e.Dir(modID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating working directory: %w", err)
	}
	statePath := filepath.Join(dir, StateFile)
	previous := loadState(statePath, logger)
	current := state{Version: stateVersion, Fragments: make(map[string]stateRecord)}

	set := &Set{ModID: modID, Dir: dir}
	for _, fragment := range fragments {
		relative := filepath.FromSlash(fragment.Path)
		if !filepath.IsLocal(relative) {
			logger.Warn("skipping fragment with unsafe path", "mod", modID, "fragment", fragment.Path)
			continue
		}
		entry, err := pkg.Entry(fragment.Path)
		if errors.Is(err, composite.ErrEntryNotFound) {
			logger.Warn("fragment missing from composite", "mod", modID, "fragment", fragment.Path)
			continue
		}
		if err != nil {
			return nil, err
		}

		target := filepath.Join(dir, relative)
		record, reused, err := extractEntry(entry, target, previous.Fragments[fragment.Path])
		if err != nil {
			return nil, fmt.Errorf("extracting %s for %s: %w", fragment.Path, modID, err)
		}
		current.Fragments[fragment.Path] = record
		set.Fragments = append(set.Fragments, Extracted{Fragment: fragment, Path: target, Reused: reused})
		logger.Debug("fragment ready", "mod", modID, "fragment", fragment.Path, "reused", reused)
	}

	removeStale(dir, previous, current, logger)
	if err := codec.WriteFile(statePath, current, 0o644); err != nil {
		return nil, fmt.Errorf("saving extraction state for %s: %w", modID, err)
	}
	return set, nil
}

// extractEntry writes entry to target unless target already holds
// exactly the content recorded in previous for the same entry.
func extractEntry(entry *archive.Entry, target string, previous stateRecord) (stateRecord, bool, error) {
	record := stateRecord{Size: entry.Size(), CRC32: entry.CRC32()}

	if previous.Size == record.Size && previous.CRC32 == record.CRC32 && !previous.Digest.IsZero() {
		digest, err := fingerprint.SumFile(target)
		if err == nil && digest == previous.Digest {
			record.Digest = digest
			return record, true, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return stateRecord{}, false, fmt.Errorf("creating directory: %w", err)
	}
	digest, err := writeEntry(entry, target)
	if err != nil {
		return stateRecord{}, false, err
	}
	record.Digest = digest
	return record, false, nil
}

// writeEntry streams the entry's content to target through a temporary
// file, returning the digest of the bytes written.
func writeEntry(entry *archive.Entry, target string) (fingerprint.Digest, error) {
	reader, err := entry.Open()
	if err != nil {
		return fingerprint.Digest{}, err
	}
	defer reader.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+"-*.tmp")
	if err != nil {
		return fingerprint.Digest{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	hasher := fingerprint.NewHasher()
	if _, err := io.Copy(io.MultiWriter(tmpFile, hasher), reader); err != nil {
		tmpFile.Close()
		return fingerprint.Digest{}, fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		tmpFile.Close()
		return fingerprint.Digest{}, fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fingerprint.Digest{}, fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fingerprint.Digest{}, fmt.Errorf("renaming %s to %s: %w", tmpPath, target, err)
	}

	success = true
	return hasher.Digest(), nil
}

// loadState reads the previous state. A missing, unreadable or
// outdated state is treated as empty, which only costs a rewrite.
func loadState(path string, logger *slog.Logger) state {
	var loaded state
	err := codec.ReadFile(path, &loaded)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return state{}
	case err != nil:
		logger.Warn("discarding unreadable extraction state", "path", path, "error", err)
		return state{}
	case loaded.Version != stateVersion:
		logger.Debug("discarding extraction state from another version", "path", path, "version", loaded.Version)
		return state{}
	}
	return loaded
}

// removeStale deletes files recorded in previous that current no
// longer selects.
func removeStale(dir string, previous, current state, logger *slog.Logger) {
	var stale []string
	for path := range previous.Fragments {
		if _, kept := current.Fragments[path]; !kept {
			stale = append(stale, path)
		}
	}
	slices.Sort(stale)
	for _, path := range stale {
		relative := filepath.FromSlash(path)
		if !filepath.IsLocal(relative) {
			continue
		}
		err := os.Remove(filepath.Join(dir, relative))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("removing stale fragment", "fragment", path, "error", err)
			continue
		}
		logger.Debug("removed stale fragment", "fragment", path)
	}
}
