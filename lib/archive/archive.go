// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrDuplicateEntry is returned by [Open] when an archive contains
	// two entries with the same path.
	ErrDuplicateEntry = errors.New("duplicate archive entry")

	// ErrEntryNotFound is returned by [Archive.ReadEntry] for a path the
	// archive does not contain.
	ErrEntryNotFound = errors.New("archive entry not found")
)

// Archive is an opened zip archive with its entries indexed by path.
// An Archive is read-only and safe for concurrent reads of different
// entries.
type Archive struct {
	path    string
	reader  *zip.ReadCloser
	entries []*Entry
	byName  map[string]*Entry
}

// Entry is one (path, content) pair inside an archive.
type Entry struct {
	file *zip.File
}

// Open opens the zip archive at path and indexes its entries.
func Open(path string) (*Archive, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}

	archive := &Archive{
		path:    path,
		reader:  reader,
		entries: make([]*Entry, 0, len(reader.File)),
		byName:  make(map[string]*Entry, len(reader.File)),
	}
	for _, file := range reader.File {
		if _, exists := archive.byName[file.Name]; exists {
			reader.Close()
			return nil, fmt.Errorf("archive %s: %w: %s", path, ErrDuplicateEntry, file.Name)
		}
		entry := &Entry{file: file}
		archive.entries = append(archive.entries, entry)
		archive.byName[file.Name] = entry
	}
	return archive, nil
}

// Path returns the filesystem path the archive was opened from.
func (a *Archive) Path() string {
	return a.path
}

// Name returns the base name of the archive file.
func (a *Archive) Name() string {
	return filepath.Base(a.path)
}

// Entries returns the entries in central-directory order. The slice
// must not be modified.
func (a *Archive) Entries() []*Entry {
	return a.entries
}

// Lookup returns the entry at path, if present.
func (a *Archive) Lookup(path string) (*Entry, bool) {
	entry, ok := a.byName[path]
	return entry, ok
}

// ReadEntry returns the decompressed content of the entry at path.
func (a *Archive) ReadEntry(path string) ([]byte, error) {
	entry, ok := a.byName[path]
	if !ok {
		return nil, fmt.Errorf("archive %s: %w: %s", a.path, ErrEntryNotFound, path)
	}
	return entry.ReadAll()
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	return a.reader.Close()
}

// Name returns the entry's path inside its archive.
func (e *Entry) Name() string {
	return e.file.Name
}

// IsDir reports whether the entry is a directory marker.
func (e *Entry) IsDir() bool {
	return strings.HasSuffix(e.file.Name, "/")
}

// Size returns the uncompressed size recorded in the entry header.
func (e *Entry) Size() uint64 {
	return e.file.UncompressedSize64
}

// CRC32 returns the checksum recorded in the entry header.
func (e *Entry) CRC32() uint32 {
	return e.file.CRC32
}

// Open returns a reader over the decompressed content.
func (e *Entry) Open() (io.ReadCloser, error) {
	reader, err := e.file.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %s: %w", e.file.Name, err)
	}
	return reader, nil
}

// ReadAll returns the decompressed content.
func (e *Entry) ReadAll() ([]byte, error) {
	reader, err := e.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading entry %s: %w", e.file.Name, err)
	}
	return data, nil
}
