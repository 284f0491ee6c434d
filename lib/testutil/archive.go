// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fixtureTime is stamped on every fixture entry. It deliberately
// differs from the build's fixed time so tests can tell copied entries
// from generated ones.
var fixtureTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// Entry is one fixture archive entry.
type Entry struct {
	Name    string
	Content string
}

// ArchiveBytes returns a zip archive holding entries in order.
func ArchiveBytes(t testing.TB, entries ...Entry) []byte {
	t.Helper()
	var buffer bytes.Buffer
	writer := zip.NewWriter(&buffer)
	for _, entry := range entries {
		header := &zip.FileHeader{
			Name:     entry.Name,
			Method:   zip.Deflate,
			Modified: fixtureTime,
		}
		destination, err := writer.CreateHeader(header)
		if err != nil {
			t.Fatalf("creating fixture entry %s: %v", entry.Name, err)
		}
		if _, err := destination.Write([]byte(entry.Content)); err != nil {
			t.Fatalf("writing fixture entry %s: %v", entry.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing fixture archive: %v", err)
	}
	return buffer.Bytes()
}

// WriteArchive writes a zip archive holding entries to path, creating
// parent directories, and returns path.
func WriteArchive(t testing.TB, path string, entries ...Entry) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating fixture directory: %v", err)
	}
	if err := os.WriteFile(path, ArchiveBytes(t, entries...), 0o644); err != nil {
		t.Fatalf("writing fixture archive %s: %v", path, err)
	}
	return path
}

// ReadArchive returns the entries of the zip archive at path.
func ReadArchive(t testing.TB, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading archive %s: %v", path, err)
	}
	return ReadArchiveBytes(t, data)
}

// ReadArchiveBytes returns the entries of an in-memory zip archive.
func ReadArchiveBytes(t testing.TB, data []byte) map[string]string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	entries := make(map[string]string, len(reader.File))
	for _, file := range reader.File {
		content, err := file.Open()
		if err != nil {
			t.Fatalf("opening entry %s: %v", file.Name, err)
		}
		body, err := io.ReadAll(content)
		content.Close()
		if err != nil {
			t.Fatalf("reading entry %s: %v", file.Name, err)
		}
		entries[file.Name] = string(body)
	}
	return entries
}
