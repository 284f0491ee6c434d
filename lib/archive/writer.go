// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/flate"
)

// FixedTime is the modification time stamped on every generated entry.
// It is the earliest time the zip format can represent.
var FixedTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Writer writes a zip archive. Entry names must be unique; adding a
// second entry with an existing name fails with [ErrDuplicateEntry].
type Writer struct {
	zip   *zip.Writer
	names map[string]struct{}
}

// NewWriter returns a Writer that writes a zip archive to w.
func NewWriter(w io.Writer) *Writer {
	zipWriter := zip.NewWriter(w)
	zipWriter.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	return &Writer{
		zip:   zipWriter,
		names: make(map[string]struct{}),
	}
}

// Copy copies entry into the archive under its own name, raw.
func (w *Writer) Copy(entry *Entry) error {
	return w.CopyAs(entry, entry.Name())
}

// CopyAs copies entry into the archive under name. The compressed
// bytes, method, checksum and timestamps are taken from the source
// header unchanged.
func (w *Writer) CopyAs(entry *Entry, name string) error {
	if err := w.reserve(name); err != nil {
		return err
	}

	header := entry.file.FileHeader
	header.Name = name

	raw, err := entry.file.OpenRaw()
	if err != nil {
		return fmt.Errorf("opening raw entry %s: %w", entry.Name(), err)
	}
	destination, err := w.zip.CreateRaw(&header)
	if err != nil {
		return fmt.Errorf("creating entry %s: %w", name, err)
	}
	if _, err := io.Copy(destination, raw); err != nil {
		return fmt.Errorf("copying entry %s: %w", name, err)
	}
	return nil
}

// AddBytes adds a generated entry compressed with deflate.
func (w *Writer) AddBytes(name string, data []byte) error {
	return w.add(name, data, zip.Deflate)
}

// AddStored adds a generated entry without compression. Nested
// archives are stored this way since their content is already
// compressed.
func (w *Writer) AddStored(name string, data []byte) error {
	return w.add(name, data, zip.Store)
}

// AddReader adds a generated entry with the given method, streaming
// its content from reader.
func (w *Writer) AddReader(name string, reader io.Reader, method uint16) error {
	if err := w.reserve(name); err != nil {
		return err
	}
	header := &zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: FixedTime,
	}
	destination, err := w.zip.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("creating entry %s: %w", name, err)
	}
	if _, err := io.Copy(destination, reader); err != nil {
		return fmt.Errorf("writing entry %s: %w", name, err)
	}
	return nil
}

// Close finishes the central directory. It does not close the
// underlying writer.
func (w *Writer) Close() error {
	if err := w.zip.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return nil
}

func (w *Writer) add(name string, data []byte, method uint16) error {
	return w.AddReader(name, bytes.NewReader(data), method)
}

func (w *Writer) reserve(name string) error {
	if _, exists := w.names[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, name)
	}
	w.names[name] = struct{}{}
	return nil
}
