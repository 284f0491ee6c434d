// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package composite

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/omnipack/omnipack/lib/archive"
	"github.com/omnipack/omnipack/lib/manifest"
	"github.com/omnipack/omnipack/lib/version"
)

// Packager writes a composite archive. Callers write the sections in
// layout order (see the package documentation) and then call
// [Packager.Close]. Each fragment is assembled and written in one
// [Packager.WriteFragment] call.
type Packager struct {
	writer *archive.Writer
}

// NewPackager returns a Packager writing a composite to w.
func NewPackager(w io.Writer) *Packager {
	return &Packager{writer: archive.NewWriter(w)}
}

// WriteBootstrap writes the bootstrap archive metadata so the host
// recognizes the composite as an ordinary archive.
func (p *Packager) WriteBootstrap() error {
	content := "Manifest-Version: 1.0\r\n" +
		"Created-By: omnipack " + version.Version + "\r\n" +
		"\r\n"
	return p.writer.AddBytes(BootstrapManifestPath, []byte(content))
}

// WriteInfo writes the informational notice. Empty text writes
// nothing.
func (p *Packager) WriteInfo(text string) error {
	if text == "" {
		return nil
	}
	return p.writer.AddBytes(InfoPath, []byte(text))
}

// WriteMetadata writes the generated host metadata descriptor under
// name.
func (p *Packager) WriteMetadata(name string, data []byte) error {
	return p.writer.AddBytes(name, data)
}

// WriteManifest writes the fragment manifest.
func (p *Packager) WriteManifest(m *manifest.Manifest) error {
	data, err := manifest.Marshal(m)
	if err != nil {
		return err
	}
	return p.writer.AddBytes(ManifestPath, data)
}

// WriteLoaderPayload stores the runtime payload archive read from
// reader.
func (p *Packager) WriteLoaderPayload(reader io.Reader) error {
	return p.writer.AddReader(LoaderPayloadPath, reader, zip.Store)
}

// CopyEntry copies an input entry raw into the composite under name.
// Icons and nested archives are carried this way.
func (p *Packager) CopyEntry(entry *archive.Entry, name string) error {
	return p.writer.CopyAs(entry, name)
}

// WriteFragment assembles a fragment archive from entries, copied raw
// in the given order, and stores it at fragmentPath.
func (p *Packager) WriteFragment(fragmentPath string, entries []*archive.Entry) error {
	var buffer bytes.Buffer
	fragment := archive.NewWriter(&buffer)
	for _, entry := range entries {
		if err := fragment.Copy(entry); err != nil {
			return fmt.Errorf("fragment %s: %w", fragmentPath, err)
		}
	}
	if err := fragment.Close(); err != nil {
		return fmt.Errorf("fragment %s: %w", fragmentPath, err)
	}
	return p.writer.AddStored(fragmentPath, buffer.Bytes())
}

// Close finishes the composite. It does not close the underlying
// writer.
func (p *Packager) Close() error {
	return p.writer.Close()
}
