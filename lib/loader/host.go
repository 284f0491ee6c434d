// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/omnipack/omnipack/lib/modmeta"
)

// MetadataParser parses a host metadata descriptor.
type MetadataParser interface {
	Parse(reader io.Reader) (*modmeta.Descriptor, error)
}

// Handle identifies a unit registered with the host.
type Handle string

// Registrar registers a unit of archives as one mod.
type Registrar interface {
	Register(paths []string, metadata *modmeta.Descriptor) (Handle, error)
}

// ClasspathAppender makes an archive visible to the host's class
// loading.
type ClasspathAppender interface {
	AppendToClasspath(path string) error
}

// Host is a complete host environment.
type Host interface {
	Registrar
	ClasspathAppender
}

// ErrDuplicateMod is returned by [Recorder.Register] for a mod id that
// is already registered.
var ErrDuplicateMod = errors.New("mod already registered")

// Registration is one unit accepted by a [Recorder].
type Registration struct {
	Handle  Handle   `json:"handle"`
	ModID   string   `json:"mod_id"`
	Version string   `json:"version,omitempty"`
	Paths   []string `json:"paths"`
}

// Recorder is an in-memory [Host]. Like a real host it refuses to
// register the same mod id twice. It is safe for concurrent use.
type Recorder struct {
	mu            sync.Mutex
	classpath     []string
	registrations []Registration
}

// AppendToClasspath records path.
func (r *Recorder) AppendToClasspath(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classpath = append(r.classpath, path)
	return nil
}

// Register records a unit under the descriptor's id.
func (r *Recorder) Register(paths []string, metadata *modmeta.Descriptor) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.registrations {
		if existing.ModID == metadata.ID {
			return "", fmt.Errorf("%w: %s", ErrDuplicateMod, metadata.ID)
		}
	}
	handle := Handle(metadata.ID)
	r.registrations = append(r.registrations, Registration{
		Handle:  handle,
		ModID:   metadata.ID,
		Version: metadata.Version,
		Paths:   slices.Clone(paths),
	})
	return handle, nil
}

// Classpath returns the recorded classpath in append order.
func (r *Recorder) Classpath() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.classpath)
}

// Registrations returns the recorded registrations in order.
func (r *Recorder) Registrations() []Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.registrations)
}
