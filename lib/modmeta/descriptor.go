// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package modmeta

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/jsonc"
)

// DefaultFile is the descriptor path inside a mod archive.
const DefaultFile = "fabric.mod.json"

// ErrMissingField is returned by [Descriptor.Validate] when a mandatory
// identification field is absent.
var ErrMissingField = errors.New("metadata descriptor is missing a mandatory field")

// Dependency categories in the order they are aggregated.
var DependencyCategories = []string{"depends", "recommends", "suggests", "breaks", "conflicts"}

// Predicates is a dependency's version requirement. The descriptor
// format allows either a single string or a list of strings (any of
// which may match); both decode to a list.
type Predicates []string

// UnmarshalJSON accepts a string or an array of strings.
func (p *Predicates) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*p = Predicates{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("version requirement must be a string or a list of strings: %w", err)
	}
	*p = Predicates(list)
	return nil
}

// NestedJar declares an archive bundled inside the mod.
type NestedJar struct {
	File string `json:"file"`
}

// Descriptor is a parsed metadata descriptor.
type Descriptor struct {
	ID         string                `json:"id"`
	Version    string                `json:"version"`
	Jars       []NestedJar           `json:"jars"`
	Depends    map[string]Predicates `json:"depends"`
	Recommends map[string]Predicates `json:"recommends"`
	Suggests   map[string]Predicates `json:"suggests"`
	Breaks     map[string]Predicates `json:"breaks"`
	Conflicts  map[string]Predicates `json:"conflicts"`

	// fields holds every top-level field as raw JSON, keyed by name.
	fields map[string]json.RawMessage
}

// Parser implements the host metadata-parser contract on top of
// [Parse].
type Parser struct{}

// Parse reads one descriptor from reader.
func (Parser) Parse(reader io.Reader) (*Descriptor, error) {
	return Parse(reader)
}

// Parse reads a descriptor, tolerating comments and trailing commas.
func Parse(reader io.Reader) (*Descriptor, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading metadata descriptor: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a descriptor held in memory.
func ParseBytes(data []byte) (*Descriptor, error) {
	stripped := jsonc.ToJSON(data)

	var descriptor Descriptor
	if err := json.Unmarshal(stripped, &descriptor); err != nil {
		return nil, fmt.Errorf("parsing metadata descriptor: %w", err)
	}
	if err := json.Unmarshal(stripped, &descriptor.fields); err != nil {
		return nil, fmt.Errorf("parsing metadata descriptor fields: %w", err)
	}
	return &descriptor, nil
}

// Field returns the raw JSON of a top-level field.
func (d *Descriptor) Field(name string) (json.RawMessage, bool) {
	raw, ok := d.fields[name]
	if !ok || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

// Dependencies returns the declarations of one category, or nil for an
// unknown category.
func (d *Descriptor) Dependencies(category string) map[string]Predicates {
	switch category {
	case "depends":
		return d.Depends
	case "recommends":
		return d.Recommends
	case "suggests":
		return d.Suggests
	case "breaks":
		return d.Breaks
	case "conflicts":
		return d.Conflicts
	default:
		return nil
	}
}

// GameVersion returns the version requirement this variant declares on
// the game (the "depends" entry named by gameDependency). Multiple
// alternatives are joined with "||".
func (d *Descriptor) GameVersion(gameDependency string) (string, error) {
	predicates, ok := d.Depends[gameDependency]
	if !ok || len(predicates) == 0 {
		return "", fmt.Errorf("%w: depends.%s", ErrMissingField, gameDependency)
	}
	return strings.Join(predicates, " || "), nil
}

// IconPath returns the icon path when the descriptor declares a single
// icon file. Size-keyed icon maps are not carried over.
func (d *Descriptor) IconPath() string {
	raw, ok := d.Field("icon")
	if !ok {
		return ""
	}
	var path string
	if err := json.Unmarshal(raw, &path); err != nil {
		return ""
	}
	return path
}

// NestedPaths returns the paths of every declared nested archive.
func (d *Descriptor) NestedPaths() []string {
	paths := make([]string, 0, len(d.Jars))
	for _, jar := range d.Jars {
		if jar.File != "" {
			paths = append(paths, jar.File)
		}
	}
	return paths
}

// Validate checks the fields a variant must declare to take part in a
// build: its id and its game version requirement.
func (d *Descriptor) Validate(gameDependency string) error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, fmt.Errorf("%w: id", ErrMissingField))
	}
	if _, err := d.GameVersion(gameDependency); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
