// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package modmeta

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// DefaultTemplate is the container descriptor used when no template
// file is configured. The preLaunch entrypoint belongs to the bootstrap
// payload, which performs selection and extraction at load time.
const DefaultTemplate = `{
  // Generated by omnipack. Fields below are overwritten from the variants.
  "schemaVersion": 1,
  "id": "omnipack-container",
  "version": "0.0.0",
  "environment": "*",
  "entrypoints": {
    "preLaunch": ["omnipack.loader.PreLaunch"]
  },
  "provides": [],
  "jars": [],
  "custom": {
    "modmenu": {
      "parent": {}
    },
    "omnipack": {}
  }
}`

// CarriedFields are copied verbatim from the variants into the
// container descriptor. When several variants declare a field, the
// last one in input order wins.
var CarriedFields = []string{
	"name", "version", "description", "contact", "authors",
	"contributors", "license", "environment", "icon",
}

// Container is a generated descriptor under construction. Marshal
// output is deterministic: object keys are sorted by encoding/json.
type Container struct {
	document map[string]any
}

// NewContainer parses template (JSON with optional comments) as the
// starting document.
func NewContainer(template []byte) (*Container, error) {
	var document map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(template), &document); err != nil {
		return nil, fmt.Errorf("parsing container template: %w", err)
	}
	if document == nil {
		document = make(map[string]any)
	}
	return &Container{document: document}, nil
}

// Set replaces a top-level field.
func (c *Container) Set(key string, value any) {
	c.document[key] = value
}

// Get returns a top-level field.
func (c *Container) Get(key string) (any, bool) {
	value, ok := c.document[key]
	return value, ok
}

// Delete removes a top-level field.
func (c *Container) Delete(key string) {
	delete(c.document, key)
}

// SetPath sets a nested field, creating intermediate objects. An
// intermediate value that is not an object is replaced.
func (c *Container) SetPath(value any, keys ...string) {
	if len(keys) == 0 {
		return
	}
	current := c.document
	for _, key := range keys[:len(keys)-1] {
		next, ok := current[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[key] = next
		}
		current = next
	}
	current[keys[len(keys)-1]] = value
}

// Append appends value to the top-level array key, creating it if
// needed.
func (c *Container) Append(key string, value any) {
	existing, _ := c.document[key].([]any)
	c.document[key] = append(existing, value)
}

// Marshal returns the indented JSON document.
func (c *Container) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(c.document, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding container descriptor: %w", err)
	}
	return append(data, '\n'), nil
}
