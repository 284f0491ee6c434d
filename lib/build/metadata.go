// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package build

import (
	"fmt"
	"log/slog"

	"github.com/omnipack/omnipack/lib/archive"
	"github.com/omnipack/omnipack/lib/manifest"
	"github.com/omnipack/omnipack/lib/modmeta"
)

// ContainerSuffix is appended to the mod id to form the container's
// own id, so the container never collides with the mod it provides.
const ContainerSuffix = "-container"

// Metadata is the generated container descriptor and the icon it
// refers to.
type Metadata struct {
	Descriptor []byte

	// IconPath is the icon's entry name, empty when no variant carries
	// a usable icon.
	IconPath string
	Icon     *archive.Entry
}

// GenerateMetadata builds the container descriptor for modID from
// template and the variants' descriptors.
//
// Carried fields ([modmeta.CarriedFields]) come from the last variant
// declaring them; the icon only from a variant that actually contains
// the icon file. Dependencies are intersected across variants
// ([modmeta.IntersectDependencies]); a category with no surviving
// dependency keeps whatever the template declares. jarsInJar lists the
// composite entries the host loads as nested archives.
func GenerateMetadata(template []byte, modID string, variants []*Variant, jarsInJar []string, logger *slog.Logger) (*Metadata, error) {
	container, err := modmeta.NewContainer(template)
	if err != nil {
		return nil, err
	}
	metadata := &Metadata{}

	for _, variant := range variants {
		for _, field := range modmeta.CarriedFields {
			if field == "icon" {
				continue
			}
			if raw, ok := variant.Descriptor.Field(field); ok {
				container.Set(field, raw)
			}
		}

		iconPath := variant.Descriptor.IconPath()
		if iconPath == "" {
			continue
		}
		icon, ok := variant.Archive.Lookup(iconPath)
		if !ok {
			logger.Warn("declared icon is missing", "variant", variant.Name(), "path", iconPath)
			continue
		}
		container.Set("icon", iconPath)
		metadata.IconPath = iconPath
		metadata.Icon = icon
	}

	container.Set("id", modID+ContainerSuffix)
	container.Append("provides", modID)
	container.SetPath(modID, "custom", "modmenu", "parent", "id")
	container.SetPath(modID, "custom", "omnipack", "modId")
	container.SetPath(manifest.SupportedSchemaVersion, "custom", "omnipack", "schemaVersion")

	descriptors := make([]*modmeta.Descriptor, len(variants))
	for i, variant := range variants {
		descriptors[i] = variant.Descriptor
	}
	for category, kept := range modmeta.IntersectDependencies(descriptors) {
		if len(kept) > 0 {
			container.Set(category, kept)
		}
	}

	for _, path := range jarsInJar {
		container.Append("jars", map[string]any{"file": path})
	}

	descriptor, err := container.Marshal()
	if err != nil {
		return nil, fmt.Errorf("generating metadata for %s: %w", modID, err)
	}
	metadata.Descriptor = descriptor
	return metadata, nil
}
