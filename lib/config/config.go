// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable [Load] reads the config path
// from.
const EnvVar = "OMNIPACK_CONFIG"

// Config is the complete omnipack configuration.
type Config struct {
	// Paths configures directory locations shared by both sides.
	Paths PathsConfig `yaml:"paths"`

	// Build configures composite builds.
	Build BuildConfig `yaml:"build"`

	// Runtime configures loading installed composites.
	Runtime RuntimeConfig `yaml:"runtime"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for omnipack data. Other paths may
	// refer to it as ${OMNIPACK_ROOT}.
	Root string `yaml:"root"`
}

// BuildConfig configures composite builds.
type BuildConfig struct {
	// Inputs is the directory holding one archive per game version.
	// Default: jars
	Inputs string `yaml:"inputs"`

	// Output is the directory the composite is written to.
	// Default: out
	Output string `yaml:"output"`

	// Loader is the loader identifier recorded on every fragment.
	// Default: fabric
	Loader string `yaml:"loader"`

	// GameDependency names the dependency carrying each input's
	// game-version requirement.
	// Default: minecraft
	GameDependency string `yaml:"game_dependency"`

	// MetadataFile is the metadata descriptor path inside archives.
	// Default: fabric.mod.json
	MetadataFile string `yaml:"metadata_file"`

	// LoaderPayload is the runtime payload archive stored in every
	// composite. Empty builds composites without one.
	LoaderPayload string `yaml:"loader_payload"`

	// Template is a descriptor template file (JSON with comments).
	// Empty selects the built-in template.
	Template string `yaml:"template"`

	// InfoFile replaces the built-in informational notice.
	InfoFile string `yaml:"info_file"`

	// NoSplit lists entry paths whose copies are never shared between
	// inputs.
	NoSplit []string `yaml:"no_split"`

	// Exclude lists entry paths dropped from the output.
	Exclude []string `yaml:"exclude"`

	// Concurrency bounds parallel fingerprinting. Zero means one worker
	// per CPU.
	Concurrency int `yaml:"concurrency"`
}

// RuntimeConfig configures loading installed composites.
type RuntimeConfig struct {
	// ModsDir is where installed composites are discovered.
	// Default: mods
	ModsDir string `yaml:"mods_dir"`

	// WorkDir receives one extraction directory per mod.
	// Default: ${OMNIPACK_ROOT}/work
	WorkDir string `yaml:"work_dir"`

	// Loader is the identifier of the running loader.
	// Default: fabric
	Loader string `yaml:"loader"`
}

// Default returns the default configuration, with variables already
// expanded.
func Default() *Config {
	config := defaults()
	config.expandVariables()
	return config
}

func defaults() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Paths: PathsConfig{
			Root: filepath.Join(homeDir, ".cache", "omnipack"),
		},
		Build: BuildConfig{
			Inputs:         "jars",
			Output:         "out",
			Loader:         "fabric",
			GameDependency: "minecraft",
			MetadataFile:   "fabric.mod.json",
		},
		Runtime: RuntimeConfig{
			ModsDir: "mods",
			WorkDir: "${OMNIPACK_ROOT}/work",
			Loader:  "fabric",
		},
	}
}

// Load loads the file named by the OMNIPACK_CONFIG environment
// variable, or returns [Default] when it is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path over the defaults. Unknown
// keys are rejected so typos do not silently fall back to defaults.
// The only expansion performed is ${HOME}, ${OMNIPACK_ROOT} and
// ${VAR:-default} in path fields.
func LoadFile(path string) (*Config, error) {
	config := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	config.expandVariables()
	return config, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"OMNIPACK_ROOT": c.Paths.Root,
		"HOME":          os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["OMNIPACK_ROOT"] = c.Paths.Root // Update for dependent paths.

	c.Build.Inputs = expandVars(c.Build.Inputs, vars)
	c.Build.Output = expandVars(c.Build.Output, vars)
	c.Build.LoaderPayload = expandVars(c.Build.LoaderPayload, vars)
	c.Build.Template = expandVars(c.Build.Template, vars)
	c.Build.InfoFile = expandVars(c.Build.InfoFile, vars)
	c.Runtime.ModsDir = expandVars(c.Runtime.ModsDir, vars)
	c.Runtime.WorkDir = expandVars(c.Runtime.WorkDir, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Build.Loader == "" {
		errs = append(errs, errors.New("build.loader is required"))
	}
	if c.Build.GameDependency == "" {
		errs = append(errs, errors.New("build.game_dependency is required"))
	}
	if c.Build.MetadataFile == "" {
		errs = append(errs, errors.New("build.metadata_file is required"))
	}
	if c.Build.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("build.concurrency must not be negative, got %d", c.Build.Concurrency))
	}
	for index, path := range c.Build.NoSplit {
		if path == "" {
			errs = append(errs, fmt.Errorf("build.no_split[%d] is empty", index))
		}
	}
	for index, path := range c.Build.Exclude {
		if path == "" {
			errs = append(errs, fmt.Errorf("build.exclude[%d] is empty", index))
		}
	}
	if c.Runtime.WorkDir == "" {
		errs = append(errs, errors.New("runtime.work_dir is required"))
	}
	if c.Runtime.Loader == "" {
		errs = append(errs, errors.New("runtime.loader is required"))
	}

	return errors.Join(errs...)
}
