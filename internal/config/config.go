// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package config loads jsontmpl configuration files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/jsontmpl/descriptor"
	"github.com/albertocavalcante/jsontmpl/template"
	"gopkg.in/yaml.v3"
)

// Provider names.
const (
	ProviderAuto    = "auto"
	ProviderSource  = "source"
	ProviderCatalog = "catalog"
)

// Config represents the complete configuration.
type Config struct {
	// MaxDepth bounds nested expansion.
	MaxDepth int `yaml:"maxDepth" json:"maxDepth"`

	// Format names the renderer ("json", "yaml").
	Format string `yaml:"format" json:"format"`

	// Provider selects where type descriptions come from.
	Provider string `yaml:"provider" json:"provider"`

	// Indent is the output indentation unit.
	Indent string `yaml:"indent" json:"indent"`

	// BuildTags are passed to the Go build system by the source provider.
	BuildTags []string `yaml:"buildTags" json:"buildTags"`

	// DocTag is the struct tag holding field documentation for runtime
	// reflection.
	DocTag string `yaml:"docTag" json:"docTag"`

	// Conventions extends the naming conventions.
	Conventions Conventions `yaml:"conventions" json:"conventions"`

	// Options are renderer-specific settings (e.g., "width" for json).
	Options map[string]string `yaml:"options" json:"options"`

	// LogLevel is the minimum level logged: debug, info, warn or error.
	LogLevel string `yaml:"logLevel" json:"logLevel"`

	// LogFormat is text or json.
	LogFormat string `yaml:"logFormat" json:"logFormat"`
}

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Conventions configures type name classification.
type Conventions struct {
	Preset          string   `yaml:"preset" json:"preset"`
	LibraryPrefixes []string `yaml:"libraryPrefixes" json:"libraryPrefixes"`
	Collections     []string `yaml:"collections" json:"collections"`
	Maps            []string `yaml:"maps" json:"maps"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		MaxDepth: template.DefaultMaxDepth,
		Format:   "json",
		Provider: ProviderAuto,
		Indent:   "  ",
		DocTag:   "doc",
	}
}

// LoadFile loads configuration from a file (YAML or JSON based on
// extension) and merges it over the current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			if err := json.Unmarshal(data, &loaded); err != nil {
				return errors.New("unable to parse config as YAML or JSON")
			}
		}
	}

	c.merge(&loaded)
	return c.Validate()
}

// merge merges the loaded config into the current config. Zero values
// leave the current value unchanged; lists are appended and options
// replaced key by key.
func (c *Config) merge(loaded *Config) {
	if loaded.MaxDepth != 0 {
		c.MaxDepth = loaded.MaxDepth
	}
	if loaded.Format != "" {
		c.Format = loaded.Format
	}
	if loaded.Provider != "" {
		c.Provider = loaded.Provider
	}
	if loaded.Indent != "" {
		c.Indent = loaded.Indent
	}
	if loaded.DocTag != "" {
		c.DocTag = loaded.DocTag
	}
	if loaded.LogLevel != "" {
		c.LogLevel = loaded.LogLevel
	}
	if loaded.LogFormat != "" {
		c.LogFormat = loaded.LogFormat
	}
	c.BuildTags = append(c.BuildTags, loaded.BuildTags...)
	if len(loaded.Options) > 0 {
		if c.Options == nil {
			c.Options = make(map[string]string, len(loaded.Options))
		}
		maps.Copy(c.Options, loaded.Options)
	}

	if loaded.Conventions.Preset != "" {
		c.Conventions.Preset = loaded.Conventions.Preset
	}
	c.Conventions.LibraryPrefixes = append(c.Conventions.LibraryPrefixes, loaded.Conventions.LibraryPrefixes...)
	c.Conventions.Collections = append(c.Conventions.Collections, loaded.Conventions.Collections...)
	c.Conventions.Maps = append(c.Conventions.Maps, loaded.Conventions.Maps...)
}

// Validate reports invalid settings.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("maxDepth must not be negative, got %d", c.MaxDepth))
	}
	switch c.Provider {
	case ProviderAuto, ProviderSource, ProviderCatalog:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q (want %s, %s or %s)",
			c.Provider, ProviderAuto, ProviderSource, ProviderCatalog))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown logLevel %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "", LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown logFormat %q (want %s or %s)", c.LogFormat, LogFormatText, LogFormatJSON))
	}
	if _, ok := descriptor.ConventionsFor(c.Conventions.Preset); !ok {
		errs = append(errs, fmt.Errorf("unknown conventions preset %q", c.Conventions.Preset))
	}
	return errors.Join(errs...)
}

// BuildConventions returns the preset conventions extended with the
// configured names. An empty preset selects fallback.
func (c *Config) BuildConventions(fallback string) (descriptor.Conventions, error) {
	preset := c.Conventions.Preset
	if preset == "" {
		preset = fallback
	}
	conv, ok := descriptor.ConventionsFor(preset)
	if !ok {
		return descriptor.Conventions{}, fmt.Errorf("unknown conventions preset %q", preset)
	}
	return conv.Extend(c.Conventions.LibraryPrefixes, c.Conventions.Collections, c.Conventions.Maps), nil
}
