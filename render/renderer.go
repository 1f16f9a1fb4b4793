// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package render defines the interface for template serializers.
package render

import "github.com/albertocavalcante/jsontmpl/template"

// Renderer is the interface that all template serializers must implement.
type Renderer interface {
	// Metadata returns information about this renderer.
	Metadata() Metadata

	// Render serializes a template document.
	Render(v template.Value, cfg Config) ([]byte, error)
}

// Metadata describes a renderer.
type Metadata struct {
	// Name is the short identifier (e.g., "json", "yaml").
	Name string

	// Description is a human-readable description.
	Description string

	// FileExtension is the extension used when writing files (e.g., ".json").
	FileExtension string
}

// Config contains renderer configuration.
type Config struct {
	// Indent is the indentation unit. Empty selects two spaces.
	Indent string

	// Options contains renderer-specific options.
	Options map[string]string
}

// Option returns a renderer-specific option with default.
func (c Config) Option(key, defaultValue string) string {
	if v, ok := c.Options[key]; ok {
		return v
	}
	return defaultValue
}

func (c Config) indent() string {
	if c.Indent == "" {
		return "  "
	}
	return c.Indent
}
