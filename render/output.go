// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package render

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// Output contains rendered files.
type Output struct {
	// Files maps filename to content.
	Files map[string][]byte
}

// NewOutput creates a new Output.
func NewOutput() *Output {
	return &Output{Files: make(map[string][]byte)}
}

// Add adds a file to the output.
func (o *Output) Add(name string, content []byte) {
	o.Files[name] = content
}

// Names returns the file names, sorted.
func (o *Output) Names() []string {
	return slices.Sorted(maps.Keys(o.Files))
}

// WriteDir writes every file under dir, creating it if needed.
func (o *Output) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, name := range o.Names() {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, o.Files[name], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
