// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package catalog

import (
	"maps"
	"slices"

	"github.com/albertocavalcante/jsontmpl/descriptor"
)

// Missing returns the names referenced by field types that are neither
// declared in the catalog nor library types, sorted. Generation still
// succeeds for such references; they render as placeholders.
func (c *Catalog) Missing() []string {
	missing := make(map[string]bool)
	for _, e := range c.types {
		params := make(map[string]bool, len(e.params))
		for _, p := range e.params {
			params[p] = true
		}
		for _, f := range e.fields {
			c.collectTypeRefs(f.Type, params, missing)
		}
	}
	return slices.Sorted(maps.Keys(missing))
}

// Reachable returns the declared types referenced directly or transitively
// by root, root included when declared, sorted.
func (c *Catalog) Reachable(root descriptor.TypeRef) []string {
	visited := make(map[string]bool)
	c.collectDeps(root, visited)
	return slices.Sorted(maps.Keys(visited))
}

// collectDeps records ref and every declared type its fields reference.
func (c *Catalog) collectDeps(ref descriptor.TypeRef, visited map[string]bool) {
	for _, a := range ref.Args {
		c.collectDeps(a, visited)
	}
	e, ok := c.types[ref.Name]
	if !ok || visited[ref.Name] {
		return // Not declared, already processed or cycle
	}
	visited[ref.Name] = true
	for _, f := range e.fields {
		c.collectDeps(f.Type, visited)
	}
	for _, sup := range e.extends {
		c.collectDeps(sup, visited)
	}
}

// collectTypeRefs walks ref and its arguments, recording undeclared
// non-library names.
func (c *Catalog) collectTypeRefs(ref descriptor.TypeRef, params, missing map[string]bool) {
	for _, a := range ref.Args {
		c.collectTypeRefs(a, params, missing)
	}
	switch {
	case params[ref.Name]:
	case c.conv.IsCollection(ref.Name), c.conv.IsMap(ref.Name):
	case c.IsLibraryType(ref):
	default:
		if _, ok := c.types[ref.Name]; !ok {
			missing[ref.Name] = true
		}
	}
}
