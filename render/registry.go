// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package render

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// The registry holds the renderers embedded in the binary, by format name.
var (
	mu        sync.RWMutex
	renderers = make(map[string]Renderer)
)

// Register makes r available under its format name. Registering a name
// twice panics.
func Register(r Renderer) {
	name := r.Metadata().Name
	mu.Lock()
	defer mu.Unlock()
	if _, dup := renderers[name]; dup {
		panic(fmt.Sprintf("render: format %q registered twice", name))
	}
	renderers[name] = r
}

// Get returns the renderer of a format.
func Get(format string) (Renderer, bool) {
	mu.RLock()
	defer mu.RUnlock()
	r, ok := renderers[format]
	return r, ok
}

// List returns the registered format names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	return slices.Sorted(maps.Keys(renderers))
}

// All returns the registered renderers in format name order.
func All() []Renderer {
	names := List()
	mu.RLock()
	defer mu.RUnlock()
	all := make([]Renderer, 0, len(names))
	for _, name := range names {
		if r, ok := renderers[name]; ok {
			all = append(all, r)
		}
	}
	return all
}
