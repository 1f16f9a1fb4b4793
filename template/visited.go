// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package template

// Visited is the immutable set of type keys expanded on the current
// recursion path. With returns a new set and leaves the receiver
// unchanged, so sibling branches never observe each other's entries.
// The zero value is the empty set.
type Visited struct {
	top *visitedNode
}

type visitedNode struct {
	key    string
	parent *visitedNode
	size   int
}

// NewVisited returns a set holding keys.
func NewVisited(keys ...string) Visited {
	var v Visited
	for _, k := range keys {
		v = v.With(k)
	}
	return v
}

// With returns a set holding the receiver's keys plus key.
func (v Visited) With(key string) Visited {
	if v.Has(key) {
		return v
	}
	return Visited{top: &visitedNode{key: key, parent: v.top, size: v.Len() + 1}}
}

// Has reports whether key is in the set.
func (v Visited) Has(key string) bool {
	for n := v.top; n != nil; n = n.parent {
		if n.key == key {
			return true
		}
	}
	return false
}

// Len returns the number of keys.
func (v Visited) Len() int {
	if v.top == nil {
		return 0
	}
	return v.top.size
}

// Keys returns the keys from the outermost ancestor to the innermost.
func (v Visited) Keys() []string {
	keys := make([]string, v.Len())
	i := len(keys) - 1
	for n := v.top; n != nil; n = n.parent {
		keys[i] = n.key
		i--
	}
	return keys
}
