// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package fieldset applies the encoding/json visibility rules to Go struct
// fields: tag names, skipped fields and embedded struct promotion.
package fieldset

import (
	"strings"

	"github.com/albertocavalcante/jsontmpl/descriptor"
)

// ParseTag parses the value of a json struct tag. It returns the
// serialized name (empty when the tag does not rename the field) and
// whether the field is skipped.
func ParseTag(tag string) (name string, skip bool) {
	if tag == "-" {
		return "", true
	}
	name, _, _ = strings.Cut(tag, ",")
	return name, false
}

// Candidate is a field visible in a struct after embedding, before name
// conflicts are resolved.
type Candidate struct {
	Field descriptor.FieldDescriptor

	// Depth is the embedding depth; fields declared directly on the
	// struct are at depth 0.
	Depth int

	// Tagged reports whether the name came from a json tag.
	Tagged bool
}

// Resolve drops the candidates hidden by name conflicts and returns the
// remaining fields in candidate order. For each name the shallowest
// candidate wins; among several at the same depth a single tagged one
// wins, otherwise the name is dropped entirely.
func Resolve(cands []Candidate) []descriptor.FieldDescriptor {
	byName := make(map[string][]int, len(cands))
	for i, c := range cands {
		byName[c.Field.Name] = append(byName[c.Field.Name], i)
	}

	var fields []descriptor.FieldDescriptor
	for i, c := range cands {
		idx := byName[c.Field.Name]
		if w, ok := dominant(cands, idx); ok && w == i {
			fields = append(fields, c.Field)
		}
	}
	return fields
}

func dominant(cands []Candidate, idx []int) (int, bool) {
	if len(idx) == 1 {
		return idx[0], true
	}
	minDepth := cands[idx[0]].Depth
	for _, i := range idx[1:] {
		minDepth = min(minDepth, cands[i].Depth)
	}
	var shallow, tagged []int
	for _, i := range idx {
		if cands[i].Depth != minDepth {
			continue
		}
		shallow = append(shallow, i)
		if cands[i].Tagged {
			tagged = append(tagged, i)
		}
	}
	switch {
	case len(shallow) == 1:
		return shallow[0], true
	case len(tagged) == 1:
		return tagged[0], true
	}
	return 0, false
}
