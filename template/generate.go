// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package template builds JSON templates from type descriptions.
//
// A template is the structural skeleton of a type: every field appears under
// its serialized name, populated with a placeholder instead of real data.
// Fields documented with a comment become "${comment}" tokens, nested user
// types expand into objects, collections hold a single exemplar element and
// maps are always empty.
//
// Expansion is bounded by a maximum depth and by a branch-local set of the
// types already expanded on the current path, so generation terminates on
// any finite type graph, cyclic or not.
package template

import (
	"context"
	"fmt"

	"github.com/albertocavalcante/jsontmpl/descriptor"
	"github.com/albertocavalcante/jsontmpl/internal/doctext"
)

// DefaultMaxDepth is the nesting bound used when Options.MaxDepth is unset.
const DefaultMaxDepth = 5

// Warning codes.
const (
	WarnUnresolvedType     = "unresolved-type"
	WarnUnresolvedArgument = "unresolved-argument"
)

// Options configures a Generator.
type Options struct {
	// MaxDepth bounds nested expansion. The root type is at depth 0; a
	// type reached at a depth greater than MaxDepth renders as an empty
	// object. Zero or negative selects DefaultMaxDepth.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Warning reports a reference that could not be resolved and was replaced
// by a conservative placeholder.
type Warning struct {
	// Code is a machine-readable identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// TypeName is the type declaring the field.
	TypeName string

	// Field is the field whose type could not be resolved.
	Field string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s.%s: %s", w.TypeName, w.Field, w.Message)
}

// Result is the outcome of one generation request.
type Result struct {
	// Type is the requested type.
	Type descriptor.TypeRef

	// Value is the template document.
	Value Value

	// Warnings lists the references that degraded to placeholders.
	Warnings []Warning
}

// Generator builds templates from the descriptions of a Provider. A
// Generator holds no mutable state and is safe for concurrent use.
type Generator struct {
	provider descriptor.Provider
	conv     descriptor.Conventions
	opts     Options
}

// New creates a Generator.
func New(p descriptor.Provider, opts Options) *Generator {
	return &Generator{
		provider: p,
		conv:     p.Conventions(),
		opts:     opts,
	}
}

// Generate builds the template for ref.
//
// Only a failure to resolve ref itself is returned as an error. Nested
// references that cannot be resolved degrade to placeholders and are
// reported in Result.Warnings.
func (g *Generator) Generate(ctx context.Context, ref descriptor.TypeRef) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := &walker{g: g}
	res := &Result{Type: ref}

	switch {
	case g.conv.IsCollection(ref.Name):
		root := func() (string, string) { return ref.String(), "" }
		res.Value = w.collection(ref, "", root, Visited{}, 0)
	case g.conv.IsMap(ref.Name):
		res.Value = MapLiteral()
	case g.provider.IsLibraryType(ref):
		res.Value = Object()
	default:
		d, err := g.provider.Resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", ref, err)
		}
		switch d.Kind {
		case descriptor.KindStruct:
			res.Value = w.expand(d, ref.Name, Visited{}, 0)
		case descriptor.KindEnum:
			res.Value = enumValue(d, "")
		default:
			res.Value = Object()
		}
	}
	res.Warnings = w.warnings
	return res, nil
}

// Expand builds the object template of d, whose qualified name is key, at
// the given depth with the ancestors in visited. Warnings are discarded.
func (g *Generator) Expand(d *descriptor.TypeDescriptor, key string, visited Visited, depth int) Value {
	w := &walker{g: g}
	return w.expand(d, key, visited, depth)
}

// walker carries the per-request warning list through the recursion.
type walker struct {
	g        *Generator
	warnings []Warning
}

// expand renders a struct type. It short-circuits to an empty object when
// the depth bound is exceeded or a type of the same qualified name is
// already on the current path, whatever its type arguments.
func (w *walker) expand(d *descriptor.TypeDescriptor, key string, visited Visited, depth int) Value {
	if depth > w.g.opts.maxDepth() || visited.Has(key) {
		return Object()
	}
	visited = visited.With(key)

	b := newObjectBuilder(len(d.Fields))
	for _, f := range d.Fields {
		if f.Excluded() {
			continue
		}
		doc := doctext.Clean(f.Doc)
		owner := func() (string, string) { return d.Name, f.Name }
		b.set(f.Name, w.value(f.Type, doc, owner, visited, depth))
	}
	return b.build()
}

// fieldOwner names the declaring type and field for warnings.
type fieldOwner func() (typeName, field string)

// value classifies a field type by precedence: collection, map, library,
// then resolved kind.
func (w *walker) value(ref descriptor.TypeRef, doc string, owner fieldOwner, visited Visited, depth int) Value {
	switch {
	case w.g.conv.IsCollection(ref.Name):
		return w.collection(ref, doc, owner, visited, depth)
	case w.g.conv.IsMap(ref.Name):
		return MapLiteral()
	case w.g.provider.IsLibraryType(ref):
		return leaf(doc)
	}

	d, err := w.g.provider.Resolve(ref)
	if err != nil {
		w.warn(WarnUnresolvedType, owner, fmt.Sprintf("type %s: %v", ref, err))
		return leaf(doc)
	}
	switch d.Kind {
	case descriptor.KindEnum:
		return enumValue(d, doc)
	case descriptor.KindStruct:
		return w.expand(d, ref.Name, visited, depth+1)
	}
	return leaf(doc)
}

// collection renders a collection-like type as a list with one exemplar
// element, or an empty list when the element type is unknown.
func (w *walker) collection(ref descriptor.TypeRef, doc string, owner fieldOwner, visited Visited, depth int) Value {
	elem, ok := ref.Arg(0)
	if !ok {
		return List()
	}
	switch {
	case w.g.conv.IsCollection(elem.Name):
		return List(w.collection(elem, doc, owner, visited, depth))
	case w.g.conv.IsMap(elem.Name):
		return List(MapLiteral())
	case w.g.provider.IsLibraryType(elem):
		if doc != "" {
			return List(Placeholder(doc))
		}
		return List(Object())
	}

	d, err := w.g.provider.Resolve(elem)
	if err != nil {
		w.warn(WarnUnresolvedArgument, owner, fmt.Sprintf("element type %s: %v", elem, err))
		return List()
	}
	switch d.Kind {
	case descriptor.KindEnum:
		return List(enumValue(d, doc))
	case descriptor.KindStruct:
		return List(w.expand(d, elem.Name, visited, depth+1))
	}
	if doc != "" {
		return List(Placeholder(doc))
	}
	return List(Object())
}

func (w *walker) warn(code string, owner fieldOwner, msg string) {
	typeName, field := owner()
	w.warnings = append(w.warnings, Warning{
		Code:     code,
		Message:  msg,
		TypeName: typeName,
		Field:    field,
	})
}

// leaf renders a terminal field: its documentation as a placeholder, or
// the empty string.
func leaf(doc string) Value {
	if doc != "" {
		return Placeholder(doc)
	}
	return Empty()
}

// enumValue applies the single enum policy: documentation first, then the
// first declared constant, then the empty string.
func enumValue(d *descriptor.TypeDescriptor, doc string) Value {
	if doc != "" {
		return Placeholder(doc)
	}
	if len(d.Constants) > 0 {
		return Literal(d.Constants[0])
	}
	return Empty()
}
