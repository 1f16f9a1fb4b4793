// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package catalog provides type descriptions read from declarative YAML or
// JSON documents.
//
// A catalog can describe the types of any language. Field types are type
// expressions ("java.util.List<com.example.Employee>", "[]Item",
// "map[string]int"), generic types declare their parameters and
// supertypes contribute their fields after the type's own.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/albertocavalcante/jsontmpl/descriptor"
)

// Options configures a Catalog.
type Options struct {
	// Preset is used when the document names no conventions.
	Preset string

	// LibraryPrefixes, Collections and Maps extend the conventions.
	LibraryPrefixes []string
	Collections     []string
	Maps            []string
}

// Catalog is a descriptor.Provider backed by a Document. It is immutable
// after New and safe for concurrent use.
type Catalog struct {
	conv  descriptor.Conventions
	types map[string]*entry
	names []string

	// cache holds resolved descriptors by TypeRef.Key.
	cache sync.Map
}

type entry struct {
	name      string
	kind      descriptor.Kind
	doc       string
	params    []string
	extends   []descriptor.TypeRef
	fields    []descriptor.FieldDescriptor
	constants []string
}

// New validates doc and builds a Catalog. All validation errors are
// reported together.
func New(doc *Document, opts Options) (*Catalog, error) {
	preset := doc.Conventions
	if preset == "" {
		preset = opts.Preset
	}
	conv, ok := descriptor.ConventionsFor(preset)
	if !ok {
		return nil, fmt.Errorf("unknown conventions %q", preset)
	}
	conv = conv.Extend(
		slices.Concat(doc.LibraryPrefixes, opts.LibraryPrefixes),
		slices.Concat(doc.Collections, opts.Collections),
		slices.Concat(doc.Maps, opts.Maps),
	)

	c := &Catalog{
		conv:  conv,
		types: make(map[string]*entry, len(doc.Types)),
	}
	var errs []error
	for i, decl := range doc.Types {
		e, err := newEntry(decl)
		if err != nil {
			errs = append(errs, fmt.Errorf("types[%d]: %w", i, err))
			continue
		}
		if _, exists := c.types[e.name]; exists {
			errs = append(errs, fmt.Errorf("types[%d]: duplicate type %q", i, e.name))
			continue
		}
		c.types[e.name] = e
	}
	errs = append(errs, c.checkExtends()...)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	c.names = slices.Sorted(maps.Keys(c.types))
	return c, nil
}

func newEntry(decl *TypeDecl) (*entry, error) {
	if decl == nil || decl.Name == "" {
		return nil, errors.New("missing type name")
	}
	kind, err := descriptor.ParseKind(decl.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", decl.Name, err)
	}
	e := &entry{
		name:      decl.Name,
		kind:      kind,
		doc:       decl.Doc,
		params:    slices.Clone(decl.TypeParams),
		constants: slices.Clone(decl.Constants),
	}
	for _, s := range decl.Extends {
		ref, err := descriptor.ParseTypeRef(s)
		if err != nil {
			return nil, fmt.Errorf("%s: extends: %w", decl.Name, err)
		}
		e.extends = append(e.extends, ref)
	}
	seen := make(map[string]bool, len(decl.Fields))
	for i, f := range decl.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%s: fields[%d]: missing name", decl.Name, i)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("%s: duplicate field %q", decl.Name, f.Name)
		}
		seen[f.Name] = true
		ref, err := descriptor.ParseTypeRef(f.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", decl.Name, f.Name, err)
		}
		fd := descriptor.FieldDescriptor{Name: f.Name, Type: ref, Doc: f.Doc}
		for _, m := range f.Modifiers {
			switch m {
			case ModifierStatic:
				fd.Static = true
			case ModifierFinal:
				fd.Constant = true
			default:
				return nil, fmt.Errorf("%s.%s: unknown modifier %q", decl.Name, f.Name, m)
			}
		}
		e.fields = append(e.fields, fd)
	}
	return e, nil
}

// checkExtends reports supertypes that are undefined or not structs, and
// inheritance cycles.
func (c *Catalog) checkExtends() []error {
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(c.types)) {
		for _, sup := range c.types[name].extends {
			s, ok := c.types[sup.Name]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("%s: unknown supertype %s", name, sup))
			case s.kind != descriptor.KindStruct:
				errs = append(errs, fmt.Errorf("%s: supertype %s is a %s", name, sup, s.kind))
			}
		}
		if c.inherits(name, name, make(map[string]bool)) {
			errs = append(errs, fmt.Errorf("%s: inheritance cycle", name))
		}
	}
	return errs
}

func (c *Catalog) inherits(from, target string, seen map[string]bool) bool {
	e, ok := c.types[from]
	if !ok || seen[from] {
		return false
	}
	seen[from] = true
	for _, sup := range e.extends {
		if sup.Name == target || c.inherits(sup.Name, target, seen) {
			return true
		}
	}
	return false
}

// IsLibraryType implements descriptor.Provider. Declared types are never
// library types.
func (c *Catalog) IsLibraryType(ref descriptor.TypeRef) bool {
	if _, ok := c.types[ref.Name]; ok {
		return false
	}
	return c.conv.IsLibrary(ref.Name)
}

// Resolve implements descriptor.Provider. Generic arguments of ref are
// substituted for the type parameters; missing arguments become "any".
func (c *Catalog) Resolve(ref descriptor.TypeRef) (*descriptor.TypeDescriptor, error) {
	e, ok := c.types[ref.Name]
	if !ok {
		return nil, descriptor.Unresolved(ref)
	}
	key := ref.Key()
	if d, ok := c.cache.Load(key); ok {
		return d.(*descriptor.TypeDescriptor), nil
	}

	d := &descriptor.TypeDescriptor{
		Name:      e.name,
		Kind:      e.kind,
		Doc:       e.doc,
		Constants: slices.Clone(e.constants),
	}
	if e.kind == descriptor.KindStruct {
		d.Fields = c.fields(e, bindings(e, ref.Args), make(map[string]bool))
	}
	actual, _ := c.cache.LoadOrStore(key, d)
	return actual.(*descriptor.TypeDescriptor), nil
}

// fields returns the own fields of e followed by the inherited ones,
// without static and final fields. A field hides inherited fields of the
// same name.
func (c *Catalog) fields(e *entry, bound map[string]descriptor.TypeRef, seen map[string]bool) []descriptor.FieldDescriptor {
	var out []descriptor.FieldDescriptor
	for _, f := range e.fields {
		if f.Excluded() || seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		f.Type = substitute(f.Type, bound)
		out = append(out, f)
	}
	for _, sup := range e.extends {
		sup = substitute(sup, bound)
		if s, ok := c.types[sup.Name]; ok {
			out = append(out, c.fields(s, bindings(s, sup.Args), seen)...)
		}
	}
	return out
}

func bindings(e *entry, args []descriptor.TypeRef) map[string]descriptor.TypeRef {
	if len(e.params) == 0 {
		return nil
	}
	bound := make(map[string]descriptor.TypeRef, len(e.params))
	for i, p := range e.params {
		if i < len(args) {
			bound[p] = args[i]
		} else {
			bound[p] = descriptor.Named(descriptor.AnyName)
		}
	}
	return bound
}

func substitute(ref descriptor.TypeRef, bound map[string]descriptor.TypeRef) descriptor.TypeRef {
	if len(bound) == 0 {
		return ref
	}
	if len(ref.Args) == 0 {
		if b, ok := bound[ref.Name]; ok {
			return b
		}
		return ref
	}
	out := descriptor.TypeRef{Name: ref.Name, Args: make([]descriptor.TypeRef, len(ref.Args))}
	for i, a := range ref.Args {
		out.Args[i] = substitute(a, bound)
	}
	return out
}

// Conventions implements descriptor.Provider.
func (c *Catalog) Conventions() descriptor.Conventions { return c.conv }

// Names implements descriptor.Lister.
func (c *Catalog) Names() []string { return slices.Clone(c.names) }
