// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package reflectdesc provides type descriptions of Go values through
// runtime reflection.
//
// Types are registered from sample values. Registration walks every type
// reachable through fields, so registering a root type is enough to
// generate its template. Field documentation is read from a struct tag
// (doc by default) since comments are not available at run time.
package reflectdesc

import (
	"encoding"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/albertocavalcante/jsontmpl/descriptor"
	"github.com/albertocavalcante/jsontmpl/internal/fieldset"
)

// Enumer is implemented by types that list their values. Such types are
// described as enums.
type Enumer interface {
	EnumValues() []string
}

var (
	enumerType        = reflect.TypeFor[Enumer]()
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Options configures a Provider.
type Options struct {
	// DocTag is the struct tag holding field documentation. Empty selects
	// "doc".
	DocTag string

	// Conventions classify library types. The zero value selects the Go
	// conventions.
	Conventions descriptor.Conventions
}

// Provider is a descriptor.Provider over registered Go types. It is safe
// for concurrent use.
type Provider struct {
	docTag string
	conv   descriptor.Conventions

	mu    sync.RWMutex
	types map[string]*descriptor.TypeDescriptor
	enums map[reflect.Type][]string
	user  map[string]bool // package path prefixes of registered types
}

// New creates an empty Provider.
func New(opts Options) *Provider {
	p := &Provider{
		docTag: opts.DocTag,
		conv:   opts.Conventions,
		types:  make(map[string]*descriptor.TypeDescriptor),
		enums:  make(map[reflect.Type][]string),
		user:   make(map[string]bool),
	}
	if p.docTag == "" {
		p.docTag = "doc"
	}
	if p.conv.Preset == "" {
		p.conv = descriptor.GoConventions()
	}
	return p
}

// Register describes the types of values and every type reachable from
// them. A value may also be a reflect.Type.
//
// The packages of registered types, and the packages sharing their first
// path element when it has no dot ("main", "myapp/api"), hold user types
// even though the Go conventions would classify them as standard library.
func (p *Provider) Register(values ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, v := range values {
		t := typeOf(v)
		if t == nil {
			return fmt.Errorf("register: nil value")
		}
		p.addUser(deref(t))
		p.walk(t, nil)
	}
	return nil
}

// RegisterEnum describes the type of v as an enum with the given constant
// names.
func (p *Provider) RegisterEnum(v any, names ...string) error {
	t := typeOf(v)
	if t == nil {
		return fmt.Errorf("register enum: nil value")
	}
	t = deref(t)
	if t.Name() == "" {
		return fmt.Errorf("register enum: %s is not a named type", t)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addUser(t)
	p.enums[t] = slices.Clone(names)
	name := qualifiedName(t)
	p.types[name] = &descriptor.TypeDescriptor{
		Name:      name,
		Kind:      descriptor.KindEnum,
		Constants: slices.Clone(names),
	}
	return nil
}

// Ref returns the type reference of v, which may be a reflect.Type.
func (p *Provider) Ref(v any) descriptor.TypeRef {
	t := typeOf(v)
	if t == nil {
		return descriptor.Named(descriptor.AnyName)
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ref(t)
}

// IsLibraryType implements descriptor.Provider.
func (p *Provider) IsLibraryType(ref descriptor.TypeRef) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.types[ref.Name]; ok {
		return false
	}
	return p.isLibrary(ref.Name)
}

// isLibrary classifies a qualified name. p.mu must be held.
func (p *Provider) isLibrary(name string) bool {
	if pkg, _ := descriptor.SplitQualified(name); pkg != "" && p.isUserPackage(pkg) {
		return false
	}
	return p.conv.IsLibrary(name)
}

// addUser records the package of t as a user package. p.mu must be held.
func (p *Provider) addUser(t reflect.Type) {
	if prefix := userPrefix(t.PkgPath()); prefix != "" {
		p.user[prefix] = true
	}
}

func (p *Provider) isUserPackage(path string) bool {
	for prefix := range p.user {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// userPrefix returns the package path prefix that a registered type from
// pkgPath makes a user namespace: the whole path, or only its first
// element when that element has no dot.
func userPrefix(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}
	if descriptor.IsStandardPath(pkgPath) {
		first, _, _ := strings.Cut(pkgPath, "/")
		return first
	}
	return pkgPath
}

// Resolve implements descriptor.Provider.
func (p *Provider) Resolve(ref descriptor.TypeRef) (*descriptor.TypeDescriptor, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if d, ok := p.types[ref.Name]; ok {
		return d, nil
	}
	return nil, descriptor.Unresolved(ref)
}

// Conventions implements descriptor.Provider.
func (p *Provider) Conventions() descriptor.Conventions { return p.conv }

// Names implements descriptor.Lister.
func (p *Provider) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Sorted(maps.Keys(p.types))
}

func typeOf(v any) reflect.Type {
	if t, ok := v.(reflect.Type); ok {
		return t
	}
	return reflect.TypeOf(v)
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// qualifiedName is the import path and name of a named type, or its
// reflect string for unnamed types.
func qualifiedName(t reflect.Type) string {
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// ref converts t into a normalized reference: pointers are dereferenced,
// slices, arrays and maps use the reserved names, interfaces are "any".
// Named slice and map types keep their name only when they are enums,
// marshal themselves or contain themselves.
func (p *Provider) ref(t reflect.Type) descriptor.TypeRef {
	return p.refOf(t, nil)
}

// refOf is ref with the named composite types being normalized on the
// current path.
func (p *Provider) refOf(t reflect.Type, normalizing map[reflect.Type]bool) descriptor.TypeRef {
	t = deref(t)
	named := t.Name() != "" && t.PkgPath() != ""
	if named && (p.isEnum(t) || marshals(t) || normalizing[t]) {
		return descriptor.Named(qualifiedName(t))
	}
	if named {
		if normalizing == nil {
			normalizing = make(map[reflect.Type]bool)
		}
		normalizing[t] = true
		defer delete(normalizing, t)
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return descriptor.Named(descriptor.BytesName)
		}
		return descriptor.SliceOf(p.refOf(t.Elem(), normalizing))
	case reflect.Map:
		return descriptor.MapOf(p.refOf(t.Key(), normalizing), p.refOf(t.Elem(), normalizing))
	case reflect.Interface:
		if !named {
			return descriptor.Named(descriptor.AnyName)
		}
	}
	return descriptor.Named(qualifiedName(t))
}

func (p *Provider) isEnum(t reflect.Type) bool {
	if _, ok := p.enums[t]; ok {
		return true
	}
	return t.Implements(enumerType) || reflect.PointerTo(t).Implements(enumerType)
}

func marshals(t reflect.Type) bool {
	for _, iface := range []reflect.Type{jsonMarshalerType, textMarshalerType} {
		if t.Implements(iface) || reflect.PointerTo(t).Implements(iface) {
			return true
		}
	}
	return false
}

// walk registers t and the types reachable from it. p.mu must be held.
// composites holds the named slice and map types walked on the current
// path; one met again is registered as opaque, matching its reference
// inside itself.
func (p *Provider) walk(t reflect.Type, composites map[reflect.Type]bool) {
	t = deref(t)
	if composites[t] {
		name := qualifiedName(t)
		if _, ok := p.types[name]; !ok {
			p.types[name] = &descriptor.TypeDescriptor{Name: name, Kind: descriptor.KindOpaque}
		}
		return
	}
	ref := p.ref(t)
	switch ref.Name {
	case descriptor.SliceName, descriptor.MapName:
		if t.Name() != "" {
			if composites == nil {
				composites = make(map[reflect.Type]bool)
			}
			composites[t] = true
			defer delete(composites, t)
		}
		for _, elem := range []reflect.Type{elemOf(t), keyOf(t)} {
			if elem != nil {
				p.walk(elem, composites)
			}
		}
		return
	}
	if _, ok := p.types[ref.Name]; ok || p.isLibrary(ref.Name) || ref.Name == descriptor.AnyName {
		return
	}
	if t.Name() == "" && t.Kind() != reflect.Struct {
		return // Built-in kind
	}

	d := &descriptor.TypeDescriptor{Name: ref.Name, Kind: descriptor.KindOpaque}
	p.types[ref.Name] = d
	switch {
	case p.isEnum(t):
		d.Kind = descriptor.KindEnum
		d.Constants = p.enumValues(t)
	case marshals(t):
	case t.Kind() == reflect.Struct:
		d.Kind = descriptor.KindStruct
		var cands []fieldset.Candidate
		p.collect(t, 0, map[reflect.Type]bool{t: true}, &cands)
		d.Fields = fieldset.Resolve(cands)
	}
}

func elemOf(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return t.Elem()
	}
	return nil
}

func keyOf(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Map {
		return t.Key()
	}
	return nil
}

func (p *Provider) enumValues(t reflect.Type) []string {
	if names, ok := p.enums[t]; ok {
		return slices.Clone(names)
	}
	if t.Implements(enumerType) {
		return reflect.Zero(t).Interface().(Enumer).EnumValues()
	}
	return reflect.New(t).Interface().(Enumer).EnumValues()
}

// collect appends the JSON-visible fields of struct t, promoting the
// fields of untagged embedded structs one level deeper.
func (p *Provider) collect(t reflect.Type, depth int, embedded map[reflect.Type]bool, cands *[]fieldset.Candidate) {
	for i := range t.NumField() {
		sf := t.Field(i)
		tagName, skip := fieldset.ParseTag(sf.Tag.Get("json"))
		if skip {
			continue
		}
		ft := deref(sf.Type)
		if sf.Anonymous && tagName == "" && ft.Kind() == reflect.Struct {
			if !embedded[ft] {
				embedded[ft] = true
				p.collect(ft, depth+1, embedded, cands)
				delete(embedded, ft)
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		switch ft.Kind() {
		case reflect.Chan, reflect.Func, reflect.UnsafePointer:
			continue
		}

		name := tagName
		if name == "" {
			name = sf.Name
		}
		p.walk(sf.Type, nil)
		*cands = append(*cands, fieldset.Candidate{
			Field: descriptor.FieldDescriptor{
				Name: name,
				Type: p.ref(sf.Type),
				Doc:  sf.Tag.Get(p.docTag),
			},
			Depth:  depth,
			Tagged: tagName != "",
		})
	}
}
