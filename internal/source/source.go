// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package source provides type descriptions of Go packages through static
// analysis.
//
// Packages are loaded once with golang.org/x/tools/go/packages. Struct
// fields follow the encoding/json rules (exported only, json tag names,
// "-" skipped, untagged embedded structs promoted). Field documentation is
// the leading doc comment, else the trailing line comment, else the doc
// struct tag. A named type
// with a basic underlying type and at least one package-level constant of
// that type is an enum.
package source

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/types"
	"maps"
	"os"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/albertocavalcante/jsontmpl/descriptor"
	"github.com/albertocavalcante/jsontmpl/internal/fieldset"
	"golang.org/x/tools/go/packages"
)

// Config configures package loading.
type Config struct {
	// Dir is the directory in which to run the build system. Empty means
	// the current directory.
	Dir string

	// Patterns are the package patterns to load. Empty means "./...".
	Patterns []string

	// Tags are build tags.
	Tags []string

	// Env is appended to the process environment of the build system.
	Env []string

	// DocTag is the struct tag read for fields without a comment. Empty
	// means "doc".
	DocTag string

	// Conventions classify library types. The zero value selects the Go
	// conventions.
	Conventions descriptor.Conventions
}

// Provider is a descriptor.Provider over loaded Go packages. It is safe
// for concurrent use.
type Provider struct {
	conv       descriptor.Conventions
	docTag     string
	modulePath string
	roots      map[string]bool
	pkgs       map[string]*types.Package
	docs       map[*types.Var]string
	names      []string

	mu        sync.Mutex
	synthetic map[string]types.Type
	cache     sync.Map // TypeRef.Key -> *descriptor.TypeDescriptor
}

// Load loads the packages and indexes every package reachable through
// their imports.
func Load(ctx context.Context, cfg Config) (*Provider, error) {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	pcfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax |
			packages.NeedTypesInfo | packages.NeedImports | packages.NeedModule,
		Dir: cfg.Dir,
	}
	if len(cfg.Tags) > 0 {
		pcfg.BuildFlags = []string{"-tags=" + strings.Join(cfg.Tags, ",")}
	}
	if len(cfg.Env) > 0 {
		pcfg.Env = append(os.Environ(), cfg.Env...)
	}

	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for %s", strings.Join(patterns, " "))
	}
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	p := &Provider{
		conv:      cfg.Conventions,
		docTag:    cfg.DocTag,
		roots:     make(map[string]bool, len(pkgs)),
		pkgs:      make(map[string]*types.Package),
		docs:      make(map[*types.Var]string),
		synthetic: make(map[string]types.Type),
	}
	if p.conv.Preset == "" {
		p.conv = descriptor.GoConventions()
	}
	if p.docTag == "" {
		p.docTag = "doc"
	}
	for _, pkg := range pkgs {
		p.roots[pkg.PkgPath] = true
		if pkg.Module != nil && p.modulePath == "" {
			p.modulePath = pkg.Module.Path
		}
		p.index(pkg.Types)
		p.collectDocs(pkg)
		p.names = append(p.names, typeNames(pkg.Types)...)
	}
	slices.Sort(p.names)
	p.names = slices.Compact(p.names)
	return p, nil
}

// index records pkg and, recursively, its imports.
func (p *Provider) index(pkg *types.Package) {
	if pkg == nil {
		return
	}
	if _, ok := p.pkgs[pkg.Path()]; ok {
		return
	}
	p.pkgs[pkg.Path()] = pkg
	for _, imp := range pkg.Imports() {
		p.index(imp)
	}
}

// collectDocs maps every struct field declared in pkg to its raw comment.
func (p *Provider) collectDocs(pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		ast.Inspect(file, func(n ast.Node) bool {
			st, ok := n.(*ast.StructType)
			if !ok {
				return true
			}
			for _, field := range st.Fields.List {
				doc := commentText(field.Doc)
				if doc == "" {
					doc = commentText(field.Comment)
				}
				if doc == "" {
					continue
				}
				for _, ident := range field.Names {
					if v, ok := pkg.TypesInfo.Defs[ident].(*types.Var); ok {
						p.docs[v] = doc
					}
				}
			}
			return true
		})
	}
}

// commentText returns the raw text of a comment group, delimiters
// included.
func commentText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	lines := make([]string, len(cg.List))
	for i, c := range cg.List {
		lines[i] = c.Text
	}
	return strings.Join(lines, "\n")
}

func typeNames(pkg *types.Package) []string {
	var names []string
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !tn.Exported() || tn.IsAlias() {
			continue
		}
		names = append(names, pkg.Path()+"."+name)
	}
	return names
}

// IsLibraryType implements descriptor.Provider. Types of the loaded
// packages and of their module are never library types.
func (p *Provider) IsLibraryType(ref descriptor.TypeRef) bool {
	pkg, _ := descriptor.SplitQualified(ref.Name)
	if p.isUserPackage(pkg) {
		return false
	}
	p.mu.Lock()
	_, synthetic := p.synthetic[ref.Key()]
	p.mu.Unlock()
	if synthetic {
		return false
	}
	return p.conv.IsLibrary(ref.Name)
}

func (p *Provider) isUserPackage(path string) bool {
	if path == "" {
		return false
	}
	if p.roots[path] {
		return true
	}
	return p.modulePath != "" && (path == p.modulePath || strings.HasPrefix(path, p.modulePath+"/"))
}

// Conventions implements descriptor.Provider.
func (p *Provider) Conventions() descriptor.Conventions { return p.conv }

// Names implements descriptor.Lister. It lists the exported types of the
// loaded packages.
func (p *Provider) Names() []string { return slices.Clone(p.names) }

// Resolve implements descriptor.Provider.
func (p *Provider) Resolve(ref descriptor.TypeRef) (*descriptor.TypeDescriptor, error) {
	key := ref.Key()
	if d, ok := p.cache.Load(key); ok {
		return d.(*descriptor.TypeDescriptor), nil
	}
	t, err := p.lookup(ref)
	if err != nil {
		return nil, err
	}
	d := p.describe(ref, t)
	actual, _ := p.cache.LoadOrStore(key, d)
	return actual.(*descriptor.TypeDescriptor), nil
}

// lookup finds the type denoted by ref: a synthetic type recorded while
// converting field types, or a named type of an indexed package,
// instantiated with the arguments of ref.
func (p *Provider) lookup(ref descriptor.TypeRef) (types.Type, error) {
	p.mu.Lock()
	t, ok := p.synthetic[ref.Key()]
	p.mu.Unlock()
	if ok {
		return t, nil
	}

	tn := p.typeName(ref.Name)
	if tn == nil {
		return nil, descriptor.Unresolved(ref)
	}
	named, ok := tn.Type().(*types.Named)
	if !ok || named.TypeParams().Len() == 0 {
		return tn.Type(), nil
	}

	args := make([]types.Type, named.TypeParams().Len())
	for i := range args {
		args[i] = types.Universe.Lookup("any").Type()
		if a, ok := ref.Arg(i); ok {
			at, err := p.typeOf(a)
			if err != nil {
				return nil, fmt.Errorf("type argument of %s: %w", ref, err)
			}
			args[i] = at
		}
	}
	inst, err := types.Instantiate(nil, named, args, true)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s: %w", ref, err)
	}
	return inst, nil
}

func (p *Provider) typeName(qualified string) *types.TypeName {
	path, name := descriptor.SplitQualified(qualified)
	pkg, ok := p.pkgs[path]
	if !ok {
		return nil
	}
	tn, _ := pkg.Scope().Lookup(name).(*types.TypeName)
	return tn
}

// typeOf converts a reference back into a go/types type.
func (p *Provider) typeOf(ref descriptor.TypeRef) (types.Type, error) {
	switch ref.Name {
	case descriptor.SliceName:
		elem, ok := ref.Arg(0)
		if !ok {
			return nil, fmt.Errorf("slice %s without element type", ref)
		}
		et, err := p.typeOf(elem)
		if err != nil {
			return nil, err
		}
		return types.NewSlice(et), nil
	case descriptor.MapName:
		k, kok := ref.Arg(0)
		v, vok := ref.Arg(1)
		if !kok || !vok {
			return nil, fmt.Errorf("map %s without key or value type", ref)
		}
		kt, err := p.typeOf(k)
		if err != nil {
			return nil, err
		}
		vt, err := p.typeOf(v)
		if err != nil {
			return nil, err
		}
		return types.NewMap(kt, vt), nil
	case descriptor.BytesName:
		return types.NewSlice(types.Typ[types.Byte]), nil
	case descriptor.AnyName:
		return types.Universe.Lookup("any").Type(), nil
	}
	if obj, ok := types.Universe.Lookup(ref.Name).(*types.TypeName); ok {
		return obj.Type(), nil
	}
	return p.lookup(ref)
}

// describe builds the descriptor of t, which ref denotes.
func (p *Provider) describe(ref descriptor.TypeRef, t types.Type) *descriptor.TypeDescriptor {
	d := &descriptor.TypeDescriptor{Name: ref.Name, Kind: descriptor.KindOpaque}
	named, _ := types.Unalias(t).(*types.Named)
	if named != nil {
		if constants := p.enumConstants(named); len(constants) > 0 {
			d.Kind = descriptor.KindEnum
			d.Constants = constants
			return d
		}
		if marshals(named) {
			return d
		}
	}
	if st, ok := t.Underlying().(*types.Struct); ok {
		d.Kind = descriptor.KindStruct
		var cands []fieldset.Candidate
		p.collect(st, 0, map[string]bool{types.TypeString(t, nil): true}, &cands)
		d.Fields = fieldset.Resolve(cands)
	}
	return d
}

// enumConstants returns the package-level constants of type named in
// source order. String constants are listed by value, since that is their
// JSON form; other constants by name.
func (p *Provider) enumConstants(named *types.Named) []string {
	basic, ok := named.Underlying().(*types.Basic)
	if !ok || named.Obj().Pkg() == nil {
		return nil
	}
	scope := named.Obj().Pkg().Scope()
	var consts []*types.Const
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if ok && types.Identical(c.Type(), named) {
			consts = append(consts, c)
		}
	}
	slices.SortFunc(consts, func(a, b *types.Const) int { return cmp.Compare(a.Pos(), b.Pos()) })

	out := make([]string, len(consts))
	for i, c := range consts {
		if basic.Info()&types.IsString != 0 && c.Val().Kind() == constant.String {
			out[i] = constant.StringVal(c.Val())
		} else {
			out[i] = c.Name()
		}
	}
	return out
}

var marshalerMethods = []string{"MarshalJSON", "MarshalText"}

// marshals reports whether values of t encode themselves.
func marshals(t types.Type) bool {
	for _, m := range marshalerMethods {
		obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(t), true, nil, m)
		if _, ok := obj.(*types.Func); ok {
			return true
		}
	}
	return false
}

// collect appends the JSON-visible fields of st, promoting the fields of
// untagged embedded structs one level deeper.
func (p *Provider) collect(st *types.Struct, depth int, embedded map[string]bool, cands *[]fieldset.Candidate) {
	for i := range st.NumFields() {
		v := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))
		tagName, skip := fieldset.ParseTag(tag.Get("json"))
		if skip {
			continue
		}
		ft := deref(v.Type())
		if v.Embedded() && tagName == "" {
			if est, ok := ft.Underlying().(*types.Struct); ok && !marshals(ft) {
				key := types.TypeString(ft, nil)
				if !embedded[key] {
					embedded[key] = true
					p.collect(est, depth+1, embedded, cands)
					delete(embedded, key)
				}
				continue
			}
		}
		if !v.Exported() {
			continue
		}
		switch ft.Underlying().(type) {
		case *types.Chan, *types.Signature:
			continue
		}

		name := tagName
		if name == "" {
			name = v.Name()
		}
		doc := p.docs[v.Origin()]
		if doc == "" {
			doc = tag.Get(p.docTag)
		}
		*cands = append(*cands, fieldset.Candidate{
			Field: descriptor.FieldDescriptor{
				Name: name,
				Type: p.ref(v.Type()),
				Doc:  doc,
			},
			Depth:  depth,
			Tagged: tagName != "",
		})
	}
}

func deref(t types.Type) types.Type {
	t = types.Unalias(t)
	for {
		ptr, ok := t.(*types.Pointer)
		if !ok {
			return t
		}
		t = types.Unalias(ptr.Elem())
	}
}

// ref converts a field type into a normalized reference. Generic
// instances and anonymous structs are recorded so that Resolve can find
// them by key.
func (p *Provider) ref(t types.Type) descriptor.TypeRef {
	return p.refOf(t, nil)
}

// refOf is ref with the named composite types being normalized on the
// current path. A named slice or map met again inside itself keeps its
// name, which resolves to an opaque type.
func (p *Provider) refOf(t types.Type, normalizing map[string]bool) descriptor.TypeRef {
	t = deref(t)
	switch t := t.(type) {
	case *types.Named:
		obj := t.Obj()
		if obj.Pkg() == nil {
			return descriptor.Named(obj.Name())
		}
		if key := types.TypeString(t, nil); !marshals(t) && !normalizing[key] {
			switch u := t.Underlying().(type) {
			case *types.Slice, *types.Array, *types.Map:
				if normalizing == nil {
					normalizing = make(map[string]bool)
				}
				normalizing[key] = true
				defer delete(normalizing, key)
				return p.refOf(u, normalizing)
			}
		}
		r := descriptor.Named(obj.Pkg().Path() + "." + obj.Name())
		if targs := t.TypeArgs(); targs.Len() > 0 {
			for i := range targs.Len() {
				r.Args = append(r.Args, p.refOf(targs.At(i), normalizing))
			}
			p.record(r, t)
		}
		return r
	case *types.Basic:
		if t.Kind() == types.UnsafePointer {
			return descriptor.Named("unsafe.Pointer")
		}
		return descriptor.Named(t.Name())
	case *types.Slice:
		return sliceRef(p.refOf(t.Elem(), normalizing))
	case *types.Array:
		return sliceRef(p.refOf(t.Elem(), normalizing))
	case *types.Map:
		return descriptor.MapOf(p.refOf(t.Key(), normalizing), p.refOf(t.Elem(), normalizing))
	case *types.Struct:
		r := descriptor.Named(types.TypeString(t, (*types.Package).Name))
		p.record(r, t)
		return r
	}
	return descriptor.Named(descriptor.AnyName)
}

func (p *Provider) record(r descriptor.TypeRef, t types.Type) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.synthetic[r.Key()] = t
}

func sliceRef(elem descriptor.TypeRef) descriptor.TypeRef {
	if len(elem.Args) == 0 && (elem.Name == "byte" || elem.Name == "uint8") {
		return descriptor.Named(descriptor.BytesName)
	}
	return descriptor.SliceOf(elem)
}

// Packages returns the import paths of the indexed packages, sorted.
func (p *Provider) Packages() []string {
	return slices.Sorted(maps.Keys(p.pkgs))
}
