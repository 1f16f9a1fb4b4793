// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package descriptor

import (
	"fmt"
	"strings"
)

// Reserved names for composite types. Providers normalize Go slices and
// arrays to SliceName and Go maps to MapName so that the conventions can
// classify them by name like any other collection family.
const (
	SliceName = "[]"
	MapName   = "map"
	BytesName = "[]byte"
	AnyName   = "any"
)

// TypeRef is a reference to a type by qualified name, with its generic
// arguments.
type TypeRef struct {
	// Name is the qualified type name.
	Name string

	// Args are the generic type arguments in declaration order.
	Args []TypeRef
}

// Named returns a reference to name with the given arguments.
func Named(name string, args ...TypeRef) TypeRef {
	return TypeRef{Name: name, Args: args}
}

// SliceOf returns a reference to a slice of elem.
func SliceOf(elem TypeRef) TypeRef {
	return TypeRef{Name: SliceName, Args: []TypeRef{elem}}
}

// MapOf returns a reference to a map from key to value.
func MapOf(key, value TypeRef) TypeRef {
	return TypeRef{Name: MapName, Args: []TypeRef{key, value}}
}

// IsZero reports whether the reference is empty.
func (r TypeRef) IsZero() bool {
	return r.Name == "" && len(r.Args) == 0
}

// Arg returns the i-th generic argument.
func (r TypeRef) Arg(i int) (TypeRef, bool) {
	if i < 0 || i >= len(r.Args) || r.Args[i].IsZero() {
		return TypeRef{}, false
	}
	return r.Args[i], true
}

// String renders the reference. Slices and maps use Go syntax, other
// generic types use angle brackets: "[]int", "map[string]int",
// "java.util.List<com.example.Employee>".
func (r TypeRef) String() string {
	var sb strings.Builder
	r.write(&sb)
	return sb.String()
}

func (r TypeRef) write(sb *strings.Builder) {
	switch {
	case r.Name == SliceName && len(r.Args) == 1:
		sb.WriteString("[]")
		r.Args[0].write(sb)
		return
	case r.Name == MapName && len(r.Args) == 2:
		sb.WriteString("map[")
		r.Args[0].write(sb)
		sb.WriteByte(']')
		r.Args[1].write(sb)
		return
	}
	sb.WriteString(r.Name)
	if len(r.Args) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, a := range r.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		a.write(sb)
	}
	sb.WriteByte('>')
}

// Key is the identity of the referenced type. Two instantiations of one
// generic type with different arguments have different keys.
func (r TypeRef) Key() string {
	return r.String()
}

// SplitQualified splits a qualified name into its package (or namespace)
// and simple name. For Go names the package is everything up to the first
// dot after the last slash: "example.com/shop.Order" -> ("example.com/shop",
// "Order"). For dotted names the package is everything up to the last dot:
// "com.example.Person" -> ("com.example", "Person").
func SplitQualified(name string) (pkg, simple string) {
	slash := strings.LastIndex(name, "/")
	if slash >= 0 {
		dot := strings.Index(name[slash+1:], ".")
		if dot < 0 {
			return "", name
		}
		return name[:slash+1+dot], name[slash+1+dot+1:]
	}
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return "", name
	}
	return name[:dot], name[dot+1:]
}

// SimpleName returns the unqualified part of a qualified name.
func SimpleName(name string) string {
	_, simple := SplitQualified(name)
	return simple
}

// ParseTypeRef parses a type expression.
//
// Accepted forms:
//
//	Name                      plain qualified name
//	Name<A, B>                generic arguments (Java style)
//	Name[A, B]                generic arguments (Go style)
//	[]T, [N]T, T[]            slices and arrays
//	*T                        pointers (dereferenced)
//	map[K]V                   maps
//	? extends T, ? super T    wildcards (the bound is used)
func ParseTypeRef(s string) (TypeRef, error) {
	p := &refParser{src: s}
	ref, err := p.parse()
	if err != nil {
		return TypeRef{}, fmt.Errorf("parse type %q: %w", s, err)
	}
	p.skipSpace()
	if !p.done() {
		return TypeRef{}, fmt.Errorf("parse type %q: unexpected %q at offset %d", s, p.src[p.pos:], p.pos)
	}
	return ref, nil
}

// MustParseTypeRef is like ParseTypeRef but panics on error.
func MustParseTypeRef(s string) TypeRef {
	ref, err := ParseTypeRef(s)
	if err != nil {
		panic(err)
	}
	return ref
}

type refParser struct {
	src string
	pos int
}

func (p *refParser) done() bool { return p.pos >= len(p.src) }

func (p *refParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *refParser) skipSpace() {
	for !p.done() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *refParser) consume(prefix string) bool {
	if strings.HasPrefix(p.src[p.pos:], prefix) {
		p.pos += len(prefix)
		return true
	}
	return false
}

func (p *refParser) parse() (TypeRef, error) {
	p.skipSpace()
	switch {
	case p.done():
		return TypeRef{}, fmt.Errorf("unexpected end of input")
	case p.consume("*"):
		return p.parse()
	case p.consume("[]"):
		elem, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}
		return sliceOrBytes(elem), nil
	case p.peek() == '[':
		end := strings.IndexByte(p.src[p.pos:], ']')
		if end < 0 {
			return TypeRef{}, fmt.Errorf("unterminated array length")
		}
		p.pos += end + 1
		elem, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}
		return sliceOrBytes(elem), nil
	case p.consume("map["):
		key, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}
		p.skipSpace()
		if !p.consume("]") {
			return TypeRef{}, fmt.Errorf("expected ] after map key")
		}
		value, err := p.parse()
		if err != nil {
			return TypeRef{}, err
		}
		return MapOf(key, value), nil
	}

	name := p.name()
	if name == "" {
		return TypeRef{}, fmt.Errorf("expected type name at offset %d", p.pos)
	}
	if name == "?" {
		p.skipSpace()
		rest := p.src[p.pos:]
		if strings.HasPrefix(rest, "extends ") || strings.HasPrefix(rest, "super ") {
			p.name()
			return p.parse()
		}
		return Named(AnyName), nil
	}

	ref := Named(name)
	switch {
	case p.consume("<"):
		args, err := p.args('>')
		if err != nil {
			return TypeRef{}, err
		}
		ref.Args = args
	case p.peek() == '[' && !strings.HasPrefix(p.src[p.pos:], "[]"):
		p.pos++
		args, err := p.args(']')
		if err != nil {
			return TypeRef{}, err
		}
		ref.Args = args
	}
	for p.consume("[]") {
		ref = sliceOrBytes(ref)
	}
	return ref, nil
}

func (p *refParser) args(closer byte) ([]TypeRef, error) {
	var args []TypeRef
	for {
		arg, err := p.parse()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case closer:
			p.pos++
			return args, nil
		default:
			return nil, fmt.Errorf("expected , or %c at offset %d", closer, p.pos)
		}
	}
}

func (p *refParser) name() string {
	start := p.pos
	for !p.done() {
		switch p.src[p.pos] {
		case '<', '>', '[', ']', ',', ' ', '\t', '*':
			return p.src[start:p.pos]
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func sliceOrBytes(elem TypeRef) TypeRef {
	if len(elem.Args) == 0 && (elem.Name == "byte" || elem.Name == "uint8") {
		return Named(BytesName)
	}
	return SliceOf(elem)
}
