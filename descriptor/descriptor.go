// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package descriptor defines the structural type descriptions consumed by
// the template generator and the Provider capability that supplies them.
//
// A Provider may read its descriptions from Go source, from runtime
// reflection, or from a declarative document. The generator depends only on
// this package and never on a specific realization.
package descriptor

import (
	"errors"
	"fmt"
)

// ErrUnresolved reports that a provider has no description for a type.
var ErrUnresolved = errors.New("unresolved type")

// Kind classifies a resolved type.
type Kind int

const (
	// KindStruct is a type with fields that expands into an object.
	KindStruct Kind = iota

	// KindEnum is a type whose values are a fixed list of named constants.
	KindEnum

	// KindOpaque is a user type that is neither a struct nor an enum
	// (interfaces, named scalars, types with custom marshaling). It is
	// always rendered as a leaf.
	KindOpaque
)

// String returns the lowercase kind name used in descriptor documents.
func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindOpaque:
		return "opaque"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a kind name. The empty string is KindStruct.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "struct", "class", "record":
		return KindStruct, nil
	case "enum":
		return KindEnum, nil
	case "opaque", "interface":
		return KindOpaque, nil
	}
	return 0, fmt.Errorf("unknown type kind %q", s)
}

// TypeDescriptor describes the structure of one named type.
//
// Descriptors returned by a Provider are shared and must not be modified.
type TypeDescriptor struct {
	// Name is the qualified type name (e.g., "example.com/shop.Order",
	// "com.example.Person").
	Name string

	// Kind is the type classification.
	Kind Kind

	// Fields lists the fields in declaration order. Only meaningful for
	// KindStruct.
	Fields []FieldDescriptor

	// Constants lists the enum constant names in declaration order. Only
	// meaningful for KindEnum.
	Constants []string

	// Doc is the raw documentation attached to the type.
	Doc string
}

// IsEnum reports whether the type is an enumeration.
func (d *TypeDescriptor) IsEnum() bool {
	return d != nil && d.Kind == KindEnum
}

// FieldDescriptor describes a single field of a struct type.
type FieldDescriptor struct {
	// Name is the serialized field name.
	Name string

	// Type is the declared field type. Generic arguments are Type.Args.
	Type TypeRef

	// Doc is the raw documentation text, comment delimiters included.
	// Empty when the field carries no documentation.
	Doc string

	// Static marks class-level fields that do not belong to instances.
	Static bool

	// Constant marks compile-time constant (final) fields.
	Constant bool
}

// Excluded reports whether the field never appears in a template.
func (f FieldDescriptor) Excluded() bool {
	return f.Static || f.Constant
}

// Provider supplies type descriptions. Implementations must be safe for
// concurrent use.
type Provider interface {
	// IsLibraryType reports whether ref names an opaque library or
	// built-in type that is never expanded field by field.
	IsLibraryType(ref TypeRef) bool

	// Resolve returns the description of ref. It returns an error wrapping
	// ErrUnresolved when the provider does not know the type.
	Resolve(ref TypeRef) (*TypeDescriptor, error)

	// Conventions returns the naming conventions used to classify
	// collection-like and map-like types.
	Conventions() Conventions
}

// Lister is implemented by providers that can enumerate the qualified
// names of the user types they know.
type Lister interface {
	Names() []string
}

// Unresolved returns an error wrapping ErrUnresolved for ref.
func Unresolved(ref TypeRef) error {
	return fmt.Errorf("%w: %s", ErrUnresolved, ref)
}
