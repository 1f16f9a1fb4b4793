// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package catalog

// Document is a declarative set of type descriptions, as read from a YAML
// or JSON file.
type Document struct {
	// Conventions names the naming preset: "go" or "java". Empty selects
	// the preset given in Options, then "go".
	Conventions string `yaml:"conventions,omitempty" json:"conventions,omitempty"`

	// LibraryPrefixes adds qualified name prefixes treated as library
	// namespaces (e.g., "org.joda.").
	LibraryPrefixes []string `yaml:"libraryPrefixes,omitempty" json:"libraryPrefixes,omitempty"`

	// Collections adds collection-like type names.
	Collections []string `yaml:"collections,omitempty" json:"collections,omitempty"`

	// Maps adds map-like type names.
	Maps []string `yaml:"maps,omitempty" json:"maps,omitempty"`

	// Types lists the user types.
	Types []*TypeDecl `yaml:"types" json:"types"`
}

// TypeDecl describes one user type.
type TypeDecl struct {
	// Name is the qualified type name (e.g., "com.example.Person").
	Name string `yaml:"name" json:"name"`

	// Kind is "struct" (default), "enum" or "opaque". "class", "record"
	// and "interface" are accepted as aliases.
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`

	// Doc is the type documentation.
	Doc string `yaml:"doc,omitempty" json:"doc,omitempty"`

	// TypeParams names the generic type parameters (e.g., ["T"]). Field
	// types may refer to them.
	TypeParams []string `yaml:"typeParams,omitempty" json:"typeParams,omitempty"`

	// Extends lists supertypes whose fields are inherited after the
	// type's own fields.
	Extends []string `yaml:"extends,omitempty" json:"extends,omitempty"`

	// Fields lists the fields in declaration order.
	Fields []FieldDecl `yaml:"fields,omitempty" json:"fields,omitempty"`

	// Constants lists enum constant names in declaration order.
	Constants []string `yaml:"constants,omitempty" json:"constants,omitempty"`
}

// FieldDecl describes one field.
type FieldDecl struct {
	// Name is the serialized field name.
	Name string `yaml:"name" json:"name"`

	// Type is a type expression such as "java.util.List<com.example.Item>".
	Type string `yaml:"type" json:"type"`

	// Doc is the raw documentation comment, delimiters included.
	Doc string `yaml:"doc,omitempty" json:"doc,omitempty"`

	// Modifiers may contain "static" and "final".
	Modifiers []string `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
}

// Modifier names.
const (
	ModifierStatic = "static"
	ModifierFinal  = "final"
)
