// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package descriptor

import (
	"maps"
	"slices"
	"strings"
)

// Preset names.
const (
	PresetGo   = "go"
	PresetJava = "java"
)

// Conventions classify type names into library types, collection-like
// families and map-like families.
type Conventions struct {
	// Preset is the name of the preset the conventions derive from.
	Preset string

	// Basic holds built-in leaf type names (e.g., "string", "int").
	Basic map[string]bool

	// LibraryPrefixes are qualified name prefixes of library namespaces
	// (e.g., "java.").
	LibraryPrefixes []string

	// StandardPaths treats Go import paths whose first element contains no
	// dot as the standard library ("time.Time", "net/url.URL").
	StandardPaths bool

	// Collections is the set of collection-like type names.
	Collections map[string]bool

	// Maps is the set of map-like type names.
	Maps map[string]bool
}

var goBasic = []string{
	"bool", "string", "byte", "rune",
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"float32", "float64", "complex64", "complex128",
	"error", AnyName, BytesName,
}

var javaBasic = []string{
	"boolean", "byte", "short", "int", "long", "float", "double", "char",
	"String", "Object", "Boolean", "Byte", "Short", "Integer", "Long",
	"Float", "Double", "Character",
	AnyName, BytesName,
}

var javaCollections = []string{
	"java.lang.Iterable",
	"java.util.Collection",
	"java.util.List",
	"java.util.ArrayList",
	"java.util.LinkedList",
	"java.util.Set",
	"java.util.HashSet",
	"java.util.LinkedHashSet",
	"java.util.SortedSet",
	"java.util.NavigableSet",
	"java.util.TreeSet",
	"java.util.Queue",
	"java.util.Deque",
	"java.util.ArrayDeque",
}

var javaMaps = []string{
	"java.util.Map",
	"java.util.HashMap",
	"java.util.LinkedHashMap",
	"java.util.SortedMap",
	"java.util.NavigableMap",
	"java.util.TreeMap",
	"java.util.Hashtable",
	"java.util.concurrent.ConcurrentMap",
	"java.util.concurrent.ConcurrentHashMap",
}

// GoConventions returns the conventions for Go programs: the standard
// library and built-in types are library types, slices and arrays are
// collections, maps are maps.
func GoConventions() Conventions {
	return Conventions{
		Preset:        PresetGo,
		Basic:         setOf(goBasic),
		StandardPaths: true,
		Collections:   setOf([]string{SliceName}),
		Maps:          setOf([]string{MapName}),
	}
}

// JavaConventions returns the conventions for Java class models:
// primitives and everything under java. and javax. are library types,
// java.util lists, sets and queues are collections.
func JavaConventions() Conventions {
	return Conventions{
		Preset:          PresetJava,
		Basic:           setOf(javaBasic),
		LibraryPrefixes: []string{"java.", "javax."},
		Collections:     setOf(append([]string{SliceName}, javaCollections...)),
		Maps:            setOf(append([]string{MapName}, javaMaps...)),
	}
}

// ConventionsFor returns the preset conventions by name. The empty name
// selects the Go preset.
func ConventionsFor(preset string) (Conventions, bool) {
	switch preset {
	case "", PresetGo:
		return GoConventions(), true
	case PresetJava:
		return JavaConventions(), true
	}
	return Conventions{}, false
}

// IsLibrary reports whether name is a library or built-in type.
func (c Conventions) IsLibrary(name string) bool {
	if c.Basic[name] {
		return true
	}
	for _, prefix := range c.LibraryPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	if c.StandardPaths {
		pkg, _ := SplitQualified(name)
		return pkg != "" && IsStandardPath(pkg)
	}
	return false
}

// IsCollection reports whether name is a collection-like type.
func (c Conventions) IsCollection(name string) bool {
	return c.Collections[name]
}

// IsMap reports whether name is a map-like type.
func (c Conventions) IsMap(name string) bool {
	return c.Maps[name]
}

// Extend returns a copy of c with additional library prefixes, collection
// names and map names.
func (c Conventions) Extend(libraryPrefixes, collections, mapNames []string) Conventions {
	out := Conventions{
		Preset:          c.Preset,
		Basic:           maps.Clone(c.Basic),
		LibraryPrefixes: append(slices.Clone(c.LibraryPrefixes), libraryPrefixes...),
		StandardPaths:   c.StandardPaths,
		Collections:     maps.Clone(c.Collections),
		Maps:            maps.Clone(c.Maps),
	}
	if out.Collections == nil {
		out.Collections = make(map[string]bool)
	}
	if out.Maps == nil {
		out.Maps = make(map[string]bool)
	}
	for _, name := range collections {
		out.Collections[name] = true
	}
	for _, name := range mapNames {
		out.Maps[name] = true
	}
	return out
}

// IsStandardPath reports whether a Go import path belongs to the standard
// library, using the same rule as the go command: the first path element
// contains no dot.
func IsStandardPath(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return first != "" && !strings.Contains(first, ".")
}

func setOf(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
