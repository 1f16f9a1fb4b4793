// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package descriptor

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Chain returns a Provider that consults providers in order and uses the
// first one able to resolve a reference. Library classification and
// conventions come from the first provider.
func Chain(providers ...Provider) Provider {
	return chain(slices.Clone(providers))
}

type chain []Provider

func (c chain) IsLibraryType(ref TypeRef) bool {
	if len(c) == 0 {
		return false
	}
	return c[0].IsLibraryType(ref)
}

func (c chain) Resolve(ref TypeRef) (*TypeDescriptor, error) {
	var errs []error
	for _, p := range c {
		d, err := p.Resolve(ref)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, ErrUnresolved) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, Unresolved(ref)
}

func (c chain) Conventions() Conventions {
	if len(c) == 0 {
		return GoConventions()
	}
	return c[0].Conventions()
}

// Names returns the union of the names known to every listing provider.
func (c chain) Names() []string {
	var names []string
	for _, p := range c {
		if l, ok := p.(Lister); ok {
			names = append(names, l.Names()...)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// Lookup turns a user supplied type name into a reference. Qualified names
// and generic expressions are parsed as is. A bare simple name ("Person")
// is matched against the names listed by p and must be unambiguous.
func Lookup(p Provider, name string) (TypeRef, error) {
	ref, err := ParseTypeRef(name)
	if err != nil {
		return TypeRef{}, err
	}
	if strings.ContainsAny(ref.Name, "./") || len(ref.Args) > 0 || p.IsLibraryType(ref) {
		return ref, nil
	}
	l, ok := p.(Lister)
	if !ok {
		return ref, nil
	}

	var matches []string
	for _, n := range l.Names() {
		if n == ref.Name {
			return ref, nil
		}
		if SimpleName(n) == ref.Name {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return TypeRef{}, Unresolved(ref)
	case 1:
		return Named(matches[0]), nil
	}
	return TypeRef{}, fmt.Errorf("type name %q is ambiguous: %s", name, strings.Join(matches, ", "))
}
