// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package descriptor

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stubProvider is a fixed in-memory Provider for tests.
type stubProvider struct {
	types map[string]*TypeDescriptor
	err   error
}

func (s *stubProvider) IsLibraryType(ref TypeRef) bool {
	return GoConventions().IsLibrary(ref.Name)
}

func (s *stubProvider) Resolve(ref TypeRef) (*TypeDescriptor, error) {
	if s.err != nil {
		return nil, s.err
	}
	if d, ok := s.types[ref.Name]; ok {
		return d, nil
	}
	return nil, Unresolved(ref)
}

func (s *stubProvider) Conventions() Conventions { return GoConventions() }

func (s *stubProvider) Names() []string {
	var names []string
	for n := range s.types {
		names = append(names, n)
	}
	return names
}

func TestChain_Resolve(t *testing.T) {
	first := &stubProvider{types: map[string]*TypeDescriptor{
		"a.example/p.A": {Name: "a.example/p.A"},
	}}
	second := &stubProvider{types: map[string]*TypeDescriptor{
		"a.example/p.A": {Name: "a.example/p.A", Doc: "second"},
		"a.example/p.B": {Name: "a.example/p.B"},
	}}
	c := Chain(first, second)

	t.Run("first wins", func(t *testing.T) {
		d, err := c.Resolve(Named("a.example/p.A"))
		if err != nil {
			t.Fatal(err)
		}
		if d.Doc != "" {
			t.Errorf("resolved from the wrong provider: %+v", d)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		if _, err := c.Resolve(Named("a.example/p.B")); err != nil {
			t.Fatalf("fallback failed: %v", err)
		}
	})

	t.Run("unresolved", func(t *testing.T) {
		_, err := c.Resolve(Named("a.example/p.C"))
		if !errors.Is(err, ErrUnresolved) {
			t.Fatalf("got %v, want ErrUnresolved", err)
		}
	})

	t.Run("provider failure surfaces", func(t *testing.T) {
		boom := errors.New("boom")
		c := Chain(&stubProvider{err: boom}, &stubProvider{})
		_, err := c.Resolve(Named("x.example/p.X"))
		if !errors.Is(err, boom) {
			t.Fatalf("got %v, want boom", err)
		}
		if errors.Is(err, ErrUnresolved) {
			t.Error("a provider failure must not read as unresolved")
		}
	})

	t.Run("names", func(t *testing.T) {
		got := c.(Lister).Names()
		want := []string{"a.example/p.A", "a.example/p.B"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Names mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestChain_Empty(t *testing.T) {
	c := Chain()
	if c.IsLibraryType(Named("string")) {
		t.Error("empty chain classified a library type")
	}
	if _, err := c.Resolve(Named("x")); !errors.Is(err, ErrUnresolved) {
		t.Errorf("got %v, want ErrUnresolved", err)
	}
	if c.Conventions().Preset != PresetGo {
		t.Error("empty chain should fall back to Go conventions")
	}
}

func TestLookup(t *testing.T) {
	p := &stubProvider{types: map[string]*TypeDescriptor{
		"example.com/hr.Employee":    {},
		"example.com/hr.Department":  {},
		"example.com/sales.Employee": {},
	}}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "qualified", input: "example.com/hr.Employee", want: "example.com/hr.Employee"},
		{name: "simple unique", input: "Department", want: "example.com/hr.Department"},
		{name: "simple ambiguous", input: "Employee", wantErr: "ambiguous"},
		{name: "unknown", input: "Nope", wantErr: "unresolved"},
		{name: "library", input: "string", want: "string"},
		{name: "generic", input: "Page<Department>", want: "Page<Department>"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Lookup(p, tc.input)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("Lookup(%q) error = %v, want containing %q", tc.input, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tc.input, err)
			}
			if got.String() != tc.want {
				t.Errorf("Lookup(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
