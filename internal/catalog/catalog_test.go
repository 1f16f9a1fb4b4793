// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/albertocavalcante/jsontmpl/descriptor"
	"github.com/google/go-cmp/cmp"
)

const hrYAML = `
conventions: java
types:
  - name: com.example.Entity
    fields:
      - name: id
        type: long
        doc: "/** identifier */"
      - name: serialVersionUID
        type: long
        modifiers: [static, final]
  - name: com.example.Employee
    extends: [com.example.Entity]
    fields:
      - name: name
        type: java.lang.String
      - name: manager
        type: com.example.Employee
      - name: status
        type: com.example.Status
  - name: com.example.Status
    kind: enum
    constants: [ACTIVE, RETIRED]
  - name: com.example.Page
    typeParams: [T]
    fields:
      - name: items
        type: java.util.List<T>
      - name: first
        type: T
      - name: owner
        type: com.example.Ghost
`

func mustCatalog(t *testing.T, src string) *Catalog {
	t.Helper()
	doc, err := Parse([]byte(src), ".yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c, err := New(doc, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func fieldSummary(d *descriptor.TypeDescriptor) []string {
	var out []string
	for _, f := range d.Fields {
		s := f.Name + " " + f.Type.String()
		if f.Excluded() {
			s += " (excluded)"
		}
		out = append(out, s)
	}
	return out
}

func TestCatalog_Resolve(t *testing.T) {
	c := mustCatalog(t, hrYAML)

	tests := []struct {
		name string
		ref  string
		want []string
	}{
		{
			name: "inherited fields follow own fields",
			ref:  "com.example.Employee",
			want: []string{
				"name java.lang.String",
				"manager com.example.Employee",
				"status com.example.Status",
				"id long",
			},
		},
		{
			name: "static and final fields filtered",
			ref:  "com.example.Entity",
			want: []string{"id long"},
		},
		{
			name: "type arguments substituted",
			ref:  "com.example.Page<com.example.Employee>",
			want: []string{
				"items java.util.List<com.example.Employee>",
				"first com.example.Employee",
				"owner com.example.Ghost",
			},
		},
		{
			name: "missing arguments become any",
			ref:  "com.example.Page",
			want: []string{
				"items java.util.List<any>",
				"first any",
				"owner com.example.Ghost",
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := c.Resolve(descriptor.MustParseTypeRef(tc.ref))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, fieldSummary(d)); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("enum", func(t *testing.T) {
		d, err := c.Resolve(descriptor.Named("com.example.Status"))
		if err != nil {
			t.Fatal(err)
		}
		if !d.IsEnum() || !cmp.Equal(d.Constants, []string{"ACTIVE", "RETIRED"}) {
			t.Errorf("got %+v", d)
		}
	})

	t.Run("unresolved", func(t *testing.T) {
		_, err := c.Resolve(descriptor.Named("com.example.Ghost"))
		if !errors.Is(err, descriptor.ErrUnresolved) {
			t.Errorf("got %v, want ErrUnresolved", err)
		}
	})

	t.Run("cached", func(t *testing.T) {
		ref := descriptor.Named("com.example.Employee")
		a, _ := c.Resolve(ref)
		b, _ := c.Resolve(ref)
		if a != b {
			t.Error("descriptor not cached")
		}
	})
}

func TestCatalog_Classification(t *testing.T) {
	c := mustCatalog(t, hrYAML)

	if c.IsLibraryType(descriptor.Named("com.example.Employee")) {
		t.Error("declared type classified as library")
	}
	if !c.IsLibraryType(descriptor.Named("java.time.Instant")) {
		t.Error("java.time.Instant not a library type")
	}
	if c.Conventions().Preset != descriptor.PresetJava {
		t.Errorf("preset = %q", c.Conventions().Preset)
	}
	want := []string{"com.example.Employee", "com.example.Entity", "com.example.Page", "com.example.Status"}
	if diff := cmp.Diff(want, c.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_ExtendedConventions(t *testing.T) {
	doc, err := Parse([]byte(`
conventions: java
libraryPrefixes: [org.joda.]
collections: [com.google.common.collect.ImmutableList]
types:
  - name: com.example.A
    fields:
      - name: when
        type: org.joda.time.DateTime
`), ".yml")
	if err != nil {
		t.Fatal(err)
	}
	c, err := New(doc, Options{Maps: []string{"com.example.Bag"}})
	if err != nil {
		t.Fatal(err)
	}
	conv := c.Conventions()
	if !c.IsLibraryType(descriptor.Named("org.joda.time.DateTime")) {
		t.Error("document library prefix ignored")
	}
	if !conv.IsCollection("com.google.common.collect.ImmutableList") {
		t.Error("document collection ignored")
	}
	if !conv.IsMap("com.example.Bag") {
		t.Error("option map ignored")
	}
	if len(c.Missing()) != 0 {
		t.Errorf("Missing() = %v", c.Missing())
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "duplicate type",
			src:  "types:\n  - name: a.B\n  - name: a.B\n",
			want: `duplicate type "a.B"`,
		},
		{
			name: "unknown kind",
			src:  "types:\n  - name: a.B\n    kind: union\n",
			want: `unknown type kind "union"`,
		},
		{
			name: "bad field type",
			src:  "types:\n  - name: a.B\n    fields:\n      - name: x\n        type: List<\n",
			want: "a.B.x",
		},
		{
			name: "duplicate field",
			src:  "types:\n  - name: a.B\n    fields:\n      - {name: x, type: int}\n      - {name: x, type: int}\n",
			want: `duplicate field "x"`,
		},
		{
			name: "unknown modifier",
			src:  "types:\n  - name: a.B\n    fields:\n      - {name: x, type: int, modifiers: [volatile]}\n",
			want: `unknown modifier "volatile"`,
		},
		{
			name: "unknown supertype",
			src:  "types:\n  - name: a.B\n    extends: [a.Nope]\n",
			want: "unknown supertype a.Nope",
		},
		{
			name: "enum supertype",
			src:  "types:\n  - name: a.B\n    extends: [a.E]\n  - name: a.E\n    kind: enum\n",
			want: "supertype a.E is a enum",
		},
		{
			name: "inheritance cycle",
			src:  "types:\n  - name: a.B\n    extends: [a.C]\n  - name: a.C\n    extends: [a.B]\n",
			want: "inheritance cycle",
		},
		{
			name: "unknown conventions",
			src:  "conventions: cobol\ntypes:\n  - name: a.B\n",
			want: `unknown conventions "cobol"`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Parse([]byte(tc.src), ".yaml")
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			_, err = New(doc, Options{})
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("New() error = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		doc, err := Parse([]byte(`{"conventions":"go","types":[{"name":"example.com/p.T","fields":[{"name":"id","type":"int"}]}]}`), ".JSON")
		if err != nil {
			t.Fatal(err)
		}
		if doc.Conventions != "go" || len(doc.Types) != 1 || doc.Types[0].Fields[0].Type != "int" {
			t.Errorf("got %+v", doc)
		}
	})

	errTests := []struct {
		name string
		src  string
		ext  string
		want string
	}{
		{name: "unknown yaml key", src: "types:\n  - name: a.B\n    colour: red\n", ext: ".yaml", want: "colour"},
		{name: "unknown json key", src: `{"types":[{"name":"a.B"}],"extra":1}`, ext: ".json", want: "extra"},
		{name: "empty yaml", src: "", ext: ".yaml", want: "empty document"},
		{name: "no types", src: "conventions: go\n", ext: ".yaml", want: "no types"},
	}
	for _, tc := range errTests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src), tc.ext)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Parse() error = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.yaml")
	if err := os.WriteFile(path, []byte(hrYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Types) != 4 {
		t.Errorf("got %d types, want 4", len(doc.Types))
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCatalog_Deps(t *testing.T) {
	c := mustCatalog(t, hrYAML)

	if diff := cmp.Diff([]string{"com.example.Ghost"}, c.Missing()); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}

	got := c.Reachable(descriptor.MustParseTypeRef("com.example.Page<com.example.Employee>"))
	want := []string{"com.example.Employee", "com.example.Entity", "com.example.Page", "com.example.Status"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Reachable mismatch (-want +got):\n%s", diff)
	}
}
