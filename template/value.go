// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/albertocavalcante/jsontmpl/internal/doctext"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	// KindEmpty is the empty string placeholder.
	KindEmpty Kind = iota
	// KindPlaceholder is a ${text} token derived from documentation.
	KindPlaceholder
	// KindLiteral is a literal string, used for enum constant names.
	KindLiteral
	// KindObject is an ordered set of named values.
	KindObject
	// KindList holds at most one exemplar element.
	KindList
	// KindMap is the always-empty associative placeholder.
	KindMap
)

var kindNames = [...]string{
	KindEmpty:       "empty",
	KindPlaceholder: "placeholder",
	KindLiteral:     "literal",
	KindObject:      "object",
	KindList:        "list",
	KindMap:         "map",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a node of a template document. Values are immutable once
// constructed; accessors return copies.
type Value struct {
	kind   Kind
	text   string
	fields []Field
	items  []Value
}

// Field is a named member of an object Value.
type Field struct {
	Name  string
	Value Value
}

// Empty returns the empty string placeholder.
func Empty() Value { return Value{kind: KindEmpty} }

// Placeholder returns a ${text} token.
func Placeholder(text string) Value { return Value{kind: KindPlaceholder, text: text} }

// Literal returns a literal string value.
func Literal(text string) Value { return Value{kind: KindLiteral, text: text} }

// MapLiteral returns the empty map placeholder.
func MapLiteral() Value { return Value{kind: KindMap} }

// List returns a list value.
func List(items ...Value) Value {
	return Value{kind: KindList, items: slices.Clone(items)}
}

// Object returns an object value. A repeated field name keeps its first
// position and takes the last value.
func Object(fields ...Field) Value {
	b := newObjectBuilder(len(fields))
	for _, f := range fields {
		b.set(f.Name, f.Value)
	}
	return b.build()
}

// Kind returns the variant.
func (v Value) Kind() Kind { return v.kind }

// Text returns the placeholder or literal text. It is empty for the other
// variants.
func (v Value) Text() string { return v.text }

// String returns the rendered string for leaf values: "" for Empty,
// "${text}" for placeholders, the text for literals.
func (v Value) String() string {
	switch v.kind {
	case KindPlaceholder:
		return doctext.Placeholder(v.text)
	case KindLiteral:
		return v.text
	case KindObject, KindMap:
		return "{}"
	case KindList:
		return "[]"
	}
	return ""
}

// Fields returns the object fields in order.
func (v Value) Fields() []Field { return slices.Clone(v.fields) }

// Items returns the list items.
func (v Value) Items() []Value { return slices.Clone(v.items) }

// Len returns the number of fields of an object or items of a list.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.fields)
	case KindList:
		return len(v.items)
	}
	return 0
}

// Keys returns the object field names in order.
func (v Value) Keys() []string {
	keys := make([]string, len(v.fields))
	for i, f := range v.fields {
		keys[i] = f.Name
	}
	return keys
}

// Get returns the object field named name.
func (v Value) Get(name string) (Value, bool) {
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether two values are structurally identical, including
// object field order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.text != o.text || len(v.fields) != len(o.fields) || len(v.items) != len(o.items) {
		return false
	}
	for i := range v.fields {
		if v.fields[i].Name != o.fields[i].Name || !v.fields[i].Value.Equal(o.fields[i].Value) {
			return false
		}
	}
	for i := range v.items {
		if !v.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the value as compact JSON with object fields in
// declaration order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindEmpty, KindPlaceholder, KindLiteral:
		return encodeString(buf, v.String())
	case KindMap:
		buf.WriteString("{}")
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, f.Name); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("template: unknown value kind %v", v.kind)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// objectBuilder maintains insertion order for object fields.
type objectBuilder struct {
	index  map[string]int
	fields []Field
}

func newObjectBuilder(size int) *objectBuilder {
	return &objectBuilder{
		index:  make(map[string]int, size),
		fields: make([]Field, 0, size),
	}
}

func (b *objectBuilder) set(name string, value Value) {
	if i, exists := b.index[name]; exists {
		b.fields[i].Value = value
		return
	}
	b.index[name] = len(b.fields)
	b.fields = append(b.fields, Field{Name: name, Value: value})
}

func (b *objectBuilder) build() Value {
	return Value{kind: KindObject, fields: b.fields}
}
