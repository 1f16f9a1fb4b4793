// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package doctext

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "plain", input: "street addr", expected: "street addr"},
		{name: "javadoc single line", input: "/** street addr */", expected: "street addr"},
		{name: "block comment", input: "/* csv tags */", expected: "csv tags"},
		{name: "line comment", input: "// the user name", expected: "the user name"},
		{
			name:     "javadoc multi line",
			input:    "/**\n     * The order total.\n     * Includes tax.\n     */",
			expected: "The order total. Includes tax.",
		},
		{
			name:     "go line comments",
			input:    "// Street is the street line.\n// Without the number.",
			expected: "Street is the street line. Without the number.",
		},
		{name: "only delimiters", input: "/** */", expected: ""},
		{name: "empty javadoc", input: "/**/", expected: ""},
		{name: "surrounding whitespace", input: "  \t/**   padded  */  \n", expected: "padded"},
		{name: "inner star kept", input: "/** a*b */", expected: "a*b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.input); got != tc.expected {
				t.Errorf("Clean(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestPlaceholder(t *testing.T) {
	if got := Placeholder("comment"); got != "${comment}" {
		t.Errorf("Placeholder = %q, want %q", got, "${comment}")
	}
}
