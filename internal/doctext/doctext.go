// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package doctext cleans raw documentation comments into placeholder text.
package doctext

import "strings"

// Clean strips comment delimiters from raw documentation and joins the
// remaining lines with single spaces. It accepts block comments
// ("/** ... */", "/* ... */"), line comments ("// ...") and plain text.
// Returns the empty string when nothing but delimiters and whitespace
// remain.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}
	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		if line = cleanLine(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, "*/")
	switch {
	case strings.HasPrefix(line, "/**"):
		line = line[3:]
	case strings.HasPrefix(line, "/*"), strings.HasPrefix(line, "//"):
		line = line[2:]
	}
	line = strings.TrimSpace(line)
	// Javadoc continuation lines start with one or more stars.
	line = strings.TrimLeft(line, "*")
	return strings.TrimSpace(line)
}

// Placeholder wraps cleaned documentation into a placeholder token.
func Placeholder(text string) string {
	return "${" + text + "}"
}
