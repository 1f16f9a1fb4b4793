// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package render

import (
	"fmt"
	"strconv"

	"github.com/albertocavalcante/jsontmpl/template"
	"github.com/tidwall/pretty"
)

// JSON renders templates as indented JSON.
//
// Options:
//
//	width  maximum column width for single line arrays (default 0: every
//	       element on its own line)
type JSON struct{}

// Metadata implements Renderer.
func (JSON) Metadata() Metadata {
	return Metadata{
		Name:          "json",
		Description:   "Indented JSON, field order preserved",
		FileExtension: ".json",
	}
}

// Render implements Renderer. The output ends with a newline and keeps
// <, > and & unescaped.
func (JSON) Render(v template.Value, cfg Config) ([]byte, error) {
	width, err := strconv.Atoi(cfg.Option("width", "0"))
	if err != nil {
		return nil, fmt.Errorf("json width option: %w", err)
	}
	compact, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(compact, &pretty.Options{
		Width:  width,
		Indent: cfg.indent(),
	}), nil
}
