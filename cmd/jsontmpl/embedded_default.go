// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

//go:build !jsontmpl_minimal

package main

import (
	"github.com/albertocavalcante/jsontmpl/render"
)

func init() {
	// Default build: every renderer embedded
	render.Register(render.JSON{})
	render.Register(render.YAML{})
}
