// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stdin is the path that reads the document from standard input.
const Stdin = "-"

// Load reads and parses a descriptor document. The format follows the
// file extension: ".json" is JSON, anything else is YAML.
func Load(path string) (*Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	doc, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return doc, nil
}

func readFile(path string) ([]byte, error) {
	if path == Stdin {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// Parse decodes a descriptor document. ext selects the format (".json" or
// YAML otherwise). Unknown keys are rejected.
func Parse(data []byte, ext string) (*Document, error) {
	var doc Document
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("empty document")
			}
			return nil, err
		}
	}
	if len(doc.Types) == 0 {
		return nil, errors.New("no types declared")
	}
	return &doc, nil
}
