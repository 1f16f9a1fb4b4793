// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package render

import (
	"bytes"
	"fmt"

	"github.com/albertocavalcante/jsontmpl/template"
	"gopkg.in/yaml.v3"
)

// YAML renders templates as YAML documents. Field order is preserved and
// every string is double-quoted so placeholders read the same as in JSON.
type YAML struct{}

// Metadata implements Renderer.
func (YAML) Metadata() Metadata {
	return Metadata{
		Name:          "yaml",
		Description:   "YAML document, field order preserved",
		FileExtension: ".yaml",
	}
}

// Render implements Renderer.
func (YAML) Render(v template.Value, cfg Config) ([]byte, error) {
	node, err := yamlNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(len(cfg.indent()))
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func yamlNode(v template.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case template.KindEmpty, template.KindPlaceholder, template.KindLiteral:
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: v.String(),
			Style: yaml.DoubleQuotedStyle,
		}, nil
	case template.KindMap:
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Style: yaml.FlowStyle}, nil
	case template.KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		if len(n.Content) == 0 {
			n.Style = yaml.FlowStyle
		}
		return n, nil
	case template.KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range v.Fields() {
			child, err := yamlNode(f.Value)
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}
			n.Content = append(n.Content, key, child)
		}
		if len(n.Content) == 0 {
			n.Style = yaml.FlowStyle
		}
		return n, nil
	}
	return nil, fmt.Errorf("render: unknown value kind %v", v.Kind())
}
