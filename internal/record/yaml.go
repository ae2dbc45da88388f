// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// FromNode converts a decoded YAML node into a Record. The node must be a
// mapping, or a document whose content is a mapping. An empty document
// yields an empty Record.
func FromNode(n *yaml.Node) (*Record, error) {
	if n == nil || n.Kind == 0 {
		return New(), nil
	}
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return New(), nil
		}
		n = n.Content[0]
	}
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return New(), nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping, got %s", n.Line, kindName(n.Kind))
	}
	v, err := nodeValue(n)
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// Parse decodes YAML (or JSON, which YAML accepts) into a Record.
func Parse(data []byte) (*Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return FromNode(&doc)
}

// ReadFile parses the YAML or JSON file at path into a Record.
func ReadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return nodeValue(n.Alias)

	case yaml.MappingNode:
		r := New()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			val, err := nodeValue(v)
			if err != nil {
				return nil, err
			}
			r.Set(k.Value, val)
		}
		return r, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			val, err := nodeValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil

	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str", "!!timestamp", "!!binary", "!!float":
			// Dates and floats stay as written, so "1.0" is not printed as 1.
			return n.Value, nil
		case "!!null":
			return nil, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node %s", n.Line, kindName(n.Kind))
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
