// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source loads the three metadata sources of a registration: the
// blog-wide Jekyll configuration, the post, and the post's author file.
// It also writes a freshly registered DOI back into the post.
package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/frontmatter"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doi-jekyll/internal/record"
)

// yamlFrontMatter decodes "---" delimited front matter into a yaml.Node so
// key order and comments are available for the write-back.
var yamlFrontMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// Document is a Markdown file split into front matter and body.
type Document struct {
	Path string

	// Front is the front matter as an ordered record.
	Front *record.Record

	// Body is everything after the closing delimiter.
	Body []byte

	node yaml.Node
}

// ReadDocument reads path and splits off its YAML front matter. A file
// without front matter yields an empty Front.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseDocument(path, data)
}

// ParseDocument splits data, read from path, into front matter and body.
func ParseDocument(path string, data []byte) (*Document, error) {
	doc := &Document{Path: path}
	body, err := frontmatter.Parse(bytes.NewReader(data), &doc.node, yamlFrontMatter)
	if err != nil {
		return nil, fmt.Errorf("parsing front matter of %s: %w", path, err)
	}
	doc.Body = body

	front, err := record.FromNode(&doc.node)
	if err != nil {
		return nil, fmt.Errorf("front matter of %s: %w", path, err)
	}
	doc.Front = front
	return doc, nil
}

// Decode decodes the front matter into v.
func (d *Document) Decode(v any) error {
	if d.node.Kind == 0 {
		return nil
	}
	if err := d.node.Decode(v); err != nil {
		return fmt.Errorf("decoding front matter of %s: %w", d.Path, err)
	}
	return nil
}

// SetFrontValue sets a string key in the front matter, replacing an
// existing value in place or appending the key at the end.
func (d *Document) SetFrontValue(key, value string) {
	d.Front.Set(key, value)

	mapping := d.mapping()
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}

// mapping returns the top-level front-matter mapping, creating an empty
// one for documents that had none.
func (d *Document) mapping() *yaml.Node {
	if d.node.Kind == 0 {
		d.node = yaml.Node{Kind: yaml.DocumentNode}
	}
	if d.node.Kind == yaml.DocumentNode {
		if len(d.node.Content) == 0 || d.node.Content[0].Kind != yaml.MappingNode {
			d.node.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
		}
		return d.node.Content[0]
	}
	return &d.node
}

// Render returns the document with its front matter re-encoded.
func (d *Document) Render() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.mapping()); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	buf.WriteString("---\n")
	buf.Write(d.Body)
	return buf.Bytes(), nil
}

// Save writes the document back to its path through a temporary file so a
// failed write never leaves a truncated post behind.
func (d *Document) Save() error {
	data, err := d.Render()
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(d.Path); err == nil {
		mode = info.Mode().Perm()
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(d.Path), ".doi-jekyll-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", d.Path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, d.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
