// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xmlenc serializes records to XML. Keys prefixed with "@" become
// attributes, "#text" becomes character data, sequences become repeated
// elements and nil becomes an empty element.
package xmlenc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/doi-jekyll/internal/record"
)

// Header is written before the root element.
const Header = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// Encode writes r as an XML document to w. r must have exactly one key,
// the root element. When pretty is set children are indented with tabs.
func Encode(w io.Writer, r *record.Record, pretty bool) error {
	if r.Len() != 1 {
		return fmt.Errorf("document must have exactly one root, got %d", r.Len())
	}
	root := r.Keys()[0]
	if isAttr(root) || root == record.TextKey {
		return fmt.Errorf("invalid root element %q", root)
	}
	value, _ := r.Get(root)

	if _, err := io.WriteString(w, Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	enc := xml.NewEncoder(w)
	if pretty {
		enc.Indent("", "\t")
	}
	if err := encodeElement(enc, root, value); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("flushing XML: %w", err)
	}
	return nil
}

// Marshal returns the encoded document.
func Marshal(r *record.Record, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, r, pretty); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeElement(enc *xml.Encoder, name string, value any) error {
	if list, ok := value.([]any); ok {
		for _, item := range list {
			if err := encodeElement(enc, name, item); err != nil {
				return err
			}
		}
		return nil
	}

	start := xml.StartElement{Name: xml.Name{Local: name}}
	var children *record.Record
	text := ""

	switch v := value.(type) {
	case nil:
	case *record.Record:
		children = v
		for _, key := range v.Keys() {
			if !isAttr(key) {
				continue
			}
			start.Attr = append(start.Attr, xml.Attr{
				Name:  xml.Name{Local: strings.TrimPrefix(key, record.AttrPrefix)},
				Value: v.String(key),
			})
		}
		text = v.String(record.TextKey)
	default:
		text = scalar(v)
	}

	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("encoding <%s>: %w", name, err)
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return fmt.Errorf("encoding <%s> text: %w", name, err)
		}
	}
	for _, key := range children.Keys() {
		if isAttr(key) || key == record.TextKey {
			continue
		}
		child, _ := children.Get(key)
		if err := encodeElement(enc, key, child); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("encoding </%s>: %w", name, err)
	}
	return nil
}

func isAttr(key string) bool {
	return strings.HasPrefix(key, record.AttrPrefix)
}

func scalar(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(s)
	}
}
