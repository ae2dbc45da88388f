// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record implements the ordered metadata mapping that flows from
// the Jekyll sources through the assembler to the XML encoder.
//
// Values held by a Record are scalars (string, bool, int, float64, time
// values, nil), sequences ([]any) or nested *Record mappings. Key order is
// insertion order and survives Merge, so the serialized document lists
// elements in the order the sources wrote them.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// AttrPrefix marks a key that serializes as an XML attribute.
	AttrPrefix = "@"

	// TextKey holds the character data of the enclosing element.
	TextKey = "#text"
)

// Record is an ordered mapping from string keys to values.
type Record struct {
	keys   []string
	values map[string]any
}

// New returns an empty Record.
func New() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position. Set returns r so fragments can be built in one expression.
func (r *Record) Set(key string, value any) *Record {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
	return r
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// String returns the value under key formatted as a string, or "" when the
// key is absent or nil.
func (r *Record) String(key string) string {
	v, ok := r.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Record returns the nested mapping under key, or nil.
func (r *Record) Record(key string) *Record {
	v, _ := r.Get(key)
	nested, _ := v.(*Record)
	return nested
}

// Delete removes key, preserving the order of the remaining keys.
func (r *Record) Delete(key string) {
	if r == nil {
		return
	}
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in order. The slice is a copy.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.keys...)
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{
		keys:   append([]string(nil), r.keys...),
		values: make(map[string]any, len(r.values)),
	}
	for k, v := range r.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

// Map converts r into plain nested maps and slices, dropping key order.
// Validation rules and debug output work on this form.
func (r *Record) Map() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		out[k] = plainValue(r.values[k])
	}
	return out
}

// MarshalJSON writes r as a JSON object with keys in record order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshaling %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Record:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func plainValue(v any) any {
	switch val := v.(type) {
	case *Record:
		return val.Map()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}
