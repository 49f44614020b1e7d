// Package configstore reads, mutates, and writes the OpenClaw configuration
// file. It is the single path to disk for every command that touches
// configuration: path-addressed edits on an untyped document tree, dialect
// detection (strict JSON vs. JWCC), timestamped backups, and atomic writes.
package configstore

import (
	"reflect"
	"strings"
)

// Document is the parsed configuration tree. Keys are plain property names;
// values are the usual encoding/json shapes (bool, float64, string, []any,
// map[string]any, nil).
type Document map[string]any

// splitPath breaks a dot-delimited path into segments.
func splitPath(path string) []string {
	return strings.Split(path, ".")
}

// Get resolves a dot-delimited path. The second return is false if any
// segment is missing or traversal hits a non-object.
func (d Document) Get(path string) (any, bool) {
	var cur any = map[string]any(d)
	for _, seg := range splitPath(path) {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetOr resolves a path, returning def when the path does not resolve.
func (d Document) GetOr(path string, def any) any {
	v, ok := d.Get(path)
	if !ok {
		return def
	}
	return v
}

// GetString resolves a path to a non-empty string.
func (d Document) GetString(path string) (string, bool) {
	v, ok := d.Get(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// GetMap resolves a path to an object, returning nil when it is absent or
// not an object.
func (d Document) GetMap(path string) map[string]any {
	v, ok := d.Get(path)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

// Set writes value at path, creating intermediate objects as needed. A
// non-object intermediate is replaced by an object; the final assignment
// always succeeds.
func (d Document) Set(path string, value any) {
	segs := splitPath(path)
	m := map[string]any(d)
	for _, seg := range segs[:len(segs)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[seg] = next
		}
		m = next
	}
	m[segs[len(segs)-1]] = value
}

// Merge deep-merges partial into the object at path. Nested objects are
// merged key-by-key; arrays and primitives are replaced wholesale. A missing
// or non-object current value is treated as an empty object.
func (d Document) Merge(path string, partial map[string]any) {
	base, _ := d.Get(path)
	cur, ok := base.(map[string]any)
	if !ok {
		cur = map[string]any{}
	}
	d.Set(path, deepMerge(cur, partial))
}

func deepMerge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := out[k].(map[string]any); ok {
				out[k] = deepMerge(dv, sv)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// PushUnique appends value to the array at path unless an equal element is
// already present. A missing or non-array current value becomes a new array.
func (d Document) PushUnique(path string, value any) {
	cur, _ := d.Get(path)
	arr, _ := cur.([]any)
	for _, v := range arr {
		if reflect.DeepEqual(v, value) {
			return
		}
	}
	d.Set(path, append(arr, value))
}

// Remove deletes the key at path if its parent resolves to an object; no-op
// otherwise.
func (d Document) Remove(path string) {
	segs := splitPath(path)
	var cur any = map[string]any(d)
	for _, seg := range segs[:len(segs)-1] {
		m, ok := cur.(map[string]any)
		if !ok {
			return
		}
		cur, ok = m[seg]
		if !ok {
			return
		}
	}
	if m, ok := cur.(map[string]any); ok {
		delete(m, segs[len(segs)-1])
	}
}
