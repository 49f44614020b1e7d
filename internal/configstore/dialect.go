package configstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/tailscale/hujson"
)

// Dialect identifies which serialization a config file was written in. It is
// detected on load and carried with the file for the lifetime of that
// load/save cycle, never a process-wide setting.
type Dialect string

const (
	// DialectJSON is strict JSON.
	DialectJSON Dialect = "json"
	// DialectJSON5 tolerates comments and trailing commas (JWCC).
	DialectJSON5 Dialect = "json5"
)

// Parse attempts strict JSON first, then the permissive JWCC dialect. The
// returned dialect records which strategy succeeded.
func Parse(raw []byte) (Document, Dialect, error) {
	var doc Document
	jsonErr := json.Unmarshal(raw, &doc)
	if jsonErr == nil {
		return doc, DialectJSON, nil
	}

	std, jwccErr := hujson.Standardize(raw)
	if jwccErr == nil {
		doc = nil
		if jwccErr = json.Unmarshal(std, &doc); jwccErr == nil {
			return doc, DialectJSON5, nil
		}
	}
	return nil, "", &ParseError{JSONErr: jsonErr, JWCCErr: jwccErr}
}

// marshalStrict renders a document as strict JSON, 2-space indented with a
// single trailing newline.
func marshalStrict(doc Document) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return append(out, '\n'), nil
}

// marshalJWCC re-renders a JWCC file after in-memory mutation without losing
// comments or formatting on untouched keys. Only the byte spans of values
// that actually changed are spliced in the original buffer; every other byte
// of the file, comments and whitespace included, is carried over verbatim.
func marshalJWCC(raw []byte, doc Document) ([]byte, error) {
	orig, _, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	var ops []editOp
	diffObjects(orig, doc, nil, &ops)
	if len(ops) == 0 {
		return ensureNewline(raw), nil
	}

	root, err := hujson.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("reparsing original config: %w", err)
	}

	edits := make([]splice, 0, len(ops))
	for _, op := range ops {
		sp, err := spliceFor(raw, &root, op, removedKeys(ops, op.path[:len(op.path)-1]))
		if err != nil {
			return nil, fmt.Errorf("patching config: %w", err)
		}
		edits = append(edits, sp)
	}
	out, err := applySplices(raw, edits)
	if err != nil {
		return nil, err
	}
	if _, err := hujson.Parse(out); err != nil {
		return nil, fmt.Errorf("patched config is invalid: %w", err)
	}
	return ensureNewline(out), nil
}

// editOp is one key-level change. A nil value means removal; otherwise the
// key is set to value, inserting it if absent.
type editOp struct {
	path  []string
	value json.RawMessage
}

// diffObjects emits the minimal set of key-level edits turning old into new.
// Objects recurse; arrays and primitives are compared whole.
func diffObjects(old, new map[string]any, prefix []string, ops *[]editOp) {
	removed := make([]string, 0)
	for k := range old {
		if _, ok := new[k]; !ok {
			removed = append(removed, k)
		}
	}
	sort.Strings(removed)
	for _, k := range removed {
		*ops = append(*ops, editOp{path: childPath(prefix, k)})
	}

	keys := make([]string, 0, len(new))
	for k := range new {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		nv := new[k]
		ov, existed := old[k]
		if !existed {
			*ops = append(*ops, editOp{path: childPath(prefix, k), value: mustRaw(nv)})
			continue
		}
		if om, ok := ov.(map[string]any); ok {
			if nm, ok := nv.(map[string]any); ok {
				diffObjects(om, nm, childPath(prefix, k), ops)
				continue
			}
		}
		if !reflect.DeepEqual(ov, nv) {
			*ops = append(*ops, editOp{path: childPath(prefix, k), value: mustRaw(nv)})
		}
	}
}

func childPath(prefix []string, k string) []string {
	return append(append([]string(nil), prefix...), k)
}

// removedKeys collects the keys removed directly under parent, so inserts
// into the same object never anchor on a member that is going away.
func removedKeys(ops []editOp, parent []string) map[string]bool {
	out := map[string]bool{}
	for _, op := range ops {
		if op.value == nil && len(op.path) == len(parent)+1 && reflect.DeepEqual(op.path[:len(parent)], parent) {
			out[op.path[len(op.path)-1]] = true
		}
	}
	return out
}

// splice replaces raw[start:end] with text. Inserts have start == end.
type splice struct {
	start, end int
	text       []byte
}

// spliceFor turns one edit into a byte splice against the original buffer,
// using the offsets the syntax tree recorded at parse time.
func spliceFor(raw []byte, root *hujson.Value, op editOp, removed map[string]bool) (splice, error) {
	parent, key := op.path[:len(op.path)-1], op.path[len(op.path)-1]
	pv := root
	for _, seg := range parent {
		obj, ok := pv.Value.(*hujson.Object)
		if !ok {
			return splice{}, fmt.Errorf("%q is not an object", strings.Join(parent, "."))
		}
		i := memberIndex(obj, seg)
		if i < 0 {
			return splice{}, fmt.Errorf("missing key %q", seg)
		}
		pv = &obj.Members[i].Value
	}
	obj, ok := pv.Value.(*hujson.Object)
	if !ok {
		return splice{}, fmt.Errorf("%q is not an object", strings.Join(parent, "."))
	}

	idx := memberIndex(obj, key)
	if op.value == nil {
		if idx < 0 {
			return splice{}, fmt.Errorf("missing key %q", key)
		}
		return removeSplice(raw, obj, idx), nil
	}
	if idx >= 0 {
		m := obj.Members[idx].Value
		return splice{start: m.StartOffset, end: m.EndOffset, text: op.value}, nil
	}
	return insertSplice(raw, pv, obj, key, op.value, removed), nil
}

func memberIndex(obj *hujson.Object, name string) int {
	for i, m := range obj.Members {
		if lit, ok := m.Name.Value.(hujson.Literal); ok && lit.String() == name {
			return i
		}
	}
	return -1
}

// hasComma reports whether a comma follows member i of obj. The parser
// records a trailing comma on the last member as a non-nil AfterExtra.
func hasComma(obj *hujson.Object, i int) bool {
	return i < len(obj.Members)-1 || obj.Members[i].Value.AfterExtra != nil
}

// removeSplice cuts a member together with its comma and the rest of its
// line. A comment line sitting above the removed key is left in place.
func removeSplice(raw []byte, obj *hujson.Object, idx int) splice {
	m := obj.Members[idx]
	start := m.Name.StartOffset
	end := m.Value.EndOffset
	if hasComma(obj, idx) {
		end += len(m.Value.AfterExtra) + len(",")
	}
	for start > 0 && (raw[start-1] == ' ' || raw[start-1] == '\t') {
		start--
	}
	for end < len(raw) && (raw[end] == ' ' || raw[end] == '\t') {
		end++
	}
	if end < len(raw) && raw[end] == '\n' {
		end++
	}
	return splice{start: start, end: end}
}

// insertSplice appends a new member, anchored after the last member that is
// not itself being removed so the surrounding commas stay consistent.
func insertSplice(raw []byte, pv *hujson.Value, obj *hujson.Object, key string, val json.RawMessage, removed map[string]bool) splice {
	member := append(mustRaw(key), ": "...)
	member = append(member, val...)

	anchor := -1
	for i, m := range obj.Members {
		if lit, ok := m.Name.Value.(hujson.Literal); ok && !removed[lit.String()] {
			anchor = i
		}
	}
	if anchor < 0 {
		// Empty object: splice just before the closing brace.
		pos := pv.EndOffset - 1
		return splice{start: pos, end: pos, text: append(member, ',')}
	}

	m := obj.Members[anchor]
	indent := lineIndent(raw, m.Name.StartOffset)
	if hasComma(obj, anchor) {
		pos := m.Value.EndOffset + len(m.Value.AfterExtra) + len(",")
		text := append([]byte("\n"), indent...)
		text = append(text, member...)
		return splice{start: pos, end: pos, text: append(text, ',')}
	}
	pos := m.Value.EndOffset
	text := append([]byte(",\n"), indent...)
	return splice{start: pos, end: pos, text: append(text, member...)}
}

// lineIndent returns the leading whitespace of the line containing pos.
func lineIndent(raw []byte, pos int) []byte {
	start := pos
	for start > 0 && raw[start-1] != '\n' {
		start--
	}
	end := start
	for end < pos && (raw[end] == ' ' || raw[end] == '\t') {
		end++
	}
	return raw[start:end]
}

// applySplices stitches the edits into a fresh buffer in offset order.
// Inserts sort ahead of removals sharing the same offset; spans never
// overlap because every edit targets a distinct key.
func applySplices(raw []byte, edits []splice) ([]byte, error) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].start != edits[j].start {
			return edits[i].start < edits[j].start
		}
		return edits[i].end < edits[j].end
	})
	out := make([]byte, 0, len(raw))
	prev := 0
	for _, e := range edits {
		if e.start < prev {
			return nil, fmt.Errorf("overlapping config edits at offset %d", e.start)
		}
		out = append(out, raw[prev:e.start]...)
		out = append(out, e.text...)
		prev = e.end
	}
	return append(out, raw[prev:]...), nil
}

func mustRaw(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		// Documents only hold JSON-representable values.
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}

func ensureNewline(b []byte) []byte {
	if len(b) == 0 || b[len(b)-1] != '\n' {
		return append(b, '\n')
	}
	return b
}
