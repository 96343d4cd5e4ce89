package capacity

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	errs "github.com/kustodian/sunburst/pkg/errors"
)

const (
	// MaxDepth bounds nesting. Real stores are a handful of levels deep;
	// anything near this limit is a malformed or self-referencing document.
	MaxDepth = 256

	// MaxNodes bounds the size of a single tree.
	MaxNodes = 100_000
)

// Document field names, as served by the report API.
const (
	fieldText         = "text"
	fieldLabel        = "label"
	fieldCapacity     = "capacity"
	fieldSize         = "size"
	fieldChildren     = "children"
	fieldItemID       = "itemId"
	fieldColour       = "colour"
	fieldBorderColour = "borderColour"
	fieldRFID         = "rfid"
	fieldDisplayList  = "displayList"
	fieldRemove       = "remove"
	fieldPatient      = "patient"
	fieldExpiryDate   = "expiryDate"
)

var expiryLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Build converts a decoded report document into a [Tree].
//
// The input is the generic form produced by encoding/json or yaml.v3
// (nested map[string]any and []any). Child order is preserved, depths are
// assigned top-down from 0 and aggregate sizes are summed bottom-up from the
// leaves. Build has no side effects: building the same document twice yields
// structurally equal trees.
//
// Build returns a MALFORMED_TREE error when a node lacks a capacity, a
// number is negative or fractional, a field has the wrong type, or the
// structure is not a finite tree.
func Build(raw map[string]any) (*Tree, error) {
	if raw == nil {
		return nil, errs.New(errs.ErrCodeMalformedTree, "document is empty")
	}
	b := &builder{
		tree: &Tree{},
		seen: make(map[uintptr]bool),
	}
	root, err := b.node(raw, nil, 0, 0, "")
	if err != nil {
		return nil, err
	}
	b.tree.Root = root
	return b.tree, nil
}

type builder struct {
	tree *Tree
	seen map[uintptr]bool
}

func (b *builder) node(raw map[string]any, parent *Node, depth, index int, path string) (*Node, error) {
	if depth > MaxDepth {
		return nil, malformed(path, "nesting deeper than %d levels", MaxDepth)
	}
	if len(b.tree.nodes) >= MaxNodes {
		return nil, malformed(path, "more than %d nodes", MaxNodes)
	}
	ptr := reflect.ValueOf(raw).Pointer()
	if b.seen[ptr] {
		return nil, malformed(path, "subtree is referenced more than once")
	}
	b.seen[ptr] = true

	n := &Node{
		Depth:  depth,
		parent: parent,
		tree:   b.tree,
		index:  index,
	}
	var err error
	if n.Label, err = labelOf(raw, path); err != nil {
		return nil, err
	}
	path = childPath(path, n.Label, index, parent == nil)

	if v, ok := raw[fieldCapacity]; !ok || v == nil {
		return nil, malformed(path, "capacity is required")
	}
	if n.Capacity, err = intField(raw, fieldCapacity, path); err != nil {
		return nil, err
	}
	if n.OwnSize, err = intField(raw, fieldSize, path); err != nil {
		return nil, err
	}
	if err := b.metadata(n, raw, path); err != nil {
		return nil, err
	}

	b.tree.nodes = append(b.tree.nodes, n)
	b.tree.maxDepth = max(b.tree.maxDepth, depth)

	children, err := listField(raw, fieldChildren, path)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		n.AggregateSize = n.OwnSize
		return n, nil
	}

	// Containers are sized purely from their leaves.
	n.OwnSize = 0
	n.Children = make([]*Node, 0, len(children))
	for i, c := range children {
		m, ok := c.(map[string]any)
		if !ok {
			return nil, malformed(fmt.Sprintf("%s/[%d]", path, i), "child is %T, want an object", c)
		}
		child, err := b.node(m, n, depth+1, i, path)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
		n.AggregateSize += child.AggregateSize
	}
	return n, nil
}

func (b *builder) metadata(n *Node, raw map[string]any, path string) error {
	var err error
	if n.ItemID, err = int64Field(raw, fieldItemID, path); err != nil {
		return err
	}
	if n.Colour, err = stringField(raw, fieldColour, path); err != nil {
		return err
	}
	if n.BorderColour, err = stringField(raw, fieldBorderColour, path); err != nil {
		return err
	}
	if n.RFID, err = stringField(raw, fieldRFID, path); err != nil {
		return err
	}
	if n.Patient, err = stringField(raw, fieldPatient, path); err != nil {
		return err
	}
	if n.Remove, err = boolField(raw, fieldRemove, path); err != nil {
		return err
	}
	if n.DisplayList, err = stringListField(raw, fieldDisplayList, path); err != nil {
		return err
	}
	expiry, err := stringField(raw, fieldExpiryDate, path)
	if err != nil {
		return err
	}
	if expiry != "" {
		t, err := ParseExpiry(expiry)
		if err != nil {
			return errs.Wrap(errs.ErrCodeMalformedTree, err, "%s: invalid %s", path, fieldExpiryDate)
		}
		n.ExpiryDate = &t
	}
	return nil
}

// ParseExpiry parses an expiry timestamp in the formats served by the API:
// RFC 3339, a zoneless ISO timestamp, or a bare date.
func ParseExpiry(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range expiryLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func labelOf(raw map[string]any, path string) (string, error) {
	if _, ok := raw[fieldText]; ok {
		return stringField(raw, fieldText, path)
	}
	return stringField(raw, fieldLabel, path)
}

func childPath(parentPath, label string, index int, isRoot bool) string {
	seg := label
	if seg == "" {
		seg = fmt.Sprintf("[%d]", index)
	}
	if isRoot {
		return seg
	}
	return parentPath + "/" + seg
}

func malformed(path, format string, args ...any) error {
	if path == "" {
		path = "<root>"
	}
	return errs.New(errs.ErrCodeMalformedTree, "%s: %s", path, fmt.Sprintf(format, args...))
}

// =============================================================================
// Field decoding
// =============================================================================

func intField(raw map[string]any, key, path string) (int, error) {
	v, err := int64Field(raw, key, path)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 {
		return 0, malformed(path, "%s %d is out of range", key, v)
	}
	return int(v), nil
}

func int64Field(raw map[string]any, key, path string) (int64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, nil
	}
	var (
		n   int64
		err error
	)
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case uint64:
		if x > math.MaxInt64 {
			return 0, malformed(path, "%s %d is out of range", key, x)
		}
		n = int64(x)
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, malformed(path, "%s %v is not an integer", key, x)
		}
		n = int64(x)
	case json.Number:
		n, err = x.Int64()
		if err != nil {
			return 0, malformed(path, "%s %q is not an integer", key, x)
		}
	case string:
		n, err = strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, malformed(path, "%s %q is not an integer", key, x)
		}
	default:
		return 0, malformed(path, "%s is %T, want a number", key, v)
	}
	if n < 0 {
		return 0, malformed(path, "%s %d is negative", key, n)
	}
	return n, nil
}

func stringField(raw map[string]any, key, path string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", malformed(path, "%s is %T, want a string", key, v)
	}
	return s, nil
}

func boolField(raw map[string]any, key, path string) (bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, malformed(path, "%s is %T, want a boolean", key, v)
	}
	return b, nil
}

func listField(raw map[string]any, key, path string) ([]any, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, malformed(path, "%s is %T, want a list", key, v)
	}
	return list, nil
}

func stringListField(raw map[string]any, key, path string) ([]string, error) {
	list, err := listField(raw, key, path)
	if err != nil || list == nil {
		return nil, err
	}
	out := make([]string, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, malformed(path, "%s[%d] is %T, want a string", key, i, v)
		}
		out[i] = s
	}
	return out, nil
}
