package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kustodian/sunburst/pkg/capacity"
	errs "github.com/kustodian/sunburst/pkg/errors"
)

// Document converts n and its subtree back into the report document shape.
// Containers carry no size; only leaves do.
func Document(n *capacity.Node) map[string]any {
	doc := map[string]any{
		"text":     n.Label,
		"capacity": n.Capacity,
	}
	if n.IsLeaf() {
		doc["size"] = n.OwnSize
	} else {
		children := make([]any, len(n.Children))
		for i, c := range n.Children {
			children[i] = Document(c)
		}
		doc["children"] = children
	}
	if n.ItemID != 0 {
		doc["itemId"] = n.ItemID
	}
	setString(doc, "colour", n.Colour)
	setString(doc, "borderColour", n.BorderColour)
	setString(doc, "rfid", n.RFID)
	setString(doc, "patient", n.Patient)
	if len(n.DisplayList) > 0 {
		list := make([]any, len(n.DisplayList))
		for i, s := range n.DisplayList {
			list[i] = s
		}
		doc["displayList"] = list
	}
	if n.Remove {
		doc["remove"] = true
	}
	if n.ExpiryDate != nil {
		doc["expiryDate"] = n.ExpiryDate.Format(time.RFC3339)
	}
	return doc
}

func setString(doc map[string]any, key, v string) {
	if v != "" {
		doc[key] = v
	}
}

// WriteTree encodes tree in the given format.
func WriteTree(w io.Writer, tree *capacity.Tree, format Format) error {
	doc := Document(tree.Root)
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unsupported document format %q", format)
	}
}

// ExportTree writes tree to path, choosing the format from its extension.
func ExportTree(tree *capacity.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTree(f, tree, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
