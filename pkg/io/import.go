package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kustodian/sunburst/pkg/capacity"
	errs "github.com/kustodian/sunburst/pkg/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Unknown extensions
// are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ReadDocument decodes one report document from r.
func ReadDocument(r io.Reader, format Format) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(data, format)
}

// DecodeDocument decodes a report document. JSON numbers are kept exact.
func DecodeDocument(data []byte, format Format) (map[string]any, error) {
	var doc map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode yaml")
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported document format %q", format)
	}
	if doc == nil {
		return nil, errs.New(errs.ErrCodeMalformedTree, "document is empty")
	}
	return doc, nil
}

// ReadTree decodes and builds a tree from r.
func ReadTree(r io.Reader, format Format) (*capacity.Tree, error) {
	doc, err := ReadDocument(r, format)
	if err != nil {
		return nil, err
	}
	return capacity.Build(doc)
}

// ImportTree reads the file at path, choosing the format from its
// extension, and builds the tree.
func ImportTree(path string) (*capacity.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	tree, err := ReadTree(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}
