package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kustodian/sunburst/pkg/capacity"
	errs "github.com/kustodian/sunburst/pkg/errors"
)

const dewarJSON = `{
  "text": "Dewar", "capacity": 10,
  "children": [
    {"text": "A", "capacity": 5, "size": 3, "itemId": 7, "patient": "P-1",
     "expiryDate": "2025-03-04T00:00:00Z", "displayList": ["Check seal"], "remove": true},
    {"text": "B", "capacity": 5, "size": 2, "colour": "#abcdef"}
  ]
}`

const dewarYAML = `
text: Dewar
capacity: 10
children:
  - text: A
    capacity: 5
    size: 3
    itemId: 7
    patient: P-1
    expiryDate: "2025-03-04T00:00:00Z"
    displayList: [Check seal]
    remove: true
  - text: B
    capacity: 5
    size: 2
    colour: "#abcdef"
`

var ignoreLinks = cmpopts.IgnoreUnexported(capacity.Node{})

func TestReadTree_JSONAndYAMLAgree(t *testing.T) {
	fromJSON, err := ReadTree(strings.NewReader(dewarJSON), FormatJSON)
	if err != nil {
		t.Fatalf("ReadTree(json): %v", err)
	}
	fromYAML, err := ReadTree(strings.NewReader(dewarYAML), FormatYAML)
	if err != nil {
		t.Fatalf("ReadTree(yaml): %v", err)
	}
	if diff := cmp.Diff(fromJSON.Root, fromYAML.Root, ignoreLinks); diff != "" {
		t.Errorf("json and yaml trees differ (-json +yaml):\n%s", diff)
	}
	if fromJSON.Root.AggregateSize != 5 {
		t.Errorf("aggregate = %d, want 5", fromJSON.Root.AggregateSize)
	}
}

func TestRoundTrip(t *testing.T) {
	orig, err := ReadTree(strings.NewReader(dewarJSON), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteTree(&buf, orig, format); err != nil {
				t.Fatalf("WriteTree: %v", err)
			}
			back, err := ReadTree(&buf, format)
			if err != nil {
				t.Fatalf("ReadTree: %v", err)
			}
			if diff := cmp.Diff(orig.Root, back.Root, ignoreLinks); diff != "" {
				t.Errorf("round trip changed the tree (-orig +back):\n%s", diff)
			}
		})
	}
}

func TestImportExportFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "dewar.yml")
	if err := os.WriteFile(src, []byte(dewarYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	tree, err := ImportTree(src)
	if err != nil {
		t.Fatalf("ImportTree: %v", err)
	}
	dst := filepath.Join(dir, "out.json")
	if err := ExportTree(tree, dst); err != nil {
		t.Fatalf("ExportTree: %v", err)
	}
	again, err := ImportTree(dst)
	if err != nil {
		t.Fatalf("ImportTree(exported): %v", err)
	}
	if again.Len() != tree.Len() {
		t.Errorf("Len = %d, want %d", again.Len(), tree.Len())
	}
}

func TestImportTree_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		code errs.Code
	}{
		{"bad json", write("bad.json", "{"), errs.ErrCodeInvalidFormat},
		{"bad yaml", write("bad.yaml", "text: [unclosed"), errs.ErrCodeInvalidFormat},
		{"empty yaml", write("empty.yaml", ""), errs.ErrCodeMalformedTree},
		{"missing capacity", write("nocap.json", `{"text": "x"}`), errs.ErrCodeMalformedTree},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportTree(tt.path)
			if !errs.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := ImportTree(filepath.Join(dir, "nope.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json": FormatJSON,
		"a.YAML": FormatYAML,
		"a.yml":  FormatYAML,
		"a":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
