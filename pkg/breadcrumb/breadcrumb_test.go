package breadcrumb

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/kustodian/sunburst/pkg/capacity"
	"github.com/kustodian/sunburst/pkg/selection"
)

func build(t *testing.T, doc string) *capacity.Tree {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tree, err := capacity.Build(raw)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

const dewar = `{
  "text": "Dewar", "capacity": 10,
  "children": [
    {"text": "A", "capacity": 5, "size": 3},
    {"text": "B", "capacity": 5, "size": 2}
  ]
}`

func TestDerive_Root(t *testing.T) {
	sel := selection.New(build(t, dewar))
	trail := Derive(sel)

	if trail.SummaryText != "50% Full" {
		t.Errorf("SummaryText = %q, want %q", trail.SummaryText, "50% Full")
	}
	if len(trail.Chain) != 1 || trail.Chain[0].Label != "Dewar" {
		t.Errorf("Chain = %+v, want [Dewar]", trail.Chain)
	}
}

func TestDerive_Zoomed(t *testing.T) {
	tree := build(t, dewar)
	sel := selection.New(tree)
	a, _ := tree.Find("A")
	sel.Select(a)

	trail := Derive(sel)
	if got, want := trail.Labels(), []string{"Dewar", "A"}; !slices.Equal(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}
	if trail.SummaryText != "60% Full" {
		t.Errorf("SummaryText = %q, want 60%% Full", trail.SummaryText)
	}
	if c := trail.Chain[1]; c.Depth != 1 || c.Colour != DefaultPalette.Text {
		t.Errorf("crumb A = %+v, want depth 1 with text colour", c)
	}
}

func TestDerive_ZeroCapacity(t *testing.T) {
	sel := selection.New(build(t, `{"text": "Ghost", "capacity": 0, "size": 4}`))
	if got := Derive(sel).SummaryText; got != "0% Full" {
		t.Errorf("SummaryText = %q, want 0%% Full", got)
	}
}

func TestDerive_PlaceholdersKeepPosition(t *testing.T) {
	tree := build(t, `{
	  "text": "Dewar", "capacity": 4,
	  "children": [
	    {"text": "", "capacity": 4, "children": [
	      {"text": "Box", "capacity": 2, "size": 1}
	    ]}
	  ]
	}`)
	sel := selection.New(tree)
	box, _ := tree.At(0, 0)
	sel.Select(box)

	trail := Derive(sel)
	if len(trail.Chain) != box.Depth+1 {
		t.Fatalf("len(Chain) = %d, want %d", len(trail.Chain), box.Depth+1)
	}
	if !trail.Chain[1].Hidden {
		t.Error("placeholder crumb should be hidden")
	}
	if got, want := len(trail.Visible()), 2; got != want {
		t.Errorf("len(Visible()) = %d, want %d", got, want)
	}
}

func TestPalette_Colour(t *testing.T) {
	tree := build(t, `{
	  "text": "Dewar", "capacity": 9,
	  "children": [
	    {"text": "Full rack", "capacity": 3, "children": [{"text": "s", "capacity": 1}]},
	    {"text": "Empty rack", "capacity": 3, "children": [{"text": "", "capacity": 1}]},
	    {"text": "Painted", "capacity": 3, "colour": "#abcdef"}
	  ]
	}`)
	p := DefaultPalette

	tests := []struct {
		path []int
		want string
	}{
		{nil, p.Clear},
		{[]int{0}, p.Contents},
		{[]int{1}, p.Text},
		{[]int{2}, "#abcdef"},
		{[]int{0, 0}, p.Clear},
	}
	for _, tt := range tests {
		n, _ := tree.At(tt.path...)
		if got := p.Colour(n); got != tt.want {
			t.Errorf("Colour(%q) = %q, want %q", n.Label, got, tt.want)
		}
	}
}
