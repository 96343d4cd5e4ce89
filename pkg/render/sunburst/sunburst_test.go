package sunburst

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/kustodian/sunburst/pkg/breadcrumb"
	"github.com/kustodian/sunburst/pkg/capacity"
	"github.com/kustodian/sunburst/pkg/selection"
)

// dewar:
//
//	Dewar (10)
//	├── A (5)
//	│   ├── a1 cap 2
//	│   └── a2 cap 3
//	└── B cap 5
func dewar(t *testing.T) *capacity.Tree {
	t.Helper()
	tree, err := capacity.Build(map[string]any{
		"text": "Dewar", "capacity": 10,
		"children": []any{
			map[string]any{"text": "A", "capacity": 5, "children": []any{
				map[string]any{"text": "a1", "capacity": 2, "size": 1},
				map[string]any{"text": "a2", "capacity": 3, "borderColour": "#ff0000"},
			}},
			map[string]any{"text": "B", "capacity": 5, "size": 2, "colour": "#2C3E50"},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestPartition_Root(t *testing.T) {
	tree := dewar(t)
	l := Partition(tree, nil, 600, 600)

	if l.Radius != 300 || len(l.Arcs) != 5 || len(l.FocusPath) != 0 {
		t.Fatalf("radius %v, arcs %d, focus %v", l.Radius, len(l.Arcs), l.FocusPath)
	}

	tests := []struct {
		path           []int
		x0, x1         float64
		a0, a1, r0, r1 float64
		value          int
	}{
		{[]int{}, 0, 1, 0, 2 * math.Pi, 0, 100, 10},
		{[]int{0}, 0, 0.5, 0, math.Pi, 100, 200, 5},
		{[]int{0, 0}, 0, 0.2, 0, 0.4 * math.Pi, 200, 300, 2},
		{[]int{0, 1}, 0.2, 0.5, 0.4 * math.Pi, math.Pi, 200, 300, 3},
		{[]int{1}, 0.5, 1, math.Pi, 2 * math.Pi, 100, 200, 5},
	}
	for _, tt := range tests {
		a, ok := l.Find(tt.path)
		if !ok {
			t.Fatalf("no arc at %v", tt.path)
		}
		if !near(a.X0, tt.x0) || !near(a.X1, tt.x1) {
			t.Errorf("%v: x = [%v, %v], want [%v, %v]", tt.path, a.X0, a.X1, tt.x0, tt.x1)
		}
		if !near(a.StartAngle, tt.a0) || !near(a.EndAngle, tt.a1) {
			t.Errorf("%v: angle = [%v, %v], want [%v, %v]", tt.path, a.StartAngle, a.EndAngle, tt.a0, tt.a1)
		}
		if !near(a.InnerRadius, tt.r0) || !near(a.OuterRadius, tt.r1) {
			t.Errorf("%v: radius = [%v, %v], want [%v, %v]", tt.path, a.InnerRadius, a.OuterRadius, tt.r0, tt.r1)
		}
		if a.Value != tt.value {
			t.Errorf("%v: value = %d, want %d", tt.path, a.Value, tt.value)
		}
	}
}

func TestPartition_Zoomed(t *testing.T) {
	tree := dewar(t)
	a, _ := tree.Find("A")
	l := Partition(tree, a, 600, 600)

	if l.FocusDepth != 1 || l.Focus() != a {
		t.Fatalf("focus depth %d", l.FocusDepth)
	}

	focus, _ := l.Find([]int{0})
	if !near(focus.StartAngle, 0) || !near(focus.EndAngle, 2*math.Pi) {
		t.Errorf("focus spans [%v, %v], want full circle", focus.StartAngle, focus.EndAngle)
	}
	if !near(focus.InnerRadius, CentreRadius) || !near(focus.OuterRadius, 170) {
		t.Errorf("focus radius = [%v, %v], want [40, 170]", focus.InnerRadius, focus.OuterRadius)
	}

	root, _ := l.Find([]int{})
	if !root.Visible() || root.InnerRadius != 0 || !near(root.OuterRadius, CentreRadius) {
		t.Errorf("parent should be the centre disc, got %+v", root)
	}

	b, _ := l.Find([]int{1})
	if b.Visible() {
		t.Errorf("sibling outside the focus should collapse, got %+v", b)
	}
}

func TestPartition_ForeignFocus(t *testing.T) {
	tree := dewar(t)
	other := dewar(t)
	l := Partition(tree, other.Root, 600, 600)
	if l.Focus() != tree.Root {
		t.Error("foreign focus should fall back to the root")
	}
}

func TestPartition_ZeroCapacity(t *testing.T) {
	tree, err := capacity.Build(map[string]any{
		"text": "Empty", "capacity": 0,
		"children": []any{map[string]any{"text": "x", "capacity": 0}},
	})
	if err != nil {
		t.Fatal(err)
	}
	l := Partition(tree, nil, 100, 100)
	child, _ := l.Find([]int{0})
	if child.Visible() {
		t.Errorf("zero-capacity leaf should have no area: %+v", child)
	}
	for _, a := range l.Arcs {
		if math.IsNaN(a.StartAngle) || math.IsNaN(a.EndAngle) {
			t.Errorf("NaN angle in %+v", a)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	tree := dewar(t)

	t.Run("root", func(t *testing.T) {
		svg := string(RenderSVG(Partition(tree, nil, 600, 600)))
		if n := strings.Count(svg, "<path "); n != 5 {
			t.Errorf("paths = %d, want 5", n)
		}
		for _, want := range []string{
			`viewBox="-300 -300 600 600"`,
			`data-path="0,1"`,
			`>B</text>`,
			`stroke: #ff0000; stroke-width: 3`,
			// B is filled with the border colour, so it is outlined in the text colour.
			`fill: #2C3E50; stroke: #ffffff`,
		} {
			if !strings.Contains(svg, want) {
				t.Errorf("missing %q", want)
			}
		}
		if strings.Contains(svg, ">Dewar</text>") {
			t.Error("root should not be labelled")
		}
		if strings.Contains(svg, "<script") {
			t.Error("script embedded without WithInteraction")
		}
	})

	t.Run("zoomed", func(t *testing.T) {
		a, _ := tree.Find("A")
		svg := string(RenderSVG(Partition(tree, a, 600, 600), WithInteraction()))
		if n := strings.Count(svg, "<path "); n != 4 {
			t.Errorf("paths = %d, want 4", n)
		}
		if strings.Contains(svg, ">B</text>") {
			t.Error("collapsed sibling should not be labelled")
		}
		if !strings.Contains(svg, "sunburstNodeClicked") {
			t.Error("missing click script")
		}
	})
}

func TestStroke(t *testing.T) {
	p := breadcrumb.DefaultPalette
	tests := []struct {
		name   string
		node   capacity.Node
		colour string
		width  int
	}{
		{"plain", capacity.Node{Label: "x", Depth: 2}, p.Border, 1},
		{"border override", capacity.Node{Label: "x", BorderColour: "#123"}, "#123", 3},
		{"border-filled", capacity.Node{Label: "x", Colour: "#2c3e50"}, p.Text, 1},
		{"deep placeholder", capacity.Node{Depth: 2}, p.Border, 0},
		{"shallow placeholder", capacity.Node{Depth: 1}, p.Border, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StrokeColour(p, &tt.node); got != tt.colour {
				t.Errorf("StrokeColour = %q, want %q", got, tt.colour)
			}
			if got := StrokeWidth(&tt.node); got != tt.width {
				t.Errorf("StrokeWidth = %d, want %d", got, tt.width)
			}
		})
	}
}

func TestFontSize(t *testing.T) {
	if got := FontSize(Arc{Depth: 0}, 0); got != 14 {
		t.Errorf("root font = %v, want 14", got)
	}
	got := FontSize(Arc{Depth: 1, X1: 0.5}, 0)
	if want := 14 / math.Pow(2, 0.6); !near(got, want) {
		t.Errorf("depth-1 font = %v, want %v", got, want)
	}
	tiny := FontSize(Arc{Depth: 1, X1: 1e-6}, 0)
	if tiny >= got {
		t.Errorf("narrow slice font %v should shrink below %v", tiny, got)
	}
}

func TestArcPath(t *testing.T) {
	tests := []struct {
		name           string
		a0, a1, r0, r1 float64
		want           string
	}{
		{"quarter sector", 0, math.Pi / 2, 0, 10, "M0,-10A10,10,0,0,1,10,0L0,0Z"},
		{"quarter band", 0, math.Pi / 2, 5, 10, "M0,-10A10,10,0,0,1,10,0L5,0A5,5,0,0,0,0,-5Z"},
		{"disc", 0, 2 * math.Pi, 0, 10, "M0,-10A10,10,0,1,1,0,10A10,10,0,1,1,0,-10Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArcPath(tt.a0, tt.a1, tt.r0, tt.r1); got != tt.want {
				t.Errorf("ArcPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePath(t *testing.T) {
	got, err := ParsePath("0, 2,1")
	if err != nil || len(got) != 3 || got[1] != 2 {
		t.Errorf("ParsePath = %v, %v", got, err)
	}
	if got, err := ParsePath(""); err != nil || len(got) != 0 {
		t.Errorf("empty path = %v, %v", got, err)
	}
	for _, bad := range []string{"a", "1,-2", "1,,2"} {
		if _, err := ParsePath(bad); err == nil {
			t.Errorf("ParsePath(%q) should fail", bad)
		}
	}
}

func TestRenderTrail(t *testing.T) {
	tree, err := capacity.Build(map[string]any{
		"text": "Dewar", "capacity": 4,
		"children": []any{map[string]any{"text": "", "capacity": 4, "children": []any{
			map[string]any{"text": "Box", "capacity": 4, "size": 1},
		}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	sel := selection.New(tree)
	box, _ := tree.At(0, 0)
	sel.Select(box)

	svg := string(RenderTrail(breadcrumb.Derive(sel)))
	if n := strings.Count(svg, "<polygon"); n != 3 {
		t.Errorf("polygons = %d, want 3", n)
	}
	if n := strings.Count(svg, "display: none"); n != 1 {
		t.Errorf("hidden crumbs = %d, want 1", n)
	}
	for _, want := range []string{
		`points="0,0 145,0 165,15 145,30 0,30"`,
		`points="0,0 145,0 165,15 145,30 0,30 20,15"`,
		`translate(300, 0)`,
		`x="525"`,
		`>25% Full</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(Partition(dewar(t), nil, 600, 600))
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Radius float64 `json:"radius"`
		Arcs   []struct {
			Label string `json:"label"`
			Path  []int  `json:"path"`
		} `json:"arcs"`
	}
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Radius != 300 || len(got.Arcs) != 5 || got.Arcs[4].Label != "B" {
		t.Errorf("decoded %+v", got)
	}
}
