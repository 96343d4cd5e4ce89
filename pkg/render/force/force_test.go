package force

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kustodian/sunburst/pkg/render/gauge"
)

func containers() []Node {
	return []Node{
		{ID: 1, Name: "Dewar 1", Size: 40, Percent: 50},
		{ID: 2, Name: "Dewar 2", Size: 30, Percent: 10},
		{ID: 3, Name: "Dewar 3", Size: 50, Percent: 95},
		{ID: 4, Name: "Dewar 4", Size: 20, Percent: 0},
	}
}

func TestLayout_Deterministic(t *testing.T) {
	a := Layout(containers(), 800, 600, Options{})
	b := Layout(containers(), 800, 600, Options{})
	if diff := cmp.Diff(a, b, cmpopts.IgnoreUnexported(Node{})); diff != "" {
		t.Errorf("layouts differ:\n%s", diff)
	}
}

func TestLayout_InsideFrame(t *testing.T) {
	const w, h = 800.0, 600.0
	for _, n := range Layout(containers(), w, h, Options{}) {
		if n.X < n.Size || n.X > w-n.Size || n.Y < n.Size || n.Y > h-n.Size {
			t.Errorf("%s at (%v, %v) is outside the frame", n.Name, n.X, n.Y)
		}
		if math.IsNaN(n.X) || math.IsNaN(n.Y) {
			t.Errorf("%s has NaN position", n.Name)
		}
	}
}

func TestLayout_Separated(t *testing.T) {
	nodes := Layout(containers(), 2000, 2000, Options{})
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			if d < a.Size+b.Size {
				t.Errorf("%s and %s overlap: distance %.1f", a.Name, b.Name, d)
			}
		}
	}
}

func TestLayout_Empty(t *testing.T) {
	if got := Layout(nil, 100, 100, Options{}); len(got) != 0 {
		t.Errorf("Layout(nil) = %v", got)
	}
}

func TestLayout_DoesNotModifyInput(t *testing.T) {
	in := containers()
	Layout(in, 800, 600, Options{})
	if in[0].X != 0 || in[0].Y != 0 {
		t.Error("input slice was modified")
	}
}

func TestRenderSVG(t *testing.T) {
	nodes := Layout(containers(), 800, 600, Options{})
	svg := string(RenderSVG(nodes, 800, 600, gauge.DefaultConfig()))
	if n := strings.Count(svg, `class="gauge"`); n != 4 {
		t.Errorf("gauges = %d, want 4", n)
	}
	for _, want := range []string{`id="dewar-3"`, `>Dewar 2</text>`, `data-id="4"`, `>95%</text>`} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %q", want)
		}
	}
}
