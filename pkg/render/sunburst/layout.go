package sunburst

import (
	"math"
	"slices"

	"github.com/kustodian/sunburst/pkg/capacity"
)

// CentreRadius is the radius of the centre disc when zoomed below the root.
const CentreRadius = 40.0

// Arc is one node's slice.
type Arc struct {
	Path  []int  `json:"path"`
	Label string `json:"label"`
	Depth int    `json:"depth"`
	Value int    `json:"value"` // summed leaf capacity

	// Partition coordinates in the unit square, independent of zoom.
	X0 float64 `json:"x0"`
	X1 float64 `json:"x1"`
	Y0 float64 `json:"y0"`
	Y1 float64 `json:"y1"`

	// Zoomed geometry. Angles run clockwise from 12 o'clock.
	StartAngle  float64 `json:"startAngle"`
	EndAngle    float64 `json:"endAngle"`
	InnerRadius float64 `json:"innerRadius"`
	OuterRadius float64 `json:"outerRadius"`

	node *capacity.Node
}

// Node returns the node the arc was laid out for.
func (a Arc) Node() *capacity.Node { return a.node }

// Visible reports whether the arc has area at the current zoom.
func (a Arc) Visible() bool {
	return a.EndAngle > a.StartAngle && a.OuterRadius > a.InnerRadius
}

// Layout is a zoomed partition of one tree.
type Layout struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Radius float64 `json:"radius"`

	FocusPath  []int `json:"focusPath"`
	FocusDepth int   `json:"focusDepth"`

	Arcs []Arc `json:"arcs"` // pre-order

	focus *capacity.Node
}

// Focus returns the node the layout is zoomed on.
func (l Layout) Focus() *capacity.Node { return l.focus }

// Partition lays out tree and zooms onto focus. A nil focus or one from a
// different tree means the root.
func Partition(tree *capacity.Tree, focus *capacity.Node, width, height float64) Layout {
	if focus == nil || !tree.Contains(focus) {
		focus = tree.Root
	}
	l := Layout{
		Width:      width,
		Height:     height,
		Radius:     math.Min(width, height) / 2,
		FocusPath:  focus.IndexPath(),
		FocusDepth: focus.Depth,
		Arcs:       make([]Arc, 0, tree.Len()),
		focus:      focus,
	}

	values := make(map[*capacity.Node]int, tree.Len())
	sumCapacity(tree.Root, values)

	dy := 1 / float64(tree.MaxDepth()+1)
	var place func(n *capacity.Node, x0, x1 float64)
	place = func(n *capacity.Node, x0, x1 float64) {
		l.Arcs = append(l.Arcs, Arc{
			Path:  n.IndexPath(),
			Label: n.Label,
			Depth: n.Depth,
			Value: values[n],
			X0:    x0,
			X1:    x1,
			Y0:    float64(n.Depth) * dy,
			Y1:    float64(n.Depth+1) * dy,
			node:  n,
		})
		var k float64
		if v := values[n]; v > 0 {
			k = (x1 - x0) / float64(v)
		}
		x := x0
		for _, c := range n.Children {
			next := x + float64(values[c])*k
			place(c, x, next)
			x = next
		}
	}
	place(tree.Root, 0, 1)

	var f Arc
	for _, a := range l.Arcs {
		if a.node == focus {
			f = a
			break
		}
	}
	z := newZoom(f, l.Radius)
	for i := range l.Arcs {
		z.apply(&l.Arcs[i])
	}
	return l
}

// sumCapacity sums leaf capacities; containers contribute nothing of their
// own.
func sumCapacity(n *capacity.Node, values map[*capacity.Node]int) int {
	if n.IsLeaf() {
		values[n] = n.Capacity
		return n.Capacity
	}
	total := 0
	for _, c := range n.Children {
		total += sumCapacity(c, values)
	}
	values[n] = total
	return total
}

// zoom maps partition coordinates to angles and radii: x from
// [focus.X0, focus.X1] onto [0, 2π] and y from [focus.Y0, 1] onto
// [r0, radius], where r0 leaves room for the centre disc below the root.
type zoom struct {
	x0, x1 float64
	y0     float64
	r0, r1 float64
}

func newZoom(focus Arc, radius float64) zoom {
	z := zoom{x0: focus.X0, x1: focus.X1, y0: focus.Y0, r1: radius}
	if focus.Y0 > 0 {
		z.r0 = CentreRadius
	}
	return z
}

func (z zoom) angle(x float64) float64 {
	var t float64
	if z.x1 > z.x0 {
		t = (x - z.x0) / (z.x1 - z.x0)
	}
	return math.Max(0, math.Min(2*math.Pi, t*2*math.Pi))
}

func (z zoom) radius(y float64) float64 {
	t := (y - z.y0) / (1 - z.y0)
	return math.Max(0, z.r0+t*(z.r1-z.r0))
}

func (z zoom) apply(a *Arc) {
	a.StartAngle = z.angle(a.X0)
	a.EndAngle = z.angle(a.X1)
	a.InnerRadius = z.radius(a.Y0)
	a.OuterRadius = z.radius(a.Y1)
}

// Find returns the arc for the node at the given child-index path.
func (l Layout) Find(path []int) (Arc, bool) {
	for _, a := range l.Arcs {
		if slices.Equal(a.Path, path) {
			return a, true
		}
	}
	return Arc{}, false
}
