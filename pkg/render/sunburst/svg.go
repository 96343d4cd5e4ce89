package sunburst

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kustodian/sunburst/pkg/breadcrumb"
	"github.com/kustodian/sunburst/pkg/capacity"
	"github.com/kustodian/sunburst/pkg/render"
)

const (
	defaultFontSize = 14.0
	labelOffset     = 5.0
	labelColour     = "#fff"
)

const clickScript = `
    document.querySelectorAll('[data-path]').forEach(el => {
      el.addEventListener('click', () => {
        const path = el.dataset.path === '' ? [] : el.dataset.path.split(',').map(Number);
        el.ownerSVGElement.dispatchEvent(new CustomEvent('sunburstNodeClicked', { detail: path, bubbles: true }));
      });
    });`

// RenderOption configures [RenderSVG] and [RenderTrail].
type RenderOption func(*renderer)

type renderer struct {
	palette     breadcrumb.Palette
	interactive bool
}

// WithPalette overrides the fill and stroke colours.
func WithPalette(p breadcrumb.Palette) RenderOption { return func(r *renderer) { r.palette = p } }

// WithInteraction embeds a script that dispatches a sunburstNodeClicked
// event carrying the clicked node's path.
func WithInteraction() RenderOption { return func(r *renderer) { r.interactive = true } }

func newRenderer(opts ...RenderOption) renderer {
	r := renderer{palette: breadcrumb.DefaultPalette}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG draws the visible arcs of l, then their labels.
func RenderSVG(l Layout, opts ...RenderOption) []byte {
	r := newRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="dewar-svg" preserveAspectRatio="xMinYMin meet" viewBox="%s %s %s %s" width="%s" height="%s">`+"\n",
		render.Num(-l.Width/2), render.Num(-l.Height/2), render.Num(l.Width), render.Num(l.Height),
		render.Num(l.Width), render.Num(l.Height))
	buf.WriteString("  <g>\n")
	for _, a := range l.Arcs {
		if a.Visible() {
			r.writeArc(&buf, a)
		}
	}
	for _, a := range l.Arcs {
		if labelled(l, a) {
			writeLabel(&buf, l, a)
		}
	}
	buf.WriteString("  </g>\n")
	if r.interactive {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", clickScript)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r renderer) writeArc(buf *bytes.Buffer, a Arc) {
	n := a.node
	cursor := "pointer"
	if n.IsEmpty() {
		cursor = "default"
	}
	fmt.Fprintf(buf, `    <path class="slice" data-path="%s" d="%s" style="fill: %s; stroke: %s; stroke-width: %d; cursor: %s">`,
		joinPath(a.Path), ArcPath(a.StartAngle, a.EndAngle, a.InnerRadius, a.OuterRadius),
		render.Escape(r.palette.Colour(n)), render.Escape(StrokeColour(r.palette, n)), StrokeWidth(n), cursor)
	if n.Label != "" {
		fmt.Fprintf(buf, "<title>%s</title>", render.Escape(n.Label))
	}
	buf.WriteString("</path>\n")
}

// labelled reports whether a gets a label: named, non-root, drawn and
// inside the focus subtree.
func labelled(l Layout, a Arc) bool {
	return a.Depth > 0 && a.Label != "" && a.Visible() && l.focus.IsAncestorOf(a.node)
}

func writeLabel(buf *bytes.Buffer, l Layout, a Arc) {
	rel := a.Depth - l.FocusDepth
	angle := labelAngle(a)
	anchor := "start"
	if rel > 0 && angle > 90 {
		anchor = "end"
	}
	if rel == 0 {
		angle -= 90
	}
	flip := 0
	if angle > 90 {
		flip = -180
	}
	fmt.Fprintf(buf, `    <text data-path="%s" fill="%s" dy=".35em" text-anchor="%s" transform="rotate(%s)translate(%s)rotate(%d)" style="font-size: %spx; text-shadow: %s; cursor: pointer">%s</text>`+"\n",
		joinPath(a.Path), labelColour, anchor,
		render.Num(angle), render.Num(a.InnerRadius+labelOffset), flip,
		render.Num(FontSize(a, l.FocusDepth)), render.TextShadow, render.Escape(a.Label))
}

// labelAngle is the rotation, in degrees to one decimal, that points a
// label from the centre through the middle of the arc.
func labelAngle(a Arc) float64 {
	mid := (a.StartAngle + a.EndAngle) / 2
	deg := (mid - math.Pi/2) / math.Pi * 180
	return math.Round(deg*10) / 10
}

// FontSize shrinks labels with distance from the focus and for narrow
// slices.
func FontSize(a Arc, focusDepth int) float64 {
	if a.Depth == 0 {
		return defaultFontSize
	}
	rel := float64(a.Depth-focusDepth) + 1
	if rel <= 0 {
		return defaultFontSize
	}
	return math.Min(a.X1*900*900/math.Pow(rel, 0.1), defaultFontSize/math.Pow(rel, 0.6))
}

// StrokeColour picks the outline: an explicit border colour wins, nodes
// filled with the border colour get the text colour, everything else the
// border colour.
func StrokeColour(p breadcrumb.Palette, n *capacity.Node) string {
	switch {
	case n.BorderColour != "":
		return n.BorderColour
	case n.Colour != "" && strings.EqualFold(n.Colour, p.Border):
		return p.Text
	default:
		return p.Border
	}
}

// StrokeWidth is 3 for nodes with a border colour and 0 for placeholders
// below the first ring.
func StrokeWidth(n *capacity.Node) int {
	switch {
	case n.BorderColour != "":
		return 3
	case n.IsEmpty() && n.Depth > 1:
		return 0
	default:
		return 1
	}
}

// ArcPath returns SVG path data for an annular sector.
func ArcPath(a0, a1, r0, r1 float64) string {
	if a1-a0 >= 2*math.Pi-1e-9 {
		return ringPath(r0, r1)
	}
	large := 0
	if a1-a0 > math.Pi {
		large = 1
	}
	var b strings.Builder
	x, y := polar(r1, a0)
	fmt.Fprintf(&b, "M%s,%s", render.Num(x), render.Num(y))
	x, y = polar(r1, a1)
	fmt.Fprintf(&b, "A%s,%s,0,%d,1,%s,%s", render.Num(r1), render.Num(r1), large, render.Num(x), render.Num(y))
	if r0 > 0 {
		x, y = polar(r0, a1)
		fmt.Fprintf(&b, "L%s,%s", render.Num(x), render.Num(y))
		x, y = polar(r0, a0)
		fmt.Fprintf(&b, "A%s,%s,0,%d,0,%s,%s", render.Num(r0), render.Num(r0), large, render.Num(x), render.Num(y))
	} else {
		b.WriteString("L0,0")
	}
	b.WriteString("Z")
	return b.String()
}

// ringPath draws a full disc, or an annulus when r0 > 0, as two half
// circles each.
func ringPath(r0, r1 float64) string {
	o := render.Num(r1)
	s := fmt.Sprintf("M0,-%sA%s,%s,0,1,1,0,%sA%s,%s,0,1,1,0,-%s", o, o, o, o, o, o, o)
	if r0 > 0 {
		i := render.Num(r0)
		s += fmt.Sprintf("M0,-%sA%s,%s,0,1,0,0,%sA%s,%s,0,1,0,0,-%s", i, i, i, i, i, i, i)
	}
	return s + "Z"
}

func polar(r, a float64) (x, y float64) {
	return r * math.Sin(a), -r * math.Cos(a)
}

func joinPath(path []int) string {
	parts := make([]string, len(path))
	for i, v := range path {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// ParsePath parses a data-path attribute value.
func ParsePath(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	path := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid path segment %q", p)
		}
		path[i] = v
	}
	return path, nil
}
