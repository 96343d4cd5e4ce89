package sunburst

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kustodian/sunburst/pkg/breadcrumb"
	"github.com/kustodian/sunburst/pkg/render"
)

// Breadcrumb polygon dimensions.
const (
	CrumbWidth  = 145.0
	CrumbHeight = 30.0
	CrumbSpace  = 5.0
	CrumbTail   = 20.0
)

// CrumbPoints returns the polygon points of the i-th crumb. The first crumb
// has a flat left edge; later ones are notched to receive the previous tip.
func CrumbPoints(i int) string {
	pts := []string{
		"0,0",
		render.Num(CrumbWidth) + ",0",
		render.Num(CrumbWidth+CrumbTail) + "," + render.Num(CrumbHeight/2),
		render.Num(CrumbWidth) + "," + render.Num(CrumbHeight),
		"0," + render.Num(CrumbHeight),
	}
	if i > 0 {
		pts = append(pts, render.Num(CrumbTail)+","+render.Num(CrumbHeight/2))
	}
	return strings.Join(pts, " ")
}

// RenderTrail draws the breadcrumb trail followed by its summary text.
// Placeholder crumbs keep their slot but are not displayed.
func RenderTrail(t breadcrumb.Trail, opts ...RenderOption) []byte {
	r := newRenderer(opts...)
	step := CrumbWidth + CrumbSpace
	width := float64(len(t.Chain)+1) * step

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" id="trail" preserveAspectRatio="xMinYMin meet" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		render.Num(width), render.Num(CrumbHeight), render.Num(width), render.Num(CrumbHeight))
	for i, c := range t.Chain {
		display := "block"
		if c.Hidden {
			display = "none"
		}
		fmt.Fprintf(&buf, `  <g class="crumb" data-depth="%d" transform="translate(%s, 0)">`+"\n", c.Depth, render.Num(float64(i)*step))
		fmt.Fprintf(&buf, `    <polygon points="%s" style="stroke: %s; fill: %s; cursor: pointer; display: %s"/>`+"\n",
			CrumbPoints(i), render.Escape(r.palette.Border), render.Escape(c.Colour), display)
		fmt.Fprintf(&buf, `    <text x="%s" y="%s" dy="0.35em" text-anchor="middle" style="fill: %s; cursor: pointer; text-shadow: %s">%s</text>`+"\n",
			render.Num((CrumbWidth+CrumbTail)/2), render.Num(CrumbHeight/2),
			render.Escape(r.palette.Text), render.TextShadow, render.Escape(c.Label))
		buf.WriteString("  </g>\n")
	}
	fmt.Fprintf(&buf, `  <text id="endlabel" x="%s" y="%s" dy="0.35em" text-anchor="middle" style="fill: %s">%s</text>`+"\n",
		render.Num((float64(len(t.Chain))+0.5)*step), render.Num(CrumbHeight/2),
		render.Escape(r.palette.Text), render.Escape(t.SummaryText))
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderJSON exports the layout.
func RenderJSON(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}
