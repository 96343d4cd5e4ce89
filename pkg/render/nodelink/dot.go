package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/kustodian/sunburst/pkg/breadcrumb"
	"github.com/kustodian/sunburst/pkg/capacity"
	"github.com/kustodian/sunburst/pkg/render"
)

// Options configures node-link diagram generation.
type Options struct {
	// Detailed adds occupancy and item metadata to node labels.
	Detailed bool
	// Focus highlights a node and its ancestors. Nil highlights nothing.
	Focus *capacity.Node
	// MaxDepth limits how deep the diagram goes. Zero means unlimited.
	MaxDepth int
	// Palette colours nodes the same way the sunburst does.
	Palette *breadcrumb.Palette
}

// ToDOT converts a capacity tree to Graphviz DOT. Node ids are the
// child-index paths ("n", "n_0", "n_0_2") so duplicate labels stay
// distinct.
func ToDOT(tree *capacity.Tree, opts Options) string {
	palette := breadcrumb.DefaultPalette
	if opts.Palette != nil {
		palette = *opts.Palette
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	var edges []string
	tree.Root.Walk(func(n *capacity.Node) bool {
		if opts.MaxDepth > 0 && n.Depth > opts.MaxDepth {
			return false
		}
		id := nodeID(n)
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed), opts.Focus, palette)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
		if p := n.Parent(); p != nil {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", nodeID(p), id))
		}
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(n *capacity.Node) string {
	var b strings.Builder
	b.WriteString("n")
	for _, i := range n.IndexPath() {
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

func fmtLabel(n *capacity.Node, detailed bool) string {
	name := n.Label
	if name == "" {
		name = "(empty)"
	}
	if !detailed {
		return name
	}
	parts := []string{fmt.Sprintf("%d of %d (%d%%)", n.AggregateSize, n.Capacity, n.Percent())}
	if n.RFID != "" {
		parts = append(parts, "rfid: "+n.RFID)
	}
	if n.IsItem() {
		parts = append(parts, fmt.Sprintf("item: %d", n.ItemID))
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *capacity.Node, label string, focus *capacity.Node, p breadcrumb.Palette) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if fill := p.Colour(n); fill != p.Clear {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	if n.BorderColour != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", n.BorderColour), "penwidth=3")
	}
	switch {
	case n.IsEmpty():
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case focus != nil && n == focus:
		attrs = append(attrs, "penwidth=3", "style=\"rounded,filled,bold\"")
	case focus != nil && n.IsAncestorOf(focus):
		attrs = append(attrs, "style=\"rounded,filled,bold\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales from a
// zero origin like the other renderers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`,
		render.Num(w), render.Num(h), render.Num(w), render.Num(h))
	loc := svgTagRe.FindIndex(svg)
	out := make([]byte, 0, len(svg))
	out = append(out, svg[:loc[0]]...)
	out = append(out, tag...)
	return append(out, svg[loc[1]:]...)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
