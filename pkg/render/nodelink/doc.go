// Package nodelink renders a capacity tree as a node-link diagram.
//
// # Overview
//
// Each node becomes a box labelled with its name and occupancy, connected
// to its children by arrows. Placeholder slots are drawn dashed, the
// focused node and its ancestors are highlighted.
//
// # Usage
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{Focus: sel.Current()})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
