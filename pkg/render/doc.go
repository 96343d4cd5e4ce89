// Package render holds helpers shared by the visualization renderers.
//
// # Overview
//
// The renderers live in subpackages:
//
//   - [sunburst]: zoomable partition layout, sunburst SVG and breadcrumb trail
//   - [gauge]: liquid-fill gauge SVG
//   - [force]: force-directed overview of all containers
//   - [nodelink]: Graphviz node-link diagram of one tree
//
// Each renderer produces SVG. [Convert] turns SVG into PDF or PNG using the
// external rsvg-convert tool (from librsvg):
//
//	svg := sunburst.RenderSVG(layout)
//	pdf, err := render.Convert(ctx, svg, render.FormatPDF)
//
// [sunburst]: github.com/kustodian/sunburst/pkg/render/sunburst
// [gauge]: github.com/kustodian/sunburst/pkg/render/gauge
// [force]: github.com/kustodian/sunburst/pkg/render/force
// [nodelink]: github.com/kustodian/sunburst/pkg/render/nodelink
package render
