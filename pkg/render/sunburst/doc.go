// Package sunburst renders a capacity tree as a zoomable sunburst.
//
// # Layout
//
// [Partition] assigns every node a slice of the unit square the way a
// d3 partition does: the angular extent is proportional to the summed
// capacity of the node's leaves and the radial band is the node's depth.
// The layout is then zoomed onto a focus node. The focus subtree spans
// the full circle, the focus's parent becomes a small disc in the centre
// (activating it zooms out) and everything else collapses to nothing.
//
//	layout := sunburst.Partition(tree, sel.Current(), 750, 600)
//	svg := sunburst.RenderSVG(layout)
//
// # Output
//
// [RenderSVG] draws the arcs with labels. Each drawable arc carries a
// data-path attribute holding the node's child-index path so a host page
// can map clicks back to nodes. [RenderTrail] draws the breadcrumb trail
// and [RenderJSON] exports the layout.
package sunburst
