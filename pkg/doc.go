// Package pkg provides the libraries behind sunburst, a navigator for
// storage capacity trees.
//
// # Overview
//
// A report document describes one storage container (dewar, freezer, rack)
// as a nested tree of sub-containers and item slots, each with a capacity.
// The pkg directory is organized into these areas:
//
//  1. [capacity] - The tree model: building, fill ratios, paths
//  2. [selection], [breadcrumb], [info] - Navigation state and what is
//     derived from it (trail, info panel)
//  3. [view] - One navigation session with async item lookups
//  4. [render] - Sunburst, trail, gauge overview and node-link output
//  5. [integrations] - The report API client
//  6. [cache], [config], [io] - Response caching, TOML settings,
//     JSON/YAML import and export
//  7. [pipeline], [server] - Orchestration (load → focus → render) and
//     the HTTP view API
//
// # Architecture
//
//	Report API / local export
//	         ↓
//	    [capacity.Build] (validated tree)
//	         ↓
//	    [view.View] ← activations (CLI, TUI, HTTP)
//	         ↓
//	    breadcrumb trail + info summary
//	         ↓
//	    [render/sunburst] (SVG/PNG/PDF/JSON)
//
// # Quick Start
//
//	tree, err := io.ImportTree("store.yaml")
//	if err != nil {
//	    return err
//	}
//	v := view.New(tree)
//	defer v.Close()
//
//	rack, _ := tree.Find("Rack A")
//	v.HandleNodeActivated(rack)
//	fmt.Println(v.Snapshot().Trail.SummaryText) // "60% Full"
//
//	layout := sunburst.Partition(tree, v.Current(), 750, 600)
//	svg := sunburst.RenderSVG(layout)
package pkg
