package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kustodian/sunburst/pkg/breadcrumb"
	"github.com/kustodian/sunburst/pkg/capacity"
	"github.com/kustodian/sunburst/pkg/integrations/kustodian"
	treeio "github.com/kustodian/sunburst/pkg/io"
	"github.com/kustodian/sunburst/pkg/render"
	"github.com/kustodian/sunburst/pkg/render/force"
	"github.com/kustodian/sunburst/pkg/render/gauge"
	"github.com/kustodian/sunburst/pkg/render/nodelink"
	"github.com/kustodian/sunburst/pkg/render/sunburst"
	"github.com/kustodian/sunburst/pkg/selection"
)

// Render generates artifacts for tree zoomed on focus. Options must have
// passed [Options.ValidateForRender].
func Render(ctx context.Context, tree *capacity.Tree, focus *capacity.Node, opts Options) (map[string][]byte, error) {
	if opts.VizType == VizNodelink {
		return renderNodelink(ctx, tree, focus, opts)
	}
	return renderSunburst(ctx, tree, focus, opts)
}

func renderSunburst(ctx context.Context, tree *capacity.Tree, focus *capacity.Node, opts Options) (map[string][]byte, error) {
	layout := sunburst.Partition(tree, focus, opts.Width, opts.Height)
	svgOpts := sunburstOptions(opts)

	artifacts := make(map[string][]byte)
	var svg []byte
	for _, f := range opts.Formats {
		format := render.Format(f)
		var (
			data []byte
			err  error
		)
		switch format {
		case render.FormatJSON:
			data, err = sunburst.RenderJSON(layout)
		case render.FormatSVG, render.FormatPNG, render.FormatPDF:
			if svg == nil {
				svg = sunburst.RenderSVG(layout, svgOpts...)
			}
			data = svg
			if format.Rasterized() {
				data, err = render.Convert(ctx, svg, format)
			}
		default:
			return nil, fmt.Errorf("unsupported sunburst format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[f] = data
	}

	if opts.Trail {
		artifacts[ArtifactTrail] = sunburst.RenderTrail(trailFor(tree, focus, opts), svgOpts...)
	}
	return artifacts, nil
}

func sunburstOptions(opts Options) []sunburst.RenderOption {
	if opts.Palette == nil {
		return nil
	}
	return []sunburst.RenderOption{sunburst.WithPalette(*opts.Palette)}
}

func trailFor(tree *capacity.Tree, focus *capacity.Node, opts Options) breadcrumb.Trail {
	sel := selection.New(tree)
	if focus != nil && focus != tree.Root {
		sel.Select(focus)
	}
	if opts.Palette != nil {
		return breadcrumb.DeriveWith(sel, *opts.Palette)
	}
	return breadcrumb.Derive(sel)
}

func renderNodelink(ctx context.Context, tree *capacity.Tree, focus *capacity.Node, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(tree, nodelink.Options{
		Detailed: opts.Detailed,
		Focus:    focus,
		Palette:  opts.Palette,
	})

	artifacts := make(map[string][]byte)
	for _, f := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch render.Format(f) {
		case render.FormatDOT:
			data = []byte(dot)
		case render.FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case render.FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, render.DefaultPNGScale)
		case render.FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case render.FormatJSON:
			data, err = json.MarshalIndent(treeio.Document(tree.Root), "", "  ")
		default:
			return nil, fmt.Errorf("unsupported nodelink format: %s", f)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		artifacts[f] = data
	}
	return artifacts, nil
}

// OverviewNodes converts API containers to force-layout nodes.
func OverviewNodes(containers []kustodian.Container) []force.Node {
	nodes := make([]force.Node, len(containers))
	for i, c := range containers {
		nodes[i] = force.Node{ID: c.ID, Name: c.Name, Size: c.Size, Percent: c.PercentageFull}
	}
	return nodes
}

// RenderOverview lays out containers and draws the overview SVG.
func RenderOverview(containers []kustodian.Container, width, height float64) []byte {
	nodes := force.Layout(OverviewNodes(containers), width, height, force.DefaultOptions())
	return force.RenderSVG(nodes, width, height, gauge.DefaultConfig())
}
