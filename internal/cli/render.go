package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kustodian/sunburst/pkg/pipeline"
	"github.com/kustodian/sunburst/pkg/render"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output   string
	vizType  string
	formats  string
	path     string
	width    float64
	height   float64
	trail    bool
	detailed bool
	refresh  bool
	noCache  bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <container-id|file>",
		Short: "Render a capacity tree as a sunburst or node-link diagram",
		Long: `Render a capacity tree to SVG, PNG, PDF, JSON or DOT.

The source is either a container id, fetched from the report API, or a
local JSON/YAML export. Use --path to zoom on a node, naming the labels
below the root separated by "/".`,
		Example: `  sunburst render 42
  sunburst render 42 --path "Rack A/Box 3" --trail -f svg,png
  sunburst render store.yaml -t nodelink --detailed -o store.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single artifact) or base path")
	cmd.Flags().StringVarP(&opts.vizType, "type", "t", pipeline.DefaultVizType, "visualization type: sunburst, nodelink")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s), comma-separated: svg (default), png, pdf, json, dot")
	cmd.Flags().StringVarP(&opts.path, "path", "p", "", `focus node as "/"-separated labels below the root`)
	cmd.Flags().Float64Var(&opts.width, "width", 0, "frame width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "frame height (default from config)")
	cmd.Flags().BoolVar(&opts.trail, "trail", false, "also render the breadcrumb trail (sunburst)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show occupancy in node labels (nodelink)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached API responses")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching entirely")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, source string, opts renderOpts) error {
	runner, _, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions(source, opts)
	if err := popts.ValidateForRender(); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Loading "+source+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", result.Source))

	base := basePath(opts.output, result.Source)
	single := len(result.Artifacts) == 1 && opts.output != ""
	for _, name := range artifactOrder(result.Artifacts) {
		path := artifactPath(base, name)
		if single {
			path = opts.output
		}
		if err := writeOutput(path, result.Artifacts[name]); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(result.NodeCount, len(result.FocusPath), result.CacheInfo.RenderHit)
	return nil
}

// pipelineOptions converts flags to pipeline options, filling the size
// from the config.
func (c *CLI) pipelineOptions(source string, opts renderOpts) pipeline.Options {
	width, height := c.renderSize()
	if opts.width > 0 {
		width = opts.width
	}
	if opts.height > 0 {
		height = opts.height
	}
	return pipeline.Options{
		Source:   source,
		Refresh:  opts.refresh,
		Path:     opts.path,
		VizType:  opts.vizType,
		Formats:  parseFormats(opts.formats),
		Width:    width,
		Height:   height,
		Trail:    opts.trail,
		Detailed: opts.detailed,
	}
}

// parseFormats splits the --format flag. Empty means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{string(render.FormatSVG)}
	}
	return strings.Split(s, ",")
}

// basePath derives the output base from --output or the source. Known
// format extensions are stripped; container sources become
// "container-<id>".
func basePath(output string, src pipeline.Source) string {
	if output != "" {
		ext := filepath.Ext(output)
		if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if src.File != "" {
		return strings.TrimSuffix(src.File, filepath.Ext(src.File))
	}
	return fmt.Sprintf("container-%d", src.ContainerID)
}

// artifactPath names one artifact: base.<format>, or base_trail.svg for
// the breadcrumb trail.
func artifactPath(base, name string) string {
	if name == pipeline.ArtifactTrail {
		return base + "_" + name
	}
	return base + "." + name
}

func artifactOrder(artifacts map[string][]byte) []string {
	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
