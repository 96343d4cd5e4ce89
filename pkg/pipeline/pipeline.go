// Package pipeline implements the load → focus → render pipeline shared by
// the CLI and the HTTP server.
//
// # Stages
//
//  1. Load: fetch a report document from the API (or read a local file) and
//     build a [capacity.Tree]
//  2. Focus: resolve a label path such as "Rack A/Box 3" to a node
//  3. Render: produce artifacts (SVG, JSON, DOT, PNG, PDF) for the sunburst
//     or node-link visualization zoomed on that node
//
// # Usage
//
//	runner := pipeline.NewRunner(client, c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "42",
//	    Path:    "Rack A",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Rendered artifacts are cached by a hash of the tree contents and the
// render options, so re-rendering an unchanged tree is a cache lookup.
//
// [capacity.Tree]: github.com/kustodian/sunburst/pkg/capacity.Tree
package pipeline

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kustodian/sunburst/pkg/breadcrumb"
	"github.com/kustodian/sunburst/pkg/cache"
	errs "github.com/kustodian/sunburst/pkg/errors"
	"github.com/kustodian/sunburst/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 750.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600.0

	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 24 * time.Hour
)

// Visualization types.
const (
	VizSunburst = "sunburst"
	VizNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizSunburst

// ArtifactTrail is the artifact key of the breadcrumb trail SVG.
const ArtifactTrail = "trail.svg"

// vizFormats lists the formats each visualization supports.
var vizFormats = map[string][]render.Format{
	VizSunburst: {render.FormatSVG, render.FormatJSON, render.FormatPNG, render.FormatPDF},
	VizNodelink: {render.FormatSVG, render.FormatJSON, render.FormatDOT, render.FormatPNG, render.FormatPDF},
}

// =============================================================================
// Options
// =============================================================================

// Options configures a full pipeline run.
type Options struct {
	// Load options
	Source  string `json:"source"` // container id or local file path
	Refresh bool   `json:"refresh,omitempty"`

	// Focus
	Path string `json:"path,omitempty"` // "/"-separated labels below the root

	// Render options
	VizType  string              `json:"viz_type,omitempty"`
	Formats  []string            `json:"formats,omitempty"`
	Width    float64             `json:"width,omitempty"`
	Height   float64             `json:"height,omitempty"`
	Trail    bool                `json:"trail,omitempty"`    // also render the breadcrumb trail
	Detailed bool                `json:"detailed,omitempty"` // node-link labels with occupancy
	Palette  *breadcrumb.Palette `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Source    Source
	TreeHash  string
	NodeCount int
	FocusPath []int

	// Artifacts contains rendered outputs keyed by format, plus
	// [ArtifactTrail] when requested.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // every artifact came from the cache
}

// Source identifies where a tree comes from.
type Source struct {
	ContainerID int64
	File        string
}

// String returns the container id or the file path.
func (s Source) String() string {
	if s.File != "" {
		return s.File
	}
	return strconv.FormatInt(s.ContainerID, 10)
}

// ParseSource reads a command-line source argument: a positive integer is
// a container id, anything else a file path.
func ParseSource(arg string) (Source, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Source{}, errs.New(errs.ErrCodeInvalidInput, "source is required")
	}
	if !isNumeric(arg) {
		return Source{File: arg}, nil
	}
	id, err := errs.ParseContainerID(arg)
	if err != nil {
		return Source{}, err
	}
	return Source{ContainerID: id}, nil
}

func isNumeric(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return s != "" && strings.Trim(s, "0123456789") == ""
}

// =============================================================================
// Validation
// =============================================================================

// ValidateVizType checks that a visualization type is supported.
func ValidateVizType(vizType string) error {
	if _, ok := vizFormats[vizType]; !ok {
		return errs.New(errs.ErrCodeInvalidVizType, "invalid viz type %q (must be one of: sunburst, nodelink)", vizType)
	}
	return nil
}

// ValidateFormats checks that every format is supported by vizType.
func ValidateFormats(vizType string, formats []string) error {
	if err := ValidateVizType(vizType); err != nil {
		return err
	}
	for _, f := range formats {
		parsed, err := render.ParseFormat(f)
		if err != nil {
			return err
		}
		if !slices.Contains(vizFormats[vizType], parsed) {
			return errs.New(errs.ErrCodeInvalidFormat, "%s does not support %s output", vizType, parsed)
		}
	}
	return nil
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{string(render.FormatSVG)}
	}
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
}

// ValidateForRender sets defaults and validates render options.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Width < 0 || o.Height < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "size %gx%g must be positive", o.Width, o.Height)
	}
	if o.Trail && o.VizType != VizSunburst {
		return errs.New(errs.ErrCodeInvalidInput, "trail is only available for the sunburst")
	}
	return ValidateFormats(o.VizType, o.Formats)
}

// ArtifactKeyOpts returns cache key options for one artifact.
func (o *Options) ArtifactKeyOpts(format string, focus []int) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		VizType: o.VizType,
		Format:  format,
		Path:    focus,
		Width:   o.Width,
		Height:  o.Height,
	}
	if o.Detailed {
		opts.Extra = append(opts.Extra, "detailed")
	}
	if o.Palette != nil {
		p := o.Palette
		opts.Extra = append(opts.Extra, "palette", p.Contents, p.Text, p.Clear, p.Border, p.Alert)
	}
	return opts
}
