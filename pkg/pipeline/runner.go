package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kustodian/sunburst/pkg/cache"
	"github.com/kustodian/sunburst/pkg/capacity"
	errs "github.com/kustodian/sunburst/pkg/errors"
	treeio "github.com/kustodian/sunburst/pkg/io"
	"github.com/kustodian/sunburst/pkg/observability"
)

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for its collaborators. Multiple goroutines
// can use the same Runner with different options.
type Runner struct {
	Client TreeSource // may be nil when only local files are rendered
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means [cache.DefaultKeyer], a nil
// cache disables artifact caching.
func NewRunner(client TreeSource, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Client: client,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → focus → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	src, err := ParseSource(opts.Source)
	if err != nil {
		return nil, err
	}

	result := &Result{Source: src}

	loadStart := time.Now()
	tree, err := r.Load(ctx, src, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.NodeCount = tree.Len()
	result.TreeHash = TreeHash(tree)

	r.Logger.Info("loaded tree",
		"source", src,
		"nodes", tree.Len(),
		"duration", result.Stats.LoadTime)

	focus, err := Focus(tree, opts.Path)
	if err != nil {
		return nil, err
	}
	result.FocusPath = focus.IndexPath()

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, tree, focus, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"viz", opts.VizType,
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo renders artifacts, serving them from the cache when
// every requested artifact is present, and reports whether it did.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, tree *capacity.Tree, focus *capacity.Node, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if focus == nil {
		focus = tree.Root
	}
	if !tree.Contains(focus) {
		return nil, false, errs.New(errs.ErrCodeInvalidSelection, "focus node is not part of the tree")
	}

	path := focus.IndexPath()
	hash := TreeHash(tree)
	keys := make(map[string]string, len(opts.Formats)+1)
	for _, f := range opts.Formats {
		keys[f] = r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(f, path))
	}
	if opts.Trail {
		keys[ArtifactTrail] = r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(ArtifactTrail, path))
	}

	if artifacts, ok := r.cached(ctx, keys); ok {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.VizType, opts.Formats)
	start := time.Now()
	artifacts, err := Render(ctx, tree, focus, opts)
	hooks.OnRenderComplete(ctx, opts.VizType, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for name, data := range artifacts {
		if err := r.Cache.Set(ctx, keys[name], data, TTLArtifact); err != nil {
			r.Logger.Warn("cache artifact", "artifact", name, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeArtifact, len(data))
	}
	return artifacts, false, nil
}

// Render is RenderWithCacheInfo without the cache hit report.
func (r *Runner) Render(ctx context.Context, tree *capacity.Tree, focus *capacity.Node, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, tree, focus, opts)
	return artifacts, err
}

func (r *Runner) cached(ctx context.Context, keys map[string]string) (map[string][]byte, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(keys))
	for name, key := range keys {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, cache.KeyTypeArtifact)
			return nil, false
		}
		artifacts[name] = data
	}
	hooks.OnCacheHit(ctx, cache.KeyTypeArtifact)
	return artifacts, true
}

// Overview fetches all containers and renders the force diagram.
func (r *Runner) Overview(ctx context.Context, refresh bool, width, height float64) ([]byte, error) {
	if r.Client == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "overview requires an API client")
	}
	containers, err := r.Client.FetchOverview(ctx, refresh)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("fetched overview", "containers", len(containers))
	return RenderOverview(containers, width, height), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// TreeHash returns a content hash of tree. Trees built from equal
// documents hash equally.
func TreeHash(tree *capacity.Tree) string {
	data, err := json.Marshal(treeio.Document(tree.Root))
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
