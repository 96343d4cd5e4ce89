package pipeline

import (
	"context"
	"time"

	"github.com/kustodian/sunburst/pkg/capacity"
	errs "github.com/kustodian/sunburst/pkg/errors"
	"github.com/kustodian/sunburst/pkg/integrations/kustodian"
	treeio "github.com/kustodian/sunburst/pkg/io"
	"github.com/kustodian/sunburst/pkg/observability"
)

// TreeSource fetches report documents. *kustodian.Client implements it.
type TreeSource interface {
	FetchTree(ctx context.Context, containerID int64, refresh bool) (map[string]any, error)
	FetchOverview(ctx context.Context, refresh bool) ([]kustodian.Container, error)
}

// Load reads the tree for src and builds it.
func (r *Runner) Load(ctx context.Context, src Source, refresh bool) (*capacity.Tree, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src.String())
	start := time.Now()

	tree, err := r.load(ctx, src, refresh)

	nodes := 0
	if tree != nil {
		nodes = tree.Len()
	}
	hooks.OnLoadComplete(ctx, src.String(), nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("built tree", "source", src, "nodes", nodes, "depth", tree.MaxDepth())
	return tree, nil
}

func (r *Runner) load(ctx context.Context, src Source, refresh bool) (*capacity.Tree, error) {
	if src.File != "" {
		return treeio.ImportTree(src.File)
	}
	if r.Client == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no API client configured for container %d", src.ContainerID)
	}
	doc, err := r.Client.FetchTree(ctx, src.ContainerID, refresh)
	if err != nil {
		return nil, err
	}
	return capacity.Build(doc)
}
