package pipeline

import (
	"strings"

	"github.com/kustodian/sunburst/pkg/capacity"
	errs "github.com/kustodian/sunburst/pkg/errors"
)

// Focus resolves a "/"-separated label path to a node of tree. "", "/"
// and blanks select the root.
func Focus(tree *capacity.Tree, path string) (*capacity.Node, error) {
	labels, err := errs.ParsePath(path)
	if err != nil {
		return nil, err
	}
	n, ok := tree.Find(labels...)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidPath, "no node at %q below %q", strings.Join(labels, "/"), tree.Root.Label)
	}
	return n, nil
}

// FocusIndices resolves a child-index path to a node of tree.
func FocusIndices(tree *capacity.Tree, path []int) (*capacity.Node, error) {
	n, ok := tree.At(path...)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidPath, "no node at index path %v", path)
	}
	return n, nil
}
