// Package selection holds the navigation state of a capacity tree view.
//
// A [Selection] points at exactly one node of one [capacity.Tree]. It starts
// at the root and moves only through [Selection.Select] (and the Reset/Up
// shortcuts built on it). Rejected moves are ordinary outcomes, not errors:
// re-selecting the current node or selecting a placeholder slot leaves the
// state untouched and reports [NoOp].
//
// A Selection is not safe for concurrent use. Callers that share one between
// goroutines (see package view) serialize access themselves.
package selection

import "github.com/kustodian/sunburst/pkg/capacity"

// Outcome reports whether a transition changed the selection.
type Outcome int

const (
	NoOp Outcome = iota
	Changed
)

func (o Outcome) String() string {
	if o == Changed {
		return "changed"
	}
	return "noop"
}

// Selection is the single focused node of a tree.
type Selection struct {
	tree    *capacity.Tree
	current *capacity.Node
}

// New returns a selection positioned at the root of tree.
func New(tree *capacity.Tree) *Selection {
	return &Selection{tree: tree, current: tree.Root}
}

// Tree returns the tree being navigated.
func (s *Selection) Tree() *capacity.Tree { return s.tree }

// Current returns the focused node.
func (s *Selection) Current() *capacity.Node { return s.current }

// Root returns the root of the tree.
func (s *Selection) Root() *capacity.Node { return s.tree.Root }

// AtRoot reports whether the root is focused.
func (s *Selection) AtRoot() bool { return s.current == s.tree.Root }

// Select focuses target. It is a [NoOp] when target is already current, is a
// placeholder (empty label), is nil, or was built into another tree.
func (s *Selection) Select(target *capacity.Node) Outcome {
	if !s.selectable(target) {
		return NoOp
	}
	s.current = target
	return Changed
}

func (s *Selection) selectable(target *capacity.Node) bool {
	return target != nil &&
		s.tree.Contains(target) &&
		target != s.current &&
		!target.IsEmpty()
}

// Reset focuses the root. Unlike Select it accepts a root without a label.
func (s *Selection) Reset() Outcome {
	if s.AtRoot() {
		return NoOp
	}
	s.current = s.tree.Root
	return Changed
}

// Up focuses the parent of the current node. Placeholder ancestors are
// skipped; at the root it is a NoOp.
func (s *Selection) Up() Outcome {
	for p := s.current.Parent(); p != nil; p = p.Parent() {
		if p == s.tree.Root {
			return s.Reset()
		}
		if !p.IsEmpty() {
			return s.Select(p)
		}
	}
	return NoOp
}

// BreadcrumbChain returns the nodes from the root to the current node, root
// first. It is recomputed on every call.
func (s *Selection) BreadcrumbChain() []*capacity.Node {
	return s.current.Ancestors()
}

// FillRatio returns the fill ratio of node, guarded to 0 at zero capacity.
func (s *Selection) FillRatio(node *capacity.Node) float64 {
	return node.FillRatio()
}
