package capacity

// Tree is the result of one [Build] call. Nodes from different trees never
// compare equal, which is how callers tell that a node belongs to the tree
// they are navigating.
type Tree struct {
	Root *Node

	nodes    []*Node // pre-order
	maxDepth int
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// MaxDepth returns the depth of the deepest node.
func (t *Tree) MaxDepth() int { return t.maxDepth }

// Nodes returns all nodes in pre-order. The returned slice is a copy.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Leaves returns the leaf nodes in pre-order.
func (t *Tree) Leaves() []*Node {
	var leaves []*Node
	for _, n := range t.nodes {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// Contains reports whether n was built into t.
func (t *Tree) Contains(n *Node) bool {
	return n != nil && n.tree == t
}

// Find follows labels from the root, taking the first child with a matching
// label at each level. An empty path returns the root. Placeholders cannot
// be addressed by label.
func (t *Tree) Find(labels ...string) (*Node, bool) {
	cur := t.Root
	for _, label := range labels {
		if label == "" {
			return nil, false
		}
		var next *Node
		for _, c := range cur.Children {
			if c.Label == label {
				next = c
				break
			}
		}
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// At follows child indices from the root. It is the inverse of
// [Node.IndexPath].
func (t *Tree) At(indices ...int) (*Node, bool) {
	cur := t.Root
	for _, i := range indices {
		if i < 0 || i >= len(cur.Children) {
			return nil, false
		}
		cur = cur.Children[i]
	}
	return cur, true
}
