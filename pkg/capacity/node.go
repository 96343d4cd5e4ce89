package capacity

import (
	"math"
	"time"
)

// Item types reported by the item API that can be flagged for removal.
const (
	ItemTypeStorage   = "Storage"
	ItemTypeContainer = "Container"
)

// Node is one position in a capacity tree: a container, a sub-container or
// an item slot.
//
// Exported fields are read-only after [Build] returns. Depth and
// AggregateSize are derived; everything else is taken from the input.
type Node struct {
	Label    string  // Display name; "" marks a placeholder slot
	Capacity int     // Maximum units this node can hold
	OwnSize  int     // Units occupied directly (leaves only, 0 for containers)
	Children []*Node // Ordered as in the input

	ItemID       int64      // Catalog item id; 0 for purely structural nodes
	Colour       string     // Fill override (pass-through)
	BorderColour string     // Stroke override (pass-through)
	RFID         string     // Tag id (pass-through)
	DisplayList  []string   // Highlighted notes (pass-through)
	Remove       bool       // Pending removal marker (pass-through)
	Patient      string     // Patient reference (pass-through)
	ExpiryDate   *time.Time // Expiry (pass-through)

	Depth         int // Distance from the root (root = 0)
	AggregateSize int // Sum of leaf OwnSize in this subtree

	parent *Node
	tree   *Tree
	index  int // position among the parent's children
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// IsEmpty reports whether the node is a placeholder slot (empty label).
// This is unrelated to occupancy.
func (n *Node) IsEmpty() bool { return n.Label == "" }

// IsItem reports whether the node references a catalog item.
func (n *Node) IsItem() bool { return n.ItemID != 0 }

// HasContents reports whether at least one child carries a label.
// Leaves never have contents.
func (n *Node) HasContents() bool {
	for _, c := range n.Children {
		if !c.IsEmpty() {
			return true
		}
	}
	return false
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Tree returns the tree this node was built into.
func (n *Node) Tree() *Tree { return n.tree }

// Ancestors returns the chain from the root down to n, root first and n
// last. The slice is freshly allocated on every call and has Depth+1
// elements.
func (n *Node) Ancestors() []*Node {
	chain := make([]*Node, n.Depth+1)
	for cur := n; cur != nil; cur = cur.parent {
		chain[cur.Depth] = cur
	}
	return chain
}

// Labels returns the labels of the ancestors below the root, ending with n.
// The root itself is not included, so the root yields an empty slice.
func (n *Node) Labels() []string {
	chain := n.Ancestors()
	labels := make([]string, 0, len(chain)-1)
	for _, a := range chain[1:] {
		labels = append(labels, a.Label)
	}
	return labels
}

// IndexPath returns the child indices leading from the root to n. Unlike
// [Node.Labels] it is unambiguous for placeholders and duplicate labels.
func (n *Node) IndexPath() []int {
	path := make([]int, n.Depth)
	for cur := n; cur.parent != nil; cur = cur.parent {
		path[cur.Depth-1] = cur.index
	}
	return path
}

// IsAncestorOf reports whether n lies on the path from the root to other.
// A node is its own ancestor.
func (n *Node) IsAncestorOf(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FillRatio returns AggregateSize / Capacity, or 0 when Capacity is 0.
func (n *Node) FillRatio() float64 {
	return Ratio(n.AggregateSize, n.Capacity)
}

// Percent returns the fill ratio as a rounded whole percentage.
func (n *Node) Percent() int {
	return Percent(n.AggregateSize, n.Capacity)
}

// Ratio divides size by capacity with the zero-capacity guard applied.
func Ratio(size, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(size) / float64(capacity)
}

// Percent rounds Ratio(size, capacity)*100 half away from zero.
func Percent(size, capacity int) int {
	return int(math.Round(Ratio(size, capacity) * 100))
}
