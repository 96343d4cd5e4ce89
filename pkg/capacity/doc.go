// Package capacity models a hierarchy of storage containers and the items
// they hold.
//
// # Overview
//
// A capacity tree mirrors the physical layout of a store: a dewar holds
// racks, a rack holds boxes, a box holds item slots. Every [Node] has a
// capacity (how many units it can hold); leaves additionally have an own
// size (how many units they occupy). Container occupancy is never taken from
// the input: it is the [Node.AggregateSize], the sum of leaf sizes below it,
// computed once when the tree is built.
//
// # Building
//
// Trees are built from the decoded report document with [Build]:
//
//	var raw map[string]any
//	_ = json.Unmarshal(data, &raw)
//	tree, err := capacity.Build(raw)
//	if err != nil {
//	    // errors.Is(err, errors.ErrCodeMalformedTree)
//	}
//
// Recognised fields are text (or label), capacity, size, children, itemId,
// colour, borderColour, rfid, displayList, remove, patient and expiryDate.
// Capacity is required on every node. Negative or fractional numbers, wrong
// field types, excessive nesting and subtrees reachable twice are rejected
// with a MALFORMED_TREE error naming the offending path.
//
// # Placeholders
//
// A node whose label is empty is a placeholder slot. It keeps its position
// and capacity (so the layout is stable) but it is never selectable and its
// breadcrumb is hidden. Placeholder-ness is purely a label property: a named
// container with zero occupancy is not a placeholder.
//
// # Fill ratio
//
// [Node.FillRatio] divides aggregate size by capacity and is defined as 0
// for zero-capacity nodes. Over-capacity nodes are allowed and yield ratios
// above 1.
//
// # Concurrency
//
// A built [Tree] is immutable and safe for concurrent reads.
package capacity
