// Package breadcrumb derives the breadcrumb trail for a selection: one crumb
// per node from the root down to the focused node, plus the fill summary
// shown at the end of the trail.
package breadcrumb

import (
	"fmt"

	"github.com/kustodian/sunburst/pkg/capacity"
	"github.com/kustodian/sunburst/pkg/selection"
)

// Palette holds the colours used to resolve crumb and arc colours.
type Palette struct {
	Contents string // depth-1 nodes with at least one labelled child
	Text     string // depth-1 nodes without contents, and label text
	Clear    string // every other depth
	Border   string // outlines
	Alert    string // highlighted notes
}

// DefaultPalette is the palette used by [Derive].
var DefaultPalette = Palette{
	Contents: "#1e824c",
	Text:     "#ffffff",
	Clear:    "transparent",
	Border:   "#2c3e50",
	Alert:    "#d9534f",
}

// Crumb is the display-relevant projection of one node in the chain.
type Crumb struct {
	Label       string `json:"label"`
	Colour      string `json:"colour"`
	HasContents bool   `json:"hasContents"`
	Hidden      bool   `json:"hidden"` // placeholder: keeps its slot but is not drawn
	Depth       int    `json:"depth"`
}

// Trail is the derived breadcrumb state.
type Trail struct {
	Chain       []Crumb `json:"chain"`
	SummaryText string  `json:"summaryText"`
}

// Derive computes the trail for the current node of sel using DefaultPalette.
func Derive(sel *selection.Selection) Trail {
	return DeriveWith(sel, DefaultPalette)
}

// DeriveWith computes the trail with a custom palette.
func DeriveWith(sel *selection.Selection, p Palette) Trail {
	chain := sel.BreadcrumbChain()
	crumbs := make([]Crumb, len(chain))
	for i, n := range chain {
		crumbs[i] = Crumb{
			Label:       n.Label,
			Colour:      p.Colour(n),
			HasContents: n.HasContents(),
			Hidden:      n.IsEmpty(),
			Depth:       n.Depth,
		}
	}
	return Trail{
		Chain:       crumbs,
		SummaryText: SummaryText(sel.Current()),
	}
}

// SummaryText returns "<p>% Full" for n, where p is the rounded fill
// percentage. Zero capacity yields "0% Full".
func SummaryText(n *capacity.Node) string {
	return fmt.Sprintf("%d%% Full", n.Percent())
}

// Colour resolves the fill colour of n. An explicit colour on the node wins;
// otherwise depth-1 nodes are coloured by whether they have contents and all
// other nodes are clear.
func (p Palette) Colour(n *capacity.Node) string {
	switch {
	case n.Colour != "":
		return n.Colour
	case n.Depth == 1 && n.HasContents():
		return p.Contents
	case n.Depth == 1:
		return p.Text
	default:
		return p.Clear
	}
}

// Visible returns the crumbs that are drawn, in order.
func (t Trail) Visible() []Crumb {
	out := make([]Crumb, 0, len(t.Chain))
	for _, c := range t.Chain {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// Labels returns the labels of the whole chain, placeholders included.
func (t Trail) Labels() []string {
	labels := make([]string, len(t.Chain))
	for i, c := range t.Chain {
		labels[i] = c.Label
	}
	return labels
}
