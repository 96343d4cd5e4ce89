// Package info derives the information panel for a node: its occupancy,
// tag and notes, enriched with catalog item details when the node
// references an item.
//
// [Structural] is synchronous and never fails. [Derive] additionally queries
// an [ItemLookup]; a failed lookup is recorded on the summary and the
// structural fields are returned unchanged.
package info

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/kustodian/sunburst/pkg/capacity"
	errs "github.com/kustodian/sunburst/pkg/errors"
)

// ExpiryLayout formats expiry dates, e.g. "4 Mar 2025".
const ExpiryLayout = "2 Jan 2006"

// AlertColour is the colour of display-list notes.
const AlertColour = "#d9534f"

// Item is the catalog record returned by an item lookup.
type Item struct {
	Patient      string     `json:"patient,omitempty"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
	BorderColour string     `json:"borderColour,omitempty"`
	ItemType     string     `json:"itemType,omitempty"`
	Remove       bool       `json:"remove,omitempty"`
}

// ItemLookup fetches catalog items by id.
type ItemLookup interface {
	FetchItem(ctx context.Context, itemID int64) (*Item, error)
}

// LookupFunc adapts a function to [ItemLookup].
type LookupFunc func(ctx context.Context, itemID int64) (*Item, error)

func (f LookupFunc) FetchItem(ctx context.Context, itemID int64) (*Item, error) {
	return f(ctx, itemID)
}

// FlagKind identifies an item-derived flag.
type FlagKind string

const (
	FlagPatient FlagKind = "patient"
	FlagExpiry  FlagKind = "expiry"
	FlagRemoval FlagKind = "removal"
)

// Flag is one optional line surfaced from an item lookup.
type Flag struct {
	Kind   FlagKind `json:"kind"`
	Text   string   `json:"text"`
	Colour string   `json:"colour,omitempty"`
}

// Summary is the derived information panel.
type Summary struct {
	Title         string   `json:"title"`
	OccupancyText string   `json:"occupancyText"`
	RFID          string   `json:"rfid,omitempty"`
	Flags         []Flag   `json:"flags,omitempty"`
	DisplayList   []string `json:"displayList,omitempty"`
	ItemID        int64    `json:"itemId,omitempty"`

	// LookupErr is set when the item lookup failed. The remaining fields
	// are still valid.
	LookupErr error `json:"-"`
}

// Structural derives the summary from the node alone.
func Structural(n *capacity.Node) Summary {
	return Summary{
		Title:         n.Label,
		OccupancyText: OccupancyText(n),
		RFID:          n.RFID,
		DisplayList:   slices.Clone(n.DisplayList),
		ItemID:        n.ItemID,
	}
}

// Derive builds the summary for n. When n references an item and lookup is
// non-nil, the item is fetched once and its flags are added. Lookup errors
// are returned on Summary.LookupErr with code LOOKUP_FAILED.
func Derive(ctx context.Context, n *capacity.Node, lookup ItemLookup) Summary {
	s := Structural(n)
	if !n.IsItem() || lookup == nil {
		return s
	}
	item, err := lookup.FetchItem(ctx, n.ItemID)
	if err != nil {
		s.LookupErr = errs.Wrap(errs.ErrCodeLookupFailed, err, "item %d", n.ItemID)
		return s
	}
	if item == nil {
		s.LookupErr = errs.New(errs.ErrCodeLookupFailed, "item %d: empty response", n.ItemID)
		return s
	}
	s.Flags = ItemFlags(item)
	return s
}

// OccupancyText returns "Contains: <size> of <capacity> - <descriptor>". The
// descriptor is "Empty" when the rounded percentage is 0 (including zero
// capacity) and "<p>% Full" otherwise.
func OccupancyText(n *capacity.Node) string {
	desc := "Empty"
	if p := n.Percent(); p != 0 {
		desc = fmt.Sprintf("%d%% Full", p)
	}
	return fmt.Sprintf("Contains: %d of %d - %s", n.AggregateSize, n.Capacity, desc)
}

// ItemFlags returns the flags surfaced for item, in display order.
//
// The expiry date is only shown alongside a patient reference.
func ItemFlags(item *Item) []Flag {
	var flags []Flag
	if item.Patient != "" {
		flags = append(flags, Flag{Kind: FlagPatient, Text: "Patient: " + item.Patient})
		if item.ExpiryDate != nil {
			flags = append(flags, Flag{
				Kind:   FlagExpiry,
				Text:   "Expiry Date: " + item.ExpiryDate.Format(ExpiryLayout),
				Colour: item.BorderColour,
			})
		}
	}
	if removable(item.ItemType) && item.Remove {
		flags = append(flags, Flag{Kind: FlagRemoval, Text: "Awaiting Removal"})
	}
	return flags
}

func removable(itemType string) bool {
	return itemType == capacity.ItemTypeStorage || itemType == capacity.ItemTypeContainer
}

// Flag returns the flag of the given kind.
func (s Summary) Flag(kind FlagKind) (Flag, bool) {
	for _, f := range s.Flags {
		if f.Kind == kind {
			return f, true
		}
	}
	return Flag{}, false
}

// Lines returns the panel body in display order: item flags, occupancy,
// tag, then notes. The title is not included.
func (s Summary) Lines() []string {
	lines := make([]string, 0, len(s.Flags)+2+len(s.DisplayList))
	for _, f := range s.Flags {
		lines = append(lines, f.Text)
	}
	lines = append(lines, s.OccupancyText)
	if s.RFID != "" {
		lines = append(lines, "RFID: "+s.RFID)
	}
	return append(lines, s.DisplayList...)
}
