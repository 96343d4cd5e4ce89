package info

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/kustodian/sunburst/pkg/capacity"
	errs "github.com/kustodian/sunburst/pkg/errors"
)

func build(t *testing.T, doc string) *capacity.Tree {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tree, err := capacity.Build(raw)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

type stubLookup struct {
	item  *Item
	err   error
	calls int
	ids   []int64
}

func (s *stubLookup) FetchItem(_ context.Context, id int64) (*Item, error) {
	s.calls++
	s.ids = append(s.ids, id)
	return s.item, s.err
}

func TestOccupancyText(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{`{"text": "x", "capacity": 10, "size": 5}`, "Contains: 5 of 10 - 50% Full"},
		{`{"text": "x", "capacity": 0, "size": 3}`, "Contains: 3 of 0 - Empty"},
		{`{"text": "x", "capacity": 10, "size": 0}`, "Contains: 0 of 10 - Empty"},
		{`{"text": "x", "capacity": 1000, "size": 4}`, "Contains: 4 of 1000 - Empty"},
		{`{"text": "x", "capacity": 1000, "size": 6}`, "Contains: 6 of 1000 - 1% Full"},
		{`{"text": "x", "capacity": 3, "size": 3}`, "Contains: 3 of 3 - 100% Full"},
	}
	for _, tt := range tests {
		tree := build(t, tt.doc)
		if got := OccupancyText(tree.Root); got != tt.want {
			t.Errorf("OccupancyText(%s) = %q, want %q", tt.doc, got, tt.want)
		}
	}
}

func TestStructural(t *testing.T) {
	tree := build(t, `{"text": "Box", "capacity": 4, "size": 1, "rfid": "E2003",
	  "displayList": ["Check seal", "Quarantine"]}`)
	s := Structural(tree.Root)

	if s.Title != "Box" || s.RFID != "E2003" {
		t.Errorf("Structural() = %+v", s)
	}
	if !slices.Equal(s.DisplayList, []string{"Check seal", "Quarantine"}) {
		t.Errorf("DisplayList = %v", s.DisplayList)
	}
	s.DisplayList[0] = "changed"
	if tree.Root.DisplayList[0] != "Check seal" {
		t.Error("summary must not alias the node's display list")
	}
}

func TestDerive_NoItemSkipsLookup(t *testing.T) {
	tree := build(t, `{"text": "Rack", "capacity": 4}`)
	lookup := &stubLookup{}
	s := Derive(context.Background(), tree.Root, lookup)

	if lookup.calls != 0 {
		t.Errorf("lookup called %d times, want 0", lookup.calls)
	}
	if s.LookupErr != nil || s.Flags != nil {
		t.Errorf("Derive() = %+v, want structural only", s)
	}
}

func TestDerive_Flags(t *testing.T) {
	expiry := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item Item
		want []Flag
	}{
		{
			name: "patient and expiry",
			item: Item{Patient: "P-1", ExpiryDate: &expiry, BorderColour: "#ff0000"},
			want: []Flag{
				{Kind: FlagPatient, Text: "Patient: P-1"},
				{Kind: FlagExpiry, Text: "Expiry Date: 4 Mar 2025", Colour: "#ff0000"},
			},
		},
		{
			name: "expiry without patient is hidden",
			item: Item{ExpiryDate: &expiry},
			want: nil,
		},
		{
			name: "storage awaiting removal",
			item: Item{ItemType: capacity.ItemTypeStorage, Remove: true},
			want: []Flag{{Kind: FlagRemoval, Text: "Awaiting Removal"}},
		},
		{
			name: "container awaiting removal",
			item: Item{ItemType: capacity.ItemTypeContainer, Remove: true},
			want: []Flag{{Kind: FlagRemoval, Text: "Awaiting Removal"}},
		},
		{
			name: "sample marked for removal is not flagged",
			item: Item{ItemType: "Sample", Remove: true},
			want: nil,
		},
		{
			name: "storage not marked",
			item: Item{ItemType: capacity.ItemTypeStorage},
			want: nil,
		},
	}

	tree := build(t, `{"text": "Straw", "capacity": 1, "size": 1, "itemId": 7}`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.item
			lookup := &stubLookup{item: &item}
			s := Derive(context.Background(), tree.Root, lookup)

			if lookup.calls != 1 || lookup.ids[0] != 7 {
				t.Errorf("lookup calls = %d ids = %v, want one call for 7", lookup.calls, lookup.ids)
			}
			if s.LookupErr != nil {
				t.Errorf("LookupErr = %v", s.LookupErr)
			}
			if !slices.Equal(s.Flags, tt.want) {
				t.Errorf("Flags = %+v, want %+v", s.Flags, tt.want)
			}
		})
	}
}

func TestDerive_LookupFailureDegrades(t *testing.T) {
	tree := build(t, `{"text": "Straw", "capacity": 2, "size": 1, "itemId": 7,
	  "rfid": "E2", "displayList": ["Leaking"]}`)
	cause := errors.New("connection refused")
	lookup := &stubLookup{err: cause}

	s := Derive(context.Background(), tree.Root, lookup)
	if lookup.calls != 1 {
		t.Errorf("lookup calls = %d, want exactly 1", lookup.calls)
	}
	if !errs.Is(s.LookupErr, errs.ErrCodeLookupFailed) {
		t.Errorf("LookupErr = %v, want LOOKUP_FAILED", s.LookupErr)
	}
	if !errors.Is(s.LookupErr, cause) {
		t.Error("LookupErr should wrap the cause")
	}
	want := Structural(tree.Root)
	if s.OccupancyText != want.OccupancyText || s.RFID != want.RFID || !slices.Equal(s.DisplayList, want.DisplayList) {
		t.Errorf("structural fields changed: %+v", s)
	}
}

func TestDerive_NilItem(t *testing.T) {
	tree := build(t, `{"text": "Straw", "capacity": 1, "itemId": 3}`)
	s := Derive(context.Background(), tree.Root, LookupFunc(func(context.Context, int64) (*Item, error) {
		return nil, nil
	}))
	if !errs.Is(s.LookupErr, errs.ErrCodeLookupFailed) {
		t.Errorf("LookupErr = %v, want LOOKUP_FAILED", s.LookupErr)
	}
}

func TestSummary_Lines(t *testing.T) {
	s := Summary{
		Title:         "Straw",
		OccupancyText: "Contains: 1 of 1 - 100% Full",
		RFID:          "E2",
		Flags:         []Flag{{Kind: FlagPatient, Text: "Patient: P-1"}},
		DisplayList:   []string{"Leaking"},
	}
	want := []string{"Patient: P-1", "Contains: 1 of 1 - 100% Full", "RFID: E2", "Leaking"}
	if got := s.Lines(); !slices.Equal(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}
	if f, ok := s.Flag(FlagPatient); !ok || f.Text != "Patient: P-1" {
		t.Errorf("Flag(patient) = %+v, %v", f, ok)
	}
	if _, ok := s.Flag(FlagRemoval); ok {
		t.Error("Flag(removal) should be absent")
	}
}
