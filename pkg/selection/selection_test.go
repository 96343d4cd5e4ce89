package selection

import (
	"encoding/json"
	"testing"

	"github.com/kustodian/sunburst/pkg/capacity"
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

const dewar = `{
  "text": "Dewar", "capacity": 10,
  "children": [
    {"text": "A", "capacity": 5, "size": 3, "children": [
      {"text": "", "capacity": 1, "children": [
        {"text": "deep", "capacity": 1, "size": 1}
      ]}
    ]},
    {"text": "B", "capacity": 5, "size": 2},
    {"text": "", "capacity": 0}
  ]
}`

func TestNew_StartsAtRoot(t *testing.T) {
	tree := build(t, dewar)
	s := New(tree)
	if !s.AtRoot() || s.Current() != tree.Root || s.Root() != tree.Root {
		t.Error("new selection should be at the root")
	}
	if s.Tree() != tree {
		t.Error("Tree() should return the navigated tree")
	}
}

func TestSelect(t *testing.T) {
	tree := build(t, dewar)
	a, _ := tree.At(0)
	b, _ := tree.At(1)
	placeholder, _ := tree.At(2)
	other := build(t, dewar)
	foreignA, _ := other.At(0)

	tests := []struct {
		name   string
		target *capacity.Node
		want   Outcome
		cur    *capacity.Node
	}{
		{"select A", a, Changed, a},
		{"reselect A", a, NoOp, a},
		{"select placeholder", placeholder, NoOp, a},
		{"select nil", nil, NoOp, a},
		{"select node of another tree", foreignA, NoOp, a},
		{"select B", b, Changed, b},
		{"select root", tree.Root, Changed, tree.Root},
	}

	s := New(tree)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Select(tt.target); got != tt.want {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
			if s.Current() != tt.cur {
				t.Errorf("Current() = %q, want %q", s.Current().Label, tt.cur.Label)
			}
		})
	}
}

func TestSelectRejected(t *testing.T) {
	tree := build(t, dewar)
	a, _ := tree.At(0)
	placeholder, _ := tree.At(2)
	other := build(t, dewar)

	tests := []struct {
		name   string
		target *capacity.Node
	}{
		{"same", a},
		{"placeholder", placeholder},
		{"foreign", other.Root},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tree)
			s.Select(a)
			if got := s.Select(tt.target); got != NoOp {
				t.Errorf("Select() = %v, want noop", got)
			}
			if s.Current() != a {
				t.Errorf("Current() = %q, want A", s.Current().Label)
			}
		})
	}
}

func TestReset(t *testing.T) {
	tree := build(t, dewar)
	s := New(tree)
	if got := s.Reset(); got != NoOp {
		t.Errorf("Reset at root = %v, want NoOp", got)
	}
	b, _ := tree.At(1)
	s.Select(b)
	if got := s.Reset(); got != Changed || !s.AtRoot() {
		t.Errorf("Reset = %v, AtRoot = %v; want Changed, true", got, s.AtRoot())
	}
}

func TestReset_UnlabelledRoot(t *testing.T) {
	tree := build(t, `{"text": "", "capacity": 2, "children": [{"text": "x", "capacity": 1}]}`)
	s := New(tree)
	x, _ := tree.At(0)
	s.Select(x)
	if s.Select(tree.Root) != NoOp {
		t.Error("Select of an unlabelled root should be rejected")
	}
	if s.Reset() != Changed || !s.AtRoot() {
		t.Error("Reset should reach an unlabelled root")
	}
}

func TestUp_SkipsPlaceholders(t *testing.T) {
	tree := build(t, dewar)
	deep, _ := tree.At(0, 0, 0)
	a, _ := tree.At(0)

	s := New(tree)
	if s.Up() != NoOp {
		t.Error("Up at root should be a NoOp")
	}
	s.Select(deep)
	if got := s.Up(); got != Changed || s.Current() != a {
		t.Errorf("Up = %v, Current = %q; want Changed, A", got, s.Current().Label)
	}
	if got := s.Up(); got != Changed || !s.AtRoot() {
		t.Errorf("Up = %v, AtRoot = %v; want Changed, true", got, s.AtRoot())
	}
}

func TestBreadcrumbChain(t *testing.T) {
	tree := build(t, dewar)
	s := New(tree)

	for _, n := range tree.Nodes() {
		if n.IsEmpty() && n != tree.Root {
			continue
		}
		s.Select(n)
		chain := s.BreadcrumbChain()
		if len(chain) != s.Current().Depth+1 {
			t.Errorf("%q: len(chain) = %d, want %d", n.Label, len(chain), s.Current().Depth+1)
		}
		if chain[0] != tree.Root {
			t.Errorf("%q: chain[0] is not the root", n.Label)
		}
		if chain[len(chain)-1] != s.Current() {
			t.Errorf("%q: chain does not end at the current node", n.Label)
		}
	}
}

func TestBreadcrumbChain_Fresh(t *testing.T) {
	tree := build(t, dewar)
	s := New(tree)
	a, _ := tree.At(0)
	s.Select(a)

	first := s.BreadcrumbChain()
	s.Select(a)
	second := s.BreadcrumbChain()
	if len(first) != len(second) || first[1] != second[1] {
		t.Error("reselecting should leave the chain unchanged")
	}
	first[0] = nil
	if s.BreadcrumbChain()[0] != tree.Root {
		t.Error("chain must be recomputed on every call")
	}
}

func TestFillRatio(t *testing.T) {
	tree := build(t, dewar)
	s := New(tree)
	zero, _ := tree.At(2)

	if got := s.FillRatio(tree.Root); got != 0.3 {
		t.Errorf("FillRatio(root) = %v, want 0.3", got)
	}
	if got := s.FillRatio(zero); got != 0 {
		t.Errorf("FillRatio(capacity 0) = %v, want 0", got)
	}
}
