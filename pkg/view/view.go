// Package view hosts one interactive navigation session over a capacity
// tree.
//
// A [View] owns a [selection.Selection] and is the only place where it is
// mutated. Rendering collaborators report clicks through
// [View.HandleNodeActivated] and receive derived state through
// [View.OnSelectionChanged].
//
// # Updates
//
// Every accepted transition publishes a structural [Update] synchronously:
// the breadcrumb trail and the info summary derived from the node alone.
// When the new node references a catalog item and a lookup is configured,
// the lookup runs in the background and a second Update with the same Seq
// follows once it completes. If the selection has moved on by then, the
// result is dropped without being published.
//
// Observers are called one at a time, in publication order, and must not
// call back into the View synchronously.
package view

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kustodian/sunburst/pkg/breadcrumb"
	"github.com/kustodian/sunburst/pkg/capacity"
	"github.com/kustodian/sunburst/pkg/info"
	"github.com/kustodian/sunburst/pkg/observability"
	"github.com/kustodian/sunburst/pkg/selection"
)

// Update is the state pushed to observers.
type Update struct {
	Trail   breadcrumb.Trail `json:"trail"`
	Summary info.Summary     `json:"summary"`
	Path    []int            `json:"path"` // child indices from the root
	Seq     uint64           `json:"seq"`

	// Pending is set while an item lookup for this selection is in flight.
	Pending bool `json:"pending"`
	// Enriched is set once the item lookup succeeded.
	Enriched bool `json:"enriched"`
	// LookupError carries the lookup failure message, if any.
	LookupError string `json:"lookupError,omitempty"`
}

// Option configures a View.
type Option func(*View)

// WithLookup sets the item lookup used to enrich summaries.
func WithLookup(l info.ItemLookup) Option {
	return func(v *View) { v.lookup = l }
}

// WithLogger sets the logger for lookup failures and discarded results.
func WithLogger(l *log.Logger) Option {
	return func(v *View) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithPalette overrides the breadcrumb palette.
func WithPalette(p breadcrumb.Palette) Option {
	return func(v *View) { v.palette = p }
}

// WithLookupTimeout bounds each item lookup. Zero means no bound.
func WithLookupTimeout(d time.Duration) Option {
	return func(v *View) { v.lookupTimeout = d }
}

// WithContext sets the parent context of background lookups.
func WithContext(ctx context.Context) Option {
	return func(v *View) { v.parent = ctx }
}

// View serializes navigation over one tree and fans out updates.
type View struct {
	tree          *capacity.Tree
	lookup        info.ItemLookup
	logger        *log.Logger
	palette       breadcrumb.Palette
	lookupTimeout time.Duration
	parent        context.Context

	mu        sync.Mutex // guards everything below
	sel       *selection.Selection
	seq       uint64
	last      Update
	observers map[int]func(Update)
	nextObs   int
	closed    bool
	ctx       context.Context
	cancel    context.CancelFunc
	inflight  context.CancelFunc
	lookups   int        // enrichment goroutines not yet finished
	idle      *sync.Cond // signalled on mu when lookups drops to 0

	pubMu sync.Mutex // held while observers run
}

// New creates a view positioned at the root of tree.
func New(tree *capacity.Tree, opts ...Option) *View {
	v := &View{
		tree:      tree,
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		palette:   breadcrumb.DefaultPalette,
		parent:    context.Background(),
		sel:       selection.New(tree),
		observers: make(map[int]func(Update)),
	}
	v.idle = sync.NewCond(&v.mu)
	for _, opt := range opts {
		opt(v)
	}
	v.ctx, v.cancel = context.WithCancel(v.parent)

	v.mu.Lock()
	v.last = v.refresh()
	v.mu.Unlock()
	return v
}

// Tree returns the navigated tree.
func (v *View) Tree() *capacity.Tree { return v.tree }

// Current returns the focused node.
func (v *View) Current() *capacity.Node {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel.Current()
}

// Snapshot returns the most recently published update.
func (v *View) Snapshot() Update {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

// OnSelectionChanged registers fn to receive updates. The returned function
// unregisters it.
func (v *View) OnSelectionChanged(fn func(Update)) (cancel func()) {
	v.mu.Lock()
	id := v.nextObs
	v.nextObs++
	v.observers[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.observers, id)
			v.mu.Unlock()
		})
	}
}

// HandleNodeActivated is the entry point for user interaction. It selects
// node and reports whether the selection changed. Re-activating the focused
// node, a placeholder, or a node of another tree changes nothing and
// publishes nothing.
func (v *View) HandleNodeActivated(node *capacity.Node) bool {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return false
	}
	changed := v.sel.Select(node) == selection.Changed
	depth := -1
	if node != nil {
		depth = node.Depth
	}
	observability.Navigation().OnActivate(v.ctx, depth, changed)
	if !changed {
		v.mu.Unlock()
		return false
	}
	v.publishLocked(v.refresh())
	return true
}

// Reset returns to the root.
func (v *View) Reset() bool {
	return v.transition(v.sel.Reset)
}

// Up moves to the nearest labelled ancestor.
func (v *View) Up() bool {
	return v.transition(v.sel.Up)
}

func (v *View) transition(fn func() selection.Outcome) bool {
	v.mu.Lock()
	if v.closed || fn() == selection.NoOp {
		v.mu.Unlock()
		return false
	}
	v.publishLocked(v.refresh())
	return true
}

// Wait blocks until no background lookup is running and the last enriched
// update has been delivered. It may be called while other goroutines keep
// navigating; lookups they start before Wait returns are waited for too.
func (v *View) Wait() {
	v.mu.Lock()
	v.waitIdleLocked()
	v.mu.Unlock()
}

// Close cancels in-flight lookups and waits for them to return. Further
// activations are ignored.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.cancel()
	v.waitIdleLocked()
	v.mu.Unlock()
}

func (v *View) waitIdleLocked() {
	for v.lookups > 0 {
		v.idle.Wait()
	}
}

func (v *View) lookupDone() {
	v.mu.Lock()
	v.lookups--
	if v.lookups == 0 {
		v.idle.Broadcast()
	}
	v.mu.Unlock()
}

// refresh derives the structural update for the current node and starts the
// item lookup if one applies. Caller holds mu.
func (v *View) refresh() Update {
	v.seq++
	if v.inflight != nil {
		v.inflight()
		v.inflight = nil
	}
	node := v.sel.Current()
	u := Update{
		Trail:   breadcrumb.DeriveWith(v.sel, v.palette),
		Summary: info.Structural(node),
		Path:    node.IndexPath(),
		Seq:     v.seq,
	}
	if node.IsItem() && v.lookup != nil && !v.closed {
		u.Pending = true
		ctx, cancel := v.lookupContext()
		v.inflight = cancel
		v.lookups++
		go v.enrich(ctx, cancel, node, u)
	}
	return u
}

func (v *View) lookupContext() (context.Context, context.CancelFunc) {
	if v.lookupTimeout > 0 {
		return context.WithTimeout(v.ctx, v.lookupTimeout)
	}
	return context.WithCancel(v.ctx)
}

func (v *View) enrich(ctx context.Context, cancel context.CancelFunc, node *capacity.Node, u Update) {
	defer v.lookupDone()
	defer cancel()

	start := time.Now()
	s := info.Derive(ctx, node, v.lookup)
	elapsed := time.Since(start)

	v.mu.Lock()
	if v.closed || v.seq != u.Seq || v.sel.Current() != node {
		v.mu.Unlock()
		observability.Navigation().OnLookup(ctx, node.ItemID, elapsed, true, s.LookupErr)
		v.logger.Debug("discarded stale item lookup", "item", node.ItemID, "seq", u.Seq)
		return
	}
	observability.Navigation().OnLookup(ctx, node.ItemID, elapsed, false, s.LookupErr)
	v.inflight = nil

	u.Summary = s
	u.Pending = false
	if s.LookupErr != nil {
		v.logger.Warn("item lookup failed", "item", node.ItemID, "err", s.LookupErr)
		u.LookupError = s.LookupErr.Error()
	} else {
		u.Enriched = true
		v.logger.Debug("item lookup", "item", node.ItemID, "flags", len(s.Flags), "duration", elapsed)
	}
	v.publishLocked(u)
}

// publishLocked records u and delivers it to observers. It is called with mu
// held and releases it once delivery order is secured.
func (v *View) publishLocked(u Update) {
	v.last = u
	fns := make([]func(Update), 0, len(v.observers))
	for i := 0; i < v.nextObs; i++ {
		if fn, ok := v.observers[i]; ok {
			fns = append(fns, fn)
		}
	}
	v.pubMu.Lock()
	v.mu.Unlock()
	defer v.pubMu.Unlock()
	for _, fn := range fns {
		fn(u)
	}
}
