package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kustodian/sunburst/pkg/pipeline"
	"github.com/kustodian/sunburst/pkg/view"
)

// entry is one hosted view.
type entry struct {
	id       uuid.UUID
	source   pipeline.Source
	view     *view.View
	lastUsed time.Time
}

// registry holds the live views. Views idle for longer than ttl are closed
// by sweep.
type registry struct {
	mu    sync.Mutex
	views map[uuid.UUID]*entry
	ttl   time.Duration
	now   func() time.Time
}

func newRegistry(ttl time.Duration) *registry {
	return &registry{
		views: make(map[uuid.UUID]*entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (r *registry) add(src pipeline.Source, v *view.View) *entry {
	e := &entry{id: uuid.New(), source: src, view: v}
	r.mu.Lock()
	e.lastUsed = r.now()
	r.views[e.id] = e
	r.mu.Unlock()
	return e
}

// get returns the view and marks it used.
func (r *registry) get(id uuid.UUID) (*entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.views[id]
	if ok {
		e.lastUsed = r.now()
	}
	return e, ok
}

func (r *registry) remove(id uuid.UUID) bool {
	r.mu.Lock()
	e, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if ok {
		e.view.Close()
	}
	return ok
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// sweep closes views idle for longer than the ttl and returns how many it
// closed. A zero ttl keeps views forever.
func (r *registry) sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	cutoff := r.now().Add(-r.ttl)
	var expired []*entry
	for id, e := range r.views {
		if e.lastUsed.Before(cutoff) {
			expired = append(expired, e)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, e := range expired {
		e.view.Close()
	}
	return len(expired)
}

func (r *registry) closeAll() {
	r.mu.Lock()
	all := r.views
	r.views = make(map[uuid.UUID]*entry)
	r.mu.Unlock()
	for _, e := range all {
		e.view.Close()
	}
}
