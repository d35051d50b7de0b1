package contact

import (
	"context"
	"sync"
	"time"

	applog "mlsweb/internal/log"
)

// Registry owns one Controller per visitor. A visitor's controller lives from
// the first contact page view until the visitor navigates elsewhere or goes idle.
type Registry struct {
	newController func() *Controller
	now           func() time.Time

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	controller *Controller
	lastSeen   time.Time
}

// NewRegistry builds a Registry whose controllers deliver through submitter.
func NewRegistry(submitter Submitter, resetDelay time.Duration) *Registry {
	return &Registry{
		newController: func() *Controller {
			return NewController(submitter, resetDelay)
		},
		now:     time.Now,
		entries: make(map[string]*registryEntry),
	}
}

// Acquire returns the visitor's controller, creating an empty one on first use.
func (r *Registry) Acquire(key string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok {
		entry = &registryEntry{controller: r.newController()}
		r.entries[key] = entry
	}
	entry.lastSeen = r.now()
	return entry.controller
}

// Lookup returns the visitor's controller without creating one.
func (r *Registry) Lookup(key string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	entry.lastSeen = r.now()
	return entry.controller, true
}

// Release closes and forgets the visitor's controller, discarding the draft
// and cancelling any pending reset.
func (r *Registry) Release(key string) bool {
	r.mu.Lock()
	entry, ok := r.entries[key]
	delete(r.entries, key)
	r.mu.Unlock()

	if ok {
		entry.controller.Close()
	}
	return ok
}

// Prune releases every controller not touched within ttl, except those with a
// submission in flight. It returns the number released.
func (r *Registry) Prune(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	var stale []*Controller
	for key, entry := range r.entries {
		if entry.lastSeen.After(cutoff) || entry.controller.Status() == Submitting {
			continue
		}
		stale = append(stale, entry.controller)
		delete(r.entries, key)
	}
	r.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	return len(stale)
}

// Len reports how many visitors currently hold a controller.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run prunes idle controllers every interval until ctx is cancelled, then
// closes all remaining controllers.
func (r *Registry) Run(ctx context.Context, interval, ttl time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			if n := r.Prune(ttl); n > 0 {
				applog.Debug(ctx, "pruned idle contact forms", "count", n)
			}
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, entry := range entries {
		entry.controller.Close()
	}
}
