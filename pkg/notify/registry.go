package notify

import "sync"

// Registry is the authoritative set of live connections. All registration and
// removal goes through it; a connection is always removed before its socket
// is closed.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Connection
}

func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Connection),
	}
}

func (r *Registry) Add(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[c.ID()] = c
}

// Remove deletes the connection with the given id and reports whether it was
// still registered. The second removal of the same id returns false, which
// callers use to make teardown idempotent.
func (r *Registry) Remove(id string) (*Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	return c, ok
}

// Snapshot returns a copy of the current entries for iteration outside the
// registry lock.
func (r *Registry) Snapshot() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]*Connection, 0, len(r.entries))
	for _, c := range r.entries {
		snapshot = append(snapshot, c)
	}
	return snapshot
}

func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
