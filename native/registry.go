package native

import (
	"sync"
	"sync/atomic"
)

// Registry maps Go values to non-zero integer ids that can be stored in
// engine memory or passed as callback user data. Go pointers must not be
// kept by engine code, so callbacks carry the id and look the value up.
type Registry struct {
	mu      sync.RWMutex
	seq     atomic.Uintptr
	objects map[uintptr]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{objects: make(map[uintptr]any)}
}

var objects = NewRegistry()

// Register stores v and returns its id. Ids start at 1; 0 means "none".
func (r *Registry) Register(v any) uintptr {
	id := r.seq.Add(1)
	r.mu.Lock()
	r.objects[id] = v
	r.mu.Unlock()
	return id
}

// Lookup returns the value registered under id, or nil.
func (r *Registry) Lookup(id uintptr) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.objects[id]
}

// Unregister removes id. Unknown ids are ignored.
func (r *Registry) Unregister(id uintptr) {
	r.mu.Lock()
	delete(r.objects, id)
	r.mu.Unlock()
}

// Len returns the number of registered values.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}

// RegisterObject stores v in the process-wide registry.
func RegisterObject(v any) uintptr { return objects.Register(v) }

// LookupObject looks id up in the process-wide registry.
func LookupObject(id uintptr) any { return objects.Lookup(id) }

// UnregisterObject removes id from the process-wide registry.
func UnregisterObject(id uintptr) { objects.Unregister(id) }

// ObjectCount returns the size of the process-wide registry.
func ObjectCount() int { return objects.Len() }
