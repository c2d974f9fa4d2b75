package dispatch

import (
	"fmt"
	"slices"
	"sync"
)

// Handle identifies a registration. The zero Handle is never issued.
type Handle uint64

// Registry is the ordered collection of registered modules.
//
// Modules live in an arena keyed by handle; a separate slice records
// registration order. The registry never owns module memory, it only decides
// linkage order. The zero value is an empty, ready-to-use registry.
type Registry struct {
	mu     sync.RWMutex
	arena  map[Handle]*Module
	byName map[string]Handle
	order  []Handle
	next   Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends m at the tail and returns the handle needed to remove it.
func (r *Registry) Register(m *Module) (Handle, error) {
	if m == nil {
		return 0, ErrNilModule
	}
	if m.name == "" {
		return 0, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byName[m.name]; dup {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateModule, m.name)
	}
	if r.arena == nil {
		r.arena = make(map[Handle]*Module)
		r.byName = make(map[string]Handle)
	}

	r.next++
	h := r.next
	r.arena[h] = m
	r.byName[m.name] = h
	r.order = append(r.order, h)
	return h, nil
}

// Deregister removes the module registered under h and returns it.
// Unknown or already removed handles are ignored.
func (r *Registry) Deregister(h Handle) (*Module, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.arena[h]
	if !ok {
		return nil, false
	}
	delete(r.arena, h)
	delete(r.byName, m.name)

	// Linear scan for the predecessor keeps order intact at either end.
	if i := slices.Index(r.order, h); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return m, true
}

// ForEach visits modules in registration order until visit returns false.
// It walks a snapshot; visit must not register or deregister.
func (r *Registry) ForEach(visit func(*Module) bool) {
	for _, m := range r.Modules() {
		if !visit(m) {
			return
		}
	}
}

// Modules returns the registered modules in registration order.
func (r *Registry) Modules() []*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mods := make([]*Module, 0, len(r.order))
	for _, h := range r.order {
		mods = append(mods, r.arena[h])
	}
	return mods
}

// Lookup returns the module registered under name.
func (r *Registry) Lookup(name string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.arena[h], true
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Head returns the first registered module, or nil when empty.
func (r *Registry) Head() *Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil
	}
	return r.arena[r.order[0]]
}

// Tail returns the last registered module, or nil when empty.
func (r *Registry) Tail() *Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil
	}
	return r.arena[r.order[len(r.order)-1]]
}
