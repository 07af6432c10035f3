package loader

import "sort"

// Registry indexes resident handles by package name
type Registry struct {
	entries map[string]*Handle
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Handle)}
}

// Get returns the handle for name
func (r *Registry) Get(name string) (*Handle, bool) {
	h, ok := r.entries[name]
	return h, ok
}

// Put registers h under its name
func (r *Registry) Put(h *Handle) {
	r.entries[h.name] = h
}

// Remove drops the entry for name
func (r *Registry) Remove(name string) {
	delete(r.entries, name)
}

// Len returns the number of entries
func (r *Registry) Len() int {
	return len(r.entries)
}

// Names returns the registered package names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
