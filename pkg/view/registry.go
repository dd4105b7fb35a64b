package view

import (
	"sort"
	"sync"
)

// Registry holds the renderers compiled into the program, by name.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: map[string]Renderer{}}
}

// Register adds or replaces a renderer. A nil renderer removes the name.
func (r *Registry) Register(name string, renderer Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if renderer == nil {
		delete(r.renderers, name)
		return
	}
	r.renderers[name] = renderer
}

// Unregister removes name.
func (r *Registry) Unregister(name string) {
	r.Register(name, nil)
}

// Lookup returns the renderer registered as name.
func (r *Registry) Lookup(name string) (Renderer, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[name]
	return renderer, ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
