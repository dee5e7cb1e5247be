package render

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotRegistered reports a lookup for a renderer name nothing was
// registered under. Callers branch with errors.Is.
var ErrNotRegistered = errors.New("not registered")

// Registry stores renderers by name so alternate output flavors plug in
// without touching the generator. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Renderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]Renderer{}}
}

// Register adds a renderer under its Name(). A nil renderer, an empty name
// or a duplicate name is an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.entries[name]; dup {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.entries[name] = renderer
	return nil
}

// MustRegister panics on registration failure. Init-time wiring only.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get returns the renderer registered under name, or an error wrapping
// ErrNotRegistered.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("render: renderer %q: %w", name, ErrNotRegistered)
	}
	return renderer, nil
}

// Has reports whether a renderer is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[name]
	return ok
}

// List returns the registered renderer names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
