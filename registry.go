package oil

import (
	"sort"
	"sync"
)

// Registry is the process-wide store of composable modules. It is
// append-only for its lifetime: modules are inserted once, never replaced
// or removed. An RWMutex serializes registration so readers never observe
// a partially inserted module when the registry is shared across
// goroutines.
//
// The registry is an explicitly owned value, not a package singleton; a
// Composer owns one by default and components that need lookups receive
// it as a parameter.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*ComposableModule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]*ComposableModule, 16),
	}
}

// Register inserts module unless one with the same name already exists.
// The first registration wins; later calls are no-ops. It returns the
// stored module and whether this call inserted it.
func (r *Registry) Register(module *ComposableModule) (*ComposableModule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.modules[module.name]; ok {
		return existing, false
	}
	r.modules[module.name] = module
	return module, true
}

// Contains reports whether a module is registered under name.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.modules[name]
	return ok
}

// Get returns the module registered under name.
func (r *Registry) Get(name string) (*ComposableModule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

// Names returns the sorted names of all registered modules.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.modules)
}
