// Package registry holds named factories for pluggable implementations.
//
// Both the recording backends and the statistics reducers register
// themselves from init() under a name, the way database/sql drivers do,
// and are looked up by the name found in configuration.
package registry

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps names to factories of T. The zero value is not usable;
// call New.
type Registry[T any] struct {
	pkg  string // error prefix, e.g. "stats"
	kind string // what is registered, e.g. "reducer"

	mu        sync.RWMutex
	factories map[string]func() T
}

// New returns an empty registry whose messages read "<pkg>: ... <kind>".
func New[T any](pkg, kind string) *Registry[T] {
	return &Registry[T]{pkg: pkg, kind: kind, factories: make(map[string]func() T)}
}

// Register adds factory under name.
// It panics if factory is nil or name is already taken.
func (r *Registry[T]) Register(name string, factory func() T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if factory == nil {
		panic(r.pkg + ": Register factory is nil")
	}
	if _, dup := r.factories[name]; dup {
		panic(r.pkg + ": Register called twice for " + name)
	}
	r.factories[name] = factory
}

// Unregister removes name. Unknown names are ignored.
func (r *Registry[T]) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.factories, name)
}

// New calls the factory registered under name. The error hints at a
// missing blank import, which is the usual cause.
func (r *Registry[T]) New(name string) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: unknown %s %q (forgotten import?)", r.pkg, r.kind, name)
	}
	return factory(), nil
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}
