package recording

import "github.com/gogpu/scratch/internal/registry"

// BackendFactory creates a new backend instance.
type BackendFactory func() Backend

var backends = registry.New[Backend]("recording", "backend")

// Register makes a backend available to NewBackend. Backend packages call
// it from init(), so importing the package is enough:
//
//	import _ "github.com/gogpu/scratch/recording/backends/raster"
//
// Register panics if factory is nil or name is already registered.
func Register(name string, factory BackendFactory) {
	backends.Register(name, factory)
}

// Unregister removes a backend. Used by tests.
func Unregister(name string) { backends.Unregister(name) }

// NewBackend creates the backend registered under name.
func NewBackend(name string) (Backend, error) { return backends.New(name) }

// Backends returns the registered backend names, sorted.
func Backends() []string { return backends.Names() }

// IsRegistered reports whether name is registered.
func IsRegistered(name string) bool { return backends.Has(name) }
