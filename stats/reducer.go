package stats

import (
	"context"
	"image"

	"github.com/gogpu/scratch/internal/registry"
)

// Reducer summarizes a mask.
//
// Init allocates the reducer's resources for the given bucket count and
// must succeed before Reduce. Reduce blocks until the summary is
// available. Close releases all resources; it is safe to call more than
// once. Reducers are not safe for concurrent use.
type Reducer interface {
	Init(bins int) error
	Reduce(ctx context.Context, mask *image.Alpha) (Summary, error)
	Close()
}

// HistogramSource is implemented by reducers that expose the raw buckets
// of the last reduction.
type HistogramSource interface {
	Reducer
	Histogram() Histogram
}

// ReducerFactory creates an uninitialized reducer.
type ReducerFactory func() Reducer

var reducers = registry.New[Reducer]("stats", "reducer")

// Register makes a reducer available by name. It is typically called from
// init() of the package implementing the reducer.
//
// Register panics if factory is nil or the name is already registered.
func Register(name string, factory ReducerFactory) {
	reducers.Register(name, factory)
}

// Unregister removes a reducer from the registry.
// This is primarily useful for testing.
func Unregister(name string) {
	reducers.Unregister(name)
}

// NewReducer creates an uninitialized reducer by name. The current package
// logger is handed to reducers that accept one.
func NewReducer(name string) (Reducer, error) {
	r, err := reducers.New(name)
	if err != nil {
		return nil, err
	}
	if ls, ok := r.(loggerSetter); ok {
		ls.SetLogger(Logger())
	}
	return r, nil
}

// Reducers returns a sorted list of registered reducer names.
func Reducers() []string {
	return reducers.Names()
}

// IsRegistered reports whether a reducer with the given name is registered.
func IsRegistered(name string) bool {
	return reducers.Has(name)
}
