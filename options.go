package scratch

import (
	"image"
	"log/slog"

	"github.com/gogpu/scratch/recording"
	"github.com/gogpu/scratch/stats"
)

// Option configures a Surface during creation.
//
// Example:
//
//	// Defaults: raster backend, reducer named by cfg.StatsBackend
//	s, err := scratch.New(800, 600, cfg)
//
//	// Injected collaborators
//	s, err := scratch.New(800, 600, cfg,
//	    scratch.WithReducer(myReducer),
//	    scratch.WithLogger(logger))
type Option func(*options)

type options struct {
	backend recording.Backend
	stats   stats.Reducer
	brush   image.Image
	logger  *slog.Logger
}

// WithReducer uses r for statistics instead of creating the reducer named
// by Config.StatsBackend. The Surface takes ownership: Close closes r.
func WithReducer(r stats.Reducer) Option {
	return func(o *options) {
		o.stats = r
	}
}

// WithBackend executes command buffers on b instead of the registered
// "raster" backend.
func WithBackend(b recording.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithBrushTexture uses img as the brush, overriding Config.BrushTexture.
func WithBrushTexture(img image.Image) Option {
	return func(o *options) {
		o.brush = img
	}
}

// WithLogger sets the Surface's logger. The default is Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
