package stats

import (
	"context"
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/scratch/internal/parallel"
)

func init() {
	Register("cpu", func() Reducer { return NewHistogramReducer() })
	Register("counter", func() Reducer { return NewCounterReducer() })
}

// cpuDispatch runs fn once per 8x8 group of the scan rectangle of mask.
// Each row of groups is one work item on pool; fn receives the group's
// texels as a sub-image.
func cpuDispatch(ctx context.Context, pool *parallel.WorkerPool, mask *image.Alpha, fn func(group *image.Alpha)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mask == nil {
		return ErrEmptyDispatch
	}
	scan := ScanRect(mask)
	if scan.Empty() {
		return ErrEmptyDispatch
	}
	groupsX, groupsY := scan.Dx()/GroupSize, scan.Dy()/GroupSize

	pool.Range(groupsY, func(gy int) {
		if ctx.Err() != nil {
			return
		}
		y0 := scan.Min.Y + gy*GroupSize
		for gx := range groupsX {
			x0 := scan.Min.X + gx*GroupSize
			r := image.Rect(x0, y0, x0+GroupSize, y0+GroupSize)
			fn(mask.SubImage(r).(*image.Alpha))
		}
	})
	return ctx.Err()
}

// forEachTexel calls fn for every texel value of img.
func forEachTexel(img *image.Alpha, fn func(v uint8)) {
	w := img.Rect.Dx()
	for y := range img.Rect.Dy() {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for _, v := range row {
			fn(v)
		}
	}
}

// HistogramReducer is the CPU implementation of the histogram reduction.
// Each group fills a local histogram and adds it to the shared bins with
// atomic adds, the same scheme as the compute shader.
type HistogramReducer struct {
	pool   *parallel.WorkerPool
	bins   []atomic.Uint32
	last   Histogram
	logger *slog.Logger
	closed bool
}

var _ HistogramSource = (*HistogramReducer)(nil)

// NewHistogramReducer creates an uninitialized CPU histogram reducer.
func NewHistogramReducer() *HistogramReducer {
	return &HistogramReducer{logger: Logger()}
}

// SetLogger sets the reducer's logger.
func (r *HistogramReducer) SetLogger(l *slog.Logger) {
	if l != nil {
		r.logger = l
	}
}

// Init allocates bins buckets and the worker pool.
func (r *HistogramReducer) Init(bins int) error {
	if r.closed {
		return ErrClosed
	}
	if bins < 1 || bins > MaxBins {
		return ErrInvalidBins
	}
	r.bins = make([]atomic.Uint32, bins)
	if r.pool == nil {
		r.pool = parallel.NewWorkerPool(0)
	}
	r.logger.Debug("stats: histogram reducer ready", "bins", bins, "workers", r.pool.Workers())
	return nil
}

// Reduce builds the histogram of the scan rectangle of mask.
func (r *HistogramReducer) Reduce(ctx context.Context, mask *image.Alpha) (Summary, error) {
	switch {
	case r.closed:
		return Summary{}, ErrClosed
	case r.bins == nil:
		return Summary{}, ErrNotInitialized
	}

	// Phase 1: clear.
	for i := range r.bins {
		r.bins[i].Store(0)
	}

	// Phase 2: per-group local histograms merged atomically.
	n := len(r.bins)
	err := cpuDispatch(ctx, r.pool, mask, func(group *image.Alpha) {
		var local [MaxBins]uint32
		forEachTexel(group, func(v uint8) {
			local[Bucket(v, n)]++
		})
		for i, c := range local[:n] {
			if c != 0 {
				r.bins[i].Add(c)
			}
		}
	})
	if err != nil {
		return Summary{}, err
	}

	// Phase 3: reduce the buckets.
	scan := ScanRect(mask)
	h := Histogram{Bins: make([]uint32, n), Width: scan.Dx(), Height: scan.Dy()}
	for i := range r.bins {
		h.Bins[i] = r.bins[i].Load()
	}
	r.last = h
	return h.Summary(), nil
}

// Histogram returns the buckets of the last successful reduction.
func (r *HistogramReducer) Histogram() Histogram {
	return r.last
}

// Close stops the worker pool.
func (r *HistogramReducer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if r.pool != nil {
		r.pool.Close()
	}
}

// CounterReducer counts nonzero texels and sums texel values.
type CounterReducer struct {
	pool        *parallel.WorkerPool
	initialized bool
	closed      bool
	last        Moments
	logger      *slog.Logger
}

// NewCounterReducer creates an uninitialized counter-pair reducer.
func NewCounterReducer() *CounterReducer {
	return &CounterReducer{logger: Logger()}
}

// SetLogger sets the reducer's logger.
func (r *CounterReducer) SetLogger(l *slog.Logger) {
	if l != nil {
		r.logger = l
	}
}

// Init validates bins and starts the worker pool. The counter pair has
// no buckets; bins is checked only so that both reducers accept the same
// configuration.
func (r *CounterReducer) Init(bins int) error {
	if r.closed {
		return ErrClosed
	}
	if bins < 1 || bins > MaxBins {
		return ErrInvalidBins
	}
	if r.pool == nil {
		r.pool = parallel.NewWorkerPool(0)
	}
	r.initialized = true
	r.logger.Debug("stats: counter reducer ready", "workers", r.pool.Workers())
	return nil
}

// Reduce computes the counter pair over the scan rectangle of mask.
func (r *CounterReducer) Reduce(ctx context.Context, mask *image.Alpha) (Summary, error) {
	switch {
	case r.closed:
		return Summary{}, ErrClosed
	case !r.initialized:
		return Summary{}, ErrNotInitialized
	}

	var nonZero, sum atomic.Uint64
	err := cpuDispatch(ctx, r.pool, mask, func(group *image.Alpha) {
		var n, s uint64
		forEachTexel(group, func(v uint8) {
			if v != 0 {
				n++
			}
			s += uint64(v)
		})
		nonZero.Add(n)
		sum.Add(s)
	})
	if err != nil {
		return Summary{}, err
	}

	scan := ScanRect(mask)
	r.last = Moments{
		NonZero: nonZero.Load(),
		Sum:     sum.Load(),
		Scanned: uint64(scan.Dx() * scan.Dy()), //nolint:gosec // non-negative
	}
	return r.last.Summary(), nil
}

// Moments returns the counter pair of the last successful reduction.
func (r *CounterReducer) Moments() Moments {
	return r.last
}

// Close stops the worker pool.
func (r *CounterReducer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if r.pool != nil {
		r.pool.Close()
	}
}
