package scratch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"sync"

	"github.com/gogpu/scratch/recording"
	_ "github.com/gogpu/scratch/recording/backends/raster" // register "raster"
	"github.com/gogpu/scratch/stats"
)

// Surface owns one reveal mask and everything that paints and measures it.
//
// Pointer events go in through HandleEvent; Frame paints the pending
// stroke; Stats summarizes the mask. All methods serialize on one mutex,
// so Stats always observes every frame that returned before it.
type Surface struct {
	mu sync.Mutex

	cfg    Config
	logger *slog.Logger

	mask     *MaskBuffer
	statsBuf *MaskBuffer // nil when BufferScale is 1

	adapter  *InputAdapter
	renderer *BatchRenderer
	backend  recording.Backend
	reducer  stats.Reducer
	brush    Brush

	statsErr error // terminal statistics failure
	closed   bool
}

// New creates a Surface for a width x height mask.
//
// An invalid cfg returns a *ConfigError. A failed allocation, an unknown
// backend or reducer, or a reducer that cannot initialize returns a
// *ResourceError. In both cases no Surface is returned. The mask starts
// cleared.
func New(width, height int, cfg Config, opts ...Option) (*Surface, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = Logger()
	}

	s := &Surface{cfg: cfg, logger: logger}
	if err := s.init(width, height, o); err != nil {
		s.release()
		return nil, err
	}
	if err := s.ResetMask(); err != nil {
		s.release()
		return nil, &ResourceError{Op: "reset mask", Err: err}
	}

	logger.Info("scratch: surface ready",
		"width", width, "height", height,
		"stats", cfg.StatsBackend, "bins", cfg.HistogramBins,
		"buffer_scale", cfg.BufferScale)
	return s, nil
}

func (s *Surface) init(width, height int, o options) error {
	var err error
	if s.mask, err = NewMaskBuffer(width, height); err != nil {
		return err
	}

	if s.cfg.BufferScale < 1 {
		sw := max(1, int(math.Round(float64(width)*s.cfg.BufferScale)))
		sh := max(1, int(math.Round(float64(height)*s.cfg.BufferScale)))
		if s.statsBuf, err = NewMaskBuffer(sw, sh); err != nil {
			return err
		}
	}
	scan := s.mask.Bounds()
	if s.statsBuf != nil {
		scan = s.statsBuf.Bounds()
	}
	if _, _, w, h := stats.DispatchSize(scan.Dx(), scan.Dy(), stats.GroupSize); w == 0 || h == 0 {
		return &ResourceError{Op: "allocate statistics buffer", Err: fmt.Errorf("%dx%d: %w", scan.Dx(), scan.Dy(), stats.ErrEmptyDispatch)}
	}

	s.brush = Brush{Texture: o.brush, Size: s.cfg.BrushSize, Alpha: s.cfg.BrushAlpha}
	if s.brush.Texture == nil {
		if s.brush.Texture, err = s.cfg.brushTexture(); err != nil {
			return err
		}
	}

	s.adapter = NewInputAdapter(width, height, s.cfg.MoveThreshold)
	if s.renderer, err = NewBatchRenderer(s.cfg.InstanceBatchCapacity); err != nil {
		return err
	}

	s.backend = o.backend
	if s.backend == nil {
		if s.backend, err = recording.NewBackend("raster"); err != nil {
			return &ResourceError{Op: "create render backend", Err: err}
		}
	}

	s.reducer = o.stats
	if s.reducer == nil {
		if s.reducer, err = stats.NewReducer(s.cfg.StatsBackend); err != nil {
			return &ResourceError{Op: "create statistics reducer", Err: err}
		}
	}
	propagateLogger(s.reducer, s.logger)
	if err := s.reducer.Init(s.cfg.HistogramBins); err != nil {
		return &ResourceError{Op: "initialize statistics reducer " + s.cfg.StatsBackend, Err: err}
	}
	return nil
}

// release frees whatever init allocated.
func (s *Surface) release() {
	if s.reducer != nil {
		s.reducer.Close()
	}
	if s.mask != nil {
		s.mask.Destroy()
	}
	if s.statsBuf != nil {
		s.statsBuf.Destroy()
	}
}

// Width returns the mask width.
func (s *Surface) Width() int { return s.mask.Width() }

// Height returns the mask height.
func (s *Surface) Height() int { return s.mask.Height() }

// Config returns the configuration the Surface was created with.
func (s *Surface) Config() Config { return s.cfg }

// HandleEvent feeds one pointer event to the input adapter. Events
// outside the mask are discarded. It returns ErrClosed after Close.
func (s *Surface) HandleEvent(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.adapter.Handle(e); err != nil {
		if errors.Is(err, ErrOutOfRange) {
			s.logger.Debug("scratch: event discarded", "kind", e.Kind, "err", err)
			return nil
		}
		return err
	}
	return nil
}

// Frame paints the pending stroke, if any, and reports whether anything
// was drawn. After a successful paint the stroke's end becomes the begin
// of the next segment.
func (s *Surface) Frame() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	stroke, ok := s.adapter.Pending()
	if !ok {
		return false, nil
	}
	if err := s.paint(stroke.Begin, stroke.End, false); err != nil {
		return false, err
	}
	s.adapter.Commit()
	return true, nil
}

// PaintSegment paints a stroke from begin to end directly, bypassing the
// input adapter. With clearFirst the mask is cleared in the same
// submission, before the stamps.
func (s *Surface) PaintSegment(begin, end Point, clearFirst bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.paint(begin, end, clearFirst)
}

// paint records and submits one stroke. s.mu must be held.
func (s *Surface) paint(begin, end Point, clearFirst bool) error {
	seq, err := Resample(begin, end, s.cfg.PaintStep, s.cfg.BrushSize)
	if err != nil {
		return err
	}
	batches := s.renderer.Render(seq, s.brush, s.mask, clearFirst)
	if err := s.renderer.Submit(s.backend); err != nil {
		return err
	}
	s.logger.Debug("scratch: stroke painted",
		"begin", begin, "end", end,
		"commands", s.renderer.CommandBuffer().Len(), "batches", batches)
	return nil
}

// ResetMask clears the mask and drops any pending stroke. Resetting twice
// leaves the same state as resetting once.
func (s *Surface) ResetMask() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.renderer.Reset(s.mask)
	if err := s.renderer.Submit(s.backend); err != nil {
		return err
	}
	s.adapter.Discard()
	return nil
}

// Stats summarizes the mask. If BufferScale is below 1 the mask is first
// downsampled into the statistics buffer.
//
// A reducer failure is terminal: it is logged once and returned, wrapped
// in a *ResourceError, from this and every later call. Context errors are
// returned as is and are not terminal.
func (s *Surface) Stats(ctx context.Context) (StatData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return StatData{}, ErrClosed
	}
	if s.statsErr != nil {
		return StatData{}, s.statsErr
	}

	src := s.mask
	if s.statsBuf != nil {
		if err := s.mask.ScaleInto(s.statsBuf); err != nil {
			return StatData{}, err
		}
		src = s.statsBuf
	}

	summary, err := s.reducer.Reduce(ctx, src.Pixels())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return StatData{}, err
		}
		s.statsErr = &ResourceError{Op: "compute statistics", Err: err}
		s.logger.Error("scratch: statistics failed; further requests return the same error",
			"stats", s.cfg.StatsBackend, "err", err)
		return StatData{}, s.statsErr
	}
	return statDataFrom(summary), nil
}

// Snapshot returns a copy of the mask pixels, row 0 at the top.
func (s *Surface) Snapshot() (*image.Alpha, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	src := s.mask.Pixels()
	dst := image.NewAlpha(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst, nil
}

// Coverage returns the fraction of nonzero mask texels, computed over the
// whole mask on the CPU.
func (s *Surface) Coverage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mask.Coverage()
}

// Close releases the reducer and the mask buffers. Further calls are
// no-ops; other methods return ErrClosed.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.release()
	s.logger.Debug("scratch: surface closed")
}
