package scratch

import (
	"iter"
	"math"
)

// Stroke is one incremental drag segment since the last committed frame.
type Stroke struct {
	Begin, End Point
}

// Length returns the distance between the stroke endpoints.
func (s Stroke) Length() float64 {
	return s.Begin.Distance(s.End)
}

// Resample expands the segment from begin to end into evenly spaced stamp
// positions. Each position is the bottom-left corner of a brushSize square
// centered on the path, so consecutive positions are step apart and the
// first one is centered on begin.
//
// A segment of length len yields floor(len/step)+1 positions. A zero-length
// segment yields exactly one position, centered on begin.
//
// The returned sequence is lazy and can be ranged over more than once.
// Invalid parameters return a *ConfigError.
func Resample(begin, end Point, step, brushSize float64) (iter.Seq[Point], error) {
	if err := checkResample(begin, end, step, brushSize); err != nil {
		return nil, err
	}

	delta := end.Sub(begin)
	dir := delta.Normalize()
	n := stampCount(delta.Length(), step)
	half := Point{X: brushSize / 2, Y: brushSize / 2}

	return func(yield func(Point) bool) {
		for i := range n {
			// Offsets are computed from the index, not accumulated, so the
			// last stamp lands on end when len is a multiple of step.
			offset := float64(i) * step
			if !yield(begin.Add(dir.Mul(offset)).Sub(half)) {
				return
			}
		}
	}, nil
}

// StampCount returns the number of positions Resample yields for the
// segment, without iterating. Invalid parameters return a *ConfigError.
func StampCount(begin, end Point, step float64) (int, error) {
	if err := checkResample(begin, end, step, 1); err != nil {
		return 0, err
	}
	return stampCount(begin.Distance(end), step), nil
}

func stampCount(length, step float64) int {
	return int(math.Floor(length/step)) + 1
}

func checkResample(begin, end Point, step, brushSize float64) error {
	switch {
	case math.IsNaN(step) || step <= 0 || step > MaxPaintStep:
		return &ConfigError{Field: "PaintStep", Value: step, Reason: "must be in (0, 20]"}
	case math.IsNaN(brushSize) || math.IsInf(brushSize, 0) || brushSize <= 0:
		return &ConfigError{Field: "BrushSize", Value: brushSize, Reason: "must be positive"}
	case !begin.IsFinite() || !end.IsFinite():
		return &ConfigError{Field: "Stroke", Value: Stroke{Begin: begin, End: end}, Reason: "endpoints must be finite"}
	}
	return nil
}
