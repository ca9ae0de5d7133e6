package scratch

import "fmt"

// EventKind identifies a pointer event.
type EventKind uint8

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "PointerDown"
	case PointerMove:
		return "PointerMove"
	case PointerUp:
		return "PointerUp"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// Event is a pointer event in mask-local coordinates (origin bottom-left).
type Event struct {
	Kind EventKind
	Pos  Point
}

// InputAdapter turns pointer events into dirty stroke segments.
//
// A down event starts a stroke. While the pointer is pressed, move events
// extend it only when the pointer moved more than the threshold since the
// last sampled point, and the up event always extends it with the final
// point. Move and up events without a preceding down are ignored. After the stroke is
// painted, Commit makes its end the next segment's begin, so consecutive
// segments join without gaps.
//
// InputAdapter is not safe for concurrent use; Surface serializes it.
type InputAdapter struct {
	width, height int
	threshold     float64

	begin, end, last Point
	pressed          bool
	dirty            bool
}

// NewInputAdapter creates an adapter for a width x height mask.
func NewInputAdapter(width, height int, moveThreshold float64) *InputAdapter {
	return &InputAdapter{width: width, height: height, threshold: moveThreshold}
}

// Contains reports whether p lies inside the mask rectangle.
func (a *InputAdapter) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(a.width) && p.Y < float64(a.height)
}

// Handle applies one event. Points outside the mask return a *RangeError
// wrapping ErrOutOfRange and leave the adapter unchanged.
func (a *InputAdapter) Handle(e Event) error {
	if !a.Contains(e.Pos) {
		return &RangeError{Pos: e.Pos, Width: a.width, Height: a.height}
	}
	switch e.Kind {
	case PointerDown:
		a.begin, a.end, a.last = e.Pos, e.Pos, e.Pos
		a.pressed = true
	case PointerMove:
		if a.pressed && e.Pos.Distance(a.last) > a.threshold {
			a.end, a.last = e.Pos, e.Pos
			a.dirty = true
		}
	case PointerUp:
		if !a.pressed {
			return nil
		}
		a.end, a.last = e.Pos, e.Pos
		a.pressed = false
		a.dirty = true
	default:
		return fmt.Errorf("scratch: unknown event kind %v", e.Kind)
	}
	return nil
}

// Pressed reports whether a stroke is in progress.
func (a *InputAdapter) Pressed() bool {
	return a.pressed
}

// Pending returns the dirty stroke, if any.
func (a *InputAdapter) Pending() (Stroke, bool) {
	return Stroke{Begin: a.begin, End: a.end}, a.dirty
}

// Commit marks the pending stroke as painted and starts the next segment
// at its end.
func (a *InputAdapter) Commit() {
	a.begin = a.end
	a.dirty = false
}

// Discard drops the pending stroke without painting it. A drag in
// progress continues from the last sampled point.
func (a *InputAdapter) Discard() {
	a.Commit()
}
