package scratch

import (
	"errors"
	"testing"
)

func TestInputAdapter_Drag(t *testing.T) {
	a := NewInputAdapter(100, 100, 2)

	if err := a.Handle(Event{Kind: PointerDown, Pos: Pt(10, 10)}); err != nil {
		t.Fatalf("down: %v", err)
	}
	if _, dirty := a.Pending(); dirty {
		t.Error("pointer down alone should not mark the stroke dirty")
	}

	// Within the threshold: ignored.
	_ = a.Handle(Event{Kind: PointerMove, Pos: Pt(11, 11)})
	if _, dirty := a.Pending(); dirty {
		t.Error("move within threshold marked the stroke dirty")
	}

	// Beyond the threshold.
	_ = a.Handle(Event{Kind: PointerMove, Pos: Pt(20, 10)})
	s, dirty := a.Pending()
	if !dirty {
		t.Fatal("move beyond threshold should mark the stroke dirty")
	}
	if s.Begin != Pt(10, 10) || s.End != Pt(20, 10) {
		t.Errorf("stroke = %+v, want (10,10)->(20,10)", s)
	}

	a.Commit()
	if _, dirty := a.Pending(); dirty {
		t.Error("Commit did not clear dirty")
	}

	// The next segment starts where the last one ended.
	_ = a.Handle(Event{Kind: PointerMove, Pos: Pt(30, 10)})
	s, _ = a.Pending()
	if s.Begin != Pt(20, 10) || s.End != Pt(30, 10) {
		t.Errorf("stroke after commit = %+v, want (20,10)->(30,10)", s)
	}
}

func TestInputAdapter_ThresholdIsFromLastSample(t *testing.T) {
	a := NewInputAdapter(100, 100, 2)
	_ = a.Handle(Event{Kind: PointerDown, Pos: Pt(10, 10)})

	// Three small steps: each within 2 of the last sampled point, which
	// stays at the down position, until the total exceeds 2.
	_ = a.Handle(Event{Kind: PointerMove, Pos: Pt(11, 10)})
	_ = a.Handle(Event{Kind: PointerMove, Pos: Pt(12, 10)})
	if _, dirty := a.Pending(); dirty {
		t.Error("displacement of exactly the threshold should not be dirty")
	}
	_ = a.Handle(Event{Kind: PointerMove, Pos: Pt(12.5, 10)})
	if s, dirty := a.Pending(); !dirty || s.End != Pt(12.5, 10) {
		t.Errorf("Pending() = %+v, %v; want dirty ending at (12.5, 10)", s, dirty)
	}
}

func TestInputAdapter_Click(t *testing.T) {
	a := NewInputAdapter(100, 100, 2)
	_ = a.Handle(Event{Kind: PointerDown, Pos: Pt(40, 40)})
	_ = a.Handle(Event{Kind: PointerUp, Pos: Pt(40, 40)})

	s, dirty := a.Pending()
	if !dirty {
		t.Fatal("pointer up should always mark the stroke dirty")
	}
	if s.Length() != 0 {
		t.Errorf("click stroke length = %v, want 0", s.Length())
	}
}

func TestInputAdapter_UpAlwaysDirty(t *testing.T) {
	a := NewInputAdapter(100, 100, 50)
	_ = a.Handle(Event{Kind: PointerDown, Pos: Pt(10, 10)})
	_ = a.Handle(Event{Kind: PointerUp, Pos: Pt(12, 10)})

	s, dirty := a.Pending()
	if !dirty || s.End != Pt(12, 10) {
		t.Errorf("Pending() = %+v, %v; want dirty ending at (12, 10)", s, dirty)
	}
}

func TestInputAdapter_IgnoresUnpressedPointer(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
	}{
		{"move without down", []Event{
			{Kind: PointerMove, Pos: Pt(50, 50)},
		}},
		{"up without down", []Event{
			{Kind: PointerUp, Pos: Pt(50, 50)},
		}},
		{"move after up", []Event{
			{Kind: PointerDown, Pos: Pt(20, 20)},
			{Kind: PointerUp, Pos: Pt(20, 20)},
			{Kind: PointerMove, Pos: Pt(80, 80)},
		}},
		{"second up", []Event{
			{Kind: PointerDown, Pos: Pt(20, 20)},
			{Kind: PointerUp, Pos: Pt(20, 20)},
			{Kind: PointerUp, Pos: Pt(90, 10)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewInputAdapter(100, 100, 2)
			last := len(tt.events) - 1
			for _, e := range tt.events[:last] {
				if err := a.Handle(e); err != nil {
					t.Fatalf("Handle(%v) failed: %v", e, err)
				}
			}
			a.Commit()
			before, _ := a.Pending()

			if err := a.Handle(tt.events[last]); err != nil {
				t.Fatalf("Handle(%v) = %v, want nil", tt.events[last], err)
			}
			after, dirty := a.Pending()
			if dirty {
				t.Errorf("Pending() = %+v, dirty; want clean", after)
			}
			if after != before {
				t.Errorf("stroke = %+v, want unchanged %+v", after, before)
			}
			if a.Pressed() {
				t.Error("Pressed() = true, want false")
			}
		})
	}
}

func TestInputAdapter_Pressed(t *testing.T) {
	a := NewInputAdapter(100, 100, 0)
	if a.Pressed() {
		t.Error("new adapter Pressed() = true, want false")
	}
	_ = a.Handle(Event{Kind: PointerDown, Pos: Pt(1, 1)})
	if !a.Pressed() {
		t.Error("Pressed() after down = false, want true")
	}
	_ = a.Handle(Event{Kind: PointerMove, Pos: Pt(9, 1)})
	if !a.Pressed() {
		t.Error("Pressed() after move = false, want true")
	}
	_ = a.Handle(Event{Kind: PointerUp, Pos: Pt(9, 1)})
	if a.Pressed() {
		t.Error("Pressed() after up = true, want false")
	}
}

func TestInputAdapter_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		p    Point
	}{
		{"negative x", Pt(-1, 5)},
		{"negative y", Pt(5, -0.5)},
		{"x at width", Pt(100, 5)},
		{"y at height", Pt(5, 80)},
		{"x beyond, y inside", Pt(150, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewInputAdapter(100, 80, 0)
			_ = a.Handle(Event{Kind: PointerDown, Pos: Pt(1, 1)})
			before, _ := a.Pending()

			err := a.Handle(Event{Kind: PointerUp, Pos: tt.p})
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("Handle(%v) = %v, want ErrOutOfRange", tt.p, err)
			}
			var re *RangeError
			if !errors.As(err, &re) || re.Width != 100 || re.Height != 80 {
				t.Errorf("error = %#v, want *RangeError for 100x80", err)
			}
			after, dirty := a.Pending()
			if dirty || after != before {
				t.Errorf("rejected event changed state: %+v dirty=%v", after, dirty)
			}
		})
	}
}

func TestInputAdapter_Discard(t *testing.T) {
	a := NewInputAdapter(100, 100, 0)
	_ = a.Handle(Event{Kind: PointerDown, Pos: Pt(1, 1)})
	_ = a.Handle(Event{Kind: PointerMove, Pos: Pt(50, 50)})
	a.Discard()

	if _, dirty := a.Pending(); dirty {
		t.Error("Discard did not clear dirty")
	}
	_ = a.Handle(Event{Kind: PointerMove, Pos: Pt(60, 50)})
	if s, _ := a.Pending(); s.Begin != Pt(50, 50) {
		t.Errorf("segment after Discard begins at %v, want (50, 50)", s.Begin)
	}
}

func TestEventKind_String(t *testing.T) {
	if PointerMove.String() != "PointerMove" {
		t.Errorf("PointerMove.String() = %q", PointerMove.String())
	}
	if EventKind(9).String() != "EventKind(9)" {
		t.Errorf("EventKind(9).String() = %q", EventKind(9).String())
	}
}
