package stats

import (
	"image"
	"math"
	"testing"
)

func TestDispatchSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		gx, gy       int
		scanW, scanH int
	}{
		{"exact", 64, 32, 8, 4, 64, 32},
		{"floored", 200, 203, 25, 25, 200, 200},
		{"remainder", 15, 17, 1, 2, 8, 16},
		{"smaller than group", 7, 100, 0, 12, 0, 96},
		{"zero", 0, 0, 0, 0, 0, 0},
		{"negative", -8, 8, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gx, gy, sw, sh := DispatchSize(tt.w, tt.h, GroupSize)
			if gx != tt.gx || gy != tt.gy || sw != tt.scanW || sh != tt.scanH {
				t.Errorf("DispatchSize(%d, %d) = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					tt.w, tt.h, gx, gy, sw, sh, tt.gx, tt.gy, tt.scanW, tt.scanH)
			}
		})
	}
}

func TestScanRect_BottomLeft(t *testing.T) {
	img := image.NewAlpha(image.Rect(0, 0, 13, 21))
	got := ScanRect(img)
	want := image.Rect(0, 5, 8, 21)
	if got != want {
		t.Errorf("ScanRect = %v, want %v", got, want)
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		v    uint8
		n    int
		want int
	}{
		{0, 128, 0},
		{1, 128, 0},
		{2, 128, 1},
		{128, 128, 64},
		{255, 128, 127},
		{255, 255, 254},
		{255, 1, 0},
		{100, 3, 1},
	}
	for _, tt := range tests {
		if got := Bucket(tt.v, tt.n); got != tt.want {
			t.Errorf("Bucket(%d, %d) = %d, want %d", tt.v, tt.n, got, tt.want)
		}
	}
}

func TestHistogramSummary(t *testing.T) {
	t.Run("empty mask", func(t *testing.T) {
		h := Histogram{Bins: make([]uint32, 128), Width: 8, Height: 8}
		h.Bins[0] = 64
		s := h.Summary()
		if s.FillPercent != 0 || s.AvgVal != 0 {
			t.Errorf("Summary = %+v, want zero fill and average", s)
		}
		if s.Scanned != 64 {
			t.Errorf("Scanned = %d, want 64", s.Scanned)
		}
	})

	t.Run("full top bucket", func(t *testing.T) {
		h := Histogram{Bins: make([]uint32, 128), Width: 8, Height: 8}
		h.Bins[127] = 64
		s := h.Summary()
		if s.FillPercent != 1 {
			t.Errorf("FillPercent = %v, want 1", s.FillPercent)
		}
		if math.Abs(s.AvgVal-255) > 1e-9 {
			t.Errorf("AvgVal = %v, want 255", s.AvgVal)
		}
	})

	t.Run("half revealed", func(t *testing.T) {
		h := Histogram{Bins: make([]uint32, 16), Width: 8, Height: 8}
		h.Bins[0] = 32
		h.Bins[15] = 32
		s := h.Summary()
		if s.FillPercent != 0.5 {
			t.Errorf("FillPercent = %v, want 0.5", s.FillPercent)
		}
		if math.Abs(s.AvgVal-127.5) > 1e-9 {
			t.Errorf("AvgVal = %v, want 127.5", s.AvgVal)
		}
	})

	t.Run("single bucket", func(t *testing.T) {
		h := Histogram{Bins: []uint32{64}, Width: 8, Height: 8}
		s := h.Summary()
		if s.FillPercent != 0 || s.AvgVal != 0 {
			t.Errorf("Summary = %+v, want zero", s)
		}
	})

	t.Run("no scan", func(t *testing.T) {
		if s := (Histogram{Bins: make([]uint32, 4)}).Summary(); s != (Summary{}) {
			t.Errorf("Summary = %+v, want zero value", s)
		}
	})
}

func TestMomentsSummary(t *testing.T) {
	m := Moments{NonZero: 16, Sum: 16 * 200, Scanned: 64}
	s := m.Summary()
	if s.FillPercent != 0.25 {
		t.Errorf("FillPercent = %v, want 0.25", s.FillPercent)
	}
	if s.AvgVal != 50 {
		t.Errorf("AvgVal = %v, want 50", s.AvgVal)
	}
	if (Moments{}).Summary() != (Summary{}) {
		t.Error("zero Moments should give zero Summary")
	}
}
