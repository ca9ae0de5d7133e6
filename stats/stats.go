package stats

import (
	"errors"
	"image"
)

// GroupSize is the edge length of one square thread group.
const GroupSize = 8

// MaxBins is the largest supported histogram bucket count.
const MaxBins = 255

// Errors returned by reducers.
var (
	// ErrInvalidBins is returned by Init for a bucket count outside [1, MaxBins].
	ErrInvalidBins = errors.New("stats: bins must be in [1, 255]")

	// ErrNotInitialized is returned by Reduce before a successful Init.
	ErrNotInitialized = errors.New("stats: reducer not initialized")

	// ErrEmptyDispatch is returned when the mask is smaller than one group.
	ErrEmptyDispatch = errors.New("stats: mask smaller than one thread group")

	// ErrClosed is returned by Reduce after Close.
	ErrClosed = errors.New("stats: reducer closed")
)

// Summary is the derived view of a reduction.
type Summary struct {
	// FillPercent is the fraction of scanned texels that are nonzero, in [0, 1].
	FillPercent float64

	// AvgVal is the mean texel value, in [0, 255].
	AvgVal float64

	// Scanned is the number of texels in the dispatch rectangle.
	Scanned int
}

// DispatchSize returns the group counts and the scanned rectangle size for
// a width x height mask. The scanned size is floored to whole groups.
func DispatchSize(width, height, group int) (groupsX, groupsY, scanW, scanH int) {
	if group <= 0 || width <= 0 || height <= 0 {
		return 0, 0, 0, 0
	}
	groupsX, groupsY = width/group, height/group
	return groupsX, groupsY, groupsX * group, groupsY * group
}

// ScanRect returns the rectangle of img that a dispatch covers: the
// floored width and height anchored at the bottom-left corner. Image row 0
// is the top of the mask, so the scanned rows are the last scanH rows.
func ScanRect(img *image.Alpha) image.Rectangle {
	b := img.Bounds()
	_, _, w, h := DispatchSize(b.Dx(), b.Dy(), GroupSize)
	return image.Rect(b.Min.X, b.Max.Y-h, b.Min.X+w, b.Max.Y)
}

// Bucket quantizes a texel value into one of n buckets.
func Bucket(v uint8, n int) int {
	return min(int(v)*n/256, n-1)
}

// Histogram counts scanned texels per quantized value bucket.
type Histogram struct {
	Bins []uint32

	// Width and Height are the scanned (dispatch) rectangle.
	Width, Height int
}

// Total returns the scanned texel count.
func (h Histogram) Total() int {
	return h.Width * h.Height
}

// Summary derives the fill fraction and average value.
//
// Bucket i stands for value i*256/N, so the top bucket never reaches 255;
// the average is rescaled so that an all-top-bucket mask reports 255.
// With a single bucket every texel falls in bucket 0 and the histogram
// carries no information: fill and average are both zero.
func (h Histogram) Summary() Summary {
	total := h.Total()
	n := len(h.Bins)
	if total == 0 || n == 0 {
		return Summary{}
	}
	s := Summary{
		FillPercent: 1 - float64(h.Bins[0])/float64(total),
		Scanned:     total,
	}
	if n == 1 {
		s.FillPercent = 0
		return s
	}
	binScale := 256 / float64(n)
	var sum float64
	for i, c := range h.Bins {
		sum += float64(c) * float64(i) * binScale
	}
	s.AvgVal = sum / float64(total) * 255 / (float64(n-1) * binScale)
	return s
}

// Moments is the counter-pair summary of a reduction.
type Moments struct {
	NonZero uint64
	Sum     uint64
	Scanned uint64
}

// Summary derives the fill fraction and average value.
func (m Moments) Summary() Summary {
	if m.Scanned == 0 {
		return Summary{}
	}
	return Summary{
		FillPercent: float64(m.NonZero) / float64(m.Scanned),
		AvgVal:      float64(m.Sum) / float64(m.Scanned),
		Scanned:     int(m.Scanned), //nolint:gosec // bounded by mask size
	}
}
