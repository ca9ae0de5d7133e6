package scratch

import (
	"fmt"
	"image"
	"sync/atomic"

	"golang.org/x/image/draw"
)

// MaskState is the lifecycle state of a MaskBuffer.
type MaskState uint8

const (
	MaskAllocated MaskState = iota // Allocated and never painted
	MaskPainted                    // One or more strokes composited
	MaskCleared                    // Reset to all zero
	MaskDestroyed                  // Released
)

var maskStateNames = [...]string{
	MaskAllocated: "Allocated",
	MaskPainted:   "Painted",
	MaskCleared:   "Cleared",
	MaskDestroyed: "Destroyed",
}

func (s MaskState) String() string {
	if int(s) < len(maskStateNames) {
		return maskStateNames[s]
	}
	return "Unknown"
}

// MaskBuffer is the persistent single-channel reveal mask.
// Values range from 0 (covered) to 255 (fully revealed).
//
// Row 0 of the pixel data is the top of the mask; mask coordinates have
// their origin at the bottom-left. MaskBuffer implements
// recording.RenderTarget.
type MaskBuffer struct {
	img   *image.Alpha
	state atomic.Uint32
}

// NewMaskBuffer allocates a cleared mask of the given size.
// Non-positive dimensions return a *ResourceError.
func NewMaskBuffer(width, height int) (*MaskBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, &ResourceError{
			Op:  "allocate mask",
			Err: fmt.Errorf("invalid size %dx%d", width, height),
		}
	}
	return &MaskBuffer{img: image.NewAlpha(image.Rect(0, 0, width, height))}, nil
}

// Width returns the mask width in texels.
func (m *MaskBuffer) Width() int { return m.img.Rect.Dx() }

// Height returns the mask height in texels.
func (m *MaskBuffer) Height() int { return m.img.Rect.Dy() }

// Bounds returns the mask rectangle.
func (m *MaskBuffer) Bounds() image.Rectangle { return m.img.Rect }

// Pixels returns the image view sharing the mask's storage, or nil once
// the mask is destroyed.
func (m *MaskBuffer) Pixels() *image.Alpha {
	if m.State() == MaskDestroyed {
		return nil
	}
	return m.img
}

// State returns the lifecycle state.
func (m *MaskBuffer) State() MaskState {
	return MaskState(m.state.Load())
}

// At returns the value at mask coordinates (x, y), origin bottom-left.
// Coordinates outside the mask return 0.
func (m *MaskBuffer) At(x, y int) uint8 {
	if m.State() == MaskDestroyed || x < 0 || y < 0 || x >= m.Width() || y >= m.Height() {
		return 0
	}
	return m.img.Pix[(m.Height()-1-y)*m.img.Stride+x]
}

// Clear sets every texel to zero. Clearing twice leaves the same state as
// clearing once.
func (m *MaskBuffer) Clear() error {
	if m.State() == MaskDestroyed {
		return ErrDestroyed
	}
	clear(m.img.Pix)
	m.state.Store(uint32(MaskCleared))
	return nil
}

// MarkPainted records that strokes were composited into the mask.
func (m *MaskBuffer) MarkPainted() error {
	if m.State() == MaskDestroyed {
		return ErrDestroyed
	}
	m.state.Store(uint32(MaskPainted))
	return nil
}

// markCleared records a clear executed through a command buffer.
func (m *MaskBuffer) markCleared() {
	if m.State() != MaskDestroyed {
		m.state.Store(uint32(MaskCleared))
	}
}

// Destroy releases the pixel storage. Further calls are no-ops.
func (m *MaskBuffer) Destroy() {
	if m.state.Swap(uint32(MaskDestroyed)) == uint32(MaskDestroyed) {
		return
	}
	m.img.Pix = nil
}

// ScaleInto downsamples the mask into dst, which is typically the smaller
// statistics buffer.
func (m *MaskBuffer) ScaleInto(dst *MaskBuffer) error {
	if m.State() == MaskDestroyed || dst.State() == MaskDestroyed {
		return ErrDestroyed
	}
	draw.ApproxBiLinear.Scale(dst.img, dst.img.Rect, m.img, m.img.Rect, draw.Src, nil)
	return nil
}

// Coverage returns the fraction of texels with a nonzero value.
func (m *MaskBuffer) Coverage() float64 {
	if m.State() == MaskDestroyed || len(m.img.Pix) == 0 {
		return 0
	}
	n := 0
	for _, v := range m.img.Pix {
		if v != 0 {
			n++
		}
	}
	return float64(n) / float64(len(m.img.Pix))
}
