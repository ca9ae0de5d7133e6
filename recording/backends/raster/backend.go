// Package raster provides the CPU backend for the recording system.
// It executes command buffers by compositing textured stamp instances into
// the bound render target with golang.org/x/image/draw.
//
// The raster backend serves multiple purposes:
//   - Reference implementation for other backends
//   - Pixel-accurate testing of stroke and batching logic
//   - Headless rendering when no GPU is available
//
// # Compositing
//
// Every instance is drawn with the Porter-Duff "over" operator on the
// target's alpha channel: result = src + dst*(1-src). The result is never
// smaller than dst, so painting can only reveal more of the mask. The only
// way to lower a texel is ClearRenderTarget.
//
// # Supported Meshes
//
// Instances must use a textured axis-aligned rectangle (see
// recording.Mesh.IsTexturedRect), which is what the stamp pipeline draws.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/scratch/recording/backends/raster"
//
//	// Create via registry
//	backend, _ := recording.NewBackend("raster")
//
//	// Or create directly
//	backend := raster.NewBackend()
//
//	err := cb.Execute(backend)
package raster

import (
	"errors"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/scratch/recording"
)

func init() {
	recording.Register("raster", func() recording.Backend {
		return NewBackend()
	})
}

// Errors returned by Backend methods.
var (
	ErrNoTarget        = errors.New("raster: no render target bound")
	ErrUnsupportedMesh = errors.New("raster: mesh is not a textured rectangle")
)

// whiteTexture is drawn when no texture parameter is bound.
var whiteTexture = recording.WhiteTexture()

// Backend executes command buffers on the CPU.
// It implements recording.Backend and recording.StatsBackend.
type Backend struct {
	// Interpolator samples the brush texture. Defaults to draw.BiLinear.
	Interpolator draw.Transformer

	target  recording.RenderTarget
	proj    recording.Matrix
	texture image.Image
	alpha   float64

	// source is texture alpha scaled by the brush alpha, rebuilt when either changes.
	source      *image.Alpha
	sourceDirty bool

	drawCalls int
	instances int
}

// Ensure Backend implements all required interfaces.
var (
	_ recording.Backend      = (*Backend)(nil)
	_ recording.StatsBackend = (*Backend)(nil)
)

// NewBackend creates a new raster backend.
func NewBackend() *Backend {
	return &Backend{
		Interpolator: draw.BiLinear,
		proj:         recording.Identity(),
		alpha:        1,
		sourceDirty:  true,
	}
}

// Begin resets per-execution state. Draw counters are kept.
func (b *Backend) Begin() error {
	b.target = nil
	b.proj = recording.Identity()
	b.texture = nil
	b.alpha = 1
	b.sourceDirty = true
	return nil
}

// End finishes the execution. Commands are executed as they arrive, so
// there is nothing to flush.
func (b *Backend) End() error {
	return nil
}

// SetRenderTarget binds the target for all following commands.
func (b *Backend) SetRenderTarget(t recording.RenderTarget) error {
	if t == nil || t.Pixels() == nil {
		return ErrNoTarget
	}
	b.target = t
	return nil
}

// ClearRenderTarget sets every texel of the bound target to zero.
func (b *Backend) ClearRenderTarget() error {
	if b.target == nil {
		return ErrNoTarget
	}
	clear(b.target.Pixels().Pix)
	return nil
}

// SetViewProjection sets the world-to-device matrix.
func (b *Backend) SetViewProjection(m recording.Matrix) {
	b.proj = m
}

// SetTexture binds the brush texture. Unknown parameters are ignored.
func (b *Backend) SetTexture(id recording.PropertyID, img image.Image) {
	if id != recording.PropMainTex {
		return
	}
	if img != b.texture {
		b.texture = img
		b.sourceDirty = true
	}
}

// SetFloat sets the brush alpha. Unknown parameters are ignored.
func (b *Backend) SetFloat(id recording.PropertyID, v float64) {
	if id != recording.PropBrushAlpha {
		return
	}
	v = math.Max(0, math.Min(1, v))
	if v != b.alpha {
		b.alpha = v
		b.sourceDirty = true
	}
}

// DrawMeshInstanced composites one textured copy of mesh per instance.
func (b *Backend) DrawMeshInstanced(mesh *recording.Mesh, instances []recording.Matrix) error {
	if b.target == nil {
		return ErrNoTarget
	}
	if !mesh.IsTexturedRect() {
		return ErrUnsupportedMesh
	}
	b.drawCalls++
	b.instances += len(instances)

	src := b.stampSource()
	if b.alpha == 0 {
		return nil
	}

	dst := b.target.Pixels()
	sr := src.Bounds()
	texToMesh := textureToMesh(mesh, sr)
	for _, inst := range instances {
		s2d := b.proj.Multiply(inst).Multiply(texToMesh)
		b.Interpolator.Transform(dst, s2d.Aff3(), src, sr, draw.Over, nil)
	}
	return nil
}

// DrawCalls returns the number of DrawMeshInstanced calls executed.
func (b *Backend) DrawCalls() int {
	return b.drawCalls
}

// Instances returns the number of instances drawn.
func (b *Backend) Instances() int {
	return b.instances
}

// ResetCounters zeroes the draw counters.
func (b *Backend) ResetCounters() {
	b.drawCalls = 0
	b.instances = 0
}

// stampSource returns the brush texture's alpha channel multiplied by
// the brush alpha.
func (b *Backend) stampSource() *image.Alpha {
	if !b.sourceDirty && b.source != nil {
		return b.source
	}

	tex := b.texture
	if tex == nil || tex.Bounds().Empty() {
		tex = whiteTexture
	}
	r := tex.Bounds()
	if b.source == nil || b.source.Rect != r {
		b.source = image.NewAlpha(r)
	}
	// #nosec G115 -- alpha is clamped to [0, 1]
	m := image.NewUniform(color.Alpha{A: uint8(math.Round(b.alpha * 0xff))})
	draw.DrawMask(b.source, r, tex, r.Min, m, image.Point{}, draw.Src)
	b.sourceDirty = false
	return b.source
}

// textureToMesh maps texture pixel coordinates of sr onto the mesh
// rectangle. Texture rows run top-down while UV v runs bottom-up.
func textureToMesh(mesh *recording.Mesh, sr image.Rectangle) recording.Matrix {
	minP, maxP := mesh.Bounds()
	mw, mh := maxP.X-minP.X, maxP.Y-minP.Y
	sx := mw / float64(sr.Dx())
	sy := mh / float64(sr.Dy())
	return recording.Translate(minP.X, minP.Y+mh).
		Multiply(recording.Scale(sx, -sy)).
		Multiply(recording.Translate(-float64(sr.Min.X), -float64(sr.Min.Y)))
}
