package scratch

import (
	"fmt"
	"iter"

	"github.com/gogpu/scratch/recording"
)

// BatchRenderer records stamp placements into a command buffer as bounded
// instanced draws of the unit quad.
//
// Render only records; Submit plays the buffer back to a backend. The
// renderer reuses one matrix batch and one command buffer across frames.
//
// BatchRenderer is not safe for concurrent use.
type BatchRenderer struct {
	cb       *recording.CommandBuffer
	quad     recording.MeshRef
	capacity int
	batch    []recording.Matrix

	// Shader parameter IDs, resolved once.
	mainTex    recording.PropertyID
	brushAlpha recording.PropertyID

	target  *MaskBuffer
	cleared bool
	drawn   int
}

// NewBatchRenderer creates a renderer whose draws carry at most capacity
// instances each.
func NewBatchRenderer(capacity int) (*BatchRenderer, error) {
	if capacity < 1 || capacity > MaxBatchCapacity {
		return nil, &ConfigError{Field: "InstanceBatchCapacity", Value: capacity, Reason: fmt.Sprintf("must be in [1, %d]", MaxBatchCapacity)}
	}
	cb := recording.NewCommandBuffer("scratch")
	return &BatchRenderer{
		cb:         cb,
		quad:       cb.AddMesh(recording.UnitQuad()),
		capacity:   capacity,
		batch:      make([]recording.Matrix, 0, capacity),
		mainTex:    recording.PropertyToID("_MainTex"),
		brushAlpha: recording.PropertyToID("_BrushAlpha"),
	}, nil
}

// Capacity returns the instance limit of one draw call.
func (r *BatchRenderer) Capacity() int { return r.capacity }

// CommandBuffer returns the buffer recorded by the last Render or Reset.
func (r *BatchRenderer) CommandBuffer() *recording.CommandBuffer { return r.cb }

// setupPaintContext starts a new recording targeting target.
func (r *BatchRenderer) setupPaintContext(target *MaskBuffer, clearFirst bool) {
	r.cb.Clear()
	r.target = target
	r.cleared = clearFirst
	r.drawn = 0

	w, h := target.Width(), target.Height()
	r.cb.SetRenderTarget(target)
	if clearFirst {
		r.cb.ClearRenderTarget()
	}
	r.cb.SetViewProjection(recording.Ortho(0, float64(w), 0, float64(h), w, h))
}

// Render records the stamps at the given positions into target. The
// stamps are drawn in order in ceil(K/capacity) instanced draws; the
// returned count is the number of draws recorded.
//
// If clearFirst is set the target is cleared before any stamp is drawn.
func (r *BatchRenderer) Render(stamps iter.Seq[Point], brush Brush, target *MaskBuffer, clearFirst bool) int {
	r.setupPaintContext(target, clearFirst)
	r.cb.SetTexture(r.mainTex, brush.Texture)
	r.cb.SetFloat(r.brushAlpha, brush.Alpha)

	batches := 0
	r.batch = r.batch[:0]
	for p := range stamps {
		r.batch = append(r.batch, brush.Stamp(p).Matrix())
		r.drawn++
		if len(r.batch) == r.capacity {
			r.cb.DrawMeshInstanced(r.quad, r.batch, len(r.batch))
			r.batch = r.batch[:0]
			batches++
		}
	}
	if len(r.batch) > 0 {
		r.cb.DrawMeshInstanced(r.quad, r.batch, len(r.batch))
		r.batch = r.batch[:0]
		batches++
	}
	return batches
}

// Reset records a clear of target with no stamps.
func (r *BatchRenderer) Reset(target *MaskBuffer) {
	r.setupPaintContext(target, true)
}

// Submit executes the recorded commands on backend and updates the
// target's lifecycle state.
func (r *BatchRenderer) Submit(backend recording.Backend) error {
	if r.target == nil {
		return nil
	}
	if r.target.State() == MaskDestroyed {
		return ErrDestroyed
	}
	if err := r.cb.Execute(backend); err != nil {
		return fmt.Errorf("scratch: submit: %w", err)
	}
	switch {
	case r.drawn > 0:
		return r.target.MarkPainted()
	case r.cleared:
		r.target.markCleared()
	}
	return nil
}
