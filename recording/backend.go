package recording

import "image"

// RenderTarget is a single-channel surface a Backend can draw into.
// Pixels returns a view whose Pix slice aliases the target's storage,
// with row 0 at the top of the target.
type RenderTarget interface {
	Width() int
	Height() int
	Pixels() *image.Alpha
}

// Backend is the interface that all command buffer executors implement.
// Backends receive the typed commands of a CommandBuffer in order and
// translate them to pixels (CPU raster) or to device work.
//
// Backends are created via the registry using NewBackend(name) and
// registered via Register() in their init() functions.
//
// # Implementation Contract
//
// Each backend must:
//  1. Register in init() using recording.Register()
//  2. Never decrease a texel of the bound target except in ClearRenderTarget
//  3. Treat a missing texture parameter as an opaque white texture
//  4. Draw instances in the order given
type Backend interface {
	// Begin starts executing one command buffer.
	Begin() error

	// End finishes the command buffer. Drawing is complete when End returns.
	End() error

	// SetRenderTarget binds the target for all following commands.
	SetRenderTarget(t RenderTarget) error

	// ClearRenderTarget sets every texel of the bound target to zero.
	ClearRenderTarget() error

	// SetViewProjection sets the world-to-device matrix.
	SetViewProjection(m Matrix)

	// SetTexture binds a texture to a parameter.
	SetTexture(id PropertyID, img image.Image)

	// SetFloat sets a scalar parameter.
	SetFloat(id PropertyID, v float64)

	// DrawMeshInstanced draws one copy of mesh per instance matrix.
	DrawMeshInstanced(mesh *Mesh, instances []Matrix) error
}

// StatsBackend is implemented by backends that count submitted work.
// It is used by tests and debug logging.
type StatsBackend interface {
	Backend

	// DrawCalls returns the number of DrawMeshInstanced calls executed.
	DrawCalls() int

	// Instances returns the number of instances drawn.
	Instances() int
}
