// Package recording provides a deferred command buffer for stamp drawing.
//
// Instead of rasterizing immediately, callers record typed commands into a
// CommandBuffer and execute the whole buffer against a Backend as one unit.
// This keeps stroke resampling and batch construction pure CPU work and
// gives backends (CPU raster today, device backends later) a single place
// to schedule the work.
//
// # Architecture
//
// The system follows a Command Pattern with three main components:
//
//   - CommandBuffer: records commands and owns the resource pool
//   - Command: typed, inspectable operations (see CommandType)
//   - Backend: executes commands against a RenderTarget
//
// # Basic Usage
//
//	cb := recording.NewCommandBuffer("paint")
//	quad := cb.AddMesh(recording.UnitQuad())
//
//	cb.SetRenderTarget(mask)
//	cb.SetViewProjection(recording.Ortho(0, w, 0, h, w, h))
//	cb.SetTexture(recording.PropMainTex, brush)
//	cb.SetFloat(recording.PropBrushAlpha, 1)
//	cb.DrawMeshInstanced(quad, matrices, len(matrices))
//
//	backend, _ := recording.NewBackend("raster")
//	err := cb.Execute(backend)
//
// # Backend Registration
//
// Backends are registered using the database/sql driver pattern. The
// built-in CPU backend registers itself as "raster":
//
//	import _ "github.com/gogpu/scratch/recording/backends/raster"
//
// # Coordinate System
//
// World coordinates have their origin at the bottom-left of the target and
// y growing upwards. SetViewProjection with Ortho maps world units onto
// device texels (row 0 at the top). Instance matrices map the unit quad
// into world space; UV (0,0) is the bottom-left of the texture.
//
// # Thread Safety
//
// CommandBuffer is NOT safe for concurrent use. Property IDs and the backend
// registry are safe for concurrent use.
package recording
