package recording

import (
	"fmt"
	"image"
)

// CommandBuffer records commands for deferred execution. Recording is pure
// CPU work; nothing touches a render target until Execute plays the buffer
// back to a Backend, all commands in one unit.
//
// Example:
//
//	cb := recording.NewCommandBuffer("paint")
//	quad := cb.AddMesh(recording.UnitQuad())
//	cb.SetRenderTarget(mask)
//	cb.ClearRenderTarget()
//	cb.SetViewProjection(recording.Ortho(0, w, 0, h, w, h))
//	cb.DrawMeshInstanced(quad, matrices, n)
//	err := cb.Execute(backend)
//
// The CommandBuffer is not safe for concurrent use.
type CommandBuffer struct {
	name      string
	commands  []Command
	resources *ResourcePool
}

// NewCommandBuffer creates an empty command buffer. The name is used in
// log and error messages only.
func NewCommandBuffer(name string) *CommandBuffer {
	return &CommandBuffer{
		name:      name,
		commands:  make([]Command, 0, 16),
		resources: NewResourcePool(),
	}
}

// Name returns the buffer name.
func (cb *CommandBuffer) Name() string {
	return cb.name
}

// Clear removes all recorded commands. Pooled meshes stay registered so
// MeshRefs obtained earlier remain valid.
func (cb *CommandBuffer) Clear() {
	clear(cb.commands)
	cb.commands = cb.commands[:0]
}

// Commands returns the recorded commands.
func (cb *CommandBuffer) Commands() []Command {
	return cb.commands
}

// Len returns the number of recorded commands.
func (cb *CommandBuffer) Len() int {
	return len(cb.commands)
}

// DrawCalls returns the number of recorded instanced draws.
func (cb *CommandBuffer) DrawCalls() int {
	n := 0
	for _, c := range cb.commands {
		if c.Type() == CmdDrawMeshInstanced {
			n++
		}
	}
	return n
}

// Resources returns the resource pool.
func (cb *CommandBuffer) Resources() *ResourcePool {
	return cb.resources
}

// AddMesh registers a mesh for use by DrawMeshInstanced.
func (cb *CommandBuffer) AddMesh(m *Mesh) MeshRef {
	return cb.resources.AddMesh(m)
}

// SetRenderTarget records binding t as the render target.
func (cb *CommandBuffer) SetRenderTarget(t RenderTarget) {
	cb.commands = append(cb.commands, SetRenderTargetCommand{Target: t})
}

// ClearRenderTarget records clearing the bound target to zero.
func (cb *CommandBuffer) ClearRenderTarget() {
	cb.commands = append(cb.commands, ClearRenderTargetCommand{})
}

// SetViewProjection records a view-projection change.
func (cb *CommandBuffer) SetViewProjection(m Matrix) {
	cb.commands = append(cb.commands, SetViewProjectionCommand{Matrix: m})
}

// SetTexture records binding img to a texture parameter.
// A nil image records an unbound parameter, which backends draw as opaque white.
func (cb *CommandBuffer) SetTexture(id PropertyID, img image.Image) {
	ref := TextureRef(InvalidRef)
	if img != nil {
		ref = cb.resources.AddTexture(img)
	}
	cb.commands = append(cb.commands, SetTextureCommand{Property: id, Texture: ref})
}

// SetFloat records a scalar parameter change.
func (cb *CommandBuffer) SetFloat(id PropertyID, v float64) {
	cb.commands = append(cb.commands, SetFloatCommand{Property: id, Value: v})
}

// DrawMeshInstanced records one instanced draw of the first count matrices.
// The matrices are copied, so the caller may reuse the slice for the next batch.
func (cb *CommandBuffer) DrawMeshInstanced(mesh MeshRef, matrices []Matrix, count int) {
	if count <= 0 {
		return
	}
	instances := make([]Matrix, count)
	copy(instances, matrices[:count])
	cb.commands = append(cb.commands, DrawMeshInstancedCommand{Mesh: mesh, Instances: instances})
}

// Execute plays the recorded commands back to the backend in order.
// Execution stops at the first failing command.
func (cb *CommandBuffer) Execute(backend Backend) error {
	if err := backend.Begin(); err != nil {
		return fmt.Errorf("recording: %s: begin: %w", cb.name, err)
	}

	for i, cmd := range cb.commands {
		var err error
		switch c := cmd.(type) {
		case SetRenderTargetCommand:
			err = backend.SetRenderTarget(c.Target)
		case ClearRenderTargetCommand:
			err = backend.ClearRenderTarget()
		case SetViewProjectionCommand:
			backend.SetViewProjection(c.Matrix)
		case SetTextureCommand:
			var img image.Image
			if c.Texture.IsValid() {
				img = cb.resources.GetTexture(c.Texture)
			}
			backend.SetTexture(c.Property, img)
		case SetFloatCommand:
			backend.SetFloat(c.Property, c.Value)
		case DrawMeshInstancedCommand:
			mesh := cb.resources.GetMesh(c.Mesh)
			if mesh == nil {
				err = fmt.Errorf("invalid mesh reference %d", c.Mesh)
				break
			}
			err = backend.DrawMeshInstanced(mesh, c.Instances)
		}
		if err != nil {
			return fmt.Errorf("recording: %s: command %d (%s): %w", cb.name, i, cmd.Type(), err)
		}
	}

	if err := backend.End(); err != nil {
		return fmt.Errorf("recording: %s: end: %w", cb.name, err)
	}
	return nil
}
