package recording

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// Target commands
	CmdSetRenderTarget   CommandType = iota // Bind the render target
	CmdClearRenderTarget                    // Clear the bound target to zero

	// State commands
	CmdSetViewProjection // Set the view-projection matrix
	CmdSetTexture        // Bind a texture parameter
	CmdSetFloat          // Set a scalar parameter

	// Drawing commands
	CmdDrawMeshInstanced // Draw many instances of a mesh
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdSetRenderTarget:   "SetRenderTarget",
	CmdClearRenderTarget: "ClearRenderTarget",
	CmdSetViewProjection: "SetViewProjection",
	CmdSetTexture:        "SetTexture",
	CmdSetFloat:          "SetFloat",
	CmdDrawMeshInstanced: "DrawMeshInstanced",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// --------------------------------------------------------------------------
// Target Commands
// --------------------------------------------------------------------------

// SetRenderTargetCommand binds the target all following commands draw into.
type SetRenderTargetCommand struct {
	Target RenderTarget
}

// Type implements Command.
func (SetRenderTargetCommand) Type() CommandType { return CmdSetRenderTarget }

// ClearRenderTargetCommand clears the bound target to transparent (zero).
type ClearRenderTargetCommand struct{}

// Type implements Command.
func (ClearRenderTargetCommand) Type() CommandType { return CmdClearRenderTarget }

// --------------------------------------------------------------------------
// State Commands
// --------------------------------------------------------------------------

// SetViewProjectionCommand sets the matrix mapping world units to device
// pixels of the bound target.
type SetViewProjectionCommand struct {
	Matrix Matrix
}

// Type implements Command.
func (SetViewProjectionCommand) Type() CommandType { return CmdSetViewProjection }

// SetTextureCommand binds a pooled texture to a shader parameter.
type SetTextureCommand struct {
	Property PropertyID
	Texture  TextureRef
}

// Type implements Command.
func (SetTextureCommand) Type() CommandType { return CmdSetTexture }

// SetFloatCommand sets a scalar shader parameter.
type SetFloatCommand struct {
	Property PropertyID
	Value    float64
}

// Type implements Command.
func (SetFloatCommand) Type() CommandType { return CmdSetFloat }

// --------------------------------------------------------------------------
// Drawing Commands
// --------------------------------------------------------------------------

// DrawMeshInstancedCommand draws one instance of a pooled mesh per matrix.
// Instances are drawn in order; each matrix maps mesh space to world space.
type DrawMeshInstancedCommand struct {
	Mesh      MeshRef
	Instances []Matrix
}

// Type implements Command.
func (DrawMeshInstancedCommand) Type() CommandType { return CmdDrawMeshInstanced }
