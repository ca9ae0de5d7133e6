package scratch

import (
	"image"

	"github.com/gogpu/scratch/recording"
)

// Stamp is one brush impression. Position is the bottom-left corner of the
// stamp square in mask coordinates.
type Stamp struct {
	Position Point
	Size     float64
	Texture  image.Image
}

// Matrix returns the instance transform of the stamp: translate to
// Position, then scale uniformly by Size. Stamps are never rotated.
func (s Stamp) Matrix() recording.Matrix {
	return recording.TRS(s.Position.X, s.Position.Y, s.Size)
}

// Brush holds the parameters shared by every stamp of a render pass.
type Brush struct {
	// Texture is sampled for every stamp. Nil selects solid white.
	Texture image.Image

	// Size is the stamp edge length in mask texels.
	Size float64

	// Alpha scales the texture alpha, in [0, 1].
	Alpha float64
}

// Stamp returns the stamp of this brush at position p.
func (b Brush) Stamp(p Point) Stamp {
	return Stamp{Position: p, Size: b.Size, Texture: b.Texture}
}
