package recording

// Vertex is a 2D mesh vertex or texture coordinate.
type Vertex struct {
	X, Y float64
}

// Mesh is an indexed triangle list with one UV per position.
// Meshes handed to a CommandBuffer must not be modified afterwards.
type Mesh struct {
	Positions []Vertex
	UVs       []Vertex
	Indices   []uint16
}

// UnitQuad returns the stamp primitive: a unit square with corners at
// (0,0), (0,1), (1,0), (1,1), UVs equal to positions, triangulated as
// (0,1,2) and (3,2,1).
func UnitQuad() *Mesh {
	corners := []Vertex{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	uvs := make([]Vertex, len(corners))
	copy(uvs, corners)
	return &Mesh{
		Positions: corners,
		UVs:       uvs,
		Indices:   []uint16{0, 1, 2, 3, 2, 1},
	}
}

// Bounds returns the axis-aligned bounding box of the positions.
func (m *Mesh) Bounds() (minV, maxV Vertex) {
	if len(m.Positions) == 0 {
		return Vertex{}, Vertex{}
	}
	minV, maxV = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		minV.X = min(minV.X, p.X)
		minV.Y = min(minV.Y, p.Y)
		maxV.X = max(maxV.X, p.X)
		maxV.Y = max(maxV.Y, p.Y)
	}
	return minV, maxV
}

// IsTexturedRect reports whether the mesh is an axis-aligned rectangle
// whose UVs span the unit square in the same orientation as its positions.
// Backends without a general triangle rasterizer only accept such meshes.
func (m *Mesh) IsTexturedRect() bool {
	if len(m.Positions) != 4 || len(m.UVs) != 4 || len(m.Indices) != 6 {
		return false
	}
	minP, maxP := m.Bounds()
	w, h := maxP.X-minP.X, maxP.Y-minP.Y
	if w <= 0 || h <= 0 {
		return false
	}
	for i, p := range m.Positions {
		if (p.X != minP.X && p.X != maxP.X) || (p.Y != minP.Y && p.Y != maxP.Y) {
			return false
		}
		uv := m.UVs[i]
		if uv.X != (p.X-minP.X)/w || uv.Y != (p.Y-minP.Y)/h {
			return false
		}
	}
	return true
}
