package recording

import "testing"

func TestUnitQuad(t *testing.T) {
	q := UnitQuad()

	wantPos := []Vertex{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	if len(q.Positions) != len(wantPos) {
		t.Fatalf("len(Positions) = %d, want %d", len(q.Positions), len(wantPos))
	}
	for i, p := range wantPos {
		if q.Positions[i] != p {
			t.Errorf("Positions[%d] = %v, want %v", i, q.Positions[i], p)
		}
		if q.UVs[i] != p {
			t.Errorf("UVs[%d] = %v, want %v", i, q.UVs[i], p)
		}
	}

	wantIdx := []uint16{0, 1, 2, 3, 2, 1}
	for i, idx := range wantIdx {
		if q.Indices[i] != idx {
			t.Errorf("Indices[%d] = %d, want %d", i, q.Indices[i], idx)
		}
	}

	if !q.IsTexturedRect() {
		t.Error("UnitQuad().IsTexturedRect() = false, want true")
	}
}

func TestUnitQuad_Independent(t *testing.T) {
	a := UnitQuad()
	b := UnitQuad()
	a.UVs[0] = Vertex{0.5, 0.5}

	if b.UVs[0] != (Vertex{0, 0}) {
		t.Error("UnitQuad instances share UV storage")
	}
	if a.Positions[0] != (Vertex{0, 0}) {
		t.Error("UVs alias Positions")
	}
}

func TestMesh_IsTexturedRect(t *testing.T) {
	tri := &Mesh{
		Positions: []Vertex{{0, 0}, {1, 0}, {0, 1}},
		UVs:       []Vertex{{0, 0}, {1, 0}, {0, 1}},
		Indices:   []uint16{0, 1, 2},
	}
	if tri.IsTexturedRect() {
		t.Error("triangle reported as textured rect")
	}

	flipped := UnitQuad()
	for i := range flipped.UVs {
		flipped.UVs[i].Y = 1 - flipped.UVs[i].Y
	}
	if flipped.IsTexturedRect() {
		t.Error("quad with flipped UVs reported as textured rect")
	}

	big := UnitQuad()
	for i := range big.Positions {
		big.Positions[i].X *= 3
	}
	if !big.IsTexturedRect() {
		t.Error("scaled quad with unit UVs should be a textured rect")
	}
}

func TestMesh_Bounds(t *testing.T) {
	minV, maxV := UnitQuad().Bounds()
	if minV != (Vertex{0, 0}) || maxV != (Vertex{1, 1}) {
		t.Errorf("Bounds() = %v, %v, want {0 0}, {1 1}", minV, maxV)
	}

	empty := &Mesh{}
	minV, maxV = empty.Bounds()
	if minV != (Vertex{}) || maxV != (Vertex{}) {
		t.Errorf("empty Bounds() = %v, %v, want zero", minV, maxV)
	}
}
