package recording

import (
	"errors"
	"image"
	"testing"
)

// mockBackend records every call it receives.
type mockBackend struct {
	calls      []CommandType
	target     RenderTarget
	textures   map[PropertyID]image.Image
	floats     map[PropertyID]float64
	draws      [][]Matrix
	beginCalls int
	endCalls   int
	failDraw   error
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		textures: make(map[PropertyID]image.Image),
		floats:   make(map[PropertyID]float64),
	}
}

func (b *mockBackend) Begin() error { b.beginCalls++; return nil }
func (b *mockBackend) End() error   { b.endCalls++; return nil }

func (b *mockBackend) SetRenderTarget(t RenderTarget) error {
	b.calls = append(b.calls, CmdSetRenderTarget)
	b.target = t
	return nil
}

func (b *mockBackend) ClearRenderTarget() error {
	b.calls = append(b.calls, CmdClearRenderTarget)
	return nil
}

func (b *mockBackend) SetViewProjection(Matrix) {
	b.calls = append(b.calls, CmdSetViewProjection)
}

func (b *mockBackend) SetTexture(id PropertyID, img image.Image) {
	b.calls = append(b.calls, CmdSetTexture)
	b.textures[id] = img
}

func (b *mockBackend) SetFloat(id PropertyID, v float64) {
	b.calls = append(b.calls, CmdSetFloat)
	b.floats[id] = v
}

func (b *mockBackend) DrawMeshInstanced(_ *Mesh, instances []Matrix) error {
	b.calls = append(b.calls, CmdDrawMeshInstanced)
	if b.failDraw != nil {
		return b.failDraw
	}
	b.draws = append(b.draws, instances)
	return nil
}

// alphaTarget is a minimal RenderTarget over an image.Alpha.
type alphaTarget struct{ img *image.Alpha }

func (a alphaTarget) Width() int           { return a.img.Rect.Dx() }
func (a alphaTarget) Height() int          { return a.img.Rect.Dy() }
func (a alphaTarget) Pixels() *image.Alpha { return a.img }

func TestCommandBuffer_RecordAndExecute(t *testing.T) {
	cb := NewCommandBuffer("paint")
	quad := cb.AddMesh(UnitQuad())
	target := alphaTarget{image.NewAlpha(image.Rect(0, 0, 8, 8))}
	tex := image.NewAlpha(image.Rect(0, 0, 2, 2))

	cb.SetRenderTarget(target)
	cb.ClearRenderTarget()
	cb.SetViewProjection(Ortho(0, 8, 0, 8, 8, 8))
	cb.SetTexture(PropMainTex, tex)
	cb.SetFloat(PropBrushAlpha, 0.5)
	cb.DrawMeshInstanced(quad, []Matrix{TRS(1, 1, 2), TRS(2, 2, 2)}, 2)

	if cb.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", cb.Len())
	}
	if cb.DrawCalls() != 1 {
		t.Errorf("DrawCalls() = %d, want 1", cb.DrawCalls())
	}

	b := newMockBackend()
	if err := cb.Execute(b); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := []CommandType{
		CmdSetRenderTarget, CmdClearRenderTarget, CmdSetViewProjection,
		CmdSetTexture, CmdSetFloat, CmdDrawMeshInstanced,
	}
	if len(b.calls) != len(want) {
		t.Fatalf("backend calls = %v, want %v", b.calls, want)
	}
	for i := range want {
		if b.calls[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, b.calls[i], want[i])
		}
	}
	if b.beginCalls != 1 || b.endCalls != 1 {
		t.Errorf("Begin/End calls = %d/%d, want 1/1", b.beginCalls, b.endCalls)
	}
	if b.textures[PropMainTex] != tex {
		t.Error("texture parameter not forwarded")
	}
	if b.floats[PropBrushAlpha] != 0.5 {
		t.Errorf("brush alpha = %v, want 0.5", b.floats[PropBrushAlpha])
	}
	if len(b.draws[0]) != 2 {
		t.Errorf("instances = %d, want 2", len(b.draws[0]))
	}
}

func TestCommandBuffer_DrawCopiesMatrices(t *testing.T) {
	cb := NewCommandBuffer("copy")
	quad := cb.AddMesh(UnitQuad())

	batch := []Matrix{TRS(1, 1, 1), TRS(2, 2, 1), TRS(3, 3, 1)}
	cb.DrawMeshInstanced(quad, batch, 2)
	batch[0] = TRS(99, 99, 1)

	cmd := cb.Commands()[0].(DrawMeshInstancedCommand)
	if len(cmd.Instances) != 2 {
		t.Fatalf("recorded %d instances, want 2", len(cmd.Instances))
	}
	if cmd.Instances[0].C != 1 {
		t.Errorf("recorded instance changed with caller slice: C = %v", cmd.Instances[0].C)
	}
}

func TestCommandBuffer_DrawZeroCount(t *testing.T) {
	cb := NewCommandBuffer("empty")
	quad := cb.AddMesh(UnitQuad())
	cb.DrawMeshInstanced(quad, nil, 0)

	if cb.Len() != 0 {
		t.Errorf("Len() = %d, want 0 for empty draw", cb.Len())
	}
}

func TestCommandBuffer_NilTexture(t *testing.T) {
	cb := NewCommandBuffer("nil-tex")
	cb.SetTexture(PropMainTex, nil)

	cmd := cb.Commands()[0].(SetTextureCommand)
	if cmd.Texture.IsValid() {
		t.Error("nil texture recorded with a valid reference")
	}

	b := newMockBackend()
	b.textures[PropMainTex] = image.NewAlpha(image.Rect(0, 0, 1, 1))
	if err := cb.Execute(b); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if b.textures[PropMainTex] != nil {
		t.Error("backend should receive a nil texture")
	}
}

func TestCommandBuffer_ClearKeepsMeshes(t *testing.T) {
	cb := NewCommandBuffer("clear")
	quad := cb.AddMesh(UnitQuad())
	cb.ClearRenderTarget()
	cb.Clear()

	if cb.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", cb.Len())
	}
	if cb.Resources().GetMesh(quad) == nil {
		t.Error("mesh reference invalid after Clear")
	}
}

func TestCommandBuffer_ExecuteError(t *testing.T) {
	cb := NewCommandBuffer("fail")
	quad := cb.AddMesh(UnitQuad())
	cb.DrawMeshInstanced(quad, []Matrix{Identity()}, 1)
	cb.DrawMeshInstanced(quad, []Matrix{Identity()}, 1)

	errBoom := errors.New("boom")
	b := newMockBackend()
	b.failDraw = errBoom

	err := cb.Execute(b)
	if !errors.Is(err, errBoom) {
		t.Fatalf("Execute error = %v, want wrapping %v", err, errBoom)
	}
	if len(b.calls) != 1 {
		t.Errorf("backend saw %d calls, want execution to stop after 1", len(b.calls))
	}
	if b.endCalls != 0 {
		t.Error("End called after a failed command")
	}
}

func TestCommandBuffer_InvalidMesh(t *testing.T) {
	cb := NewCommandBuffer("bad-mesh")
	cb.DrawMeshInstanced(MeshRef(3), []Matrix{Identity()}, 1)

	if err := cb.Execute(newMockBackend()); err == nil {
		t.Error("Execute with invalid mesh succeeded, want error")
	}
}

func TestPropertyToID(t *testing.T) {
	a := PropertyToID("_TestProp")
	b := PropertyToID("_TestProp")
	c := PropertyToID("_OtherProp")

	if a != b {
		t.Errorf("PropertyToID not memoized: %d != %d", a, b)
	}
	if a == c {
		t.Error("distinct names share an ID")
	}
	if a.String() != "_TestProp" {
		t.Errorf("String() = %q, want %q", a.String(), "_TestProp")
	}
	if PropMainTex.String() != "_MainTex" {
		t.Errorf("PropMainTex.String() = %q", PropMainTex.String())
	}
	if PropertyID(1 << 30).String() != "Unknown" {
		t.Error("unassigned ID should stringify as Unknown")
	}
}
