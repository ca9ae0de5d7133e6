package recording

import "image"

// MeshRef is a reference to a mesh in the resource pool.
// The zero value is a valid reference to the first mesh (if any).
type MeshRef uint32

// TextureRef is a reference to a texture in the resource pool.
// The zero value is a valid reference to the first texture (if any).
type TextureRef uint32

// InvalidRef is the sentinel value for an invalid reference.
const InvalidRef = ^uint32(0)

// IsValid returns true if the reference points to a valid mesh.
func (r MeshRef) IsValid() bool {
	return uint32(r) != InvalidRef
}

// IsValid returns true if the reference points to a valid texture.
func (r TextureRef) IsValid() bool {
	return uint32(r) != InvalidRef
}

// ResourcePool stores resources referenced by commands.
// Textures are deduplicated by identity so re-binding the same brush image
// every frame does not grow the pool.
//
// ResourcePool is not safe for concurrent use. If concurrent access is needed,
// external synchronization must be provided.
type ResourcePool struct {
	meshes   []*Mesh
	textures []image.Image
	texIndex map[image.Image]TextureRef
}

// NewResourcePool creates an empty resource pool with pre-allocated capacity.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{
		meshes:   make([]*Mesh, 0, 2),
		textures: make([]image.Image, 0, 4),
		texIndex: make(map[image.Image]TextureRef),
	}
}

// AddMesh adds a mesh to the pool and returns its reference.
func (p *ResourcePool) AddMesh(m *Mesh) MeshRef {
	p.meshes = append(p.meshes, m)
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	return MeshRef(uint32(len(p.meshes) - 1))
}

// GetMesh returns the mesh for the given reference.
// Returns nil if the reference is invalid.
func (p *ResourcePool) GetMesh(ref MeshRef) *Mesh {
	if int(ref) >= len(p.meshes) {
		return nil
	}
	return p.meshes[ref]
}

// MeshCount returns the number of meshes in the pool.
func (p *ResourcePool) MeshCount() int {
	return len(p.meshes)
}

// AddTexture adds a texture to the pool and returns its reference.
// Adding an image that is already pooled returns the existing reference.
// Images must be comparable (pointer types such as *image.Alpha are).
func (p *ResourcePool) AddTexture(img image.Image) TextureRef {
	if ref, ok := p.texIndex[img]; ok {
		return ref
	}
	p.textures = append(p.textures, img)
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	ref := TextureRef(uint32(len(p.textures) - 1))
	p.texIndex[img] = ref
	return ref
}

// GetTexture returns the texture for the given reference.
// Returns nil if the reference is invalid.
func (p *ResourcePool) GetTexture(ref TextureRef) image.Image {
	if int(ref) >= len(p.textures) {
		return nil
	}
	return p.textures[ref]
}

// TextureCount returns the number of textures in the pool.
func (p *ResourcePool) TextureCount() int {
	return len(p.textures)
}

// Clear removes all resources from the pool.
func (p *ResourcePool) Clear() {
	p.meshes = p.meshes[:0]
	p.textures = p.textures[:0]
	clear(p.texIndex)
}
