package model

import (
	"iter"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/gputable/common"
	"github.com/Carmen-Shannon/gputable/engine/table"
)

// GPUVertexSource is the WGSL definition of the Vertex struct as stored in a mesh
// table. Matches GPUVertex layout exactly (64 bytes, std430 aligned).
const GPUVertexSource = `struct Vertex {
    position: vec3<f32>,
    normal: vec3<f32>,
    tex_coord: vec2<f32>,
    color: vec4<f32>,
    tangent: vec4<f32>,
};`

// GPUVertex is the GPU-aligned representation of a single mesh vertex for static (non-skinned) models.
// Matches the WGSL Vertex struct layout exactly (see GPUVertexSource).
// Size: 64 bytes (std430 aligned, no padding required).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
	Color    [4]float32 // offset 32: per-vertex RGBA color (16 bytes)
	Tangent  [4]float32 // offset 48: tangent vector (xyz) + handedness (w) for normal mapping (16 bytes)
}

// PlainData marks GPUVertex as uploadable without conversion.
func (GPUVertex) PlainData() {}

// GPUSkinnedVertex is the GPU-aligned representation of a single mesh vertex for skinned (bone-animated) models.
// It extends GPUVertex with per-vertex bone skinning data.
// Size: 96 bytes (64 base vertex + 32 skinning data, std430 aligned, no padding required).
type GPUSkinnedVertex struct {
	GPUVertex              // offset  0: base vertex data (position, normal, uv, color, tangent), 64 bytes
	BoneIndices [4]uint32  // offset 64: indices of up to 4 influencing bones (16 bytes)
	BoneWeights [4]float32 // offset 80: blend weights for each bone (must sum to 1.0) (16 bytes)
}

// PlainData marks GPUSkinnedVertex as uploadable without conversion.
func (GPUSkinnedVertex) PlainData() {}

// GPUModelDataSource is the WGSL definition of the ModelData struct for per-instance model matrices.
// Matches GPUModelData layout exactly (64 bytes, std430 aligned).
const GPUModelDataSource = `struct ModelData {
    model: mat4x4<f32>,
};`

// GPUModelData is the GPU-aligned representation of a single per-instance model matrix.
// Matches the WGSL ModelData struct layout exactly (see GPUModelDataSource).
// Size: 64 bytes (mat4x4<f32> = 16 × float32, std430 aligned, no padding required).
type GPUModelData struct {
	Model [16]float32 // offset 0: 4×4 model-to-world transform matrix (64 bytes)
}

// PlainData marks GPUModelData as uploadable without conversion.
func (GPUModelData) PlainData() {}

// Compile-time layout checks; a size change here must be mirrored in the WGSL above.
var (
	_ [64 - unsafe.Sizeof(GPUVertex{})]struct{}
	_ [unsafe.Sizeof(GPUVertex{}) - 64]struct{}
	_ [96 - unsafe.Sizeof(GPUSkinnedVertex{})]struct{}
	_ [unsafe.Sizeof(GPUSkinnedVertex{}) - 96]struct{}
	_ [64 - unsafe.Sizeof(GPUModelData{})]struct{}
	_ [unsafe.Sizeof(GPUModelData{}) - 64]struct{}
)

// Instance is the CPU-side placement of one model instance.
type Instance struct {
	Position [3]float32 // world-space translation
	Rotation [3]float32 // Euler angles in radians (applied Y * X * Z)
	Scale    [3]float32 // per-axis scale
}

// ModelMatrices lazily builds one GPUModelData per instance. The matrices are
// computed while the table is written, so no []GPUModelData is ever materialized.
//
// Parameters:
//   - instances: the instances to transform
//
// Returns:
//   - iter.Seq[GPUModelData]: a re-traversable sequence of model matrices
func ModelMatrices(instances []Instance) iter.Seq[GPUModelData] {
	return func(yield func(GPUModelData) bool) {
		for _, in := range instances {
			if !yield(in.ModelData()) {
				return
			}
		}
	}
}

// VisibleModelMatrices is ModelMatrices restricted to instances whose bounding
// sphere touches f. radius is the unscaled mesh bounding radius; each instance
// scales it by its largest scale component.
//
// Parameters:
//   - instances: the instances to test and transform
//   - f: the view frustum
//   - radius: the mesh bounding radius (see ComputeBoundingRadius)
//
// Returns:
//   - iter.Seq[GPUModelData]: a re-traversable sequence of visible model matrices
func VisibleModelMatrices(instances []Instance, f common.Frustum, radius float32) iter.Seq[GPUModelData] {
	return func(yield func(GPUModelData) bool) {
		for _, in := range instances {
			s := max(abs32(in.Scale[0]), abs32(in.Scale[1]), abs32(in.Scale[2]))
			if !f.ContainsSphere(in.Position, radius*s) {
				continue
			}
			if !yield(in.ModelData()) {
				return
			}
		}
	}
}

// ModelData returns the instance's model-to-world matrix as a table record.
func (in Instance) ModelData() GPUModelData {
	return GPUModelData{Model: common.ModelMatrix(in.Position, in.Rotation, in.Scale)}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// MeshTable is the chain produced by AppendMesh: vertices, then indices.
type MeshTable[T table.Table] = table.Node[*table.SliceBlock[uint32], table.Node[*table.SliceBlock[GPUVertex], T]]

// AppendMesh appends a vertex block and an index block onto t, in that order, so a
// vertex-pulling shader finds vertices at header[k] and indices at header[k+1].
//
// Parameters:
//   - t: the table to extend
//   - vertices: the mesh vertices
//   - indices: the triangle list indices into vertices
//
// Returns:
//   - MeshTable[T]: the extended table
//   - error: an error if GPUVertex fails the plain-data check
func AppendMesh[T table.Table](t T, vertices []GPUVertex, indices []uint32) (MeshTable[T], error) {
	vb, err := table.StructSlice(vertices)
	if err != nil {
		return MeshTable[T]{}, err
	}
	return table.Append(table.Append(t, vb), table.Slice(indices)), nil
}

// InstanceTable is the chain produced by AppendInstances.
type InstanceTable[T table.Table] = table.Node[*table.SeqBlock[GPUModelData], T]

// AppendInstances appends a block of model matrices computed from instances.
//
// Parameters:
//   - t: the table to extend
//   - instances: the instances to place
//
// Returns:
//   - InstanceTable[T]: the extended table
//   - error: an error if GPUModelData fails the plain-data check
func AppendInstances[T table.Table](t T, instances []Instance) (InstanceTable[T], error) {
	mb, err := table.StructSeq(ModelMatrices(instances))
	if err != nil {
		return InstanceTable[T]{}, err
	}
	return table.Append(t, mb), nil
}

// AppendVisibleInstances appends a block of model matrices for the instances that
// pass a frustum test. The visible set is fixed when the block is created; the
// instances must not move before the table is written.
//
// Parameters:
//   - t: the table to extend
//   - instances: the candidate instances
//   - f: the view frustum
//   - radius: the mesh bounding radius
//
// Returns:
//   - InstanceTable[T]: the extended table
//   - error: an error if GPUModelData fails the plain-data check
func AppendVisibleInstances[T table.Table](t T, instances []Instance, f common.Frustum, radius float32) (InstanceTable[T], error) {
	mb, err := table.StructSeq(VisibleModelMatrices(instances, f, radius))
	if err != nil {
		return InstanceTable[T]{}, err
	}
	return table.Append(t, mb), nil
}

// ComputeBoundingRadius calculates the bounding sphere radius from a slice of
// GPUVertex positions. The radius is the maximum distance from the origin
// across all vertices in the slice.
//
// Parameters:
//   - vertices: the vertex data to compute the bounding radius from
//
// Returns:
//   - float32: the maximum distance from the origin
func ComputeBoundingRadius(vertices []GPUVertex) float32 {
	var maxDistSq float32
	for _, v := range vertices {
		p := v.Position
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return float32(math.Sqrt(float64(maxDistSq)))
}
