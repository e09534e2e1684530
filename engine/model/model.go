package model

import "github.com/Carmen-Shannon/gputable/engine/table"

type model struct {
	name           string
	vertices       []GPUVertex
	indices        []uint32
	boundingRadius float32
}

// Model is a named static mesh ready to be written into a mesh table.
//
// A Model only references its vertex and index slices. Appending it to a table does
// not copy them, so they must not be modified until the table has been written.
type Model interface {
	// Name returns the model's identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Vertices returns the mesh vertices.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices returns the triangle list indices into Vertices.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// IndexCount returns the number of indices, which is the draw count for the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the object-space bounding sphere radius used to cull
	// instances of this model.
	//
	// Returns:
	//   - float32: the radius
	BoundingRadius() float32
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options. If no bounding radius is
// given, it is computed from the vertices.
//
// Parameters:
//   - options: variadic list of ModelBuilderOption functions to configure the model
//
// Returns:
//   - Model: the newly created model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{boundingRadius: -1}
	for _, opt := range options {
		opt(m)
	}
	if m.boundingRadius < 0 {
		m.boundingRadius = ComputeBoundingRadius(m.vertices)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

// AppendModel appends m's vertex and index blocks onto t. See AppendMesh.
//
// Parameters:
//   - t: the table to extend
//   - m: the model to write
//
// Returns:
//   - MeshTable[T]: the extended table
//   - error: an error if GPUVertex fails the plain-data check
func AppendModel[T table.Table](t T, m Model) (MeshTable[T], error) {
	return AppendMesh(t, m.Vertices(), m.Indices())
}
