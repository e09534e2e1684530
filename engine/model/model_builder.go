package model

// ModelBuilderOption is a functional option used to configure a Model during construction.
type ModelBuilderOption func(*model)

// WithName sets the name of the model.
//
// Parameters:
//   - name: the name to assign to the model
//
// Returns:
//   - ModelBuilderOption: a function that sets the model name
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithMesh sets the vertex and index data of the model. The slices are referenced,
// not copied.
//
// Parameters:
//   - vertices: the mesh vertices
//   - indices: the triangle list indices into vertices
//
// Returns:
//   - ModelBuilderOption: a function that sets the mesh data
func WithMesh(vertices []GPUVertex, indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.vertices = vertices
		m.indices = indices
	}
}

// WithBoundingRadius sets the object-space bounding sphere radius, overriding the
// radius computed from the vertices.
//
// Parameters:
//   - radius: the bounding sphere radius
//
// Returns:
//   - ModelBuilderOption: a function that sets the bounding radius
func WithBoundingRadius(radius float32) ModelBuilderOption {
	return func(m *model) {
		m.boundingRadius = radius
	}
}
