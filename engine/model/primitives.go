package model

// Cube returns a unit cube centered on the origin with a distinct color per corner.
// It is the mesh the demo scene tables are built from.
//
// Returns:
//   - []GPUVertex: the 8 cube vertices
//   - []uint32: the 36 triangle indices
func Cube() ([]GPUVertex, []uint32) {
	pos := [8][3]float32{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5},
		{0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5},
		{0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
	}
	col := [8][4]float32{
		{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}, {1, 1, 0, 1},
		{0, 1, 1, 1}, {1, 0, 1, 1}, {1, 1, 1, 1}, {1, 0.5, 0, 1},
	}

	vertices := make([]GPUVertex, 8)
	for i := range vertices {
		vertices[i] = GPUVertex{Position: pos[i], Color: col[i]}
	}

	indices := []uint32{
		4, 5, 6, 4, 6, 7, // Front  (+Z)
		1, 0, 3, 1, 3, 2, // Back   (-Z)
		5, 1, 2, 5, 2, 6, // Right  (+X)
		0, 4, 7, 0, 7, 3, // Left   (-X)
		3, 7, 6, 3, 6, 2, // Top    (+Y)
		0, 1, 5, 0, 5, 4, // Bottom (-Y)
	}

	return vertices, indices
}
