package common

import "math"

// Mat4 is a 4x4 float32 matrix in column-major order (WebGPU convention): element
// (row r, column c) lives at index c*4+r. Its layout matches mat4x4<f32>.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{0: 1, 5: 1, 10: 1, 15: 1}
}

// Mul returns a * b.
//
// Parameters:
//   - b: right-hand matrix
//
// Returns:
//   - Mat4: the product
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for c := range 4 {
		for r := range 4 {
			var sum float32
			for k := range 4 {
				sum += a[k*4+r] * b[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Row returns row r of the matrix.
func (a Mat4) Row(r int) [4]float32 {
	return [4]float32{a[r], a[4+r], a[8+r], a[12+r]}
}

// Perspective builds a perspective projection for WebGPU clip space (z in [0, 1]).
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	var out Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// LookAt builds a view matrix for a camera at eye looking at center.
//
// Parameters:
//   - eye: camera position in world space
//   - center: the point the camera looks at
//   - up: the up direction, typically (0, 1, 0)
//
// Returns:
//   - Mat4: the world-to-view matrix
func LookAt(eye, center, up [3]float32) Mat4 {
	z := Normalize([3]float32{eye[0] - center[0], eye[1] - center[1], eye[2] - center[2]})
	x := Normalize(cross(up, z))
	y := cross(z, x)

	var out Mat4
	for i, axis := range [3][3]float32{x, y, z} {
		out[i] = axis[0]
		out[4+i] = axis[1]
		out[8+i] = axis[2]
		out[12+i] = -(axis[0]*eye[0] + axis[1]*eye[1] + axis[2]*eye[2])
	}
	out[15] = 1
	return out
}

// ModelMatrix composes translation, Euler rotation (applied Y * X * Z) and scale.
//
// Parameters:
//   - pos: translation in world space
//   - rot: rotation in radians around each axis
//   - scale: scale factor along each axis
//
// Returns:
//   - Mat4: the model-to-world matrix
func ModelMatrix(pos, rot, scale [3]float32) Mat4 {
	sx, cx := sincos(rot[0])
	sy, cy := sincos(rot[1])
	sz, cz := sincos(rot[2])

	return Mat4{
		(cy*cz + sy*sx*sz) * scale[0], (cx * sz) * scale[0], (-sy*cz + cy*sx*sz) * scale[0], 0,
		(cy*-sz + sy*sx*cz) * scale[1], (cx * cz) * scale[1], (sy*sz + cy*sx*cz) * scale[1], 0,
		(sy * cx) * scale[2], (-sx) * scale[2], (cy * cx) * scale[2], 0,
		pos[0], pos[1], pos[2], 1,
	}
}

func sincos(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Normalize returns v scaled to unit length. A zero vector comes back unchanged.
func Normalize(v [3]float32) [3]float32 {
	l := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
