package common

import "math"

// Plane is the set of points p with Normal·p + Distance = 0. Points on the
// positive side are inside.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Frustum is the six inward-facing planes of a view volume.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromMatrix extracts normalized frustum planes from a view-projection
// matrix (Gribb/Hartmann). Near and far use the WebGPU depth range [0, 1], so the
// near plane is row 2 alone.
//
// Parameters:
//   - viewProj: the combined projection * view matrix
//
// Returns:
//   - Frustum: the extracted frustum
func FrustumFromMatrix(viewProj Mat4) Frustum {
	r0, r1, r2, r3 := viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)
	rows := [6][4]float32{
		add(r3, r0, 1),  // left
		add(r3, r0, -1), // right
		add(r3, r1, 1),  // bottom
		add(r3, r1, -1), // top
		r2,              // near
		add(r3, r2, -1), // far
	}

	var f Frustum
	for i, r := range rows {
		l := float32(math.Sqrt(float64(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])))
		if l == 0 {
			l = 1
		}
		f.Planes[i] = Plane{Normal: [3]float32{r[0] / l, r[1] / l, r[2] / l}, Distance: r[3] / l}
	}
	return f
}

// ContainsSphere reports whether a sphere intersects or lies inside the frustum.
//
// Parameters:
//   - center: the sphere center in world space
//   - radius: the sphere radius
//
// Returns:
//   - bool: false only if the sphere is entirely outside one plane
func (f Frustum) ContainsSphere(center [3]float32, radius float32) bool {
	for _, p := range f.Planes {
		d := p.Normal[0]*center[0] + p.Normal[1]*center[1] + p.Normal[2]*center[2] + p.Distance
		if d < -radius {
			return false
		}
	}
	return true
}

func add(a, b [4]float32, sign float32) [4]float32 {
	return [4]float32{a[0] + sign*b[0], a[1] + sign*b[1], a[2] + sign*b[2], a[3] + sign*b[3]}
}
