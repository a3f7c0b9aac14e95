package common

import (
	"github.com/chewxy/math32"
)

// Mat4 is a 4x4 matrix stored in column-major order (OpenGL/WebGPU convention).
// Element (row r, column c) lives at index c*4 + r.
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
//
// Returns:
//   - Mat4: the identity matrix
func Identity4() Mat4 {
	return Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// Mul returns the product m * o. Applying the result to a point applies o first, then m.
//
// Parameters:
//   - o: the right-hand matrix
//
// Returns:
//   - Mat4: the product
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// TransformPoint applies m to the point p (w = 1) and returns the homogeneous result.
//
// Parameters:
//   - p: the point to transform
//
// Returns:
//   - Vec3: the transformed x, y, z
//   - float32: the transformed w component
func (m Mat4) TransformPoint(p Vec3) (Vec3, float32) {
	x := m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y := m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z := m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	w := m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]
	return Vec3{x, y, z}, w
}

// TransformDirection applies the upper 3x3 of m to the direction d, ignoring translation.
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		m[0]*d[0] + m[4]*d[1] + m[8]*d[2],
		m[1]*d[0] + m[5]*d[1] + m[9]*d[2],
		m[2]*d[0] + m[6]*d[1] + m[10]*d[2],
	}
}

// Translation returns the translation column of m.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// MaxScale returns the largest axis scale factor encoded in the upper 3x3 of m.
// Used to scale bounding radii through a node hierarchy.
func (m Mat4) MaxScale() float32 {
	sx := Vec3{m[0], m[1], m[2]}.Length()
	sy := Vec3{m[4], m[5], m[6]}.Length()
	sz := Vec3{m[8], m[9], m[10]}.Length()
	return math32.Max(sx, math32.Max(sy, sz))
}

// Perspective builds a perspective projection matrix compatible with the WebGPU clip space z range [0, 1].
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
	f := 1 / math32.Tan(fovY/2)
	var out Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = (near * far) / (near - far)
	return out
}

// Orthographic builds an orthographic projection matrix compatible with the WebGPU clip space z range [0, 1].
//
// Parameters:
//   - left, right: horizontal extents of the view volume
//   - top, bottom: vertical extents of the view volume
//   - near, far: clipping plane distances
//
// Returns:
//   - Mat4: the projection matrix
func Orthographic(left, right, top, bottom, near, far float32) Mat4 {
	out := Identity4()
	out[0] = 2 / (right - left)
	out[5] = 2 / (top - bottom)
	out[10] = 1 / (near - far)
	out[12] = -(right + left) / (right - left)
	out[13] = -(top + bottom) / (top - bottom)
	out[14] = near / (near - far)
	return out
}

// ModelMatrix composes translation, Euler rotation (Y * X * Z) and scale into a single matrix.
//
// Parameters:
//   - pos: translation in parent space
//   - rot: rotation angles in radians around each axis
//   - scale: scale factors along each axis
//
// Returns:
//   - Mat4: the model matrix
func ModelMatrix(pos, rot, scale Vec3) Mat4 {
	cx, sx := math32.Cos(rot[0]), math32.Sin(rot[0])
	cy, sy := math32.Cos(rot[1]), math32.Sin(rot[1])
	cz, sz := math32.Cos(rot[2]), math32.Sin(rot[2])

	var out Mat4
	out[0] = (cy*cz + sy*sx*sz) * scale[0]
	out[1] = (cx * sz) * scale[0]
	out[2] = (-sy*cz + cy*sx*sz) * scale[0]

	out[4] = (-cy*sz + sy*sx*cz) * scale[1]
	out[5] = (cx * cz) * scale[1]
	out[6] = (sy*sz + cy*sx*cz) * scale[1]

	out[8] = (sy * cx) * scale[2]
	out[9] = (-sx) * scale[2]
	out[10] = (cy * cx) * scale[2]

	out[12], out[13], out[14] = pos[0], pos[1], pos[2]
	out[15] = 1
	return out
}

// Invert returns the inverse of m using cofactor expansion.
// If m is singular the identity is returned along with false.
//
// Returns:
//   - Mat4: the inverse matrix
//   - bool: true if m was invertible
func (m Mat4) Invert() (Mat4, bool) {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity4(), false
	}
	inv := 1 / det

	var out Mat4
	out[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * inv
	out[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * inv
	out[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * inv
	out[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * inv

	out[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * inv
	out[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * inv
	out[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * inv
	out[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * inv

	out[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * inv
	out[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * inv
	out[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * inv
	out[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * inv

	out[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * inv
	out[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * inv
	out[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * inv
	out[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * inv

	return out, true
}

// LookAt builds a view matrix placing the eye at eye, looking at center, with the given up vector.
// Degenerate inputs (eye == center, up parallel to the view direction) fall back to unit axes
// rather than producing NaNs.
//
// Parameters:
//   - eye: camera position in world space
//   - center: the point the camera looks at
//   - up: the up direction
//
// Returns:
//   - Mat4: the view matrix
func LookAt(eye, center, up Vec3) Mat4 {
	z := eye.Sub(center)
	if z.Length() == 0 {
		z = Vec3{0, 0, 1}
	}
	z = z.Normalize()

	x := up.Cross(z)
	if x.Length() == 0 {
		x = Vec3{1, 0, 0}
	}
	x = x.Normalize()
	y := z.Cross(x)

	return Mat4{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}
