package common

import (
	"github.com/chewxy/math32"
)

// Vec3 is a 3-component point or direction in world space.
type Vec3 [3]float32

// Vec constructs a Vec3, filling omitted trailing components with the previous component's value.
// With no arguments the zero vector is returned. Arguments beyond the third are ignored.
//
//	Vec()        == (0, 0, 0)
//	Vec(5)       == (5, 5, 5)
//	Vec(1, 2)    == (1, 2, 2)
//	Vec(1, 2, 3) == (1, 2, 3)
//
// Parameters:
//   - components: up to three component values (x, y, z)
//
// Returns:
//   - Vec3: the constructed vector
func Vec(components ...float32) Vec3 {
	var v Vec3
	var last float32
	for i := range v {
		if i < len(components) {
			last = components[i]
		}
		v[i] = last
	}
	return v
}

// X returns the x component.
func (v Vec3) X() float32 { return v[0] }

// Y returns the y component.
func (v Vec3) Y() float32 { return v[1] }

// Z returns the z component.
func (v Vec3) Z() float32 { return v[2] }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns v multiplied by the scalar s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// SetLength returns v rescaled to the given length, keeping its direction.
// The zero vector is returned unchanged.
//
// Parameters:
//   - length: the desired length
//
// Returns:
//   - Vec3: the rescaled vector
func (v Vec3) SetLength(length float32) Vec3 {
	return v.Normalize().Scale(length)
}

// Lerp linearly interpolates from v towards o by alpha. alpha = 0 yields v, alpha = 1 yields o.
//
// Parameters:
//   - o: the target vector
//   - alpha: interpolation factor
//
// Returns:
//   - Vec3: the interpolated vector
func (v Vec3) Lerp(o Vec3, alpha float32) Vec3 {
	return Vec3{
		v[0] + (o[0]-v[0])*alpha,
		v[1] + (o[1]-v[1])*alpha,
		v[2] + (o[2]-v[2])*alpha,
	}
}

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]}
}

// RotateY rotates v around the world Y axis by angle radians (right-handed).
//
// Parameters:
//   - angle: rotation angle in radians
//
// Returns:
//   - Vec3: the rotated vector
func (v Vec3) RotateY(angle float32) Vec3 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	return Vec3{
		v[0]*c + v[2]*s,
		v[1],
		-v[0]*s + v[2]*c,
	}
}

// LineGeometry returns segments+1 points evenly interpolated from start to end, inclusive of both endpoints.
// Point i equals start + (i/segments)(end-start). A non-positive segment count yields the single point start.
//
// Parameters:
//   - start: the first endpoint
//   - end: the last endpoint
//   - segments: the number of segments between the endpoints
//
// Returns:
//   - []Vec3: the interpolated points
func LineGeometry(start, end Vec3, segments int) []Vec3 {
	if segments <= 0 {
		return []Vec3{start}
	}
	points := make([]Vec3, segments+1)
	for i := range points {
		alpha := float32(i) / float32(segments)
		points[i] = start.Lerp(end, alpha)
	}
	points[segments] = end
	return points
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}
