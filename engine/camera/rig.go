package camera

import "github.com/Carmen-Shannon/vrscale/common"

// Rig is the explicit placement state of a camera: where it sits, what it looks at and which way is up.
// Demo update steps mutate a Rig value and hand it back to the camera with SetRig.
type Rig struct {
	Position common.Vec3
	Target   common.Vec3
	Up       common.Vec3
}

// DefaultRig places the camera at the origin looking down -Z with +Y up.
func DefaultRig() Rig {
	return Rig{
		Position: common.Vec3{0, 0, 0},
		Target:   common.Vec3{0, 0, -1},
		Up:       common.Vec3{0, 1, 0},
	}
}

// Forward returns the unit vector from Position towards Target.
func (r Rig) Forward() common.Vec3 {
	return r.Target.Sub(r.Position).Normalize()
}

// Translate moves both Position and Target by offset, keeping the view direction.
func (r Rig) Translate(offset common.Vec3) Rig {
	r.Position = r.Position.Add(offset)
	r.Target = r.Target.Add(offset)
	return r
}

// LookAt returns r aimed at target from its current position.
func (r Rig) LookAt(target common.Vec3) Rig {
	r.Target = target
	return r
}
