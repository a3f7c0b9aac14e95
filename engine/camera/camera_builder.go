package camera

import "github.com/Carmen-Shannon/vrscale/common"

// CameraBuilderOption is a function that configures a camera during construction.
// Matrices are computed once after all options have been applied.
type CameraBuilderOption func(*cameraImpl)

// WithProjection sets the projection kind.
//
// Parameters:
//   - p: perspective or orthographic
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithProjection(p Projection) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = p
	}
}

// WithRig sets the camera's placement.
//
// Parameters:
//   - r: position, target and up vector
//
// Returns:
//   - CameraBuilderOption: a function that sets the rig
func WithRig(r Rig) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.rig = r
	}
}

// WithPosition sets the camera position, keeping the default target.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - CameraBuilderOption: a function that sets the position
func WithPosition(p common.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.rig.Position = p
	}
}

// WithTarget sets the point the camera looks at.
//
// Parameters:
//   - t: the target
//
// Returns:
//   - CameraBuilderOption: a function that sets the target
func WithTarget(t common.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.rig.Target = t
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - up: the up direction
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(up common.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.rig.Up = up
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithHalfWidth sets the horizontal half extent of an orthographic camera in world units.
//
// Parameters:
//   - halfWidth: half of the visible width
//
// Returns:
//   - CameraBuilderOption: a function that sets the half width
func WithHalfWidth(halfWidth float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if halfWidth > 0 {
			c.halfWidth = halfWidth
		}
	}
}

// WithAspect sets the camera's aspect ratio (width / height). Non-positive values are ignored.
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}
