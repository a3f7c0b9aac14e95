package camera

import (
	"sync"

	"github.com/Carmen-Shannon/vrscale/common"
	"github.com/chewxy/math32"
)

// Projection selects how a camera maps view space to clip space.
type Projection int

const (
	// ProjectionPerspective foreshortens distant objects using a vertical field of view.
	ProjectionPerspective Projection = iota

	// ProjectionOrthographic preserves sizes regardless of distance.
	ProjectionOrthographic
)

type cameraImpl struct {
	mu *sync.Mutex

	projection Projection
	rig        Rig

	fov       float32 // radians, perspective only
	halfWidth float32 // world units, orthographic only
	aspect    float32
	near      float32
	far       float32

	viewMatrix           common.Mat4
	projectionMatrix     common.Mat4
	viewProjectionMatrix common.Mat4
}

// Camera defines the interface for the camera system.
// The camera holds projection settings and a Rig, and keeps its view and
// projection matrices in sync with them.
type Camera interface {
	// Projection returns the projection kind.
	//
	// Returns:
	//   - Projection: perspective or orthographic
	Projection() Projection

	// Rig returns the camera's placement.
	//
	// Returns:
	//   - Rig: position, target and up vector
	Rig() Rig

	// SetRig replaces the camera's placement and recomputes the view matrix.
	//
	// Parameters:
	//   - r: the new placement
	SetRig(r Rig)

	// Position returns the camera position in world space.
	//
	// Returns:
	//   - common.Vec3: the position
	Position() common.Vec3

	// SetPosition moves the camera without changing its target.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p common.Vec3)

	// LookAt aims the camera at a world-space point.
	//
	// Parameters:
	//   - target: the point to look at
	LookAt(target common.Vec3)

	// Fov returns the vertical field of view in radians. Zero for orthographic cameras.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// SetFov sets the vertical field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect sets the aspect ratio. Non-positive values are ignored.
	// Call UpdateProjectionMatrix afterwards, or rely on the immediate recompute.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Bounds returns the orthographic view volume extents derived from the half width and aspect.
	// For perspective cameras the extents of the near plane are returned.
	//
	// Returns:
	//   - left, right, top, bottom: the view volume extents
	Bounds() (left, right, top, bottom float32)

	// UpdateProjectionMatrix recomputes the projection matrix from the current settings.
	UpdateProjectionMatrix()

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - common.Mat4: the view matrix
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the current projection matrix.
	//
	// Returns:
	//   - common.Mat4: the projection matrix
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns Projection * View.
	//
	// Returns:
	//   - common.Mat4: the combined matrix
	ViewProjectionMatrix() common.Mat4

	// Frustum returns the world-space view frustum for culling.
	//
	// Returns:
	//   - common.Frustum: the frustum planes
	Frustum() common.Frustum

	// Project maps a world-space point to normalized device coordinates.
	// x and y are in [-1, 1] inside the view, z is depth in [0, 1].
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - common.Vec3: the NDC position
	//   - bool: false when the point is behind a perspective camera
	Project(p common.Vec3) (common.Vec3, bool)

	// ViewDepth returns the distance of p in front of the camera along its view axis.
	//
	// Parameters:
	//   - p: the world-space point
	//
	// Returns:
	//   - float32: positive for points in front of the camera
	ViewDepth(p common.Vec3) float32

	// Clone returns an independent copy of the camera.
	//
	// Returns:
	//   - Camera: the copy
	Clone() Camera
}

var _ Camera = &cameraImpl{}

// NewCamera creates a perspective Camera with a 45° field of view at the origin looking down -Z.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		projection: ProjectionPerspective,
		rig:        DefaultRig(),
		fov:        common.DegToRad(45),
		halfWidth:  10,
		aspect:     1,
		near:       0.1,
		far:        100,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

// NewPerspective creates a perspective camera.
//
// Parameters:
//   - fov: vertical field of view in radians
//   - aspect: width / height
//   - near, far: clipping plane distances
//   - options: further options such as WithRig
//
// Returns:
//   - Camera: the camera
func NewPerspective(fov, aspect, near, far float32, options ...CameraBuilderOption) Camera {
	base := []CameraBuilderOption{WithFov(fov), WithAspect(aspect), WithNear(near), WithFar(far)}
	return NewCamera(append(base, options...)...)
}

// NewOrthographic creates an orthographic camera spanning [-halfWidth, halfWidth] horizontally;
// the vertical extent follows from the aspect ratio.
//
// Parameters:
//   - halfWidth: half of the horizontal view volume in world units
//   - aspect: width / height
//   - near, far: clipping plane distances
//   - options: further options such as WithRig
//
// Returns:
//   - Camera: the camera
func NewOrthographic(halfWidth, aspect, near, far float32, options ...CameraBuilderOption) Camera {
	base := []CameraBuilderOption{
		WithProjection(ProjectionOrthographic),
		WithHalfWidth(halfWidth),
		WithAspect(aspect),
		WithNear(near),
		WithFar(far),
	}
	return NewCamera(append(base, options...)...)
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Rig() Rig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rig
}

func (c *cameraImpl) SetRig(r Rig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rig = r
	c.updateMatrices()
}

func (c *cameraImpl) Position() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rig.Position
}

func (c *cameraImpl) SetPosition(p common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rig.Position = p
	c.updateMatrices()
}

func (c *cameraImpl) LookAt(target common.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rig.Target = target
	c.updateMatrices()
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.projection != ProjectionPerspective {
		return 0
	}
	return c.fov
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 || math32.IsNaN(aspect) || math32.IsInf(aspect, 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Bounds() (left, right, top, bottom float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounds()
}

// bounds computes the view volume extents. Caller holds mu.
func (c *cameraImpl) bounds() (left, right, top, bottom float32) {
	if c.projection == ProjectionOrthographic {
		hh := c.halfWidth / c.aspect
		return -c.halfWidth, c.halfWidth, hh, -hh
	}
	hh := c.near * math32.Tan(c.fov/2)
	hw := hh * c.aspect
	return -hw, hw, hh, -hh
}

func (c *cameraImpl) UpdateProjectionMatrix() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustum(c.viewProjectionMatrix)
}

func (c *cameraImpl) Project(p common.Vec3) (common.Vec3, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clip, w := c.viewProjectionMatrix.TransformPoint(p)
	if w <= 1e-6 {
		return common.Vec3{}, false
	}
	return clip.Scale(1 / w), true
}

func (c *cameraImpl) ViewDepth(p common.Vec3) float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, _ := c.viewMatrix.TransformPoint(p)
	return -v[2]
}

func (c *cameraImpl) Clone() Camera {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *c
	cp.mu = &sync.Mutex{}
	return &cp
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = common.LookAt(c.rig.Position, c.rig.Target, c.rig.Up)
	switch c.projection {
	case ProjectionOrthographic:
		l, r, t, b := c.bounds()
		c.projectionMatrix = common.Orthographic(l, r, t, b, c.near, c.far)
	default:
		c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
	}
	c.viewProjectionMatrix = c.projectionMatrix.Mul(c.viewMatrix)
}
