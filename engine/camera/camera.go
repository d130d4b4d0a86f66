package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	name string

	fov    float32
	aspect float32
	near   float32
	far    float32

	matrix               mgl32.Mat4
	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4
	frustum              common.Frustum
}

// Camera defines the interface for a perspective camera.
// The camera's world transform is held as a matrix; view, projection and view-projection are derived
// from it and recomputed by UpdateViewProjectionMatrix.
type Camera interface {
	// Name returns the camera name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

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

	// SetFov sets the vertical field of view in degrees and recomputes the projection.
	//
	// Parameters:
	//   - fov: field of view in degrees
	SetFov(fov float32)

	// SetAspect sets the aspect ratio and recomputes the projection.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance and recomputes the projection.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar sets the far clipping plane distance and recomputes the projection.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// Matrix returns the camera's world transform.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	Matrix() mgl32.Mat4

	// SetMatrix replaces the camera's world transform. The view-projection is not recomputed
	// until UpdateViewProjectionMatrix is called.
	//
	// Parameters:
	//   - m: the world matrix
	SetMatrix(m mgl32.Mat4)

	// Position returns the world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition moves the camera, keeping its orientation.
	//
	// Parameters:
	//   - p: the world-space position
	SetPosition(p mgl32.Vec3)

	// LookAt orients the camera so that it looks at target with the given up vector.
	//
	// Parameters:
	//   - target: the world-space point to look at
	//   - up: the up vector
	LookAt(target, up mgl32.Vec3)

	// Direction returns the normalized world-space viewing direction (the camera's -Z axis).
	//
	// Returns:
	//   - mgl32.Vec3: the viewing direction
	Direction() mgl32.Vec3

	// Up returns the normalized world-space up vector (the camera's +Y axis).
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// ViewMatrix returns the view matrix computed by the last UpdateViewProjectionMatrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns the combined projection * view matrix computed by the last UpdateViewProjectionMatrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// UpdateViewProjectionMatrix recomputes the view, view-projection and frustum from the current world transform.
	UpdateViewProjectionMatrix()

	// Frustum returns the frustum extracted from the current view-projection matrix.
	//
	// Returns:
	//   - common.Frustum: the view frustum
	Frustum() common.Frustum

	// IsVisible reports whether a world-space bounding sphere intersects the camera frustum.
	//
	// Parameters:
	//   - center: sphere center in world space
	//   - radius: sphere radius
	//
	// Returns:
	//   - bool: true if at least partially visible
	IsVisible(center mgl32.Vec3, radius float32) bool
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new perspective Camera at the origin looking down -Z.
// Defaults: 50 degree field of view, aspect 1, near 0.01, far 1000.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		name:   common.GenerateID("PerspectiveCamera"),
		fov:    50,
		aspect: 1,
		near:   0.01,
		far:    1000,
		matrix: mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateProjection()
	c.updateViewProjection()
	return c
}

func (c *cameraImpl) Name() string {
	return c.name
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
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

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateProjection()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateProjection()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.updateProjection()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.far = far
	c.updateProjection()
}

func (c *cameraImpl) Matrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matrix
}

func (c *cameraImpl) SetMatrix(m mgl32.Mat4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matrix = m
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matrix.Col(3).Vec3()
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matrix.SetCol(3, p.Vec4(1))
}

func (c *cameraImpl) LookAt(target, up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	eye := c.matrix.Col(3).Vec3()
	c.matrix = mgl32.LookAtV(eye, target, up).Inv()
}

func (c *cameraImpl) Direction() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matrix.Col(2).Vec3().Mul(-1).Normalize()
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matrix.Col(1).Vec3().Normalize()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) UpdateViewProjectionMatrix() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateViewProjection()
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frustum
}

func (c *cameraImpl) IsVisible(center mgl32.Vec3, radius float32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frustum.IntersectsSphere(center, radius)
}

// updateProjection recalculates the projection matrix from fov, aspect, near and far.
// Caller must hold the mutex.
func (c *cameraImpl) updateProjection() {
	c.projectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
}

// updateViewProjection recalculates the view, view-projection and frustum from the world matrix.
// Caller must hold the mutex.
func (c *cameraImpl) updateViewProjection() {
	c.viewMatrix = c.matrix.Inv()
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
	c.frustum = common.ExtractFrustumFromMatrix(c.viewProjectionMatrix)
}
