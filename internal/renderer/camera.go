// camera.go
package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

type ProjectionMode int

const (
	ProjectionPerspective ProjectionMode = iota
	ProjectionOrthographic
)

const (
	cameraFov  = 45.0
	cameraNear = 0.1
	cameraFar  = 5.0
)

// Camera is a LookAt camera moved by dolly (forward/back), truck
// (sideways) and pan (yaw about the eye).
type Camera struct {
	// HOT DATA - read every frame by the render loop
	Eye        mgl32.Vec3 // Camera position in world space
	At         mgl32.Vec3 // Point the camera looks at
	Up         mgl32.Vec3 // Up direction vector
	View       mgl32.Mat4 // LookAt(Eye, At, Up)
	Projection mgl32.Mat4 // Projection matrix

	// COLD DATA - changed from the UI or on resize
	Mode        ProjectionMode
	AspectRatio float32
}

func NewDefaultCamera() *Camera {
	c := &Camera{
		Eye:         mgl32.Vec3{0, 0.5, 2.5},
		At:          mgl32.Vec3{0, 0.5, 0},
		Up:          mgl32.Vec3{0, 1, 0},
		AspectRatio: 1,
	}
	c.ComputeViewMatrix()
	c.UpdateProjection()
	return c
}

// ProjectionMatrix returns the projection for a mode and aspect ratio.
// Perspective uses a 45° vertical fov; orthographic spans [-aspect, aspect]
// horizontally and [-1, 1] vertically. Both clip at [0.1, 5].
func ProjectionMatrix(mode ProjectionMode, aspect float32) mgl32.Mat4 {
	if mode == ProjectionOrthographic {
		return mgl32.Ortho(-aspect, aspect, -1, 1, cameraNear, cameraFar)
	}
	return mgl32.Perspective(mgl32.DegToRad(cameraFov), aspect, cameraNear, cameraFar)
}

func (c *Camera) ComputeViewMatrix() {
	c.View = mgl32.LookAtV(c.Eye, c.At, c.Up)
}

// ComputeProjectionMatrix recomputes the projection for a viewport size.
func (c *Camera) ComputeProjectionMatrix(width, height int) {
	if width > 0 && height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
	c.UpdateProjection()
}

func (c *Camera) UpdateProjection() {
	c.Projection = ProjectionMatrix(c.Mode, c.AspectRatio)
}

func (c *Camera) SetMode(mode ProjectionMode) {
	if c.Mode == mode {
		return
	}
	c.Mode = mode
	c.UpdateProjection()
}

func (c *Camera) forward() mgl32.Vec3 {
	return c.At.Sub(c.Eye).Normalize()
}

// Dolly moves eye and target along the viewing direction.
func (c *Camera) Dolly(speed float32) {
	step := c.forward().Mul(speed)
	c.Eye = c.Eye.Add(step)
	c.At = c.At.Add(step)
	c.ComputeViewMatrix()
}

// Truck moves eye and target sideways. Positive speed moves right.
func (c *Camera) Truck(speed float32) {
	left := c.Up.Cross(c.forward())
	step := left.Mul(speed)
	c.Eye = c.Eye.Sub(step)
	c.At = c.At.Sub(step)
	c.ComputeViewMatrix()
}

// Pan rotates the target about the up axis through the eye. Positive
// speed turns right.
func (c *Camera) Pan(speed float32) {
	transform := mgl32.Translate3D(c.Eye.X(), c.Eye.Y(), c.Eye.Z()).
		Mul4(mgl32.HomogRotate3D(-speed, c.Up)).
		Mul4(mgl32.Translate3D(-c.Eye.X(), -c.Eye.Y(), -c.Eye.Z()))
	c.At = transform.Mul4x1(c.At.Vec4(1)).Vec3()
	c.ComputeViewMatrix()
}

// Update advances the camera by dt seconds at the given speeds.
func (c *Camera) Update(dolly, truck, pan, dt float32) {
	c.Dolly(dolly * dt)
	c.Truck(truck * dt)
	c.Pan(pan * dt)
}
