package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the view a particle renderer needs to orient billboards while
// baking. UI canvases in screen space still provide one.
type Camera struct {
	Name      string
	Transform *Transform
}

func NewCamera(name string) *Camera {
	tr := NewTransform()
	tr.Position = mgl32.Vec3{0, 0, -10}
	return &Camera{Name: name, Transform: tr}
}

// Y-up, looking down +Z by default.
func (c *Camera) GetForward() mgl32.Vec3 {
	return c.Transform.WorldRotation().Rotate(mgl32.Vec3{0, 0, 1}).Normalize()
}

func (c *Camera) GetRight() mgl32.Vec3 {
	return c.Transform.WorldRotation().Rotate(mgl32.Vec3{1, 0, 0}).Normalize()
}

func (c *Camera) GetUp() mgl32.Vec3 {
	return c.Transform.WorldRotation().Rotate(mgl32.Vec3{0, 1, 0}).Normalize()
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	eye := c.Transform.WorldPosition()
	return mgl32.LookAtV(eye, eye.Add(c.GetForward()), c.GetUp())
}
