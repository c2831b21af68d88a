package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	minFov   = 10
	maxFov   = 120
	maxPitch = 89 * math32.Pi / 180
)

// CameraState is a Y-up fly camera. Yaw and pitch are zero when looking
// down -Z. Fov is the vertical field of view in degrees.
type CameraState struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	Fov         float32
	Speed       float32
	Sensitivity float32
}

func NewCameraState() *CameraState {
	return &CameraState{
		Position:    mgl32.Vec3{0, 0, 0},
		Fov:         60,
		Speed:       2.5,
		Sensitivity: 0.003,
	}
}

func (c *CameraState) GetForward() mgl32.Vec3 {
	cp := math32.Cos(c.Pitch)
	return mgl32.Vec3{
		cp * math32.Sin(c.Yaw),
		math32.Sin(c.Pitch),
		-cp * math32.Cos(c.Yaw),
	}
}

func (c *CameraState) GetRight() mgl32.Vec3 {
	return mgl32.Vec3{math32.Cos(c.Yaw), 0, math32.Sin(c.Yaw)}
}

func (c *CameraState) GetUp() mgl32.Vec3 {
	return c.GetRight().Cross(c.GetForward())
}

func (c *CameraState) GetViewMatrix() mgl32.Mat4 {
	eye := c.Position
	return mgl32.LookAtV(eye, eye.Add(c.GetForward()), mgl32.Vec3{0, 1, 0})
}

// CameraToWorld maps camera space (looking down -Z) to world space.
func (c *CameraState) CameraToWorld() mgl32.Mat4 {
	return mgl32.Mat4FromCols(
		c.GetRight().Vec4(0),
		c.GetUp().Vec4(0),
		c.GetForward().Mul(-1).Vec4(0),
		c.Position.Vec4(1),
	)
}

// Move translates along the camera axes scaled by Speed*dt.
func (c *CameraState) Move(forward, right, up, dt float32) {
	step := c.Speed * dt
	c.Position = c.Position.
		Add(c.GetForward().Mul(forward * step)).
		Add(c.GetRight().Mul(right * step)).
		Add(mgl32.Vec3{0, up * step, 0})
}

// Rotate applies a cursor delta in pixels.
func (c *CameraState) Rotate(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch-dy*c.Sensitivity, -maxPitch, maxPitch)
}

// Zoom narrows the field of view for positive scroll.
func (c *CameraState) Zoom(delta float32) {
	c.Fov = mgl32.Clamp(c.Fov-delta, minFov, maxFov)
}

// ImagePlaneDistance is the distance from the eye to an image plane where
// one pixel is one unit wide, for an image height of h pixels.
func (c *CameraState) ImagePlaneDistance(h int) float32 {
	return float32(h) / (2 * math32.Tan(mgl32.DegToRad(c.Fov)/2))
}

// GenerateRays returns normalized camera-space directions through the
// center of every pixel of a w x h image, row by row from the top left.
func (c *CameraState) GenerateRays(w, h int) []mgl32.Vec3 {
	z := c.ImagePlaneDistance(h)
	topLeft := mgl32.Vec3{-float32(w)/2 + 0.5, float32(h)/2 - 0.5, -z}
	dirs := make([]mgl32.Vec3, 0, w*h)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			dirs = append(dirs, topLeft.Add(mgl32.Vec3{float32(i), -float32(j), 0}).Normalize())
		}
	}
	return dirs
}

// PrimaryRay is the world-space ray through pixel (x, y).
func (c *CameraState) PrimaryRay(x, y, w, h int) Ray {
	z := c.ImagePlaneDistance(h)
	local := mgl32.Vec3{float32(x) - float32(w)/2 + 0.5, float32(h)/2 - float32(y) - 0.5, -z}
	dir := c.CameraToWorld().Mul4x1(local.Vec4(0)).Vec3()
	return NewRay(c.Position, dir)
}
