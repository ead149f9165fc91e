package renderer

import "github.com/go-gl/mathgl/mgl32"

// Camera is the per-frame camera state handed to the lighting pass.
type Camera struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	Position   mgl32.Vec3
	Direction  mgl32.Vec3 // unit view direction
}

// NewCamera builds a perspective camera at eye looking at target.
// fovY is in degrees.
func NewCamera(eye, target, up mgl32.Vec3, fovY, aspect, near, far float32) Camera {
	return Camera{
		View:       mgl32.LookAtV(eye, target, up),
		Projection: mgl32.Perspective(mgl32.DegToRad(fovY), aspect, near, far),
		Position:   eye,
		Direction:  target.Sub(eye).Normalize(),
	}
}
