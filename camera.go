package orrery

import (
	"github.com/go-gl/mathgl/mgl32"
)

type CameraComponent struct {
	Position mgl32.Vec3
	LookAt   mgl32.Vec3
	Up       mgl32.Vec3

	Fov    float32 // radians
	Aspect float32
	Near   float32
	Far    float32
}

// CameraPose is the part of the camera the view-mode controller preserves
// across galaxy/system transitions. Owned exclusively by that controller.
type CameraPose struct {
	Position mgl32.Vec3
	LookAt   mgl32.Vec3
}

func (c *CameraComponent) Pose() CameraPose {
	return CameraPose{Position: c.Position, LookAt: c.LookAt}
}

func (c *CameraComponent) ApplyPose(p CameraPose) {
	c.Position = p.Position
	c.LookAt = p.LookAt
}

func buildViewMatrix(c *CameraComponent) mgl32.Mat4 {
	up := c.Up
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	return mgl32.LookAtV(c.Position, c.LookAt, up)
}

func buildProjectionMatrix(c *CameraComponent) mgl32.Mat4 {
	return mgl32.Perspective(c.Fov, c.Aspect, c.Near, c.Far)
}

func buildCameraMatrix(c *CameraComponent) mgl32.Mat4 {
	return buildProjectionMatrix(c).Mul4(buildViewMatrix(c))
}
