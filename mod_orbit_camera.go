package orrery

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCameraComponent parameterizes the camera as a point on a sphere
// around Target. The drag/zoom/pan system mutates these and rewrites the
// CameraComponent every frame, so the pose stays derivable.
type OrbitCameraComponent struct {
	Target mgl32.Vec3
	Radius float32
	Yaw    float32 // radians around +Y
	Pitch  float32 // radians above the horizon

	MinRadius float32
	MaxRadius float32

	// HomeRadius is what KeyR resets to.
	HomeRadius float32
}

const (
	orbitRotateSpeed = 0.005
	orbitPanSpeed    = 0.0025
	orbitZoomFactor  = 0.92
	orbitMaxPitch    = 1.55 // just shy of the pole; keeps LookAtV stable
)

func (o *OrbitCameraComponent) position() mgl32.Vec3 {
	cp := float32(math.Cos(float64(o.Pitch)))
	return o.Target.Add(mgl32.Vec3{
		cp * float32(math.Sin(float64(o.Yaw))),
		float32(math.Sin(float64(o.Pitch))),
		cp * float32(math.Cos(float64(o.Yaw))),
	}.Mul(o.Radius))
}

// syncToPose rederives the spherical parameters from an externally applied
// pose, so a restored camera does not snap back on the next drag.
func (o *OrbitCameraComponent) syncToPose(pose CameraPose) {
	o.Target = pose.LookAt
	offset := pose.Position.Sub(pose.LookAt)
	o.Radius = offset.Len()
	if o.Radius < 1e-4 {
		o.Radius = o.HomeRadius
		return
	}
	o.Pitch = float32(math.Asin(float64(offset.Y() / o.Radius)))
	o.Yaw = float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
}

type OrbitCameraModule struct{}

func (m OrbitCameraModule) Install(app *App, cmd *Commands) {
	cfg := resource[Config](app)
	ws := resource[WindowState](app)

	orbit := OrbitCameraComponent{
		Target:     mgl32.Vec3{0, 0, 0},
		Radius:     cfg.GalaxyCamRadius,
		Yaw:        0,
		Pitch:      0.45,
		MinRadius:  2,
		MaxRadius:  4 * MaxStarDistance,
		HomeRadius: cfg.GalaxyCamRadius,
	}
	cam := CameraComponent{
		Position: orbit.position(),
		LookAt:   orbit.Target,
		Up:       mgl32.Vec3{0, 1, 0},
		Fov:      mgl32.DegToRad(cfg.CameraFovDeg),
		Aspect:   float32(ws.WindowWidth) / float32(ws.WindowHeight),
		Near:     0.1,
		Far:      4000,
	}
	cmd.AddEntity(cam, orbit)

	app.UseSystem(System(orbitCameraSystem).InStage(Update).RunAlways())
}

func orbitCameraSystem(input *Input, cmd *Commands) {
	MakeQuery2[CameraComponent, OrbitCameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent, orbit *OrbitCameraComponent) bool {
		if input.JustPressed[KeyR] {
			orbit.Target = mgl32.Vec3{0, 0, 0}
			orbit.Radius = orbit.HomeRadius
			orbit.Yaw = 0
			orbit.Pitch = 0.45
		}

		panning := input.Pressed[MouseButtonMiddle] ||
			(input.Pressed[MouseButtonLeft] && input.Pressed[KeyShift])

		if panning {
			// Pan along the camera's right/up axes, scaled with distance
			// so the scene moves with the cursor at any zoom.
			forward := cam.LookAt.Sub(cam.Position).Normalize()
			right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
			up := right.Cross(forward)
			scale := orbitPanSpeed * orbit.Radius
			orbit.Target = orbit.Target.
				Sub(right.Mul(float32(input.MouseDeltaX) * scale)).
				Add(up.Mul(float32(input.MouseDeltaY) * scale))
		} else if input.Pressed[MouseButtonLeft] {
			orbit.Yaw -= float32(input.MouseDeltaX) * orbitRotateSpeed
			orbit.Pitch += float32(input.MouseDeltaY) * orbitRotateSpeed
			orbit.Pitch = clampF32(orbit.Pitch, -orbitMaxPitch, orbitMaxPitch)
		}

		if input.ScrollY != 0 {
			orbit.Radius *= float32(math.Pow(orbitZoomFactor, input.ScrollY))
			orbit.Radius = clampF32(orbit.Radius, orbit.MinRadius, orbit.MaxRadius)
		}

		cam.Position = orbit.position()
		cam.LookAt = orbit.Target
		if input.WindowHeight > 0 {
			cam.Aspect = float32(input.WindowWidth) / float32(input.WindowHeight)
		}
		return true
	})
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
