package orrery

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewTestApp(t *testing.T) (*App, *Commands) {
	t.Helper()
	app := NewAppBuilder().
		UseStates(StateGalaxy, StateQuit).
		Build()
	cmd := app.Commands()

	orbit := OrbitCameraComponent{
		Target:     mgl32.Vec3{0, 0, 0},
		Radius:     260,
		Pitch:      0.45,
		MinRadius:  2,
		MaxRadius:  800,
		HomeRadius: 260,
	}
	cam := CameraComponent{
		Position: orbit.position(),
		LookAt:   orbit.Target,
		Up:       mgl32.Vec3{0, 1, 0},
		Fov:      mgl32.DegToRad(60),
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      4000,
	}
	cmd.AddEntity(cam, orbit)
	app.FlushCommands()
	return app, cmd
}

func cameraOf(cmd *Commands) *CameraComponent {
	var cam *CameraComponent
	MakeQuery1[CameraComponent](cmd).Map(func(eid EntityId, c *CameraComponent) bool {
		cam = c
		return false
	})
	return cam
}

func TestSelectStarEntersSystemAndCapturesPose(t *testing.T) {
	_, cmd := viewTestApp(t)
	view := &ViewState{Mode: ModeGalaxy}
	handlers := &SelectionHandlers{}
	star := &StarRecord{ID: "s1", Name: "Vega"}

	before := cameraOf(cmd).Pose()
	SelectStar(cmd, view, handlers, star)

	assert.Equal(t, ModeSystem, view.Mode)
	assert.Equal(t, star, view.SelectedStar)
	require.NotNil(t, view.SavedPose)
	assert.Equal(t, before, *view.SavedPose)
	// Camera moved to the system vantage.
	assert.NotEqual(t, before, cameraOf(cmd).Pose())
}

func TestReturnToGalaxyRestoresExactPose(t *testing.T) {
	_, cmd := viewTestApp(t)
	view := &ViewState{Mode: ModeGalaxy}
	handlers := &SelectionHandlers{}

	before := cameraOf(cmd).Pose()
	SelectStar(cmd, view, handlers, &StarRecord{ID: "s1"})
	ReturnToGalaxy(cmd, view, handlers)

	assert.Equal(t, ModeGalaxy, view.Mode)
	assert.Nil(t, view.SelectedStar)
	assert.Nil(t, view.SelectedPlanet)
	assert.Nil(t, view.SavedPose)
	// Bit-exact restore, not approximate.
	assert.Equal(t, before, cameraOf(cmd).Pose())
}

func TestSelectStarIdempotentReselection(t *testing.T) {
	_, cmd := viewTestApp(t)
	view := &ViewState{Mode: ModeGalaxy}
	selections := 0
	handlers := &SelectionHandlers{
		OnStarSelected: func(*StarRecord) { selections++ },
	}
	star := &StarRecord{ID: "s1"}

	SelectStar(cmd, view, handlers, star)
	saved := view.SavedPose
	require.NotNil(t, saved)

	// Re-selecting the same star inside the system changes nothing.
	SelectStar(cmd, view, handlers, star)
	assert.Equal(t, 1, selections)
	assert.Same(t, saved, view.SavedPose)
	assert.Equal(t, ModeSystem, view.Mode)
}

func TestSelectStarSwitchesSystemsWithoutRecapture(t *testing.T) {
	_, cmd := viewTestApp(t)
	view := &ViewState{Mode: ModeGalaxy}
	handlers := &SelectionHandlers{}

	galaxyPose := cameraOf(cmd).Pose()
	SelectStar(cmd, view, handlers, &StarRecord{ID: "s1"})
	SelectStar(cmd, view, handlers, &StarRecord{ID: "s2"})

	assert.Equal(t, "s2", view.SelectedStar.ID)
	// The saved pose is still the galaxy view, not the first system's.
	require.NotNil(t, view.SavedPose)
	assert.Equal(t, galaxyPose, *view.SavedPose)

	ReturnToGalaxy(cmd, view, handlers)
	assert.Equal(t, galaxyPose, cameraOf(cmd).Pose())
}

func TestSelectPlanetOnlyInSystemMode(t *testing.T) {
	view := &ViewState{Mode: ModeGalaxy}
	handlers := &SelectionHandlers{}
	planet := &PlanetRecord{Name: "b"}

	SelectPlanet(view, handlers, planet)
	assert.Nil(t, view.SelectedPlanet)

	view.Mode = ModeSystem
	SelectPlanet(view, handlers, planet)
	assert.Equal(t, planet, view.SelectedPlanet)
}

func TestSelectPlanetIdempotent(t *testing.T) {
	view := &ViewState{Mode: ModeSystem}
	selections := 0
	handlers := &SelectionHandlers{
		OnPlanetSelected: func(*PlanetRecord) { selections++ },
	}
	planet := &PlanetRecord{Name: "b"}

	SelectPlanet(view, handlers, planet)
	SelectPlanet(view, handlers, planet)
	assert.Equal(t, 1, selections)
}

func TestSelectPlanetDistinguishesSameNamedRecords(t *testing.T) {
	view := &ViewState{Mode: ModeSystem}
	selections := 0
	handlers := &SelectionHandlers{
		OnPlanetSelected: func(*PlanetRecord) { selections++ },
	}

	// Two distinct records with identical (here empty) names are
	// separate selections.
	first := &PlanetRecord{Name: "", RadiusEarth: ptr(1.0)}
	second := &PlanetRecord{Name: "", RadiusEarth: ptr(2.0)}

	SelectPlanet(view, handlers, first)
	SelectPlanet(view, handlers, second)
	assert.Equal(t, 2, selections)
	assert.Same(t, second, view.SelectedPlanet)
}

func TestSelectStarClearsPlanetSelection(t *testing.T) {
	_, cmd := viewTestApp(t)
	view := &ViewState{Mode: ModeGalaxy}
	handlers := &SelectionHandlers{}

	SelectStar(cmd, view, handlers, &StarRecord{ID: "s1"})
	SelectPlanet(view, handlers, &PlanetRecord{Name: "b"})
	require.NotNil(t, view.SelectedPlanet)

	SelectStar(cmd, view, handlers, &StarRecord{ID: "s2"})
	assert.Nil(t, view.SelectedPlanet)
}

func TestReturnToGalaxyWithoutSavedPoseUsesDefault(t *testing.T) {
	_, cmd := viewTestApp(t)
	view := &ViewState{Mode: ModeSystem} // entered without a capture
	handlers := &SelectionHandlers{}

	ReturnToGalaxy(cmd, view, handlers)
	assert.Equal(t, ModeGalaxy, view.Mode)
	assert.Equal(t, defaultGalaxyPose(), cameraOf(cmd).Pose())
}

func TestReturnToGalaxyNoopInGalaxy(t *testing.T) {
	_, cmd := viewTestApp(t)
	view := &ViewState{Mode: ModeGalaxy}
	returns := 0
	handlers := &SelectionHandlers{OnReturnToGalaxy: func() { returns++ }}

	ReturnToGalaxy(cmd, view, handlers)
	assert.Equal(t, 0, returns)
}

func TestSelectStarNilIsNoop(t *testing.T) {
	_, cmd := viewTestApp(t)
	view := &ViewState{Mode: ModeGalaxy}
	SelectStar(cmd, view, &SelectionHandlers{}, nil)
	assert.Equal(t, ModeGalaxy, view.Mode)
	assert.Nil(t, view.SelectedStar)
}

func TestOrbitSyncToPoseRoundTrip(t *testing.T) {
	orbit := &OrbitCameraComponent{HomeRadius: 260}
	pose := CameraPose{
		Position: mgl32.Vec3{100, 50, 100},
		LookAt:   mgl32.Vec3{10, 0, -5},
	}
	orbit.syncToPose(pose)

	// Reconstructed spherical parameters reproduce the position.
	got := orbit.position()
	assert.InDelta(t, float64(pose.Position.X()), float64(got.X()), 1e-2)
	assert.InDelta(t, float64(pose.Position.Y()), float64(got.Y()), 1e-2)
	assert.InDelta(t, float64(pose.Position.Z()), float64(got.Z()), 1e-2)
	assert.Equal(t, pose.LookAt, orbit.Target)
}
