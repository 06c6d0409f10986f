package orrery

import (
	"github.com/go-gl/mathgl/mgl32"
)

// App states. StateQuit is the terminal state of the frame loop.
const (
	StateGalaxy State = iota
	StateSystem
	StateQuit
)

type ViewMode int

const (
	ModeGalaxy ViewMode = iota
	ModeSystem
)

// ViewState is the single shared view of "what is the user looking at".
// It has exactly one writer: the transition functions below. Everything
// else reads. Mode, selection, and the saved camera pose always change
// together; there is no partially-updated intermediate.
type ViewState struct {
	Mode           ViewMode
	SelectedStar   *StarRecord
	SelectedPlanet *PlanetRecord

	// SavedPose holds the galaxy camera captured on the way into a
	// system, restored on the way back. Nil while in galaxy mode.
	SavedPose *CameraPose
}

// SelectionHandlers is the outward event surface. The core calls these;
// it never polls UI state. Nil members are skipped.
type SelectionHandlers struct {
	OnStarSelected   func(star *StarRecord)
	OnPlanetSelected func(planet *PlanetRecord)
	OnReturnToGalaxy func()
}

type ViewModeModule struct {
	Handlers SelectionHandlers
}

func (m ViewModeModule) Install(app *App, cmd *Commands) {
	handlers := m.Handlers
	cmd.AddResources(&ViewState{Mode: ModeGalaxy})
	cmd.AddResources(&handlers)

	app.UseSystem(System(viewModeInputSystem).InStage(Update).RunAlways())
}

// viewModeInputSystem handles the keyboard side of transitions: escape
// returns from a system, or quits from the galaxy.
func viewModeInputSystem(input *Input, view *ViewState, handlers *SelectionHandlers, cmd *Commands) {
	if input.JustPressed[KeyEscape] || input.JustPressed[KeyG] {
		switch view.Mode {
		case ModeSystem:
			ReturnToGalaxy(cmd, view, handlers)
		case ModeGalaxy:
			if input.JustPressed[KeyEscape] {
				cmd.ChangeState(StateQuit)
				cmd.Quit()
			}
		}
	}
}

// SelectStar performs the Galaxy→System transition, or the in-System
// reselection. Selecting the star that is already selected is a no-op, so
// rapid double-clicks cannot double-transition. The galaxy camera pose is
// captured exactly once, only when actually leaving galaxy mode, never
// while already in a system (that would overwrite the original view).
func SelectStar(cmd *Commands, view *ViewState, handlers *SelectionHandlers, star *StarRecord) {
	if star == nil {
		return
	}

	if view.Mode == ModeSystem {
		if view.SelectedStar != nil && view.SelectedStar.ID == star.ID {
			return
		}
		// Stay in System: swap selection, leave the saved pose alone.
		view.SelectedStar = star
		view.SelectedPlanet = nil
		fire(handlers.OnStarSelected, star)
		return
	}

	pose := captureCameraPose(cmd)
	view.SavedPose = pose
	view.SelectedStar = star
	view.SelectedPlanet = nil
	view.Mode = ModeSystem

	applyCameraPose(cmd, defaultSystemPose())
	cmd.ChangeState(StateSystem)
	fire(handlers.OnStarSelected, star)
}

// SelectPlanet records a planet selection within the current system.
// Idempotence is keyed on record identity, not name: catalogs can carry
// duplicate or empty planet names within one system.
func SelectPlanet(view *ViewState, handlers *SelectionHandlers, planet *PlanetRecord) {
	if planet == nil || view.Mode != ModeSystem {
		return
	}
	if view.SelectedPlanet == planet {
		return
	}
	view.SelectedPlanet = planet
	fire(handlers.OnPlanetSelected, planet)
}

// ReturnToGalaxy restores the captured pose (or the default galaxy pose if
// none was captured) and clears both selections.
func ReturnToGalaxy(cmd *Commands, view *ViewState, handlers *SelectionHandlers) {
	if view.Mode != ModeSystem {
		return
	}

	pose := defaultGalaxyPose()
	if view.SavedPose != nil {
		pose = *view.SavedPose
	}

	view.Mode = ModeGalaxy
	view.SelectedStar = nil
	view.SelectedPlanet = nil
	view.SavedPose = nil

	applyCameraPose(cmd, pose)
	cmd.ChangeState(StateGalaxy)
	if handlers.OnReturnToGalaxy != nil {
		handlers.OnReturnToGalaxy()
	}
}

func fire[T any](h func(*T), v *T) {
	if h != nil {
		h(v)
	}
}

func captureCameraPose(cmd *Commands) *CameraPose {
	var pose *CameraPose
	MakeQuery1[CameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent) bool {
		p := cam.Pose()
		pose = &p
		return false
	})
	return pose
}

func applyCameraPose(cmd *Commands, pose CameraPose) {
	MakeQuery2[CameraComponent, OrbitCameraComponent](cmd).Map(func(eid EntityId, cam *CameraComponent, orbit *OrbitCameraComponent) bool {
		cam.ApplyPose(pose)
		orbit.syncToPose(pose)
		return false
	})
}

func defaultGalaxyPose() CameraPose {
	return CameraPose{
		Position: mgl32.Vec3{0, 120, 260},
		LookAt:   mgl32.Vec3{0, 0, 0},
	}
}

func defaultSystemPose() CameraPose {
	return CameraPose{
		Position: mgl32.Vec3{0, 32, 64},
		LookAt:   mgl32.Vec3{0, 0, 0},
	}
}
