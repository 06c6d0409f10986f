package orrery

import (
	"math"
)

// Above this star count the galaxy picker switches from the linear scan
// to the spatial hash grid.
const gridPickThreshold = 4096

// Click-vs-drag discrimination: a press that travels farther than this
// many pixels before release was a camera drag, not a selection.
const clickSlopPx = 4.0

// PickingState publishes the hover result for the label overlay and holds
// the lazily rebuilt point indices.
type PickingState struct {
	// HoveredStar/HoveredPlanet are what the pointer ray currently hits,
	// nil when nothing is within the pick radius. In system mode hovering
	// the host sets HoveredStar; hovering a marker sets HoveredPlanet.
	HoveredStar   *StarRecord
	HoveredPlanet *PlanetRecord

	galaxyIndex   PointIndex
	galaxyVersion uint64

	systemIndex   PointIndex
	systemVersion uint64

	pressX, pressY float64
	pressValid     bool
}

type PickingModule struct{}

func (m PickingModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&PickingState{})
	app.UseSystem(System(pickingSystem).InStage(PostUpdate).RunAlways())
}

func pickingSystem(
	input *Input,
	picking *PickingState,
	catalog *CatalogState,
	sysView *SystemViewState,
	view *ViewState,
	handlers *SelectionHandlers,
	cfg *Config,
	cmd *Commands,
) {
	cam := activeCamera(cmd)
	if cam == nil || input.WindowWidth <= 0 {
		return
	}

	refreshIndices(picking, catalog, sysView, cfg)

	ray := ScreenPointToRay(cam, input.MouseX, input.MouseY, input.WindowWidth, input.WindowHeight)
	updateHover(picking, catalog, sysView, view, ray, cfg.PickRadius)

	if input.JustPressed[MouseButtonLeft] {
		picking.pressX = input.MouseX
		picking.pressY = input.MouseY
		picking.pressValid = true
	}

	if input.JustReleased[MouseButtonLeft] && picking.pressValid {
		picking.pressValid = false
		moved := math.Hypot(input.MouseX-picking.pressX, input.MouseY-picking.pressY)
		if moved <= clickSlopPx && !input.Pressed[KeyShift] {
			handleClick(picking, view, handlers, cmd)
		}
	}
}

func refreshIndices(picking *PickingState, catalog *CatalogState, sysView *SystemViewState, cfg *Config) {
	if catalog.Loaded() && picking.galaxyVersion != catalog.CloudVersion {
		picking.galaxyVersion = catalog.CloudVersion
		if catalog.Cloud.Count() > gridPickThreshold {
			cell := float32(math.Max(4, float64(cfg.PickRadius)))
			picking.galaxyIndex = NewStarHashGrid(catalog.Cloud, cell)
		} else {
			picking.galaxyIndex = NewLinearPointIndex(catalog.Cloud)
		}
	}

	if picking.systemVersion != sysView.Version {
		picking.systemVersion = sysView.Version
		picking.systemIndex = nil
		if sysView.MarkerCloud != nil {
			picking.systemIndex = NewLinearPointIndex(sysView.MarkerCloud)
		}
	}
}

func updateHover(picking *PickingState, catalog *CatalogState, sysView *SystemViewState, view *ViewState, ray Ray, pickRadius float32) {
	picking.HoveredStar = nil
	picking.HoveredPlanet = nil

	switch view.Mode {
	case ModeGalaxy:
		if picking.galaxyIndex == nil || !catalog.Loaded() {
			return
		}
		if idx, ok := picking.galaxyIndex.Nearest(ray, pickRadius); ok {
			row := catalog.Cloud.StarIndex[idx]
			picking.HoveredStar = &catalog.Batch.Stars[row]
		}

	case ModeSystem:
		if picking.systemIndex == nil {
			return
		}
		if idx, ok := picking.systemIndex.Nearest(ray, pickRadius); ok {
			if planet := sysView.MarkerPlanet(idx); planet != nil {
				picking.HoveredPlanet = planet
			} else if sysView.Layout != nil {
				picking.HoveredStar = sysView.Layout.Star
			}
		}
	}
}

func handleClick(picking *PickingState, view *ViewState, handlers *SelectionHandlers, cmd *Commands) {
	switch view.Mode {
	case ModeGalaxy:
		if picking.HoveredStar != nil {
			SelectStar(cmd, view, handlers, picking.HoveredStar)
		}
	case ModeSystem:
		if picking.HoveredPlanet != nil {
			SelectPlanet(view, handlers, picking.HoveredPlanet)
		}
	}
}

func activeCamera(cmd *Commands) *CameraComponent {
	var cam *CameraComponent
	MakeQuery1[CameraComponent](cmd).Map(func(eid EntityId, c *CameraComponent) bool {
		cam = c
		return false
	})
	return cam
}
