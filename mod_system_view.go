package orrery

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SystemViewState carries the composed layout of the selected system plus
// the flattened geometry the render and picking systems consume. Version
// bumps whenever the geometry is rebuilt, so GPU buffers refresh lazily.
type SystemViewState struct {
	Layout  *SystemLayout
	Version uint64

	// MarkerCloud reuses the star attribute format: index 0 is the host
	// star, index i>=1 is Layout.Markers[i-1]. Picking resolves through
	// this mapping.
	MarkerCloud *StarPointCloud

	// LineVertices is interleaved pos3+color3 line-list geometry: orbit
	// rings, the habitable band, and the empty-system indicator.
	LineVertices []float32

	composedStarID string
}

// MarkerPlanet maps a picked marker-cloud index back to its planet.
// Index 0 is the host, not a planet.
func (s *SystemViewState) MarkerPlanet(idx int) *PlanetRecord {
	if s.Layout == nil || idx < 1 || idx > len(s.Layout.Markers) {
		return nil
	}
	return &s.Layout.Markers[idx-1].Planet
}

var (
	orbitRingColor     = mgl32.Vec3{0.30, 0.34, 0.44}
	habitableBandColor = mgl32.Vec3{0.18, 0.55, 0.28}
	emptyRingColor     = mgl32.Vec3{0.40, 0.40, 0.40}
)

type SystemViewModule struct{}

func (m SystemViewModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&SystemViewState{})

	app.UseSystem(System(systemViewComposeSystem).InStage(Update).InState(OnEnter(StateSystem)))
	app.UseSystem(System(systemViewRefreshSystem).InStage(Update).InState(OnExecute(StateSystem)))
	app.UseSystem(System(systemViewTeardownSystem).InStage(Update).InState(OnExit(StateSystem)))
}

func systemViewComposeSystem(view *ViewState, catalog *CatalogState, cfg *Config, state *SystemViewState, log *Log) {
	composeSystemView(view, catalog, cfg, state, log)
}

// systemViewRefreshSystem recomposes only when the selected star changed
// while already inside the system state (reselection never re-enters it).
func systemViewRefreshSystem(view *ViewState, catalog *CatalogState, cfg *Config, state *SystemViewState, log *Log) {
	if view.SelectedStar == nil || view.SelectedStar.ID == state.composedStarID {
		return
	}
	composeSystemView(view, catalog, cfg, state, log)
}

func composeSystemView(view *ViewState, catalog *CatalogState, cfg *Config, state *SystemViewState, log *Log) {
	star := view.SelectedStar
	if star == nil || catalog.Batch == nil {
		systemViewTeardownSystem(state)
		return
	}

	planets := catalog.Batch.ResolvePlanets(star, cfg.HostMatchToleranceDeg)
	layout := ComposeSystemLayout(star, planets, cfg.SystemDisplayRadius, cfg.AUScale)

	state.Layout = layout
	state.MarkerCloud = buildMarkerCloud(layout)
	state.LineVertices = buildSystemLines(layout, cfg.SystemDisplayRadius)
	state.composedStarID = star.ID
	state.Version++

	log.Debugf("system view: %s with %d planets (habitable band: %v)",
		star.DisplayName(), len(layout.Markers), layout.Habitable.Present)
}

func systemViewTeardownSystem(state *SystemViewState) {
	state.Layout = nil
	state.MarkerCloud = nil
	state.LineVertices = nil
	state.composedStarID = ""
	state.Version++
}

// buildMarkerCloud packs the host and planet markers into the star
// attribute format so the glow pipeline and the point index work on
// systems unchanged.
func buildMarkerCloud(layout *SystemLayout) *StarPointCloud {
	pc := &StarPointCloud{
		Positions: make([]float32, 0, (len(layout.Markers)+1)*3),
		Sizes:     make([]float32, 0, len(layout.Markers)+1),
		Colors:    make([]float32, 0, (len(layout.Markers)+1)*3),
		StarIndex: make([]int, 0, len(layout.Markers)+1),
	}

	pc.Positions = append(pc.Positions, 0, 0, 0)
	pc.Sizes = append(pc.Sizes, layout.StarSize)
	pc.Colors = append(pc.Colors, layout.StarColor.X(), layout.StarColor.Y(), layout.StarColor.Z())
	pc.StarIndex = append(pc.StarIndex, 0)

	for i := range layout.Markers {
		m := &layout.Markers[i]
		pc.Positions = append(pc.Positions, m.Position.X(), m.Position.Y(), m.Position.Z())
		pc.Sizes = append(pc.Sizes, m.Size)
		pc.Colors = append(pc.Colors, m.Color.X(), m.Color.Y(), m.Color.Z())
		pc.StarIndex = append(pc.StarIndex, i+1)
	}

	pc.mustBeConsistent()
	return pc
}

func buildSystemLines(layout *SystemLayout, displayRadius float32) []float32 {
	var out []float32

	for i := range layout.Markers {
		out = append(out, orbitRingVertices(layout.Markers[i].OrbitRadius, orbitRingColor, 96)...)
	}

	if layout.Habitable.Present {
		out = append(out, orbitRingVertices(layout.Habitable.Inner, habitableBandColor, 96)...)
		out = append(out, orbitRingVertices(layout.Habitable.Outer, habitableBandColor, 96)...)
	}

	// A lone faint ring marks a confirmed-empty system so the view does
	// not read as a failed load.
	if layout.NoPlanets {
		out = append(out, orbitRingVertices(displayRadius*0.5, emptyRingColor, 96)...)
	}

	return out
}
