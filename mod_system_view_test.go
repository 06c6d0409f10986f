package orrery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMarkerCloudLayout(t *testing.T) {
	planets := []PlanetRecord{
		{Name: "b", SemiMajorAxisAU: ptr(1.0), RadiusEarth: ptr(1.1)},
		{Name: "c", SemiMajorAxisAU: ptr(2.0)},
	}
	layout := ComposeSystemLayout(sunlikeStar(), planets, 40, 10)
	pc := buildMarkerCloud(layout)

	// Host plus one point per planet, host first at the origin.
	require.Equal(t, 3, pc.Count())
	assert.Equal(t, [3]float32{0, 0, 0}, [3]float32{pc.Positions[0], pc.Positions[1], pc.Positions[2]})
	assert.Equal(t, layout.StarSize, pc.Sizes[0])

	for i, m := range layout.Markers {
		assert.Equal(t, m.Position, pc.PositionAt(i+1), "marker %d", i)
	}
}

func TestMarkerPlanetMapping(t *testing.T) {
	planets := []PlanetRecord{
		{Name: "b", SemiMajorAxisAU: ptr(1.0)},
		{Name: "c", SemiMajorAxisAU: ptr(2.0)},
	}
	layout := ComposeSystemLayout(sunlikeStar(), planets, 40, 10)
	state := &SystemViewState{Layout: layout}

	// Index 0 is the host, not a planet.
	assert.Nil(t, state.MarkerPlanet(0))
	require.NotNil(t, state.MarkerPlanet(1))
	assert.Equal(t, "b", state.MarkerPlanet(1).Name)
	assert.Equal(t, "c", state.MarkerPlanet(2).Name)
	assert.Nil(t, state.MarkerPlanet(3))
	assert.Nil(t, state.MarkerPlanet(-1))

	empty := &SystemViewState{}
	assert.Nil(t, empty.MarkerPlanet(1))
}

func TestBuildSystemLinesContents(t *testing.T) {
	planets := []PlanetRecord{{Name: "b", SemiMajorAxisAU: ptr(2.0)}}
	layout := ComposeSystemLayout(sunlikeStar(), planets, 40, 10)

	verts := buildSystemLines(layout, 40)
	// One orbit ring plus two habitable-band rings, 96 segments each,
	// 2 vertices per segment, 6 floats per vertex.
	assert.Len(t, verts, 3*96*2*6)
}

func TestBuildSystemLinesEmptySystemIndicator(t *testing.T) {
	layout := ComposeSystemLayout(&StarRecord{ID: "bare"}, nil, 40, 10)
	require.True(t, layout.NoPlanets)

	verts := buildSystemLines(layout, 40)
	// No orbits, no habitable band (no Teff), just the indicator ring.
	assert.Len(t, verts, 96*2*6)
}

func TestComposeSystemViewResolvesPlanets(t *testing.T) {
	cfg := defaultConfig()
	catalog := &CatalogState{
		Batch: &CatalogBatch{
			Stars: []StarRecord{{ID: "s1", Teff: ptr(5778.0)}},
			Planets: []PlanetRecord{
				{Name: "s1 b", Host: "s1", SemiMajorAxisAU: ptr(1.0)},
				{Name: "other b", Host: "s2"},
			},
		},
	}
	view := &ViewState{Mode: ModeSystem, SelectedStar: &catalog.Batch.Stars[0]}
	state := &SystemViewState{}
	log := &Log{Logger: NewNopLogger()}

	composeSystemView(view, catalog, cfg, state, log)

	require.NotNil(t, state.Layout)
	require.Len(t, state.Layout.Markers, 1)
	assert.Equal(t, "s1 b", state.Layout.Markers[0].Planet.Name)
	assert.Equal(t, "s1", state.composedStarID)
	assert.NotNil(t, state.MarkerCloud)
	assert.NotEmpty(t, state.LineVertices)
	assert.Equal(t, uint64(1), state.Version)
}

func TestComposeSystemViewTearsDownWithoutSelection(t *testing.T) {
	cfg := defaultConfig()
	catalog := &CatalogState{}
	view := &ViewState{Mode: ModeSystem}
	state := &SystemViewState{Layout: &SystemLayout{}, composedStarID: "old"}
	log := &Log{Logger: NewNopLogger()}

	composeSystemView(view, catalog, cfg, state, log)

	assert.Nil(t, state.Layout)
	assert.Nil(t, state.MarkerCloud)
	assert.Empty(t, state.composedStarID)
}
