package orrery

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PlanetMarker is one placed planet in a composed system view.
type PlanetMarker struct {
	Planet      PlanetRecord
	OrbitRadius float32
	Angle       float64 // radians; static, not animated
	Position    mgl32.Vec3
	Color       mgl32.Vec3
	Size        float32
	Habitable   bool
}

// HabitableRing brackets the liquid-water band in scene units. Present is
// false when the host's effective temperature is unknown.
type HabitableRing struct {
	Present bool
	Inner   float32
	Outer   float32
}

// SystemLayout is the complete, render-ready description of one system:
// the host marker at the origin, orbit rings, planet markers, and the
// habitable band. Composition is pure: same inputs, same layout.
type SystemLayout struct {
	Star      *StarRecord
	StarColor mgl32.Vec3
	StarSize  float32

	Markers   []PlanetMarker
	Habitable HabitableRing

	// NoPlanets marks a system where the catalog resolved zero planets;
	// the view then shows the host with an empty-system indicator ring.
	NoPlanets bool
}

// Marker colors per planet category, plus the habitable highlight.
var planetCategoryColors = map[string]mgl32.Vec3{
	"Sub-Earth":    {0.75, 0.72, 0.68},
	"Earth-like":   {0.35, 0.62, 0.90},
	"Super-Earth":  {0.48, 0.78, 0.64},
	"Neptune-like": {0.42, 0.52, 0.95},
	"Jupiter-like": {0.88, 0.70, 0.45},
}

var habitableMarkerColor = mgl32.Vec3{0.30, 0.95, 0.45}

// ComposeSystemLayout places the host at the origin and its planets on
// concentric rings in the XZ plane. Semi-major axes are scaled uniformly
// so the outermost known orbit lands on displayRadius; planets with no
// measured axis get evenly spaced filler rings. Angles are assigned
// statically around the circle so markers never overlap at spawn.
func ComposeSystemLayout(star *StarRecord, planets []PlanetRecord, displayRadius, auScale float32) *SystemLayout {
	layout := &SystemLayout{
		Star:      star,
		StarSize:  float32(MaxStarSize) * 0.75,
		NoPlanets: len(planets) == 0,
	}
	if star != nil {
		r, g, b := ColorIndexToRGB(star.EffectiveColorIndex())
		layout.StarColor = mgl32.Vec3{float32(r), float32(g), float32(b)}
	} else {
		layout.StarColor = mgl32.Vec3{1, 1, 1}
	}

	maxAxis := 0.0
	for i := range planets {
		if a := planets[i].SemiMajorAxisAU; a != nil && *a > maxAxis {
			maxAxis = *a
		}
	}
	// With no measured axes the fit degenerates; fall back to the raw
	// AU scale so filler rings still have a sane pitch.
	scale := float64(auScale)
	if maxAxis > 0 {
		scale = float64(displayRadius) / maxAxis
	}

	n := len(planets)
	for i := range planets {
		p := &planets[i]

		var orbit float32
		if p.SemiMajorAxisAU != nil && *p.SemiMajorAxisAU > 0 {
			orbit = float32(*p.SemiMajorAxisAU * scale)
		} else {
			orbit = displayRadius * float32(i+1) / float32(n+1)
		}

		angle := 2 * math.Pi * float64(i) / float64(n)
		marker := PlanetMarker{
			Planet:      *p,
			OrbitRadius: orbit,
			Angle:       angle,
			Position: mgl32.Vec3{
				orbit * float32(math.Cos(angle)),
				0,
				orbit * float32(math.Sin(angle)),
			},
			Size:      planetMarkerSize(p),
			Habitable: p.Habitable(),
		}
		marker.Color = planetMarkerColor(p, marker.Habitable)
		layout.Markers = append(layout.Markers, marker)
	}

	layout.Habitable = composeHabitableRing(star, scale)
	return layout
}

func planetMarkerColor(p *PlanetRecord, habitable bool) mgl32.Vec3 {
	if habitable {
		return habitableMarkerColor
	}
	r := p.EffectiveRadiusEarth()
	if r == nil {
		return mgl32.Vec3{0.65, 0.65, 0.65}
	}
	if c, ok := planetCategoryColors[PlanetCategory(*r)]; ok {
		return c
	}
	return mgl32.Vec3{0.65, 0.65, 0.65}
}

func planetMarkerSize(p *PlanetRecord) float32 {
	r := p.EffectiveRadiusEarth()
	if r == nil {
		return 2.5
	}
	// Compressed radius response keeps gas giants from dwarfing the view.
	s := 1.5 + float32(math.Log1p(*r))
	if s > 6 {
		s = 6
	}
	return s
}

// composeHabitableRing scales the AU-space habitable band into the scene.
// Stellar radius is not carried by the catalog, so one solar radius is
// assumed; Teff alone dominates the band location anyway.
func composeHabitableRing(star *StarRecord, scale float64) HabitableRing {
	if star == nil || star.Teff == nil || *star.Teff <= 0 {
		return HabitableRing{}
	}
	inner, outer := HabitableZone(*star.Teff, 1.0)
	return HabitableRing{
		Present: true,
		Inner:   float32(inner * scale),
		Outer:   float32(outer * scale),
	}
}

// orbitRingVertices flattens a circle of the given radius into line-list
// vertex pairs (pos+color interleaved), ready for the line pipeline.
func orbitRingVertices(radius float32, color mgl32.Vec3, segments int) []float32 {
	if segments < 3 {
		segments = 64
	}
	out := make([]float32, 0, segments*2*6)
	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(segments)
		a1 := 2 * math.Pi * float64(i+1) / float64(segments)
		for _, a := range []float64{a0, a1} {
			out = append(out,
				radius*float32(math.Cos(a)), 0, radius*float32(math.Sin(a)),
				color.X(), color.Y(), color.Z(),
			)
		}
	}
	return out
}
