package orrery

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// StarPointCloud holds the parallel per-star attribute buffers consumed by
// the GPU pipeline and the picking engine. Positions are xyz triples,
// colors rgb triples, one entry per retained star, in catalog order.
// StarIndex maps a point back to its row in the source batch, so the two
// stay aligned even when malformed records were skipped.
type StarPointCloud struct {
	Positions []float32
	Sizes     []float32
	Colors    []float32
	StarIndex []int
}

func (pc *StarPointCloud) Count() int {
	return len(pc.Sizes)
}

// PositionAt returns the scene position of point i.
func (pc *StarPointCloud) PositionAt(i int) mgl32.Vec3 {
	return mgl32.Vec3{pc.Positions[i*3], pc.Positions[i*3+1], pc.Positions[i*3+2]}
}

// mustBeConsistent rejects mismatched parallel buffers before they reach
// the GPU. A mismatch is a bug in the builder, not a recoverable input
// condition.
func (pc *StarPointCloud) mustBeConsistent() {
	n := len(pc.Sizes)
	if len(pc.Positions) != n*3 || len(pc.Colors) != n*3 || len(pc.StarIndex) != n {
		panic(fmt.Sprintf(
			"star point cloud buffers out of sync: %d positions, %d sizes, %d colors, %d indices",
			len(pc.Positions), len(pc.Sizes), len(pc.Colors), len(pc.StarIndex),
		))
	}
}

// BuildStarPointCloud derives the attribute buffers from a catalog batch.
// Deterministic: the same input always yields the same buffers in the same
// order. The input is never mutated. Buffers are preallocated up front so
// building 10^5 stars does not allocate per record. Records that fail the
// required-field check are skipped with a warning, per the data-shape
// error policy.
func BuildStarPointCloud(stars []StarRecord, log Logger) *StarPointCloud {
	if log == nil {
		log = NewNopLogger()
	}

	pc := &StarPointCloud{
		Positions: make([]float32, 0, len(stars)*3),
		Sizes:     make([]float32, 0, len(stars)),
		Colors:    make([]float32, 0, len(stars)*3),
		StarIndex: make([]int, 0, len(stars)),
	}

	skipped := 0
	for i := range stars {
		s := &stars[i]
		if !s.valid() {
			skipped++
			continue
		}

		d := ParallaxToDistance(s.Parallax)
		x, y, z := AngularToCartesian(s.RA, s.Dec, d)
		r, g, b := ColorIndexToRGB(s.EffectiveColorIndex())

		pc.Positions = append(pc.Positions, float32(x), float32(y), float32(z))
		pc.Sizes = append(pc.Sizes, float32(MagnitudeToSize(s.Magnitude)))
		pc.Colors = append(pc.Colors, float32(r), float32(g), float32(b))
		pc.StarIndex = append(pc.StarIndex, i)
	}

	if skipped > 0 {
		log.Warnf("point cloud: skipped %d malformed star records", skipped)
	}
	pc.mustBeConsistent()
	return pc
}
