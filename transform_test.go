package orrery

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAngularToCartesianPreservesDistance(t *testing.T) {
	cases := []struct{ ra, dec, d float64 }{
		{0, 0, 100},
		{90, 0, 50},
		{180, 45, 10},
		{279.23, 38.78, 123.4},
		{359.9, -89.9, 200},
	}
	for _, c := range cases {
		x, y, z := AngularToCartesian(c.ra, c.dec, c.d)
		norm := math.Sqrt(x*x + y*y + z*z)
		assert.InDelta(t, c.d, norm, 1e-9, "ra=%v dec=%v", c.ra, c.dec)
	}
}

func TestAngularToCartesianAxes(t *testing.T) {
	// ra=0, dec=0 sits on +X.
	x, y, z := AngularToCartesian(0, 0, 100)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
	assert.InDelta(t, 0, z, 1e-9)

	// dec=90 maps onto the vertical axis regardless of ra.
	x, y, z = AngularToCartesian(123, 90, 100)
	assert.InDelta(t, 0, x, 1e-8)
	assert.InDelta(t, 100, y, 1e-9)
	assert.InDelta(t, 0, z, 1e-8)

	// ra=90, dec=0 lands on -Z.
	x, y, z = AngularToCartesian(90, 0, 100)
	assert.InDelta(t, 0, x, 1e-8)
	assert.InDelta(t, -100, z, 1e-9)
}

func TestParallaxToDistance(t *testing.T) {
	assert.Equal(t, float64(DefaultStarDistance), ParallaxToDistance(0))
	assert.Equal(t, float64(DefaultStarDistance), ParallaxToDistance(-5))

	// 10 mas → 100 pc → 35 scene units, inside the clamp window.
	assert.InDelta(t, 35.0, ParallaxToDistance(10), 1e-9)

	// Huge parallax (very close star) clamps to the floor.
	assert.Equal(t, float64(MinStarDistance), ParallaxToDistance(1000))

	// Tiny parallax (very distant star) clamps to the ceiling.
	assert.Equal(t, float64(MaxStarDistance), ParallaxToDistance(0.01))
}

func TestParallaxToDistanceMonotonic(t *testing.T) {
	// Larger parallax means closer: distance must be non-increasing.
	prev := math.Inf(1)
	for p := 0.1; p < 100; p *= 1.5 {
		d := ParallaxToDistance(p)
		require.LessOrEqual(t, d, prev, "parallax %v", p)
		prev = d
	}
}

func TestMagnitudeToSize(t *testing.T) {
	// The brightest anchor magnitude hits the cap exactly.
	assert.InDelta(t, MaxStarSize, MagnitudeToSize(-1.5), 1e-9)

	// Faint stars bottom out at the floor.
	assert.Equal(t, float64(MinStarSize), MagnitudeToSize(15))

	// Non-increasing across the whole range.
	prev := math.Inf(1)
	for m := -3.0; m < 20; m += 0.25 {
		s := MagnitudeToSize(m)
		require.LessOrEqual(t, s, prev, "mag %v", m)
		require.GreaterOrEqual(t, s, float64(MinStarSize))
		require.LessOrEqual(t, s, float64(MaxStarSize))
		prev = s
	}
}

func TestColorIndexToRGB(t *testing.T) {
	// Missing index is neutral white.
	r, g, b := ColorIndexToRGB(nil)
	assert.Equal(t, [3]float64{1, 1, 1}, [3]float64{r, g, b})

	nan := math.NaN()
	r, g, b = ColorIndexToRGB(&nan)
	assert.Equal(t, [3]float64{1, 1, 1}, [3]float64{r, g, b})

	// Extremes saturate at the ramp endpoints.
	blue := -2.0
	r, g, b = ColorIndexToRGB(&blue)
	assert.Equal(t, rgbBlueWhite, [3]float64{r, g, b})

	red := 5.0
	r, g, b = ColorIndexToRGB(&red)
	assert.Equal(t, rgbRed, [3]float64{r, g, b})

	// Segment boundary: ci=0 is exactly white.
	zero := 0.0
	r, g, b = ColorIndexToRGB(&zero)
	assert.Equal(t, rgbWhite, [3]float64{r, g, b})

	// Midpoint of the white→yellow segment interpolates linearly.
	mid := 0.75
	r, g, b = ColorIndexToRGB(&mid)
	assert.InDelta(t, 1.0, r, 1e-9)
	assert.InDelta(t, 0.95, g, 1e-9)
	assert.InDelta(t, 0.76, b, 1e-9)
}

func TestColorIndexToRGBInRange(t *testing.T) {
	for ci := -3.0; ci <= 6.0; ci += 0.1 {
		c := ci
		r, g, b := ColorIndexToRGB(&c)
		for _, v := range []float64{r, g, b} {
			require.GreaterOrEqual(t, v, 0.0, "ci %v", ci)
			require.LessOrEqual(t, v, 1.0, "ci %v", ci)
		}
	}
}

func TestDistanceInLightYears(t *testing.T) {
	assert.Equal(t, 0.0, DistanceInLightYears(0))
	assert.Equal(t, 0.0, DistanceInLightYears(-1))
	// 100 mas → 10 pc → 32.6 ly, unclamped.
	assert.InDelta(t, 32.6156, DistanceInLightYears(100), 1e-4)
	// Far beyond the scene clamp, display distance still grows.
	assert.InDelta(t, 326156, DistanceInLightYears(0.01), 1)
}

func TestTotalProperMotion(t *testing.T) {
	pmRA, pmDec := 3.0, 4.0
	assert.InDelta(t, 5.0, TotalProperMotion(&pmRA, &pmDec), 1e-9)
	assert.Equal(t, 0.0, TotalProperMotion(nil, &pmDec))
	assert.Equal(t, 0.0, TotalProperMotion(&pmRA, nil))
}
