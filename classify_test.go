package orrery

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpectralClass(t *testing.T) {
	cases := []struct {
		teff float64
		want string
	}{
		{45000, "O"},
		{30000, "O"},
		{29999, "B"},
		{10000, "B"},
		{9999, "A"},
		{7500, "A"},
		{7499, "F"},
		{6000, "F"},
		{5999, "G"},
		{5778, "G"},
		{5200, "G"},
		{5199, "K"},
		{3700, "K"},
		{3699, "M"},
		{2500, "M"},
	}
	for _, c := range cases {
		teff := c.teff
		assert.Equal(t, c.want, SpectralClass(&teff), "teff %v", c.teff)
	}
}

func TestSpectralClassUnknown(t *testing.T) {
	assert.Equal(t, SpectralClassUnknown, SpectralClass(nil))
	nan := math.NaN()
	assert.Equal(t, SpectralClassUnknown, SpectralClass(&nan))
}

func TestPlanetCategory(t *testing.T) {
	assert.Equal(t, "Sub-Earth", PlanetCategory(0.5))
	assert.Equal(t, "Earth-like", PlanetCategory(0.8))
	assert.Equal(t, "Earth-like", PlanetCategory(1.0))
	assert.Equal(t, "Super-Earth", PlanetCategory(1.25))
	assert.Equal(t, "Super-Earth", PlanetCategory(1.99))
	assert.Equal(t, "Neptune-like", PlanetCategory(2.0))
	assert.Equal(t, "Neptune-like", PlanetCategory(6.0))
	assert.Equal(t, "Jupiter-like", PlanetCategory(6.01))
	assert.Equal(t, "Jupiter-like", PlanetCategory(11.2))
}

func TestInHabitableZone(t *testing.T) {
	// Earth.
	assert.True(t, InHabitableZone(288, 1.0))

	// Window edges are inclusive on all four bounds.
	assert.True(t, InHabitableZone(200, 1.0))
	assert.True(t, InHabitableZone(350, 1.0))
	assert.True(t, InHabitableZone(288, 0.5))
	assert.True(t, InHabitableZone(288, 2.0))

	assert.False(t, InHabitableZone(199.9, 1.0))
	assert.False(t, InHabitableZone(350.1, 1.0))
	assert.False(t, InHabitableZone(288, 0.49))
	assert.False(t, InHabitableZone(288, 2.01))

	// Hot Jupiter territory.
	assert.False(t, InHabitableZone(1500, 1.0))
	assert.False(t, InHabitableZone(288, 11.0))
}

func TestHabitableZoneSunlike(t *testing.T) {
	inner, outer := HabitableZone(5778, 1.0)
	assert.InDelta(t, 0.9535, inner, 1e-3)
	assert.InDelta(t, 1.3736, outer, 1e-3)
	assert.Less(t, inner, outer)
}

func TestHabitableZoneScalesWithTemperature(t *testing.T) {
	// A hotter star pushes the band outward, a cooler one pulls it in.
	hotIn, hotOut := HabitableZone(7000, 1.0)
	coolIn, coolOut := HabitableZone(3700, 1.0)
	sunIn, sunOut := HabitableZone(5778, 1.0)

	assert.Greater(t, hotIn, sunIn)
	assert.Greater(t, hotOut, sunOut)
	assert.Less(t, coolIn, sunIn)
	assert.Less(t, coolOut, sunOut)
}

func TestHabitableZoneDefaultsRadius(t *testing.T) {
	in1, out1 := HabitableZone(5778, 0)
	in2, out2 := HabitableZone(5778, 1)
	assert.Equal(t, in2, in1)
	assert.Equal(t, out2, out1)

	// Twice the radius means four times the luminosity, twice the radii.
	in4, out4 := HabitableZone(5778, 2)
	assert.InDelta(t, 2*in2, in4, 1e-9)
	assert.InDelta(t, 2*out2, out4, 1e-9)
}
