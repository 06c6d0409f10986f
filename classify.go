package orrery

import (
	"math"
)

// SpectralClassUnknown is returned when no effective temperature is known;
// a star is never silently assigned a default class.
const SpectralClassUnknown = "?"

// SpectralClass buckets an effective temperature (Kelvin) into the seven
// Morgan-Keenan classes.
func SpectralClass(teff *float64) string {
	if teff == nil || math.IsNaN(*teff) {
		return SpectralClassUnknown
	}
	t := *teff
	switch {
	case t >= 30000:
		return "O"
	case t >= 10000:
		return "B"
	case t >= 7500:
		return "A"
	case t >= 6000:
		return "F"
	case t >= 5200:
		return "G"
	case t >= 3700:
		return "K"
	default:
		return "M"
	}
}

// PlanetCategory buckets a planetary radius (Earth radii) into five bands.
func PlanetCategory(radiusEarth float64) string {
	switch {
	case radiusEarth < 0.8:
		return "Sub-Earth"
	case radiusEarth < 1.25:
		return "Earth-like"
	case radiusEarth < 2.0:
		return "Super-Earth"
	case radiusEarth <= 6.0:
		return "Neptune-like"
	default:
		return "Jupiter-like"
	}
}

// Habitability windows; both bounds inclusive.
const (
	habitableTempMin   = 200.0 // K
	habitableTempMax   = 350.0 // K
	habitableRadiusMin = 0.5   // Earth radii
	habitableRadiusMax = 2.0   // Earth radii
)

// InHabitableZone reports whether a planet's equilibrium temperature and
// radius both fall inside the habitability windows.
func InHabitableZone(eqTemp, radiusEarth float64) bool {
	return eqTemp >= habitableTempMin && eqTemp <= habitableTempMax &&
		radiusEarth >= habitableRadiusMin && radiusEarth <= habitableRadiusMax
}

const sunTeff = 5778.0 // K

// HabitableZone returns the inner and outer habitable-zone radii in AU for
// a star of the given effective temperature and radius (solar radii).
// Luminosity is taken relative to a Sun-like reference,
// L = r²·(T/5778)⁴, with inner = √(L/1.1) and outer = √(L/0.53).
// This is the simplified single-band runaway/maximum-greenhouse model, not
// a climate calculation; treat the bounds as illustrative.
func HabitableZone(starTeff, starRadius float64) (inner, outer float64) {
	if starRadius <= 0 {
		starRadius = 1
	}
	tRatio := starTeff / sunTeff
	luminosity := starRadius * starRadius * tRatio * tRatio * tRatio * tRatio
	inner = math.Sqrt(luminosity / 1.1)
	outer = math.Sqrt(luminosity / 0.53)
	return inner, outer
}
