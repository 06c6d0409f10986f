package orrery

import (
	"math"
)

// Catalog-to-scene conversion constants. These are part of the scene's
// coordinate contract and deliberately not runtime-configurable.
const (
	// DefaultStarDistance is assigned to catalog entries whose parallax
	// is missing or non-positive (unknown or very distant stars).
	DefaultStarDistance = 100.0

	// MinStarDistance/MaxStarDistance clamp the visualization distance so
	// nearby and far outliers cannot break the scene scale.
	MinStarDistance = 10.0
	MaxStarDistance = 200.0

	// parsecScale compresses parsecs into scene units.
	parsecScale = 0.35

	// MinStarSize/MaxStarSize clamp the point size in scene pixels.
	MinStarSize = 1.0
	MaxStarSize = 12.0

	// sizeFalloff shapes the exponential magnitude response; brightest
	// catalog stars (m ≈ -1.5) land on MaxStarSize.
	sizeFalloff  = 0.23
	sizeAnchorAt = -1.5

	// ParsecToLightYears is the IAU conversion factor.
	ParsecToLightYears = 3.26156
)

// AngularToCartesian converts right ascension and declination (degrees)
// at the given distance into scene coordinates. The conventional spherical
// result is permuted so that declination maps onto the scene's vertical
// axis: x = d·cos(dec)·cos(ra), y = d·sin(dec), z = -d·cos(dec)·sin(ra).
func AngularToCartesian(raDeg, decDeg, distance float64) (x, y, z float64) {
	ra := raDeg * math.Pi / 180
	dec := decDeg * math.Pi / 180

	x = distance * math.Cos(dec) * math.Cos(ra)
	y = distance * math.Sin(dec)
	z = -distance * math.Cos(dec) * math.Sin(ra)
	return x, y, z
}

// ParallaxToDistance maps a parallax in milliarcseconds to a scene
// distance. Non-positive parallax means "unknown/distant" and yields
// DefaultStarDistance; anything else is 1000/parallax parsecs, scaled and
// clamped to [MinStarDistance, MaxStarDistance].
func ParallaxToDistance(parallaxMas float64) float64 {
	if parallaxMas <= 0 {
		return DefaultStarDistance
	}
	parsecs := 1000.0 / parallaxMas
	d := parsecs * parsecScale
	return math.Min(MaxStarDistance, math.Max(MinStarDistance, d))
}

// MagnitudeToSize maps apparent magnitude to point size. The response is
// exponential so bright stars are disproportionately prominent, clamped
// to [MinStarSize, MaxStarSize]. Monotonically non-increasing in mag.
func MagnitudeToSize(mag float64) float64 {
	s := MaxStarSize * math.Exp(-sizeFalloff*(mag-sizeAnchorAt))
	return math.Min(MaxStarSize, math.Max(MinStarSize, s))
}

// Color endpoints of the three-segment color-index ramp.
var (
	rgbBlueWhite = [3]float64{0.62, 0.70, 1.00}
	rgbWhite     = [3]float64{1.00, 1.00, 1.00}
	rgbYellow    = [3]float64{1.00, 0.90, 0.52}
	rgbRed       = [3]float64{1.00, 0.45, 0.26}
)

const (
	colorIndexBlueEnd = -0.4 // at or below: fully blue-white
	colorIndexBlue    = 0.0  // blue-white → white over [-0.4, 0.0]
	colorIndexRed     = 1.5  // white → yellow over [0.0, 1.5]
	colorIndexRedEnd  = 3.0  // yellow → red over [1.5, 3.0]
)

// ColorIndexToRGB maps a blue-minus-red color index to RGB via three
// linear segments. A missing index yields neutral white. All channels are
// guaranteed to stay within [0,1].
func ColorIndexToRGB(colorIndex *float64) (r, g, b float64) {
	if colorIndex == nil {
		return 1, 1, 1
	}
	ci := *colorIndex
	if math.IsNaN(ci) {
		return 1, 1, 1
	}

	var from, to [3]float64
	var t float64
	switch {
	case ci <= colorIndexBlueEnd:
		from, to, t = rgbBlueWhite, rgbBlueWhite, 0
	case ci < colorIndexBlue:
		from, to = rgbBlueWhite, rgbWhite
		t = (ci - colorIndexBlueEnd) / (colorIndexBlue - colorIndexBlueEnd)
	case ci < colorIndexRed:
		from, to = rgbWhite, rgbYellow
		t = (ci - colorIndexBlue) / (colorIndexRed - colorIndexBlue)
	case ci < colorIndexRedEnd:
		from, to = rgbYellow, rgbRed
		t = (ci - colorIndexRed) / (colorIndexRedEnd - colorIndexRed)
	default:
		from, to, t = rgbRed, rgbRed, 0
	}

	r = clamp01(lerp(from[0], to[0], t))
	g = clamp01(lerp(from[1], to[1], t))
	b = clamp01(lerp(from[2], to[2], t))
	return r, g, b
}

// DistanceInLightYears is a display value, not a scene coordinate: no
// clamping, and non-positive parallax yields 0.
func DistanceInLightYears(parallaxMas float64) float64 {
	if parallaxMas <= 0 {
		return 0
	}
	return (1000.0 / parallaxMas) * ParsecToLightYears
}

// TotalProperMotion returns the Euclidean norm of the proper-motion
// components, or 0 when either component is absent.
func TotalProperMotion(pmRA, pmDec *float64) float64 {
	if pmRA == nil || pmDec == nil {
		return 0
	}
	return math.Hypot(*pmRA, *pmDec)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
