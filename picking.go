package orrery

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3 // unit length
}

// ScreenPointToRay unprojects the pointer position through the inverse
// view-projection matrix into a world-space ray from the camera.
func ScreenPointToRay(cam *CameraComponent, mouseX, mouseY float64, width, height int) Ray {
	if width <= 0 || height <= 0 {
		return Ray{Origin: cam.Position, Dir: mgl32.Vec3{0, 0, -1}}
	}

	ndcX := float32(2*mouseX/float64(width) - 1)
	ndcY := float32(1 - 2*mouseY/float64(height))

	inv := buildCameraMatrix(cam).Inv()

	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	nearW := near.Vec3().Mul(1 / near.W())
	farW := far.Vec3().Mul(1 / far.W())

	dir := farW.Sub(nearW)
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, 0, -1}
	}
	return Ray{Origin: nearW, Dir: dir.Normalize()}
}

// DistanceToPoint is the perpendicular distance from the ray to p, with
// points behind the origin measured to the origin itself.
func (r Ray) DistanceToPoint(p mgl32.Vec3) float32 {
	toP := p.Sub(r.Origin)
	t := toP.Dot(r.Dir)
	if t < 0 {
		return toP.Len()
	}
	closest := r.Origin.Add(r.Dir.Mul(t))
	return p.Sub(closest).Len()
}

// PointIndex is the "nearest point within threshold" contract shared by
// the brute-force scan and the spatial-grid broadphase, so one can be
// swapped for the other as catalog sizes grow.
type PointIndex interface {
	// Nearest returns the index of the point closest to the ray among
	// those within maxDist of it. Ties at equal distance resolve to the
	// lowest index. ok is false when nothing qualifies.
	Nearest(ray Ray, maxDist float32) (idx int, ok bool)
}

// LinearPointIndex scans every point per query: O(n) with no allocation,
// well within a frame budget for tens of thousands of points.
type LinearPointIndex struct {
	cloud *StarPointCloud
}

func NewLinearPointIndex(cloud *StarPointCloud) *LinearPointIndex {
	cloud.mustBeConsistent()
	return &LinearPointIndex{cloud: cloud}
}

func (li *LinearPointIndex) Nearest(ray Ray, maxDist float32) (int, bool) {
	bestIdx := -1
	best := float32(math.Inf(1))

	n := li.cloud.Count()
	for i := 0; i < n; i++ {
		d := ray.DistanceToPoint(li.cloud.PositionAt(i))
		if d > maxDist {
			continue
		}
		// Strict less-than with ascending iteration makes the lowest
		// index win ties deterministically.
		if d < best {
			best = d
			bestIdx = i
		}
	}

	return bestIdx, bestIdx >= 0
}
