package orrery

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// StarHashGrid buckets point-cloud indices into a uniform spatial hash.
// It implements the same PointIndex contract as the linear scan by
// marching the ray through nearby cells, trading exactness of iteration
// order for touching only a fraction of the catalog per query.
type StarHashGrid struct {
	cloud    *StarPointCloud
	cellSize float32
	cells    map[uint64][]int32

	boundsMin mgl32.Vec3
	boundsMax mgl32.Vec3
}

// NewStarHashGrid indexes the whole cloud. cellSize should be at least
// the picking threshold, which makes Nearest agree with the linear scan.
func NewStarHashGrid(cloud *StarPointCloud, cellSize float32) *StarHashGrid {
	cloud.mustBeConsistent()
	if cellSize <= 0 {
		cellSize = 4
	}

	grid := &StarHashGrid{
		cloud:    cloud,
		cellSize: cellSize,
		cells:    make(map[uint64][]int32),
	}
	for i := 0; i < cloud.Count(); i++ {
		p := cloud.PositionAt(i)
		if i == 0 {
			grid.boundsMin, grid.boundsMax = p, p
		} else {
			grid.boundsMin = vecMin(grid.boundsMin, p)
			grid.boundsMax = vecMax(grid.boundsMax, p)
		}
		key := grid.keyFor(p)
		grid.cells[key] = append(grid.cells[key], int32(i))
	}
	return grid
}

func (g *StarHashGrid) cellIndex(v float32) int {
	return int(math.Floor(float64(v / g.cellSize)))
}

func (g *StarHashGrid) keyFor(p mgl32.Vec3) uint64 {
	return hashCell(g.cellIndex(p.X()), g.cellIndex(p.Y()), g.cellIndex(p.Z()))
}

// Classic large-prime mixing for 3D cell coordinates.
func hashCell(x, y, z int) uint64 {
	const p1 = 73856093
	const p2 = 19349663
	const p3 = 83492791
	return uint64(x*p1 ^ y*p2 ^ z*p3)
}

// marchSpan clips the ray against the indexed bounds inflated by pad,
// returning the t interval worth sampling. The window depends on where
// the points are, not on how far away the camera sits, so far-zoom
// queries still reach the catalog.
func (g *StarHashGrid) marchSpan(ray Ray, pad float32) (float32, float32, bool) {
	if len(g.cells) == 0 {
		return 0, 0, false
	}

	tEnter := float32(math.Inf(-1))
	tExit := float32(math.Inf(1))
	for axis := 0; axis < 3; axis++ {
		lo := g.boundsMin[axis] - pad
		hi := g.boundsMax[axis] + pad
		o := ray.Origin[axis]
		d := ray.Dir[axis]

		if d == 0 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}

		t0 := (lo - o) / d
		t1 := (hi - o) / d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tEnter = max(tEnter, t0)
		tExit = min(tExit, t1)
	}

	if tExit < 0 || tEnter > tExit {
		return 0, 0, false
	}
	return max(tEnter, 0), tExit, true
}

// Nearest marches sample points along the ray one cell apart, visiting
// the 3x3x3 cell neighborhood of each sample. Every candidate still gets
// the exact ray-distance test, so results match the linear scan whenever
// maxDist <= cellSize.
func (g *StarHashGrid) Nearest(ray Ray, maxDist float32) (int, bool) {
	tEnter, tExit, hit := g.marchSpan(ray, maxDist+g.cellSize)
	if !hit {
		return -1, false
	}

	bestIdx := -1
	best := float32(math.Inf(1))
	visited := make(map[uint64]struct{})

	for t := tEnter; t <= tExit+g.cellSize; t += g.cellSize {
		sample := ray.Origin.Add(ray.Dir.Mul(t))
		cx := g.cellIndex(sample.X())
		cy := g.cellIndex(sample.Y())
		cz := g.cellIndex(sample.Z())

		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					key := hashCell(cx+dx, cy+dy, cz+dz)
					if _, seen := visited[key]; seen {
						continue
					}
					visited[key] = struct{}{}

					for _, idx := range g.cells[key] {
						d := ray.DistanceToPoint(g.cloud.PositionAt(int(idx)))
						if d > maxDist {
							continue
						}
						if d < best || (d == best && int(idx) < bestIdx) {
							best = d
							bestIdx = int(idx)
						}
					}
				}
			}
		}
	}

	return bestIdx, bestIdx >= 0
}

// NearIndices returns the indices of points within radius of center;
// used as the broadphase for non-ray proximity queries.
func (g *StarHashGrid) NearIndices(center mgl32.Vec3, radius float32) []int {
	minX, maxX := g.cellIndex(center.X()-radius), g.cellIndex(center.X()+radius)
	minY, maxY := g.cellIndex(center.Y()-radius), g.cellIndex(center.Y()+radius)
	minZ, maxZ := g.cellIndex(center.Z()-radius), g.cellIndex(center.Z()+radius)

	var out []int
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				for _, idx := range g.cells[hashCell(x, y, z)] {
					if g.cloud.PositionAt(int(idx)).Sub(center).Len() <= radius {
						out = append(out, int(idx))
					}
				}
			}
		}
	}
	return out
}

func vecMin(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{min(a.X(), b.X()), min(a.Y(), b.Y()), min(a.Z(), b.Z())}
}

func vecMax(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{max(a.X(), b.X()), max(a.Y(), b.Y()), max(a.Z(), b.Z())}
}
