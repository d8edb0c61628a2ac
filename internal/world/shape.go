package world

import "sort"

// AABB is an axis-aligned bounding box in world coordinates.
type AABB struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

func (a AABB) Offset(dx, dy, dz float64) AABB {
	return AABB{a.MinX + dx, a.MinY + dy, a.MinZ + dz, a.MaxX + dx, a.MaxY + dy, a.MaxZ + dz}
}

func (a AABB) Intersects(b AABB) bool {
	return a.MinX < b.MaxX && a.MaxX > b.MinX &&
		a.MinY < b.MaxY && a.MaxY > b.MinY &&
		a.MinZ < b.MaxZ && a.MaxZ > b.MinZ
}

// Shape is a union of AABBs represented as three sorted coordinate
// lists plus an occupancy bitfield over the grid cells those lists
// define (spec.md §4.7 "Voxel shape"). cells[xi][yi][zi] is true iff
// the cell bounded by (xs[xi],xs[xi+1])×(ys[yi],ys[yi+1])×(zs[zi],zs[zi+1])
// is occupied.
type Shape struct {
	xs, ys, zs []float64
	cells      [][][]bool
	empty      bool
}

// EmptyShape occupies no space (air, non-solid blocks).
var EmptyShape = Shape{empty: true}

// FullCubeShape is the unit cube [0,1]^3 — the common case for solid
// blocks.
var FullCubeShape = NewShape([]AABB{{0, 0, 0, 1, 1, 1}})

// NewShape builds a voxel Shape from a list of constituent AABBs,
// partitioning each axis at every distinct coordinate and marking
// cells occupied by at least one input box (the "Minkowski-style merge
// of coordinate partitions" spec.md §4.7 describes).
func NewShape(boxes []AABB) Shape {
	if len(boxes) == 0 {
		return Shape{empty: true}
	}
	xs := partitionAxis(boxes, func(b AABB) (float64, float64) { return b.MinX, b.MaxX })
	ys := partitionAxis(boxes, func(b AABB) (float64, float64) { return b.MinY, b.MaxY })
	zs := partitionAxis(boxes, func(b AABB) (float64, float64) { return b.MinZ, b.MaxZ })

	cells := make([][][]bool, len(xs)-1)
	for xi := range cells {
		cells[xi] = make([][]bool, len(ys)-1)
		for yi := range cells[xi] {
			cells[xi][yi] = make([]bool, len(zs)-1)
		}
	}
	for _, b := range boxes {
		for xi := 0; xi < len(xs)-1; xi++ {
			if xs[xi] < b.MinX || xs[xi+1] > b.MaxX {
				continue
			}
			for yi := 0; yi < len(ys)-1; yi++ {
				if ys[yi] < b.MinY || ys[yi+1] > b.MaxY {
					continue
				}
				for zi := 0; zi < len(zs)-1; zi++ {
					if zs[zi] < b.MinZ || zs[zi+1] > b.MaxZ {
						continue
					}
					cells[xi][yi][zi] = true
				}
			}
		}
	}
	return Shape{xs: xs, ys: ys, zs: zs, cells: cells}
}

func partitionAxis(boxes []AABB, extent func(AABB) (float64, float64)) []float64 {
	seen := map[float64]bool{}
	var coords []float64
	for _, b := range boxes {
		min, max := extent(b)
		if !seen[min] {
			seen[min] = true
			coords = append(coords, min)
		}
		if !seen[max] {
			seen[max] = true
			coords = append(coords, max)
		}
	}
	sort.Float64s(coords)
	return coords
}

// IsEmpty reports whether the shape occupies no space at all.
func (s Shape) IsEmpty() bool { return s.empty || len(s.cells) == 0 }

// Boxes materializes the shape back into its constituent AABBs, one
// per occupied cell (adjacent occupied cells are not merged — callers
// doing swept collision only need per-cell overlap tests).
func (s Shape) Boxes() []AABB {
	if s.IsEmpty() {
		return nil
	}
	var out []AABB
	for xi := 0; xi < len(s.xs)-1; xi++ {
		for yi := 0; yi < len(s.ys)-1; yi++ {
			for zi := 0; zi < len(s.zs)-1; zi++ {
				if s.cells[xi][yi][zi] {
					out = append(out, AABB{s.xs[xi], s.ys[yi], s.zs[zi], s.xs[xi+1], s.ys[yi+1], s.zs[zi+1]})
				}
			}
		}
	}
	return out
}
