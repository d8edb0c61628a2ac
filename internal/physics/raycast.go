package physics

import (
	"math"

	"github.com/StoreStation/vibeclient/internal/world"
)

// HitResult is what a ray clip returns: the block it stopped at, which
// face was entered, the exact point of entry, and whether the ray
// started already inside a non-empty shape (spec.md §4.7 "Ray clip").
type HitResult struct {
	Hit      bool
	Inside   bool
	Block    world.BlockPos
	Face     Direction
	Point    [3]float64
}

// Direction names one of the six block faces, matching the protocol's
// face-index convention (down, up, north, south, west, east).
type Direction int8

const (
	DirDown Direction = iota
	DirUp
	DirNorth
	DirSouth
	DirWest
	DirEast
)

// Predicate decides whether traverse_blocks should stop at pos; it
// receives the block's collision shape in block-local coordinates (not
// offset by pos).
type Predicate func(pos world.BlockPos, shape world.Shape) bool

const epsilon = 1e-7

// Trace runs the DDA voxel traversal grounded on azalea's
// original_source azalea-physics/src/clip.rs traverse_blocks: step from
// `from` to `to`, visiting block positions in order of the minimum
// accumulated per-axis fraction, and stop at the first block for which
// pred returns true (or reports a non-solid shape to keep walking).
func Trace(inst *world.Instance, from, to [3]float64, pred Predicate) HitResult {
	if from == to {
		return HitResult{}
	}

	rightBeforeStart := lerpVec(-epsilon, from, to)
	rightAfterEnd := lerpVec(-epsilon, to, from)

	current := floorPos(rightBeforeStart)
	if hit, ok := checkBlock(inst, current, pred, from, true); ok {
		return hit
	}

	vec := sub(rightAfterEnd, rightBeforeStart)
	signX, signY, signZ := sign(vec[0]), sign(vec[1]), sign(vec[2])

	stepX := stepFrac(signX, vec[0])
	stepY := stepFrac(signY, vec[1])
	stepZ := stepFrac(signZ, vec[2])

	pctX := stepX * fracFor(signX, rightBeforeStart[0])
	pctY := stepY * fracFor(signY, rightBeforeStart[1])
	pctZ := stepZ * fracFor(signZ, rightBeforeStart[2])

	var lastFace Direction
	for {
		if pctX > 1 && pctY > 1 && pctZ > 1 {
			return HitResult{}
		}
		var t float64
		switch {
		case pctX < pctY && pctX < pctZ:
			current.X += int32(signX)
			t = pctX
			pctX += stepX
			if signX > 0 {
				lastFace = DirWest
			} else {
				lastFace = DirEast
			}
		case pctY < pctZ:
			current.Y += int32(signY)
			t = pctY
			pctY += stepY
			if signY > 0 {
				lastFace = DirDown
			} else {
				lastFace = DirUp
			}
		default:
			current.Z += int32(signZ)
			t = pctZ
			pctZ += stepZ
			if signZ > 0 {
				lastFace = DirNorth
			} else {
				lastFace = DirSouth
			}
		}
		point := lerpVec(math.Min(t, 1), from, to)
		if hit, ok := checkBlockAt(inst, current, pred, point, lastFace, false); ok {
			return hit
		}
	}
}

func checkBlock(inst *world.Instance, pos world.BlockPos, pred Predicate, point [3]float64, inside bool) (HitResult, bool) {
	return checkBlockAt(inst, pos, pred, point, 0, inside)
}

func checkBlockAt(inst *world.Instance, pos world.BlockPos, pred Predicate, point [3]float64, face Direction, inside bool) (HitResult, bool) {
	state, ok := inst.GetBlockState(pos)
	if !ok {
		return HitResult{}, false
	}
	shape := world.Info(state).CollisionShape
	if shape.IsEmpty() {
		return HitResult{}, false
	}
	if pred != nil && !pred(pos, shape) {
		return HitResult{}, false
	}
	return HitResult{Hit: true, Block: pos, Face: face, Point: point, Inside: inside}, true
}

func lerpVec(t float64, a, b [3]float64) [3]float64 {
	return [3]float64{lerp(t, a[0], b[0]), lerp(t, a[1], b[1]), lerp(t, a[2], b[2])}
}

func lerp(t, a, b float64) float64 { return a + t*(b-a) }

func sub(a, b [3]float64) [3]float64 { return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func stepFrac(sign, delta float64) float64 {
	if sign == 0 {
		return math.MaxFloat64
	}
	return sign / delta
}

func fracFor(sign, v float64) float64 {
	f := v - math.Floor(v)
	if sign > 0 {
		return 1 - f
	}
	return f
}

func floorPos(v [3]float64) world.BlockPos {
	return world.BlockPos{X: int32(math.Floor(v[0])), Y: int32(math.Floor(v[1])), Z: int32(math.Floor(v[2]))}
}
