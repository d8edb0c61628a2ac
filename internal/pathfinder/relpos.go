package pathfinder

import "github.com/StoreStation/vibeclient/internal/world"

// RelBlockPos is a block position relative to one search's origin
// (spec.md §4.10 "coordinates relative to the search origin for
// cache-locality"): the struct of three int32 deltas is itself the
// search's node map key, and staying relative keeps move-cost
// arithmetic identical regardless of how far from the world origin a
// search happens to start, mirroring azalea's RelBlockPos.
type RelBlockPos struct {
	X, Y, Z int32
}

// Add returns p+o.
func (p RelBlockPos) Add(o RelBlockPos) RelBlockPos {
	return RelBlockPos{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// Up returns p shifted +n on Y (negative n shifts down).
func (p RelBlockPos) Up(n int32) RelBlockPos { return RelBlockPos{p.X, p.Y + n, p.Z} }

// Down returns p shifted -n on Y.
func (p RelBlockPos) Down(n int32) RelBlockPos { return RelBlockPos{p.X, p.Y - n, p.Z} }

// cardinalDirections are the four axis-aligned horizontal directions a
// move generator fans out across, matching basic.rs's
// CardinalDirection::iter() (north/east/south/west as ±X/±Z deltas).
var cardinalDirections = [4]RelBlockPos{
	{X: 0, Z: -1}, // north
	{X: 1, Z: 0},  // east
	{X: 0, Z: 1},  // south
	{X: -1, Z: 0}, // west
}

// rightOf returns the cardinal direction 90° clockwise from dir, used
// by the diagonal move generator to build the two cardinal legs a
// diagonal step straddles (basic.rs's CardinalDirection::right).
func rightOf(dir RelBlockPos) RelBlockPos {
	switch dir {
	case cardinalDirections[0]:
		return cardinalDirections[1]
	case cardinalDirections[1]:
		return cardinalDirections[2]
	case cardinalDirections[2]:
		return cardinalDirections[3]
	default:
		return cardinalDirections[0]
	}
}

// originOffset converts an absolute world.BlockPos into a RelBlockPos
// relative to origin.
func originOffset(origin, pos world.BlockPos) RelBlockPos {
	return RelBlockPos{X: pos.X - origin.X, Y: pos.Y - origin.Y, Z: pos.Z - origin.Z}
}

// Abs converts a RelBlockPos back into a world.BlockPos, given the
// search's origin.
func (p RelBlockPos) Abs(origin world.BlockPos) world.BlockPos {
	return world.BlockPos{X: origin.X + p.X, Y: origin.Y + p.Y, Z: origin.Z + p.Z}
}

// Center returns the world-space point at the horizontal center of the
// block, resting on its floor — the look-at/arrival target every move
// generator's execute closure aims for (basic.rs's BlockPos::center()).
func (p RelBlockPos) Center(origin world.BlockPos) [3]float64 {
	abs := p.Abs(origin)
	return [3]float64{float64(abs.X) + 0.5, float64(abs.Y), float64(abs.Z) + 0.5}
}
