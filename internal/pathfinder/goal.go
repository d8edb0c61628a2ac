package pathfinder

import (
	"math"

	"github.com/StoreStation/vibeclient/internal/world"
)

// Goal decides when a search has arrived and how promising a node is,
// generalizing azalea's pathfinder::goals::Goal trait (spec.md §4.10
// "implements heuristic(pos) → f32 and success(pos) → bool").
// Evaluated against absolute world.BlockPos so a Goal never needs to
// know which RelBlockPos origin a particular search chose.
type Goal interface {
	Heuristic(pos world.BlockPos) float64
	Success(pos world.BlockPos) bool
}

// BlockPosGoal is the common goal spec.md §4.10 names: "reach a
// specific BlockPos".
type BlockPosGoal struct {
	Target world.BlockPos
}

func (g BlockPosGoal) Heuristic(pos world.BlockPos) float64 {
	return heuristicDistance(pos, g.Target)
}

func (g BlockPosGoal) Success(pos world.BlockPos) bool {
	return pos == g.Target
}

// XZGoal reaches any Y at the given X/Z column — useful for "go to
// this location" when the exact standing height doesn't matter,
// matching azalea's goals::XZGoal.
type XZGoal struct {
	X, Z int32
}

func (g XZGoal) Heuristic(pos world.BlockPos) float64 {
	dx := float64(pos.X - g.X)
	dz := float64(pos.Z - g.Z)
	return math.Sqrt(dx*dx+dz*dz) * SprintOneBlockCost
}

func (g XZGoal) Success(pos world.BlockPos) bool {
	return pos.X == g.X && pos.Z == g.Z
}

// RadiusGoal reaches any block within radius blocks (straight-line) of
// Center, matching azalea's goals::RadiusGoal — useful for "approach
// this position, don't walk into it".
type RadiusGoal struct {
	Center world.BlockPos
	Radius float64
}

func (g RadiusGoal) Heuristic(pos world.BlockPos) float64 {
	d := heuristicDistance(pos, g.Center) - g.Radius*SprintOneBlockCost
	if d < 0 {
		return 0
	}
	return d
}

func (g RadiusGoal) Success(pos world.BlockPos) bool {
	dx := float64(pos.X - g.Center.X)
	dy := float64(pos.Y - g.Center.Y)
	dz := float64(pos.Z - g.Center.Z)
	return dx*dx+dy*dy+dz*dz <= g.Radius*g.Radius
}

// heuristicDistance estimates the route cost between two blocks in
// edge-cost units: straight-line distance priced at sprinting speed.
// It is not a strict lower bound: a one-block descend edge costs 6,
// while this prices its straight-line distance at about 6.55, so a
// found path is not guaranteed to be the cheapest one.
func heuristicDistance(a, b world.BlockPos) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	dz := float64(a.Z - b.Z)
	return math.Sqrt(dx*dx+dy*dy+dz*dz) * SprintOneBlockCost
}
